package models

type RecurrencePattern string

const (
	RecurrenceNone    RecurrencePattern = "none"
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

type Recurrence struct {
	Enabled  bool              `json:"enabled" bson:"enabled"`
	Pattern  RecurrencePattern `json:"pattern" bson:"pattern"`
	Interval int               `json:"interval" bson:"interval"`
}

func (r *Recurrence) Validate() error {
	switch r.Pattern {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
	case "":
		if r.Enabled {
			return &ValidationError{Field: "recurrence.pattern", Message: "recurrence pattern is required when recurrence is enabled"}
		}
	default:
		return &ValidationError{Field: "recurrence.pattern", Message: "unknown recurrence pattern: " + string(r.Pattern)}
	}
	if r.Enabled && r.Pattern == RecurrenceNone {
		return &ValidationError{Field: "recurrence.pattern", Message: "recurrence pattern must not be none when recurrence is enabled"}
	}
	if r.Enabled && r.Interval < 1 {
		return &ValidationError{Field: "recurrence.interval", Message: "recurrence interval must be a positive integer"}
	}
	return nil
}
