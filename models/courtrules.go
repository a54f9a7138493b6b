package models

import "time"

type OffsetType string

// Court rule offsets are anchored either on the date of service (the task's
// due date) or on the deadline computed by the previous rule in the list.
const (
	OffsetAfterService  OffsetType = "after_service"
	OffsetAfterResponse OffsetType = "after_response"
)

// CourtRule is one entry in a jurisdiction's rule table.
type CourtRule struct {
	Title      string     `json:"title" bson:"title"`
	OffsetType OffsetType `json:"offsetType" bson:"offsetType"`
	Days       int        `json:"days" bson:"days"`
}

// CourtDeadline is a computed statutory deadline.
type CourtDeadline struct {
	ID      string    `json:"id" bson:"id"`
	Title   string    `json:"title" bson:"title"`
	DueDate time.Time `json:"dueDate" bson:"dueDate"`
	Rule    string    `json:"rule" bson:"rule"`
}

type CourtRules struct {
	Jurisdiction string `json:"jurisdiction,omitempty" bson:"jurisdiction,omitempty"`
	// CalculatedDeadlines is replaced wholesale on every recalculation,
	// never merged.
	CalculatedDeadlines []CourtDeadline `json:"calculatedDeadlines" bson:"calculatedDeadlines"`
}

func (cr CourtRules) clone() CourtRules {
	c := cr
	c.CalculatedDeadlines = append([]CourtDeadline(nil), cr.CalculatedDeadlines...)
	return c
}
