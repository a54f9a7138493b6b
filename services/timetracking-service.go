package services

import (
	"context"
	"fmt"
	"time"

	"lawbench-project/microservices/tasks-service/models"

	"github.com/google/uuid"
)

// TimeTrackingService accumulates logged time, prices billable entries and
// raises the one-shot budget alert.
type TimeTrackingService struct {
	rates RateTable
	audit *AuditService
}

func NewTimeTrackingService(rates RateTable, audit *AuditService) *TimeTrackingService {
	return &TimeTrackingService{rates: rates, audit: audit}
}

// LogTime appends a time entry and returns the updated task. The second
// return value reports whether this call crossed the budget threshold; the
// alert fires at most once for the lifetime of the task, and nothing in this
// service ever resets it. LoggedHours is recomputed as the exact sum of the
// entries rather than incremented, so repeated or replayed calls cannot
// drift the total.
func (s *TimeTrackingService) LogTime(ctx context.Context, task models.Task, entry models.TimeEntry) (models.Task, bool, error) {
	if err := models.ValidateHours(entry.Hours); err != nil {
		return task, false, err
	}
	if entry.UserID == "" {
		return task, false, &models.ValidationError{Field: "userId", Message: "time entry attribution is required"}
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if entry.Billable {
		rate, err := s.rates.HourlyRate(ctx, entry.UserID)
		if err != nil {
			return task, false, fmt.Errorf("failed to resolve hourly rate for %s: %w", entry.UserID, err)
		}
		entry.InvoiceLineItem = &models.InvoiceLineItem{
			ID:          uuid.New().String(),
			Description: fmt.Sprintf("%s: %.2f hours - %s", task.Title, entry.Hours, entry.UserName),
			Amount:      rate * entry.Hours,
		}
	} else {
		entry.InvoiceLineItem = nil
	}

	out := task.Clone()
	out.TimeTracking.TimeEntries = append(out.TimeTracking.TimeEntries, entry)
	out.TimeTracking.LoggedHours = out.TimeTracking.SumEntryHours()

	alerted := false
	alert := &out.TimeTracking.BudgetAlert
	if alert.Enabled && !alert.Notified && out.TimeTracking.LoggedHours >= alert.Threshold {
		alert.Notified = true
		alerted = true
	}

	actor := models.UserReference{UserID: entry.UserID, Name: entry.UserName}
	out = s.audit.Record(out, models.ActionTimeLogged, actor, []string{"timeTracking"})
	return out, alerted, nil
}
