package services

import (
	"time"

	"lawbench-project/microservices/tasks-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecurrenceService spawns the next instance of a recurring task. It never
// chains on its own: one call produces at most one successor, and further
// instances appear only when the controller schedules again after the
// successor itself completes.
type RecurrenceService struct {
	calendar Calendar
	audit    *AuditService
}

func NewRecurrenceService(calendar Calendar, audit *AuditService) *RecurrenceService {
	return &RecurrenceService{calendar: calendar, audit: audit}
}

// ScheduleNext returns the successor task, or nil when the task does not
// recur. A nil due date also returns nil: without a base date there is
// nothing to advance from, and that is a documented no-op, not an error.
func (s *RecurrenceService) ScheduleNext(task models.Task) *models.Task {
	if !task.Recurrence.Enabled || task.Recurrence.Pattern == models.RecurrenceNone || task.Recurrence.Pattern == "" {
		return nil
	}
	if task.DueDate == nil {
		return nil
	}

	interval := task.Recurrence.Interval
	if interval < 1 {
		interval = 1
	}

	var nextDue time.Time
	switch task.Recurrence.Pattern {
	case models.RecurrenceDaily:
		nextDue = s.calendar.AddDays(*task.DueDate, interval)
	case models.RecurrenceWeekly:
		nextDue = s.calendar.AddWeeks(*task.DueDate, interval)
	case models.RecurrenceMonthly:
		nextDue = s.calendar.AddMonths(*task.DueDate, interval)
	default:
		return nil
	}

	now := time.Now().UTC()
	next := task.Clone()
	next.ID = primitive.NewObjectID()
	next.Title = task.Title + " (Recurring)"
	next.Status = models.StatusToDo
	next.DueDate = &nextDue
	next.ParentTaskID = task.ID.Hex()
	next.CreatedAt = now
	next.UpdatedAt = now
	next.AuditLog = nil
	next.VersionHistory = nil

	creator := models.UserReference{UserID: "system", Name: "Recurrence Scheduler"}
	next = s.audit.Record(next, models.ActionCreated, creator, nil)
	return &next
}
