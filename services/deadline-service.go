package services

import (
	"fmt"

	"lawbench-project/microservices/tasks-service/models"
)

// DeadlineService derives the chain of statutory deadlines for a task from a
// jurisdiction rule table.
type DeadlineService struct {
	table    JurisdictionTable
	calendar Calendar
	audit    *AuditService
}

func NewDeadlineService(table JurisdictionTable, calendar Calendar, audit *AuditService) *DeadlineService {
	return &DeadlineService{table: table, calendar: calendar, audit: audit}
}

// CalculateDeadlines recomputes the task's calculated deadlines for the
// given jurisdiction and replaces the previous list wholesale. Rules are
// evaluated strictly in table order: an "after response" rule is measured
// from the previous rule's deadline, falling back to the base date when it is
// the first rule. An unknown jurisdiction yields an empty list, not an
// error. A task without a due date cannot anchor the chain.
func (s *DeadlineService) CalculateDeadlines(task models.Task, jurisdiction string, actor models.UserReference) (models.Task, error) {
	if task.DueDate == nil {
		return task, &models.ValidationError{Field: "dueDate", Message: "a due date is required to calculate court deadlines"}
	}

	base := *task.DueDate
	rules := s.table.RulesFor(jurisdiction)

	deadlines := make([]models.CourtDeadline, 0, len(rules))
	previous := base
	for i, rule := range rules {
		anchor := base
		if rule.OffsetType == models.OffsetAfterResponse {
			anchor = previous
		}
		due := s.calendar.AddDays(anchor, rule.Days)
		// Positional ids keep recalculation idempotent for an unchanged
		// jurisdiction and due date.
		deadlines = append(deadlines, models.CourtDeadline{
			ID:      fmt.Sprintf("%s-deadline-%d", task.ID.Hex(), i+1),
			Title:   rule.Title,
			DueDate: due,
			Rule:    describeRule(rule),
		})
		previous = due
	}

	out := task.Clone()
	out.CourtRules.Jurisdiction = jurisdiction
	out.CourtRules.CalculatedDeadlines = deadlines

	out = s.audit.Record(out, models.ActionCourtRulesUpdated, actor, []string{"courtRules"})
	return out, nil
}

func describeRule(rule models.CourtRule) string {
	switch rule.OffsetType {
	case models.OffsetAfterResponse:
		return fmt.Sprintf("%d days after response", rule.Days)
	default:
		return fmt.Sprintf("%d days after service", rule.Days)
	}
}
