package models

import (
	"errors"
	"testing"
	"time"
)

func validTask() Task {
	return Task{
		Title:    "Prepare deposition outline",
		Type:     TypeDeposition,
		Priority: PriorityHigh,
		Status:   StatusToDo,
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
		field   string
	}{
		{"valid task", func(*Task) {}, false, ""},
		{"missing title", func(task *Task) { task.Title = "" }, true, "title"},
		{"unknown status", func(task *Task) { task.Status = "archived" }, true, "status"},
		{"unknown priority", func(task *Task) { task.Priority = "critical" }, true, "priority"},
		{"unknown type", func(task *Task) { task.Type = "phone" }, true, "type"},
		{"custom type without label", func(task *Task) { task.Type = TypeCustom; task.CustomType = "" }, true, "customType"},
		{"custom type with label", func(task *Task) { task.Type = TypeCustom; task.CustomType = "site visit" }, false, ""},
		{"recurrence enabled with pattern none", func(task *Task) {
			task.Recurrence = Recurrence{Enabled: true, Pattern: RecurrenceNone, Interval: 1}
		}, true, "recurrence.pattern"},
		{"recurrence enabled without interval", func(task *Task) {
			task.Recurrence = Recurrence{Enabled: true, Pattern: RecurrenceWeekly}
		}, true, "recurrence.interval"},
		{"recurrence disabled with pattern none", func(task *Task) {
			task.Recurrence = Recurrence{Enabled: false, Pattern: RecurrenceNone}
		}, false, ""},
		{"negative estimate", func(task *Task) { task.TimeTracking.EstimatedHours = -1 }, true, "timeTracking.estimatedHours"},
		{"alert enabled without threshold", func(task *Task) {
			task.TimeTracking.BudgetAlert = BudgetAlert{Enabled: true}
		}, true, "timeTracking.budgetAlert.threshold"},
		{"logged hours out of sync", func(task *Task) { task.TimeTracking.LoggedHours = 3 }, true, "timeTracking.loggedHours"},
		{"invalid subtask status", func(task *Task) {
			task.Subtasks = []Subtask{{ID: "s1", Title: "Check", Status: "review"}}
		}, true, "subtask.status"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := validTask()
			tc.mutate(&task)
			err := task.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var validationErr *ValidationError
			if err == nil || !errors.As(err, &validationErr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if validationErr.Field != tc.field {
				t.Errorf("offending field = %q, want %q", validationErr.Field, tc.field)
			}
		})
	}
}

func TestValidateHours(t *testing.T) {
	for _, hours := range []float64{0.25, 0.5, 1, 6.75, 12.5} {
		if err := ValidateHours(hours); err != nil {
			t.Errorf("ValidateHours(%v) = %v, want nil", hours, err)
		}
	}
	for _, hours := range []float64{0, -0.25, 0.1, 1.3} {
		if err := ValidateHours(hours); err == nil {
			t.Errorf("ValidateHours(%v) = nil, want error", hours)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	due := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	task := validTask()
	task.DueDate = &due
	task.CaseReference = &CaseReference{CaseID: "c1", Title: "Johnson v. Smith"}
	task.Subtasks = []Subtask{{ID: "s1", Title: "Outline", Status: SubtaskToDo}}
	task.TimeTracking.TimeEntries = []TimeEntry{{ID: "e1", UserID: "u1", Hours: 1}}
	task.TimeTracking.LoggedHours = 1
	task.Permissions = DefaultPermissions()
	task.AuditLog = []AuditLogEntry{{Action: ActionCreated, ActorID: "u1"}}

	clone := task.Clone()

	clone.Subtasks[0].Status = SubtaskCompleted
	clone.TimeTracking.TimeEntries[0].Hours = 99
	clone.Permissions[ActionEdit] = []string{RoleAdmin}
	*clone.DueDate = due.AddDate(1, 0, 0)
	clone.CaseReference.Title = "Changed"
	clone.AuditLog[0].ActorID = "someone-else"

	if task.Subtasks[0].Status != SubtaskToDo {
		t.Error("subtask mutation leaked into the original")
	}
	if task.TimeTracking.TimeEntries[0].Hours != 1 {
		t.Error("time entry mutation leaked into the original")
	}
	if len(task.Permissions[ActionEdit]) == 1 {
		t.Error("permission mutation leaked into the original")
	}
	if !task.DueDate.Equal(due) {
		t.Error("due date mutation leaked into the original")
	}
	if task.CaseReference.Title != "Johnson v. Smith" {
		t.Error("case reference mutation leaked into the original")
	}
	if task.AuditLog[0].ActorID != "u1" {
		t.Error("audit log mutation leaked into the original")
	}
}
