package services

import (
	"context"
	"testing"
	"time"

	"lawbench-project/microservices/tasks-service/models"
)

type testEnv struct {
	service  *TaskService
	store    *fakeStore
	notifier *fakeNotifier
	roles    *fakeRoles
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	roles := &fakeRoles{defaultRole: models.RoleAttorney, roles: map[string]string{
		"assistant-1": models.RoleAssistant,
		"paralegal-1": models.RoleParalegal,
	}}

	audit := NewAuditService()
	calendar := StandardCalendar{}
	service := NewTaskService(
		store,
		roles,
		notifier,
		audit,
		NewRecurrenceService(calendar, audit),
		NewDeadlineService(NewStaticJurisdictionTable(), calendar, audit),
		NewTimeTrackingService(&fakeRates{flat: 200}, audit),
		NewConflictService(conflictTable()),
		NewPermissionService(),
	)
	return &testEnv{service: service, store: store, notifier: notifier, roles: roles}
}

var attorney = models.UserReference{UserID: "attorney-1", Name: "Ada Pearson"}

func draftTask() models.Task {
	return models.Task{
		Title:    "Draft motion to dismiss",
		Type:     models.TypeDocument,
		Priority: models.PriorityHigh,
	}
}

func mustCreate(t *testing.T, env *testEnv, draft models.Task) *models.Task {
	t.Helper()
	task, _, err := env.service.CreateTask(context.Background(), draft, attorney)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return task
}

func TestCreateTaskDefaults(t *testing.T) {
	env := newTestEnv()

	draft := models.Task{Title: "Intake call"}
	draft.TimeTracking.EstimatedHours = 8

	task := mustCreate(t, env, draft)

	if task.Status != models.StatusToDo {
		t.Errorf("status = %q, want to-do", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.TimeTracking.LoggedHours != 0 {
		t.Errorf("loggedHours = %v, want 0 regardless of the estimate", task.TimeTracking.LoggedHours)
	}
	if len(task.Permissions) == 0 {
		t.Error("default permissions not applied")
	}
	if len(task.AuditLog) != 1 || task.AuditLog[0].Action != models.ActionCreated {
		t.Errorf("audit log = %v, want a single created entry", task.AuditLog)
	}
	if len(task.VersionHistory) != 1 || task.VersionHistory[0].Version != 1 {
		t.Errorf("version history = %v, want version 1", task.VersionHistory)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.service.CreateTask(context.Background(), models.Task{}, attorney)
	var validationErr *models.ValidationError
	if err == nil || !asError(err, &validationErr) {
		t.Fatalf("error = %v, want *models.ValidationError", err)
	}
	if env.store.count() != 0 {
		t.Error("invalid task was persisted")
	}
}

func TestCreateTaskReportsConflict(t *testing.T) {
	env := newTestEnv()

	draft := draftTask()
	draft.CaseReference = &models.CaseReference{CaseID: "c1", Title: "Johnson v. Smith"}

	task, conflict, err := env.service.CreateTask(context.Background(), draft, attorney)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if conflict == nil || conflict.ClientName != "Johnson" {
		t.Errorf("conflict = %v, want the Johnson/Smith entry", conflict)
	}
	// Conflicts warn, they do not block.
	if task == nil {
		t.Fatal("task was not created despite the conflict being advisory")
	}
}

func TestCreateRecurringTaskSpawnsSuccessor(t *testing.T) {
	env := newTestEnv()

	due := date(2024, time.June, 1)
	draft := draftTask()
	draft.DueDate = &due
	draft.Recurrence = models.Recurrence{Enabled: true, Pattern: models.RecurrenceDaily, Interval: 1}

	task := mustCreate(t, env, draft)

	if env.store.count() != 2 {
		t.Fatalf("store holds %d tasks, want parent plus one successor", env.store.count())
	}

	tasks, _ := env.store.ListTasks(context.Background(), TaskFilter{})
	var successor *models.Task
	for _, candidate := range tasks {
		if candidate.ParentTaskID == task.ID.Hex() {
			successor = candidate
		}
	}
	if successor == nil {
		t.Fatal("no successor stored for the recurring task")
	}
	if want := date(2024, time.June, 2); !successor.DueDate.Equal(want) {
		t.Errorf("successor due %v, want %v", successor.DueDate, want)
	}
}

func TestUpdateTaskRecordsChangedFields(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())

	title := "Draft motion for summary judgment"
	priority := models.PriorityUrgent
	updated, _, err := env.service.UpdateTask(context.Background(), task.ID.Hex(), TaskUpdate{
		Title:    &title,
		Priority: &priority,
	}, attorney)
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	last := updated.AuditLog[len(updated.AuditLog)-1]
	if last.Action != models.ActionUpdated {
		t.Errorf("last audit action = %q, want updated", last.Action)
	}
	if len(last.ChangedFields) != 2 || last.ChangedFields[0] != "title" || last.ChangedFields[1] != "priority" {
		t.Errorf("changed fields = %v, want [title priority]", last.ChangedFields)
	}
}

func TestUpdateTaskNoChangesIsNoOp(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())

	same := task.Title
	updated, _, err := env.service.UpdateTask(context.Background(), task.ID.Hex(), TaskUpdate{Title: &same}, attorney)
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if len(updated.AuditLog) != len(task.AuditLog) {
		t.Error("a no-op update appended an audit entry")
	}
}

func TestUpdateTaskRerunsConflictDetection(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())

	_, conflict, err := env.service.UpdateTask(context.Background(), task.ID.Hex(), TaskUpdate{
		CaseReference: &models.CaseReference{CaseID: "c9", Title: "Acme Corp v. Globex"},
	}, attorney)
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if conflict == nil || conflict.ClientName != "Acme Corp" {
		t.Errorf("conflict = %v, want the Acme Corp entry after the case reference changed", conflict)
	}
}

func TestUpdateTaskPermissionDenied(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())

	title := "Renamed"
	assistant := models.UserReference{UserID: "assistant-1", Name: "Sam Ortiz"}
	_, _, err := env.service.UpdateTask(context.Background(), task.ID.Hex(), TaskUpdate{Title: &title}, assistant)

	var deniedErr *models.PermissionDeniedError
	if err == nil || !asError(err, &deniedErr) {
		t.Fatalf("error = %v, want *models.PermissionDeniedError", err)
	}
}

func TestUpdateTaskThresholdEditKeepsNotified(t *testing.T) {
	env := newTestEnv()

	draft := draftTask()
	draft.TimeTracking.BudgetAlert = models.BudgetAlert{Enabled: true, Threshold: 1}
	task := mustCreate(t, env, draft)

	updated, alerted, err := env.service.LogTime(context.Background(), task.ID.Hex(), models.TimeEntry{
		UserID: attorney.UserID, UserName: attorney.Name, Hours: 2,
	}, attorney)
	if err != nil || !alerted {
		t.Fatalf("LogTime: err=%v alerted=%v, want nil/true", err, alerted)
	}

	updated, _, err = env.service.UpdateTask(context.Background(), updated.ID.Hex(), TaskUpdate{
		BudgetAlert: &models.BudgetAlert{Enabled: true, Threshold: 100},
	}, attorney)
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !updated.TimeTracking.BudgetAlert.Notified {
		t.Error("editing the threshold re-armed the one-shot alert")
	}
}

func TestChangeTaskStatusAllowsAnyTransition(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())
	ctx := context.Background()

	for _, status := range []models.TaskStatus{
		models.StatusCompleted,
		models.StatusToDo, // straight back from completed
		models.StatusReview,
		models.StatusInProgress,
	} {
		updated, err := env.service.ChangeTaskStatus(ctx, task.ID.Hex(), status, attorney)
		if err != nil {
			t.Fatalf("ChangeTaskStatus(%q): %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("status = %q, want %q", updated.Status, status)
		}
	}

	final, err := env.service.GetTask(ctx, task.ID.Hex(), attorney.UserID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	// created + 4 transitions
	if len(final.AuditLog) != 5 {
		t.Errorf("audit log has %d entries, want 5", len(final.AuditLog))
	}
}

func TestChangeTaskStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())

	_, err := env.service.ChangeTaskStatus(context.Background(), task.ID.Hex(), "archived", attorney)
	var validationErr *models.ValidationError
	if err == nil || !asError(err, &validationErr) {
		t.Fatalf("error = %v, want *models.ValidationError", err)
	}
}

func TestSubtaskLifecycle(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())
	ctx := context.Background()

	updated, err := env.service.AddSubtask(ctx, task.ID.Hex(), models.Subtask{Title: "Collect exhibits"}, attorney)
	if err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}
	if len(updated.Subtasks) != 1 || updated.Subtasks[0].Status != models.SubtaskToDo {
		t.Fatalf("subtasks = %v, want one to-do subtask", updated.Subtasks)
	}
	last := updated.AuditLog[len(updated.AuditLog)-1]
	if last.Action != models.ActionSubtaskAdded {
		t.Errorf("audit action = %q, want subtask_added", last.Action)
	}

	subtaskID := updated.Subtasks[0].ID
	updated, err = env.service.UpdateSubtaskStatus(ctx, task.ID.Hex(), subtaskID, models.SubtaskCompleted, attorney)
	if err != nil {
		t.Fatalf("UpdateSubtaskStatus: %v", err)
	}
	if updated.Subtasks[0].Status != models.SubtaskCompleted {
		t.Errorf("subtask status = %q, want completed", updated.Subtasks[0].Status)
	}

	_, err = env.service.UpdateSubtaskStatus(ctx, task.ID.Hex(), "missing-id", models.SubtaskCompleted, attorney)
	var notFoundErr *models.NotFoundError
	if err == nil || !asError(err, &notFoundErr) {
		t.Fatalf("error = %v, want *models.NotFoundError", err)
	}
}

func TestAddCommentAudited(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())

	updated, err := env.service.AddComment(context.Background(), task.ID.Hex(), models.Comment{
		Text: "Opposing counsel requested an extension.",
	}, attorney)
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(updated.Comments))
	}
	if updated.Comments[0].Author.UserID != attorney.UserID {
		t.Errorf("comment author = %q, want the acting user", updated.Comments[0].Author.UserID)
	}
	last := updated.AuditLog[len(updated.AuditLog)-1]
	if last.Action != models.ActionCommentAdded {
		t.Errorf("audit action = %q, want comment_added", last.Action)
	}
	if len(updated.VersionHistory) != len(task.VersionHistory) {
		t.Error("adding a comment bumped the version history")
	}
}

func TestAddAttachmentSameNameBecomesNewVersion(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())
	ctx := context.Background()

	brief := models.Attachment{Name: "brief.docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 1024}
	updated, err := env.service.AddAttachment(ctx, task.ID.Hex(), brief, attorney)
	if err != nil {
		t.Fatalf("first AddAttachment: %v", err)
	}
	if len(updated.Attachments) != 1 || updated.Attachments[0].Version != 1 {
		t.Fatalf("attachments = %v, want a single version 1 attachment", updated.Attachments)
	}

	brief.Size = 2048
	updated, err = env.service.AddAttachment(ctx, task.ID.Hex(), brief, attorney)
	if err != nil {
		t.Fatalf("second AddAttachment: %v", err)
	}
	if len(updated.Attachments) != 1 {
		t.Fatalf("attachment count = %d, want 1: same name is a new version, not a new attachment", len(updated.Attachments))
	}
	got := updated.Attachments[0]
	if got.Version != 2 {
		t.Errorf("version = %d, want 2", got.Version)
	}
	if len(got.VersionHistory) != 2 {
		t.Errorf("version history = %v, want both uploads retained", got.VersionHistory)
	}
	if got.Size != 2048 {
		t.Errorf("size = %d, want the latest upload's size", got.Size)
	}

	other := models.Attachment{Name: "exhibit-a.pdf", MimeType: "application/pdf", Size: 512}
	updated, err = env.service.AddAttachment(ctx, task.ID.Hex(), other, attorney)
	if err != nil {
		t.Fatalf("third AddAttachment: %v", err)
	}
	if len(updated.Attachments) != 2 {
		t.Errorf("attachment count = %d, want 2 after a differently named upload", len(updated.Attachments))
	}
}

func TestLogTimeNotifiesOnceOnBudgetExceeded(t *testing.T) {
	env := newTestEnv()

	draft := draftTask()
	draft.TimeTracking.EstimatedHours = 10
	draft.TimeTracking.BudgetAlert = models.BudgetAlert{Enabled: true, Threshold: 12}
	task := mustCreate(t, env, draft)
	ctx := context.Background()

	logHours := func(hours float64) bool {
		t.Helper()
		_, alerted, err := env.service.LogTime(ctx, task.ID.Hex(), models.TimeEntry{
			UserID: attorney.UserID, UserName: attorney.Name, Hours: hours,
		}, attorney)
		if err != nil {
			t.Fatalf("LogTime(%v): %v", hours, err)
		}
		return alerted
	}

	if logHours(6.5) {
		t.Error("alert fired below the threshold")
	}
	if !logHours(6.0) {
		t.Error("alert did not fire when crossing the threshold")
	}
	if logHours(1) {
		t.Error("alert re-fired on the third entry")
	}
	if env.notifier.calls != 1 {
		t.Errorf("notifier called %d times, want exactly 1", env.notifier.calls)
	}
}

func TestCourtDeadlinesThroughController(t *testing.T) {
	env := newTestEnv()

	due := date(2023, time.June, 25)
	draft := draftTask()
	draft.DueDate = &due
	task := mustCreate(t, env, draft)

	updated, err := env.service.CalculateCourtDeadlines(context.Background(), task.ID.Hex(), "Federal", attorney)
	if err != nil {
		t.Fatalf("CalculateCourtDeadlines: %v", err)
	}
	if len(updated.CourtRules.CalculatedDeadlines) != 2 {
		t.Fatalf("deadlines = %d, want 2", len(updated.CourtRules.CalculatedDeadlines))
	}

	stored, err := env.store.LoadTask(context.Background(), task.ID.Hex())
	if err != nil {
		t.Fatalf("LoadTask: %v", err)
	}
	if len(stored.CourtRules.CalculatedDeadlines) != 2 {
		t.Error("computed deadlines were not persisted")
	}
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())
	ctx := context.Background()

	assistant := models.UserReference{UserID: "assistant-1"}
	err := env.service.DeleteTask(ctx, task.ID.Hex(), assistant)
	var deniedErr *models.PermissionDeniedError
	if err == nil || !asError(err, &deniedErr) {
		t.Fatalf("assistant delete error = %v, want *models.PermissionDeniedError", err)
	}

	if err := env.service.DeleteTask(ctx, task.ID.Hex(), attorney); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if env.store.count() != 0 {
		t.Error("task still in store after delete")
	}

	err = env.service.DeleteTask(ctx, task.ID.Hex(), attorney)
	var notFoundErr *models.NotFoundError
	if err == nil || !asError(err, &notFoundErr) {
		t.Fatalf("second delete error = %v, want *models.NotFoundError", err)
	}
}

func TestSetPermissionChangesPolicy(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())
	ctx := context.Background()

	paralegal := models.UserReference{UserID: "paralegal-1", Name: "Lee Tran"}

	// Paralegals may edit by default.
	if _, err := env.service.AddSubtask(ctx, task.ID.Hex(), models.Subtask{Title: "Index exhibits"}, paralegal); err != nil {
		t.Fatalf("paralegal AddSubtask before policy change: %v", err)
	}

	if _, err := env.service.SetPermission(ctx, task.ID.Hex(), models.ActionEdit, []string{models.RoleAdmin, models.RoleAttorney}, attorney); err != nil {
		t.Fatalf("SetPermission: %v", err)
	}

	_, err := env.service.AddSubtask(ctx, task.ID.Hex(), models.Subtask{Title: "Another"}, paralegal)
	var deniedErr *models.PermissionDeniedError
	if err == nil || !asError(err, &deniedErr) {
		t.Fatalf("paralegal edit after policy change = %v, want *models.PermissionDeniedError", err)
	}
}

func TestSetPermissionRejectsUnknownAction(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())

	_, err := env.service.SetPermission(context.Background(), task.ID.Hex(), "archive", []string{models.RoleAdmin}, attorney)
	var validationErr *models.ValidationError
	if err == nil || !asError(err, &validationErr) {
		t.Fatalf("error = %v, want *models.ValidationError", err)
	}
}

func TestScheduleNextOccurrenceNonRecurring(t *testing.T) {
	env := newTestEnv()
	task := mustCreate(t, env, draftTask())

	next, err := env.service.ScheduleNextOccurrence(context.Background(), task.ID.Hex(), attorney)
	if err != nil {
		t.Fatalf("ScheduleNextOccurrence: %v", err)
	}
	if next != nil {
		t.Errorf("scheduled %v for a non-recurring task, want nil", next)
	}
}

func TestListTasksFilters(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first := draftTask()
	first.Assignees = []models.UserReference{{UserID: "paralegal-1", Name: "Lee Tran"}}
	created := mustCreate(t, env, first)
	mustCreate(t, env, models.Task{Title: "Unrelated research", Type: models.TypeResearch, Priority: models.PriorityLow})

	if _, err := env.service.ChangeTaskStatus(ctx, created.ID.Hex(), models.StatusInProgress, attorney); err != nil {
		t.Fatalf("ChangeTaskStatus: %v", err)
	}

	inProgress, err := env.service.ListTasks(ctx, TaskFilter{Status: models.StatusInProgress})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(inProgress) != 1 {
		t.Errorf("in-progress tasks = %d, want 1", len(inProgress))
	}

	byAssignee, err := env.service.ListTasks(ctx, TaskFilter{AssigneeID: "paralegal-1"})
	if err != nil {
		t.Fatalf("ListTasks by assignee: %v", err)
	}
	if len(byAssignee) != 1 {
		t.Errorf("assignee tasks = %d, want 1", len(byAssignee))
	}
}
