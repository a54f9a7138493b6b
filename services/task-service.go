package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lawbench-project/microservices/tasks-service/logging"
	"lawbench-project/microservices/tasks-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService is the single entry point for task mutations. Every operation
// follows the same shape: resolve the actor's role, check the task's
// permission map, load, apply a pure transformation, save. Mutations for the
// same task id are serialized behind a per-id mutex; the pure services below
// provide no concurrency control of their own.
type TaskService struct {
	store        TaskStore
	roles        RoleResolver
	notifier     Notifier
	audit        *AuditService
	recurrence   *RecurrenceService
	deadlines    *DeadlineService
	timeTracking *TimeTrackingService
	conflicts    *ConflictService
	permissions  *PermissionService

	locks sync.Map // task id (hex) -> *sync.Mutex
}

func NewTaskService(
	store TaskStore,
	roles RoleResolver,
	notifier Notifier,
	audit *AuditService,
	recurrence *RecurrenceService,
	deadlines *DeadlineService,
	timeTracking *TimeTrackingService,
	conflicts *ConflictService,
	permissions *PermissionService,
) *TaskService {
	return &TaskService{
		store:        store,
		roles:        roles,
		notifier:     notifier,
		audit:        audit,
		recurrence:   recurrence,
		deadlines:    deadlines,
		timeTracking: timeTracking,
		conflicts:    conflicts,
		permissions:  permissions,
	}
}

func (s *TaskService) lockTask(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *TaskService) authorize(ctx context.Context, task *models.Task, actorID, action string) error {
	role, err := s.roles.ResolveRole(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to resolve role for %s: %w", actorID, err)
	}
	if !s.permissions.IsAllowed(task, role, action) {
		return &models.PermissionDeniedError{Role: role, Action: action}
	}
	return nil
}

// CreateTask validates the draft, applies defaults and the default
// permission map, records the creation and persists the task. A conflict hit
// on the case reference does not block creation; it is returned alongside
// the task for the caller to surface. When recurrence is enabled the next
// instance is scheduled and persisted immediately; further instances follow
// one at a time through ScheduleNextOccurrence.
func (s *TaskService) CreateTask(ctx context.Context, draft models.Task, actor models.UserReference) (*models.Task, *models.ConflictEntry, error) {
	now := time.Now().UTC()

	task := draft.Clone()
	task.ID = primitive.NewObjectID()
	if task.Status == "" {
		task.Status = models.StatusToDo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Type == "" {
		task.Type = models.TypeCustom
		if task.CustomType == "" {
			task.CustomType = "general"
		}
	}
	if task.Recurrence.Enabled && task.Recurrence.Interval < 1 {
		task.Recurrence.Interval = 1
	}
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Permissions = models.DefaultPermissions()
	// Accumulation always starts at zero, whatever the estimate says.
	task.TimeTracking.LoggedHours = 0
	task.TimeTracking.TimeEntries = nil
	task.TimeTracking.BudgetAlert.Notified = false
	task.AuditLog = nil
	task.VersionHistory = nil

	if err := task.Validate(); err != nil {
		return nil, nil, err
	}

	conflict, err := s.conflicts.DetectConflict(ctx, task.CaseReference)
	if err != nil {
		return nil, nil, fmt.Errorf("conflict check failed: %w", err)
	}
	if conflict != nil {
		logging.Logger.Warnf("Event ID: CONFLICT_DETECTED, Description: Case %q matches known conflict (%s vs %s)",
			task.CaseReference.Title, conflict.ClientName, conflict.OpposingParty)
	}

	task = s.audit.Record(task, models.ActionCreated, actor, nil)

	saved, err := s.store.SaveTask(ctx, &task)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save task: %w", err)
	}

	if next := s.recurrence.ScheduleNext(*saved); next != nil {
		if _, err := s.store.SaveTask(ctx, next); err != nil {
			return nil, nil, fmt.Errorf("failed to save recurring instance: %w", err)
		}
		logging.Logger.Infof("Event ID: RECURRENCE_SCHEDULED, Description: Task %s spawned recurring instance %s due %s",
			saved.ID.Hex(), next.ID.Hex(), next.DueDate.Format("2006-01-02"))
	}

	return saved, conflict, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string, actorID string) (*models.Task, error) {
	task, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, task, actorID, models.ActionView); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, error) {
	return s.store.ListTasks(ctx, filter)
}

// TaskUpdate carries the fields UpdateTask may change. Nil pointers mean
// "leave as is".
type TaskUpdate struct {
	Title          *string                  `json:"title,omitempty"`
	Description    *string                  `json:"description,omitempty"`
	Type           *models.TaskType         `json:"type,omitempty"`
	CustomType     *string                  `json:"customType,omitempty"`
	Priority       *models.TaskPriority     `json:"priority,omitempty"`
	DueDate        *time.Time               `json:"dueDate,omitempty"`
	CaseReference  *models.CaseReference    `json:"caseReference,omitempty"`
	Assignees      *[]models.UserReference  `json:"assignees,omitempty"`
	Team           *models.TeamReference    `json:"team,omitempty"`
	BackupAssignee *models.UserReference    `json:"backupAssignee,omitempty"`
	Dependencies   *[]models.TaskDependency `json:"dependencies,omitempty"`
	Recurrence     *models.Recurrence       `json:"recurrence,omitempty"`
	EstimatedHours *float64                 `json:"estimatedHours,omitempty"`
	BudgetAlert    *models.BudgetAlert      `json:"budgetAlert,omitempty"`
}

// UpdateTask applies the update, records which fields changed and re-runs
// conflict detection when the case reference moved. The budget alert's
// notified flag survives any update: editing the threshold does not re-arm
// the alert.
func (s *TaskService) UpdateTask(ctx context.Context, id string, update TaskUpdate, actor models.UserReference) (*models.Task, *models.ConflictEntry, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionEdit); err != nil {
		return nil, nil, err
	}

	task := current.Clone()
	var changed []string
	caseChanged := false

	if update.Title != nil && *update.Title != task.Title {
		task.Title = *update.Title
		changed = append(changed, "title")
	}
	if update.Description != nil && *update.Description != task.Description {
		task.Description = *update.Description
		changed = append(changed, "description")
	}
	if update.Type != nil && *update.Type != task.Type {
		task.Type = *update.Type
		changed = append(changed, "type")
	}
	if update.CustomType != nil && *update.CustomType != task.CustomType {
		task.CustomType = *update.CustomType
		changed = append(changed, "customType")
	}
	if update.Priority != nil && *update.Priority != task.Priority {
		task.Priority = *update.Priority
		changed = append(changed, "priority")
	}
	if update.DueDate != nil {
		d := *update.DueDate
		if task.DueDate == nil || !task.DueDate.Equal(d) {
			task.DueDate = &d
			changed = append(changed, "dueDate")
		}
	}
	if update.CaseReference != nil {
		if task.CaseReference == nil || *task.CaseReference != *update.CaseReference {
			cr := *update.CaseReference
			task.CaseReference = &cr
			changed = append(changed, "caseReference")
			caseChanged = true
		}
	}
	if update.Assignees != nil {
		task.Assignees = append([]models.UserReference(nil), (*update.Assignees)...)
		changed = append(changed, "assignees")
	}
	if update.Team != nil {
		tm := *update.Team
		task.Team = &tm
		changed = append(changed, "team")
	}
	if update.BackupAssignee != nil {
		ba := *update.BackupAssignee
		task.BackupAssignee = &ba
		changed = append(changed, "backupAssignee")
	}
	if update.Dependencies != nil {
		task.Dependencies = append([]models.TaskDependency(nil), (*update.Dependencies)...)
		changed = append(changed, "dependencies")
	}
	if update.Recurrence != nil && *update.Recurrence != task.Recurrence {
		task.Recurrence = *update.Recurrence
		changed = append(changed, "recurrence")
	}
	if update.EstimatedHours != nil && *update.EstimatedHours != task.TimeTracking.EstimatedHours {
		task.TimeTracking.EstimatedHours = *update.EstimatedHours
		changed = append(changed, "estimatedHours")
	}
	if update.BudgetAlert != nil {
		notified := task.TimeTracking.BudgetAlert.Notified
		task.TimeTracking.BudgetAlert = *update.BudgetAlert
		task.TimeTracking.BudgetAlert.Notified = notified || update.BudgetAlert.Notified
		changed = append(changed, "budgetAlert")
	}

	if len(changed) == 0 {
		return current, nil, nil
	}

	if err := task.Validate(); err != nil {
		return nil, nil, err
	}

	var conflict *models.ConflictEntry
	if caseChanged {
		conflict, err = s.conflicts.DetectConflict(ctx, task.CaseReference)
		if err != nil {
			return nil, nil, fmt.Errorf("conflict check failed: %w", err)
		}
		if conflict != nil {
			logging.Logger.Warnf("Event ID: CONFLICT_DETECTED, Description: Case %q matches known conflict (%s vs %s)",
				task.CaseReference.Title, conflict.ClientName, conflict.OpposingParty)
		}
	}

	task = s.audit.Record(task, models.ActionUpdated, actor, changed)

	saved, err := s.store.SaveTask(ctx, &task)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save task: %w", err)
	}
	return saved, conflict, nil
}

// ChangeTaskStatus moves a task to any status. No ordering is enforced: a
// completed task may go straight back to to-do. Every transition is audited.
func (s *TaskService) ChangeTaskStatus(ctx context.Context, id string, status models.TaskStatus, actor models.UserReference) (*models.Task, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionEdit); err != nil {
		return nil, err
	}

	task := current.Clone()
	task.Status = status
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if task.Status == current.Status {
		return current, nil
	}

	task = s.audit.Record(task, models.ActionUpdated, actor, []string{"status"})
	return s.store.SaveTask(ctx, &task)
}

// ScheduleNextOccurrence spawns and persists the next instance of a
// recurring task on demand. Callers invoke it when an instance completes,
// which is how a recurring series propagates one instance at a time. A
// non-recurring task is a no-op returning nil.
func (s *TaskService) ScheduleNextOccurrence(ctx context.Context, id string, actor models.UserReference) (*models.Task, error) {
	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionEdit); err != nil {
		return nil, err
	}

	next := s.recurrence.ScheduleNext(*current)
	if next == nil {
		return nil, nil
	}
	return s.store.SaveTask(ctx, next)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string, actor models.UserReference) error {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionDelete); err != nil {
		return err
	}

	if err := s.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", id, actor.UserID)
	return nil
}

func (s *TaskService) AddSubtask(ctx context.Context, id string, subtask models.Subtask, actor models.UserReference) (*models.Task, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionEdit); err != nil {
		return nil, err
	}

	if subtask.ID == "" {
		subtask.ID = uuid.New().String()
	}
	if subtask.Status == "" {
		subtask.Status = models.SubtaskToDo
	}
	if err := subtask.Validate(); err != nil {
		return nil, err
	}

	task := current.Clone()
	task.Subtasks = append(task.Subtasks, subtask)
	task = s.audit.Record(task, models.ActionSubtaskAdded, actor, []string{"subtasks"})
	return s.store.SaveTask(ctx, &task)
}

func (s *TaskService) UpdateSubtaskStatus(ctx context.Context, id, subtaskID string, status models.SubtaskStatus, actor models.UserReference) (*models.Task, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionEdit); err != nil {
		return nil, err
	}

	task := current.Clone()
	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Status = status
			if err := task.Subtasks[i].Validate(); err != nil {
				return nil, err
			}
			found = true
			break
		}
	}
	if !found {
		return nil, &models.NotFoundError{Resource: "subtask", ID: subtaskID}
	}

	task = s.audit.Record(task, models.ActionSubtaskUpdated, actor, []string{"subtasks"})
	return s.store.SaveTask(ctx, &task)
}

func (s *TaskService) AddComment(ctx context.Context, id string, comment models.Comment, actor models.UserReference) (*models.Task, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionAddComment); err != nil {
		return nil, err
	}

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.Timestamp.IsZero() {
		comment.Timestamp = time.Now().UTC()
	}
	if comment.Author.UserID == "" {
		comment.Author = actor
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	task := current.Clone()
	task.Comments = append(task.Comments, comment)
	task = s.audit.Record(task, models.ActionCommentAdded, actor, nil)
	return s.store.SaveTask(ctx, &task)
}

// AddAttachment adds a file reference. An upload whose name matches an
// existing attachment on the task is treated as a new version of that
// attachment: the version increments, the history keeps every upload, and
// the attachment count stays the same.
func (s *TaskService) AddAttachment(ctx context.Context, id string, attachment models.Attachment, actor models.UserReference) (*models.Task, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionAddAttachment); err != nil {
		return nil, err
	}

	if err := attachment.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if attachment.UploadedAt.IsZero() {
		attachment.UploadedAt = now
	}
	if attachment.UploadedBy == "" {
		attachment.UploadedBy = actor.UserID
	}

	task := current.Clone()
	existing := -1
	for i := range task.Attachments {
		if task.Attachments[i].Name == attachment.Name {
			existing = i
			break
		}
	}

	if existing >= 0 {
		prev := &task.Attachments[existing]
		prev.Version++
		prev.MimeType = attachment.MimeType
		prev.Size = attachment.Size
		prev.UploadedAt = attachment.UploadedAt
		prev.UploadedBy = attachment.UploadedBy
		prev.VersionHistory = append(prev.VersionHistory, models.AttachmentVersion{
			Version:    prev.Version,
			UploadedAt: attachment.UploadedAt,
			UploadedBy: attachment.UploadedBy,
		})
	} else {
		if attachment.ID == "" {
			attachment.ID = uuid.New().String()
		}
		attachment.Version = 1
		attachment.VersionHistory = []models.AttachmentVersion{{
			Version:    1,
			UploadedAt: attachment.UploadedAt,
			UploadedBy: attachment.UploadedBy,
		}}
		task.Attachments = append(task.Attachments, attachment)
	}

	task = s.audit.Record(task, models.ActionAttachmentAdded, actor, []string{"attachments"})
	return s.store.SaveTask(ctx, &task)
}

// LogTime appends a time entry through the time tracking service and, when
// the budget alert fires, pushes a notification. Notification delivery is
// best-effort; a delivery failure is logged and the mutation still commits.
func (s *TaskService) LogTime(ctx context.Context, id string, entry models.TimeEntry, actor models.UserReference) (*models.Task, bool, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionLogTime); err != nil {
		return nil, false, err
	}

	task, alerted, err := s.timeTracking.LogTime(ctx, *current, entry)
	if err != nil {
		return nil, false, err
	}

	saved, err := s.store.SaveTask(ctx, &task)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save task: %w", err)
	}

	if alerted {
		logging.Logger.Warnf("Event ID: BUDGET_EXCEEDED, Description: Task %s logged %.2f hours against a threshold of %.2f",
			saved.ID.Hex(), saved.TimeTracking.LoggedHours, saved.TimeTracking.BudgetAlert.Threshold)
		if s.notifier != nil {
			if err := s.notifier.NotifyBudgetExceeded(ctx, saved); err != nil {
				logging.Logger.Errorf("Event ID: NOTIFICATION_FAILED, Description: Budget alert for task %s not delivered: %v", saved.ID.Hex(), err)
			}
		}
	}

	return saved, alerted, nil
}

// CalculateCourtDeadlines recomputes the statutory deadline chain for the
// given jurisdiction and persists the result.
func (s *TaskService) CalculateCourtDeadlines(ctx context.Context, id, jurisdiction string, actor models.UserReference) (*models.Task, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionEdit); err != nil {
		return nil, err
	}

	task, err := s.deadlines.CalculateDeadlines(*current, jurisdiction, actor)
	if err != nil {
		return nil, err
	}
	return s.store.SaveTask(ctx, &task)
}

// CheckConflict runs the conflict detector against a task's case reference
// without mutating anything.
func (s *TaskService) CheckConflict(ctx context.Context, id string) (*models.ConflictEntry, error) {
	task, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.conflicts.DetectConflict(ctx, task.CaseReference)
}

// SetPermission replaces the role set for one action. This is the only path
// that changes a task's permission map after creation.
func (s *TaskService) SetPermission(ctx context.Context, id, action string, roles []string, actor models.UserReference) (*models.Task, error) {
	unlock := s.lockTask(id)
	defer unlock()

	current, err := s.store.LoadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, current, actor.UserID, models.ActionEdit); err != nil {
		return nil, err
	}

	switch action {
	case models.ActionView, models.ActionEdit, models.ActionDelete, models.ActionAssignTask,
		models.ActionAddComment, models.ActionAddAttachment, models.ActionLogTime:
	default:
		return nil, &models.ValidationError{Field: "action", Message: "unknown permission action: " + action}
	}

	task := current.Clone()
	if task.Permissions == nil {
		task.Permissions = models.Permissions{}
	}
	task.Permissions[action] = append([]string(nil), roles...)

	task = s.audit.Record(task, models.ActionUpdated, actor, []string{"permissions"})
	return s.store.SaveTask(ctx, &task)
}
