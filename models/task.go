package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "to-do"
	StatusInProgress TaskStatus = "in-progress"
	StatusReview     TaskStatus = "review"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

type TaskType string

const (
	TypeDocument      TaskType = "document"
	TypeMeeting       TaskType = "meeting"
	TypeResearch      TaskType = "research"
	TypeCourt         TaskType = "court"
	TypeDeadline      TaskType = "deadline"
	TypeClientMeeting TaskType = "client_meeting"
	TypeDeposition    TaskType = "deposition"
	TypeFiling        TaskType = "filing"
	TypeCustom        TaskType = "custom"
)

// Task is the root aggregate for a single work item. It exclusively owns its
// nested collections (subtasks, comments, attachments, audit log, version
// history); caseReference, assignees, team, backupAssignee and dependencies
// are weak references to entities owned by other services.
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Type        TaskType           `json:"type" bson:"type"`
	CustomType  string             `json:"customType,omitempty" bson:"customType,omitempty"`
	Priority    TaskPriority       `json:"priority" bson:"priority"`
	Status      TaskStatus         `json:"status" bson:"status"`

	DueDate   *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`

	CaseReference  *CaseReference   `json:"caseReference,omitempty" bson:"caseReference,omitempty"`
	Assignees      []UserReference  `json:"assignees" bson:"assignees"`
	Team           *TeamReference   `json:"team,omitempty" bson:"team,omitempty"`
	BackupAssignee *UserReference   `json:"backupAssignee,omitempty" bson:"backupAssignee,omitempty"`
	Dependencies   []TaskDependency `json:"dependencies" bson:"dependencies"`
	ParentTaskID   string           `json:"parentTaskId,omitempty" bson:"parentTaskId,omitempty"`

	Subtasks    []Subtask    `json:"subtasks" bson:"subtasks"`
	Comments    []Comment    `json:"comments" bson:"comments"`
	Attachments []Attachment `json:"attachments" bson:"attachments"`

	TimeTracking TimeTracking `json:"timeTracking" bson:"timeTracking"`
	Recurrence   Recurrence   `json:"recurrence" bson:"recurrence"`
	CourtRules   CourtRules   `json:"courtRules" bson:"courtRules"`
	Permissions  Permissions  `json:"permissions" bson:"permissions"`

	AuditLog       []AuditLogEntry       `json:"auditLog" bson:"auditLog"`
	VersionHistory []VersionHistoryEntry `json:"versionHistory" bson:"versionHistory"`
}

func validStatus(s TaskStatus) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

func validPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func validType(t TaskType) bool {
	switch t {
	case TypeDocument, TypeMeeting, TypeResearch, TypeCourt, TypeDeadline,
		TypeClientMeeting, TypeDeposition, TypeFiling, TypeCustom:
		return true
	}
	return false
}

// Validate checks the aggregate-level invariants. Nested value objects carry
// their own Validate methods; this ties them together so a task can be
// checked in one call before it is persisted.
func (t *Task) Validate() error {
	if t.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if !validStatus(t.Status) {
		return &ValidationError{Field: "status", Message: "unknown status: " + string(t.Status)}
	}
	if !validPriority(t.Priority) {
		return &ValidationError{Field: "priority", Message: "unknown priority: " + string(t.Priority)}
	}
	if !validType(t.Type) {
		return &ValidationError{Field: "type", Message: "unknown type: " + string(t.Type)}
	}
	if t.Type == TypeCustom && t.CustomType == "" {
		return &ValidationError{Field: "customType", Message: "custom type label is required"}
	}
	if err := t.Recurrence.Validate(); err != nil {
		return err
	}
	if err := t.TimeTracking.Validate(); err != nil {
		return err
	}
	for i := range t.Subtasks {
		if err := t.Subtasks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy. Every mutating service operates on a clone so
// that a failed operation leaves the caller's value untouched.
func (t Task) Clone() Task {
	c := t

	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CaseReference != nil {
		cr := *t.CaseReference
		c.CaseReference = &cr
	}
	if t.Team != nil {
		tm := *t.Team
		c.Team = &tm
	}
	if t.BackupAssignee != nil {
		ba := *t.BackupAssignee
		c.BackupAssignee = &ba
	}

	c.Assignees = append([]UserReference(nil), t.Assignees...)
	c.Dependencies = append([]TaskDependency(nil), t.Dependencies...)

	c.Subtasks = make([]Subtask, len(t.Subtasks))
	for i, s := range t.Subtasks {
		c.Subtasks[i] = s.clone()
	}
	c.Comments = make([]Comment, len(t.Comments))
	for i, cm := range t.Comments {
		c.Comments[i] = cm.clone()
	}
	c.Attachments = make([]Attachment, len(t.Attachments))
	for i, a := range t.Attachments {
		c.Attachments[i] = a.clone()
	}

	c.TimeTracking = t.TimeTracking.clone()
	c.CourtRules = t.CourtRules.clone()
	c.Permissions = t.Permissions.Clone()

	c.AuditLog = append([]AuditLogEntry(nil), t.AuditLog...)
	for i := range c.AuditLog {
		c.AuditLog[i].ChangedFields = append([]string(nil), t.AuditLog[i].ChangedFields...)
	}
	c.VersionHistory = append([]VersionHistoryEntry(nil), t.VersionHistory...)
	for i := range c.VersionHistory {
		c.VersionHistory[i].ChangedFields = append([]string(nil), t.VersionHistory[i].ChangedFields...)
	}

	return c
}
