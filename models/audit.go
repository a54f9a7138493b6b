package models

import "time"

type AuditAction string

const (
	ActionCreated           AuditAction = "created"
	ActionUpdated           AuditAction = "updated"
	ActionCommentAdded      AuditAction = "comment_added"
	ActionSubtaskAdded      AuditAction = "subtask_added"
	ActionSubtaskUpdated    AuditAction = "subtask_updated"
	ActionAttachmentAdded   AuditAction = "attachment_added"
	ActionTimeLogged        AuditAction = "time_logged"
	ActionCourtRulesUpdated AuditAction = "court_rules_updated"
)

// AuditLogEntry records what kind of action happened to a task. The audit
// log is append-only; entries are never edited or removed.
type AuditLogEntry struct {
	Action        AuditAction `json:"action" bson:"action"`
	ActorID       string      `json:"actorId" bson:"actorId"`
	ActorName     string      `json:"actorName,omitempty" bson:"actorName,omitempty"`
	Timestamp     time.Time   `json:"timestamp" bson:"timestamp"`
	ChangedFields []string    `json:"changedFields,omitempty" bson:"changedFields,omitempty"`
}

// VersionHistoryEntry is a numbered snapshot marker, distinct from the audit
// log: external diffing and rollback tooling addresses task states by these
// version numbers.
type VersionHistoryEntry struct {
	Version       int       `json:"version" bson:"version"`
	Timestamp     time.Time `json:"timestamp" bson:"timestamp"`
	ActorID       string    `json:"actorId" bson:"actorId"`
	ChangedFields []string  `json:"changedFields,omitempty" bson:"changedFields,omitempty"`
}
