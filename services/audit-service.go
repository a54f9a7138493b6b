package services

import (
	"time"

	"lawbench-project/microservices/tasks-service/models"
)

// AuditService appends audit log and version history entries. It never
// reorders or trims what is already there; trail growth is bounded only by
// external archival.
type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// comment_added leaves task fields untouched, so it gets no version marker;
// everything else does.
func mutationClass(action models.AuditAction) bool {
	return action != models.ActionCommentAdded
}

// Record returns a copy of the task with one audit entry appended and, for
// mutation-class actions, one version history entry numbered one past the
// current maximum. UpdatedAt is refreshed to the entry timestamp.
func (a *AuditService) Record(task models.Task, action models.AuditAction, actor models.UserReference, changedFields []string) models.Task {
	now := time.Now().UTC()
	out := task.Clone()

	out.AuditLog = append(out.AuditLog, models.AuditLogEntry{
		Action:        action,
		ActorID:       actor.UserID,
		ActorName:     actor.Name,
		Timestamp:     now,
		ChangedFields: append([]string(nil), changedFields...),
	})

	if mutationClass(action) {
		out.VersionHistory = append(out.VersionHistory, models.VersionHistoryEntry{
			Version:       maxVersion(out.VersionHistory) + 1,
			Timestamp:     now,
			ActorID:       actor.UserID,
			ChangedFields: append([]string(nil), changedFields...),
		})
	}

	out.UpdatedAt = now
	return out
}

func maxVersion(history []models.VersionHistoryEntry) int {
	max := 0
	for i := range history {
		if history[i].Version > max {
			max = history[i].Version
		}
	}
	return max
}
