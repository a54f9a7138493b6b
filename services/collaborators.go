package services

import (
	"context"

	"lawbench-project/microservices/tasks-service/models"
)

// TaskStore is the persistence collaborator. The core never touches a store
// format directly; main.go wires in the Mongo repository, tests wire in an
// in-memory fake.
type TaskStore interface {
	LoadTask(ctx context.Context, id string) (*models.Task, error)
	SaveTask(ctx context.Context, task *models.Task) (*models.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskFilter narrows ListTasks results. Zero values mean "no constraint".
type TaskFilter struct {
	Status     models.TaskStatus
	AssigneeID string
	CaseID     string
}

// RoleResolver resolves an actor id to the role name the permission
// evaluator works with.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (string, error)
}

// RateTable resolves an actor id to their hourly billing rate.
type RateTable interface {
	HourlyRate(ctx context.Context, userID string) (float64, error)
}

// ConflictRegistry returns the firm's known-conflicts table. Order is
// significant: the detector reports the first matching entry.
type ConflictRegistry interface {
	Entries(ctx context.Context) ([]models.ConflictEntry, error)
}

// JurisdictionTable returns the ordered court rule list for a jurisdiction
// key. An unknown key returns an empty list.
type JurisdictionTable interface {
	RulesFor(jurisdiction string) []models.CourtRule
}

// Notifier fans budget-exceeded alerts out to the notifications service.
// Delivery is best-effort; a failed notification never fails the mutation.
type Notifier interface {
	NotifyBudgetExceeded(ctx context.Context, task *models.Task) error
}
