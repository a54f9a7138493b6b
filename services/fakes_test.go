package services

import (
	"context"
	"errors"
	"sync"

	"lawbench-project/microservices/tasks-service/models"
)

func asError(err error, target interface{}) bool {
	return errors.As(err, target)
}

// In-memory collaborator fakes shared by the service tests.

type fakeStore struct {
	mu    sync.Mutex
	tasks map[string]models.Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[string]models.Task)}
}

func (s *fakeStore) LoadTask(_ context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "task", ID: id}
	}
	c := task.Clone()
	return &c, nil
}

func (s *fakeStore) SaveTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID.Hex()] = task.Clone()
	return task, nil
}

func (s *fakeStore) ListTasks(_ context.Context, filter TaskFilter) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Task
	for _, task := range s.tasks {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.CaseID != "" && (task.CaseReference == nil || task.CaseReference.CaseID != filter.CaseID) {
			continue
		}
		if filter.AssigneeID != "" {
			assigned := false
			for _, a := range task.Assignees {
				if a.UserID == filter.AssigneeID {
					assigned = true
					break
				}
			}
			if !assigned {
				continue
			}
		}
		c := task.Clone()
		out = append(out, &c)
	}
	return out, nil
}

func (s *fakeStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return &models.NotFoundError{Resource: "task", ID: id}
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

type fakeRoles struct {
	roles       map[string]string
	defaultRole string
}

func (r *fakeRoles) ResolveRole(_ context.Context, userID string) (string, error) {
	if role, ok := r.roles[userID]; ok {
		return role, nil
	}
	return r.defaultRole, nil
}

type fakeRates struct {
	rates map[string]float64
	flat  float64
}

func (r *fakeRates) HourlyRate(_ context.Context, userID string) (float64, error) {
	if rate, ok := r.rates[userID]; ok {
		return rate, nil
	}
	return r.flat, nil
}

type fakeRegistry struct {
	entries []models.ConflictEntry
}

func (r *fakeRegistry) Entries(_ context.Context) ([]models.ConflictEntry, error) {
	return r.entries, nil
}

type fakeNotifier struct {
	calls int
}

func (n *fakeNotifier) NotifyBudgetExceeded(_ context.Context, _ *models.Task) error {
	n.calls++
	return nil
}
