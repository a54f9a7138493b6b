package services

import "lawbench-project/microservices/tasks-service/models"

// PermissionService applies a task's permission map to a supplied role. It
// does not resolve who the actor is; role resolution belongs to the users
// service.
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// IsAllowed tests whether the role is in the action's role set. Actions
// missing from the map are denied.
func (s *PermissionService) IsAllowed(task *models.Task, role, action string) bool {
	roles, ok := task.Permissions[action]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
