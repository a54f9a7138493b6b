package models

// Actions that can be permission-checked on a task.
const (
	ActionView          = "view"
	ActionEdit          = "edit"
	ActionDelete        = "delete"
	ActionAssignTask    = "assignTask"
	ActionAddComment    = "addComment"
	ActionAddAttachment = "addAttachment"
	ActionLogTime       = "logTime"
)

// Roles known to the practice.
const (
	RoleAdmin     = "admin"
	RoleAttorney  = "attorney"
	RoleParalegal = "paralegal"
	RoleAssistant = "assistant"
)

// Permissions maps an action name to the set of roles allowed to perform it.
// Actions missing from the map are denied.
type Permissions map[string][]string

// DefaultPermissions is applied at task creation; afterwards the map changes
// only through the explicit permission-editing operation.
func DefaultPermissions() Permissions {
	return Permissions{
		ActionView:          {RoleAdmin, RoleAttorney, RoleParalegal, RoleAssistant},
		ActionEdit:          {RoleAdmin, RoleAttorney, RoleParalegal},
		ActionDelete:        {RoleAdmin, RoleAttorney},
		ActionAssignTask:    {RoleAdmin, RoleAttorney},
		ActionAddComment:    {RoleAdmin, RoleAttorney, RoleParalegal, RoleAssistant},
		ActionAddAttachment: {RoleAdmin, RoleAttorney, RoleParalegal},
		ActionLogTime:       {RoleAdmin, RoleAttorney, RoleParalegal},
	}
}

func (p Permissions) Clone() Permissions {
	if p == nil {
		return nil
	}
	c := make(Permissions, len(p))
	for action, roles := range p {
		c[action] = append([]string(nil), roles...)
	}
	return c
}
