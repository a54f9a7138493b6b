package models

type SubtaskStatus string

// Subtask statuses are the task statuses minus "review".
const (
	SubtaskToDo       SubtaskStatus = "to-do"
	SubtaskInProgress SubtaskStatus = "in-progress"
	SubtaskCompleted  SubtaskStatus = "completed"
)

type Subtask struct {
	ID       string         `json:"id" bson:"id"`
	Title    string         `json:"title" bson:"title"`
	Status   SubtaskStatus  `json:"status" bson:"status"`
	Assignee *UserReference `json:"assignee,omitempty" bson:"assignee,omitempty"`
}

func (s *Subtask) Validate() error {
	if s.Title == "" {
		return &ValidationError{Field: "subtask.title", Message: "subtask title is required"}
	}
	switch s.Status {
	case SubtaskToDo, SubtaskInProgress, SubtaskCompleted:
		return nil
	}
	return &ValidationError{Field: "subtask.status", Message: "unknown subtask status: " + string(s.Status)}
}

func (s Subtask) clone() Subtask {
	c := s
	if s.Assignee != nil {
		a := *s.Assignee
		c.Assignee = &a
	}
	return c
}
