package models

// CaseReference is a weak reference to a case owned by the cases service.
// Title carries the display caption ("Johnson v. Smith") used by the
// conflict detector.
type CaseReference struct {
	CaseID string `json:"caseId" bson:"caseId"`
	Title  string `json:"title" bson:"title"`
	Number string `json:"number,omitempty" bson:"number,omitempty"`
}

// UserReference is a weak reference to a user owned by the users service.
type UserReference struct {
	UserID string `json:"userId" bson:"userId"`
	Name   string `json:"name" bson:"name"`
}

type TeamReference struct {
	TeamID string `json:"teamId" bson:"teamId"`
	Name   string `json:"name" bson:"name"`
}

type DependencyRelation string

const (
	RelationBlocks    DependencyRelation = "blocks"
	RelationFollows   DependencyRelation = "follows"
	RelationRelatesTo DependencyRelation = "relates_to"
)

// TaskDependency points at a predecessor task. Order of the slice on the
// task is significant and preserved as given.
type TaskDependency struct {
	TaskID   string             `json:"taskId" bson:"taskId"`
	Title    string             `json:"title,omitempty" bson:"title,omitempty"`
	Relation DependencyRelation `json:"relation" bson:"relation"`
}
