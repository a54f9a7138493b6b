package models

import "time"

type Comment struct {
	ID        string        `json:"id" bson:"id"`
	Author    UserReference `json:"author" bson:"author"`
	Text      string        `json:"text" bson:"text"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	// FileIDs references attachments on the same task, if the comment
	// points at uploaded files.
	FileIDs []string `json:"fileIds,omitempty" bson:"fileIds,omitempty"`
}

func (c *Comment) Validate() error {
	if c.Text == "" {
		return &ValidationError{Field: "comment.text", Message: "comment text is required"}
	}
	if c.Author.UserID == "" {
		return &ValidationError{Field: "comment.author", Message: "comment author is required"}
	}
	return nil
}

func (c Comment) clone() Comment {
	cp := c
	cp.FileIDs = append([]string(nil), c.FileIDs...)
	return cp
}
