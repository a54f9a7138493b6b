package models

import "time"

// Attachment is a file reference on a task. Uploading a file with the same
// name as an existing attachment does not add a second attachment; it bumps
// the version of the existing one and keeps the full version history.
type Attachment struct {
	ID         string    `json:"id" bson:"id"`
	Name       string    `json:"name" bson:"name"`
	MimeType   string    `json:"mimeType" bson:"mimeType"`
	Size       int64     `json:"size" bson:"size"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy" bson:"uploadedBy"`
	Version    int       `json:"version" bson:"version"`

	VersionHistory []AttachmentVersion `json:"versionHistory" bson:"versionHistory"`
}

type AttachmentVersion struct {
	Version    int       `json:"version" bson:"version"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy" bson:"uploadedBy"`
}

func (a *Attachment) Validate() error {
	if a.Name == "" {
		return &ValidationError{Field: "attachment.name", Message: "attachment name is required"}
	}
	if a.Size < 0 {
		return &ValidationError{Field: "attachment.size", Message: "attachment size must not be negative"}
	}
	return nil
}

func (a Attachment) clone() Attachment {
	c := a
	c.VersionHistory = append([]AttachmentVersion(nil), a.VersionHistory...)
	return c
}
