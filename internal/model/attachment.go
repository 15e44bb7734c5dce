package model

import "time"

// Attachment describes a file uploaded to a task. The binary content is
// fetched separately through the download endpoint.
type Attachment struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"taskId"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
