package model

import "time"

// Attachment is a stored file belonging to an expediente.
// Pure domain model; the object lives in S3-compatible storage under
// StoragePath, this record only carries its metadata.
type Attachment struct {
	ID           string    `json:"id"`
	ExpedienteID string    `json:"expediente_id"`
	Filename     string    `json:"filename"`
	StoragePath  string    `json:"storage_path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	UploadedBy   string    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}
