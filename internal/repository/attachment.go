package repository

import (
	"context"

	"courtflow/internal/model"
)

// AttachmentRepository defines data access for expediente attachments.
type AttachmentRepository interface {
	// Create inserts a new attachment record.
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)

	// FindByID returns an attachment by its ID.
	FindByID(ctx context.Context, id string) (*model.Attachment, error)

	// ListByExpediente returns all attachments of one expediente,
	// newest first.
	ListByExpediente(ctx context.Context, expedienteID string) ([]model.Attachment, error)

	// Delete removes an attachment by ID. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
