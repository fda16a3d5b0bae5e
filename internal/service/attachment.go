package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"courtflow/internal/model"
	"courtflow/internal/policy"
	"courtflow/internal/repository"
	"courtflow/internal/storage"
	"courtflow/internal/visibility"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("attachment not found")
	ErrReaderNil  = errors.New("reader is nil")
)

// presignExpiry bounds how long a download link stays valid.
const presignExpiry = 15 * time.Minute

// AttachmentService defines the use cases for case file attachments.
// Every operation is checked against the parent case file: uploads and
// removals follow the edit rule, reads follow visibility.
type AttachmentService interface {
	// Upload streams the content to object storage, saves metadata to DB, and rolls back storage if DB save fails.
	// - originalFilename is used only to extract extension; stored filename will be UUID + original extension.
	Upload(ctx context.Context, actor model.Actor, expedienteID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Attachment, error)

	// List returns the attachments of a case file the actor can view.
	List(ctx context.Context, actor model.Actor, expedienteID string) ([]model.Attachment, error)

	// DownloadURL returns a time-limited link for one attachment.
	DownloadURL(ctx context.Context, actor model.Actor, id string) (string, error)

	// Delete removes an attachment from both storage and repository.
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type attachmentService struct {
	store       storage.Storage
	repo        repository.AttachmentRepository
	expedientes repository.ExpedienteRepository
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(store storage.Storage, repo repository.AttachmentRepository, expedientes repository.ExpedienteRepository) AttachmentService {
	return &attachmentService{store: store, repo: repo, expedientes: expedientes}
}

func (s *attachmentService) Upload(ctx context.Context, actor model.Actor, expedienteID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Attachment, error) {
	if expedienteID == "" {
		return nil, ErrIDRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}

	e, err := s.loadExpediente(ctx, expedienteID)
	if err != nil {
		return nil, err
	}
	// Attachments follow the document's edit rule: only while editable,
	// only by the owner or an admin.
	if v := policy.EvaluateEdit(actor, e); v != nil {
		return nil, v
	}

	// Generate filename using UUID + extension
	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("expedientes", expedienteID, genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	att := &model.Attachment{
		ID:           uuid.New().String(),
		ExpedienteID: expedienteID,
		Filename:     genName,
		StoragePath:  objInfo.Key,
		Size:         objInfo.Size,
		ContentType:  objInfo.ContentType,
		UploadedBy:   actor.ID,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, att)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns the attachments of a visible case file.
func (s *attachmentService) List(ctx context.Context, actor model.Actor, expedienteID string) ([]model.Attachment, error) {
	if expedienteID == "" {
		return nil, ErrIDRequired
	}
	e, err := s.loadExpediente(ctx, expedienteID)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewExpediente(actor, e) {
		return nil, ErrNotFound
	}
	return s.repo.ListByExpediente(ctx, expedienteID)
}

// DownloadURL presigns a GET for the attachment's object.
func (s *attachmentService) DownloadURL(ctx context.Context, actor model.Actor, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	att, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	e, err := s.loadExpediente(ctx, att.ExpedienteID)
	if err != nil {
		return "", err
	}
	if !visibility.CanViewExpediente(actor, e) {
		return "", ErrNotFound
	}
	return s.store.PresignGet(ctx, att.StoragePath, presignExpiry)
}

// Delete removes an attachment from storage, then deletes its record.
func (s *attachmentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	att, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	e, err := s.loadExpediente(ctx, att.ExpedienteID)
	if err != nil {
		return err
	}
	if v := policy.EvaluateEdit(actor, e); v != nil {
		return v
	}
	// Delete from storage first; if this fails, keep DB row to avoid orphaned storage reference loss
	if err := s.store.Delete(ctx, att.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *attachmentService) load(ctx context.Context, id string) (*model.Attachment, error) {
	att, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return att, nil
}

func (s *attachmentService) loadExpediente(ctx context.Context, id string) (*model.Expediente, error) {
	e, err := s.expedientes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}
