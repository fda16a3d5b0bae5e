package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"courtflow/internal/model"
	"courtflow/internal/policy"
	"courtflow/internal/repository"
	"courtflow/internal/visibility"
)

// maxConflictRetries bounds the internal reload-and-retry loop on
// optimistic concurrency conflicts. Policy is re-evaluated on every
// attempt because the reloaded state may have changed the answer.
const maxConflictRetries = 3

// CreateExpedienteInput carries the owner-supplied fields of a new case file.
type CreateExpedienteInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id"`
}

// UpdateExpedienteInput carries the editable fields of a case file.
type UpdateExpedienteInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ExpedienteListResult is the service-level DTO for a projected page of
// case files.
type ExpedienteListResult struct {
	Items []visibility.ExpedienteView `json:"data"`
	Total int                         `json:"total"`
}

// ExpedienteService sequences the legal transitions of case files. Every
// command consults the policy engine before touching state; every status
// change appends one immutable history record.
type ExpedienteService interface {
	Create(ctx context.Context, actor model.Actor, in CreateExpedienteInput) (*model.Expediente, error)
	Update(ctx context.Context, actor model.Actor, id string, in UpdateExpedienteInput) (*model.Expediente, error)
	Submit(ctx context.Context, actor model.Actor, id, comment string) (*model.Expediente, error)
	Approve(ctx context.Context, actor model.Actor, id, comment string) (*model.Expediente, error)
	Reject(ctx context.Context, actor model.Actor, id, reason string) (*model.Expediente, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	Get(ctx context.Context, actor model.Actor, id string) (*visibility.ExpedienteView, error)
	List(ctx context.Context, actor model.Actor, limit, offset int) (*ExpedienteListResult, error)
	History(ctx context.Context, actor model.Actor, id string) ([]model.HistoryRecord, error)
}

type expedienteService struct {
	repo repository.ExpedienteRepository
}

// NewExpedienteService constructs a new ExpedienteService.
func NewExpedienteService(repo repository.ExpedienteRepository) ExpedienteService {
	return &expedienteService{repo: repo}
}

// Create opens a new case file in draft, owned by the actor. The case
// number is drawn from the yearly sequence.
func (s *expedienteService) Create(ctx context.Context, actor model.Actor, in CreateExpedienteInput) (*model.Expediente, error) {
	if v := policy.EvaluateCreateExpediente(actor); v != nil {
		return nil, v
	}
	if v := requireField("title", in.Title); v != nil {
		return nil, v
	}
	department := in.DepartmentID
	if department == "" {
		department = actor.DepartmentID
	}
	if v := requireField("department_id", department); v != nil {
		return nil, v
	}

	seq, err := s.repo.NextCaseSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("draw case sequence: %w", err)
	}

	now := time.Now().UTC()
	e := &model.Expediente{
		ID:           uuid.New().String(),
		CaseNumber:   fmt.Sprintf("%d-%05d", now.Year(), seq),
		Title:        in.Title,
		Description:  in.Description,
		Status:       model.ExpedienteDraft,
		DepartmentID: department,
		OwnerID:      actor.ID,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stored, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create expediente: %w", err)
	}
	return stored, nil
}

// Update edits the draft/rejected fields of a case file. Retried on
// conflict like every other mutation.
func (s *expedienteService) Update(ctx context.Context, actor model.Actor, id string, in UpdateExpedienteInput) (*model.Expediente, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		e, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v := policy.EvaluateEdit(actor, e); v != nil {
			return nil, v
		}

		if in.Title != "" {
			e.Title = in.Title
		}
		if in.Description != "" {
			e.Description = in.Description
		}
		e.UpdatedAt = time.Now().UTC()

		stored, err := s.repo.Save(ctx, e, nil)
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return stored, nil
	}
	return nil, ErrConflictRetriesExhausted
}

// Submit sends a draft or rejected case file back into the pipeline. The
// pipeline always re-enters at the court president gate.
func (s *expedienteService) Submit(ctx context.Context, actor model.Actor, id, comment string) (*model.Expediente, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		e, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v := policy.EvaluateSubmit(actor, e); v != nil {
			return nil, v
		}

		from := e.Status
		e.Status, e.CurrentLevel = policy.SubmitExpediente()
		e.RejectionReason = ""
		e.UpdatedAt = time.Now().UTC()

		stored, err := s.repo.Save(ctx, e, s.record(e, model.ActionSubmit, actor, from, comment))
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return stored, nil
	}
	return nil, ErrConflictRetriesExhausted
}

// Approve clears the current gate and advances the case file to the next
// status from the transition table.
func (s *expedienteService) Approve(ctx context.Context, actor model.Actor, id, comment string) (*model.Expediente, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		e, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v := policy.EvaluateApprove(actor, e); v != nil {
			return nil, v
		}

		from := e.Status
		nextStatus, nextLevel, err := policy.NextExpedienteStatus(e, model.ActionApprove)
		if err != nil {
			return nil, err
		}
		e.Status = nextStatus
		e.CurrentLevel = nextLevel
		e.UpdatedAt = time.Now().UTC()

		stored, err := s.repo.Save(ctx, e, s.record(e, model.ActionApprove, actor, from, comment))
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return stored, nil
	}
	return nil, ErrConflictRetriesExhausted
}

// Reject returns the case file to the owner. The reason is mandatory and
// its absence is a validation failure, never a policy one.
func (s *expedienteService) Reject(ctx context.Context, actor model.Actor, id, reason string) (*model.Expediente, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if v := requireField("reason", reason); v != nil {
		return nil, v
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		e, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v := policy.EvaluateReject(actor, e); v != nil {
			return nil, v
		}

		from := e.Status
		nextStatus, nextLevel, err := policy.NextExpedienteStatus(e, model.ActionReject)
		if err != nil {
			return nil, err
		}
		e.Status = nextStatus
		e.CurrentLevel = nextLevel
		e.RejectionReason = reason
		e.UpdatedAt = time.Now().UTC()

		stored, err := s.repo.Save(ctx, e, s.record(e, model.ActionReject, actor, from, reason))
		if errors.Is(err, repository.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return stored, nil
	}
	return nil, ErrConflictRetriesExhausted
}

// Delete destroys a draft case file.
func (s *expedienteService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	e, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if v := policy.EvaluateDelete(actor, e); v != nil {
		return v
	}
	return s.repo.Delete(ctx, id)
}

// Get returns one case file with the actor's affordances, if visible.
func (s *expedienteService) Get(ctx context.Context, actor model.Actor, id string) (*visibility.ExpedienteView, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewExpediente(actor, e) {
		return nil, ErrNotFound
	}
	return &visibility.ExpedienteView{Expediente: *e, Actions: visibility.ActionsFor(actor, e)}, nil
}

// List returns the actor's projected page of case files.
func (s *expedienteService) List(ctx context.Context, actor model.Actor, limit, offset int) (*ExpedienteListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, visibility.ExpedienteQuery(actor), repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ExpedienteListResult{
		Items: visibility.ProjectExpedientes(actor, res.Items),
		Total: res.Total,
	}, nil
}

// History returns the append-only approval trail of a visible case file.
func (s *expedienteService) History(ctx context.Context, actor model.Actor, id string) ([]model.HistoryRecord, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewExpediente(actor, e) {
		return nil, ErrNotFound
	}
	return s.repo.History(ctx, id)
}

func (s *expedienteService) load(ctx context.Context, id string) (*model.Expediente, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// record builds the history entry for a transition that just mutated e.
func (s *expedienteService) record(e *model.Expediente, action model.Action, actor model.Actor, from model.ExpedienteStatus, comment string) *model.HistoryRecord {
	return &model.HistoryRecord{
		ID:         uuid.New().String(),
		DocumentID: e.ID,
		Action:     action,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		FromStatus: string(from),
		ToStatus:   string(e.Status),
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	}
}
