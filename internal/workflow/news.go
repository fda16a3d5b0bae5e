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

// CreateNewsInput carries the author-supplied fields of a new press item.
type CreateNewsInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// UpdateNewsInput carries the editable fields of a press item.
type UpdateNewsInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CourtSubmissionInput is the court-to-press channel payload. Courts may
// only hand in notices and communiques.
type CourtSubmissionInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// NewsListResult is the service-level DTO for a projected page of press
// items.
type NewsListResult struct {
	Items []visibility.NewsView `json:"data"`
	Total int                   `json:"total"`
}

// NewsService sequences the legal transitions of press content through
// the director gate and, for articles, the presidential gate.
type NewsService interface {
	Create(ctx context.Context, actor model.Actor, in CreateNewsInput) (*model.NewsItem, error)
	Update(ctx context.Context, actor model.Actor, id string, in UpdateNewsInput) (*model.NewsItem, error)
	Submit(ctx context.Context, actor model.Actor, id, comment string) (*model.NewsItem, error)
	SubmitFromCourt(ctx context.Context, actor model.Actor, in CourtSubmissionInput) (*model.NewsItem, error)
	Approve(ctx context.Context, actor model.Actor, id, comment string) (*model.NewsItem, error)
	Reject(ctx context.Context, actor model.Actor, id, reason string) (*model.NewsItem, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
	Get(ctx context.Context, actor model.Actor, id string) (*visibility.NewsView, error)
	List(ctx context.Context, actor model.Actor, limit, offset int) (*NewsListResult, error)
	History(ctx context.Context, actor model.Actor, id string) ([]model.HistoryRecord, error)
}

type newsService struct {
	repo repository.NewsRepository
}

// NewNewsService constructs a new NewsService.
func NewNewsService(repo repository.NewsRepository) NewsService {
	return &newsService{repo: repo}
}

func (s *newsService) validateCreate(in CreateNewsInput) (model.NewsType, error) {
	if v := requireField("title", in.Title); v != nil {
		return "", v
	}
	if v := requireField("content", in.Content); v != nil {
		return "", v
	}
	t, ok := model.ParseNewsType(in.Type)
	if !ok {
		return "", &ValidationError{Field: "type", Message: "must be article, notice, or communique"}
	}
	return t, nil
}

// Create opens a new press item in draft, owned by the actor.
func (s *newsService) Create(ctx context.Context, actor model.Actor, in CreateNewsInput) (*model.NewsItem, error) {
	if v := policy.EvaluateCreateNews(actor); v != nil {
		return nil, v
	}
	t, err := s.validateCreate(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	n := &model.NewsItem{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Content:   in.Content,
		Type:      t,
		Status:    model.NewsDraft,
		OwnerID:   actor.ID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.repo.Create(ctx, n, nil)
	if err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	return stored, nil
}

// SubmitFromCourt creates a court-originated notice or communique already
// sitting at the director gate. One command, one history entry.
func (s *newsService) SubmitFromCourt(ctx context.Context, actor model.Actor, in CourtSubmissionInput) (*model.NewsItem, error) {
	t, ok := model.ParseNewsType(in.Type)
	if !ok {
		return nil, &ValidationError{Field: "type", Message: "must be notice or communique"}
	}
	if v := policy.EvaluateCourtSubmission(actor, t); v != nil {
		return nil, v
	}
	if v := requireField("title", in.Title); v != nil {
		return nil, v
	}
	if v := requireField("content", in.Content); v != nil {
		return nil, v
	}

	now := time.Now().UTC()
	n := &model.NewsItem{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Content:   in.Content,
		Type:      t,
		Status:    policy.SubmitNews(),
		OwnerID:   actor.ID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// The submit entry lands in the same transaction as the row itself,
	// so no gate-pending item ever exists without its history.
	rec := s.record(n, model.ActionSubmit, actor, model.NewsDraft, "")
	stored, err := s.repo.Create(ctx, n, rec)
	if err != nil {
		return nil, fmt.Errorf("create court submission: %w", err)
	}
	return stored, nil
}

// Update edits the draft/rejected fields of a press item.
func (s *newsService) Update(ctx context.Context, actor model.Actor, id string, in UpdateNewsInput) (*model.NewsItem, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		n, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v := policy.EvaluateEdit(actor, n); v != nil {
			return nil, v
		}

		if in.Title != "" {
			n.Title = in.Title
		}
		if in.Content != "" {
			n.Content = in.Content
		}
		n.UpdatedAt = time.Now().UTC()

		stored, err := s.repo.Save(ctx, n, nil)
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

// Submit sends a draft or rejected press item to the director gate.
func (s *newsService) Submit(ctx context.Context, actor model.Actor, id, comment string) (*model.NewsItem, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		n, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v := policy.EvaluateSubmit(actor, n); v != nil {
			return nil, v
		}

		from := n.Status
		n.Status = policy.SubmitNews()
		n.RejectionReason = ""
		n.UpdatedAt = time.Now().UTC()

		stored, err := s.repo.Save(ctx, n, s.record(n, model.ActionSubmit, actor, from, comment))
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

// Approve clears the current gate. Director approval publishes notices
// and communiques immediately; articles continue to the presidential
// gate and publish from there.
func (s *newsService) Approve(ctx context.Context, actor model.Actor, id, comment string) (*model.NewsItem, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		n, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v := policy.EvaluateApprove(actor, n); v != nil {
			return nil, v
		}

		from := n.Status
		nextStatus, err := policy.NextNewsStatus(n, model.ActionApprove)
		if err != nil {
			return nil, err
		}
		n.Status = nextStatus
		now := time.Now().UTC()
		if nextStatus == model.NewsPublished {
			n.PublishedAt = &now
		}
		n.UpdatedAt = now

		stored, err := s.repo.Save(ctx, n, s.record(n, model.ActionApprove, actor, from, comment))
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

// Reject returns the press item to its author. The reason is mandatory.
func (s *newsService) Reject(ctx context.Context, actor model.Actor, id, reason string) (*model.NewsItem, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if v := requireField("reason", reason); v != nil {
		return nil, v
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		n, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if v := policy.EvaluateReject(actor, n); v != nil {
			return nil, v
		}

		from := n.Status
		nextStatus, err := policy.NextNewsStatus(n, model.ActionReject)
		if err != nil {
			return nil, err
		}
		n.Status = nextStatus
		n.RejectionReason = reason
		n.UpdatedAt = time.Now().UTC()

		stored, err := s.repo.Save(ctx, n, s.record(n, model.ActionReject, actor, from, reason))
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

// Delete destroys a draft press item.
func (s *newsService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	n, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if v := policy.EvaluateDelete(actor, n); v != nil {
		return v
	}
	return s.repo.Delete(ctx, id)
}

// Get returns one press item with the actor's affordances, if visible.
func (s *newsService) Get(ctx context.Context, actor model.Actor, id string) (*visibility.NewsView, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	n, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewNews(actor, n) {
		return nil, ErrNotFound
	}
	return &visibility.NewsView{News: *n, Actions: visibility.ActionsFor(actor, n)}, nil
}

// List returns the actor's projected page of press items.
func (s *newsService) List(ctx context.Context, actor model.Actor, limit, offset int) (*NewsListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, visibility.NewsQuery(actor), repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &NewsListResult{
		Items: visibility.ProjectNews(actor, res.Items),
		Total: res.Total,
	}, nil
}

// History returns the append-only approval trail of a visible press item.
func (s *newsService) History(ctx context.Context, actor model.Actor, id string) ([]model.HistoryRecord, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	n, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.CanViewNews(actor, n) {
		return nil, ErrNotFound
	}
	return s.repo.History(ctx, id)
}

func (s *newsService) load(ctx context.Context, id string) (*model.NewsItem, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *newsService) record(n *model.NewsItem, action model.Action, actor model.Actor, from model.NewsStatus, comment string) *model.HistoryRecord {
	return &model.HistoryRecord{
		ID:         uuid.New().String(),
		DocumentID: n.ID,
		Action:     action,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		FromStatus: string(from),
		ToStatus:   string(n.Status),
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	}
}
