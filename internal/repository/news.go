package repository

import (
	"context"

	"courtflow/internal/model"
)

// NewsFilter narrows List queries. Zero-valued fields are ignored.
// OrPublished widens the result: published rows are included even when the
// narrowing fields would exclude them.
type NewsFilter struct {
	Status      model.NewsStatus
	Type        model.NewsType
	OwnerID     string
	OrPublished bool
}

// NewsRepository defines data access for press items.
type NewsRepository interface {
	// Create inserts a new news row at version 1 and, when rec is
	// non-nil, appends the history record in the same transaction.
	Create(ctx context.Context, n *model.NewsItem, rec *model.HistoryRecord) (*model.NewsItem, error)

	// FindByID returns a news item by its ID.
	FindByID(ctx context.Context, id string) (*model.NewsItem, error)

	// Save writes the item's mutable fields under an optimistic version
	// check and, when rec is non-nil, appends the history record in the
	// same transaction. Returns ErrConflict on a stale version.
	Save(ctx context.Context, n *model.NewsItem, rec *model.HistoryRecord) (*model.NewsItem, error)

	// List returns a filtered, paginated page of news items and the
	// total row count for the filter.
	List(ctx context.Context, f NewsFilter, pq PageQuery) (*PageResult[model.NewsItem], error)

	// Delete removes a news item by ID. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// History returns the append-only approval history, oldest first.
	History(ctx context.Context, id string) ([]model.HistoryRecord, error)
}
