package repository

import (
	"context"

	"courtflow/internal/model"
)

// ExpedienteFilter narrows List queries. Zero-valued fields are ignored.
// OrOwnerID widens the result: rows owned by that actor are included even
// when the narrowing fields would exclude them.
type ExpedienteFilter struct {
	Status       model.ExpedienteStatus
	Level        model.ApprovalLevel
	DepartmentID string
	OwnerID      string
	OrOwnerID    string
}

// ExpedienteRepository defines data access for case files using SQL
// queries only. No business logic here — strictly persistence operations.
type ExpedienteRepository interface {
	// Create inserts a new expediente row at version 1.
	// Returns the stored record (may include values set by the DB).
	Create(ctx context.Context, e *model.Expediente) (*model.Expediente, error)

	// FindByID returns an expediente by its ID.
	FindByID(ctx context.Context, id string) (*model.Expediente, error)

	// Save writes the expediente's mutable fields under an optimistic
	// version check and, when rec is non-nil, appends the history record
	// in the same transaction. Returns ErrConflict if the row's version
	// no longer matches e.Version; on success the returned copy carries
	// the incremented version.
	Save(ctx context.Context, e *model.Expediente, rec *model.HistoryRecord) (*model.Expediente, error)

	// List returns a filtered, paginated page of expedientes and the
	// total row count for the filter.
	List(ctx context.Context, f ExpedienteFilter, pq PageQuery) (*PageResult[model.Expediente], error)

	// Delete removes an expediente by ID. It returns nil if the row was
	// deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// History returns the append-only approval history, oldest first.
	History(ctx context.Context, id string) ([]model.HistoryRecord, error)

	// NextCaseSequence draws the next value from the case number sequence.
	NextCaseSequence(ctx context.Context) (int64, error)
}
