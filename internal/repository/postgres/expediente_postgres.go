package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courtflow/internal/model"
	"courtflow/internal/repository"
)

// ExpedientePostgres is a PostgreSQL implementation of
// repository.ExpedienteRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type ExpedientePostgres struct {
	db *sql.DB
}

// NewExpedientePostgres creates a new ExpedientePostgres repository.
func NewExpedientePostgres(db *sql.DB) *ExpedientePostgres {
	return &ExpedientePostgres{db: db}
}

var _ repository.ExpedienteRepository = (*ExpedientePostgres)(nil)

const expedienteColumns = `id, case_number, title, description, status, current_level, department_id, owner_id, rejection_reason, version, created_at, updated_at`

func scanExpediente(row interface{ Scan(...any) error }) (*model.Expediente, error) {
	var e model.Expediente
	if err := row.Scan(
		&e.ID,
		&e.CaseNumber,
		&e.Title,
		&e.Description,
		&e.Status,
		&e.CurrentLevel,
		&e.DepartmentID,
		&e.OwnerID,
		&e.RejectionReason,
		&e.Version,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new expediente row and returns the stored record.
func (r *ExpedientePostgres) Create(ctx context.Context, e *model.Expediente) (*model.Expediente, error) {
	const q = `
		INSERT INTO expedientes (id, case_number, title, description, status, current_level, department_id, owner_id, rejection_reason, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + expedienteColumns
	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.CaseNumber,
		e.Title,
		e.Description,
		e.Status,
		e.CurrentLevel,
		e.DepartmentID,
		e.OwnerID,
		e.RejectionReason,
		e.Version,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return scanExpediente(row)
}

// FindByID fetches a single expediente by its ID.
func (r *ExpedientePostgres) FindByID(ctx context.Context, id string) (*model.Expediente, error) {
	const q = `SELECT ` + expedienteColumns + ` FROM expedientes WHERE id = $1`
	return scanExpediente(r.db.QueryRowContext(ctx, q, id))
}

// Save updates the mutable fields under an optimistic version check and
// appends the history record in the same transaction. A stale version
// surfaces as repository.ErrConflict.
func (r *ExpedientePostgres) Save(ctx context.Context, e *model.Expediente, rec *model.HistoryRecord) (*model.Expediente, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
		UPDATE expedientes
		SET title = $1, description = $2, status = $3, current_level = $4, rejection_reason = $5, version = version + 1, updated_at = $6
		WHERE id = $7 AND version = $8
		RETURNING ` + expedienteColumns
	row := tx.QueryRowContext(ctx, q,
		e.Title,
		e.Description,
		e.Status,
		e.CurrentLevel,
		e.RejectionReason,
		e.UpdatedAt,
		e.ID,
		e.Version,
	)
	stored, err := scanExpediente(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}

	if rec != nil {
		if err := insertHistory(ctx, tx, documentTypeExpediente, rec); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return stored, nil
}

// List returns expedientes matching the filter using LIMIT/OFFSET
// pagination and a total count.
func (r *ExpedientePostgres) List(ctx context.Context, f repository.ExpedienteFilter, pq repository.PageQuery) (*repository.PageResult[model.Expediente], error) {
	where := ` WHERE ((($1 = '' OR status = $1)
		AND ($2 = '' OR current_level = $2)
		AND ($3 = '' OR department_id = $3)
		AND ($4 = '' OR owner_id = $4))
		OR ($5 <> '' AND owner_id = $5))`
	args := []any{string(f.Status), string(f.Level), f.DepartmentID, f.OwnerID, f.OrOwnerID}

	qCount := `SELECT COUNT(*) FROM expedientes` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + expedienteColumns + ` FROM expedientes` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $6 OFFSET $7`
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Expediente, 0)
	for rows.Next() {
		e, err := scanExpediente(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Expediente]{Items: items, Total: total}, nil
}

// Delete removes an expediente by ID. It does not return an error if the
// row does not exist.
func (r *ExpedientePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM expedientes WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// History returns the expediente's approval history, oldest first.
func (r *ExpedientePostgres) History(ctx context.Context, id string) ([]model.HistoryRecord, error) {
	return listHistory(ctx, r.db, documentTypeExpediente, id)
}

// NextCaseSequence draws the next case number sequence value.
func (r *ExpedientePostgres) NextCaseSequence(ctx context.Context) (int64, error) {
	const q = `SELECT nextval('case_number_seq')`
	var n int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
