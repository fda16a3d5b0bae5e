package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courtflow/internal/model"
	"courtflow/internal/repository"
)

// NewsPostgres is a PostgreSQL implementation of repository.NewsRepository.
type NewsPostgres struct {
	db *sql.DB
}

// NewNewsPostgres creates a new NewsPostgres repository.
func NewNewsPostgres(db *sql.DB) *NewsPostgres {
	return &NewsPostgres{db: db}
}

var _ repository.NewsRepository = (*NewsPostgres)(nil)

const newsColumns = `id, title, content, type, status, owner_id, rejection_reason, published_at, version, created_at, updated_at`

func scanNews(row interface{ Scan(...any) error }) (*model.NewsItem, error) {
	var n model.NewsItem
	var publishedAt sql.NullTime
	if err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.Type,
		&n.Status,
		&n.OwnerID,
		&n.RejectionReason,
		&publishedAt,
		&n.Version,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		n.PublishedAt = &t
	}
	return &n, nil
}

// Create inserts a new news row and, when rec is non-nil, appends the
// history record in the same transaction.
func (r *NewsPostgres) Create(ctx context.Context, n *model.NewsItem, rec *model.HistoryRecord) (*model.NewsItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO news (id, title, content, type, status, owner_id, rejection_reason, published_at, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + newsColumns
	row := tx.QueryRowContext(ctx, q,
		n.ID,
		n.Title,
		n.Content,
		n.Type,
		n.Status,
		n.OwnerID,
		n.RejectionReason,
		n.PublishedAt,
		n.Version,
		n.CreatedAt,
		n.UpdatedAt,
	)
	stored, err := scanNews(row)
	if err != nil {
		return nil, err
	}

	if rec != nil {
		if err := insertHistory(ctx, tx, documentTypeNews, rec); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return stored, nil
}

// FindByID fetches a single news item by its ID.
func (r *NewsPostgres) FindByID(ctx context.Context, id string) (*model.NewsItem, error) {
	const q = `SELECT ` + newsColumns + ` FROM news WHERE id = $1`
	return scanNews(r.db.QueryRowContext(ctx, q, id))
}

// Save updates the mutable fields under an optimistic version check and
// appends the history record in the same transaction.
func (r *NewsPostgres) Save(ctx context.Context, n *model.NewsItem, rec *model.HistoryRecord) (*model.NewsItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const q = `
		UPDATE news
		SET title = $1, content = $2, status = $3, rejection_reason = $4, published_at = $5, version = version + 1, updated_at = $6
		WHERE id = $7 AND version = $8
		RETURNING ` + newsColumns
	row := tx.QueryRowContext(ctx, q,
		n.Title,
		n.Content,
		n.Status,
		n.RejectionReason,
		n.PublishedAt,
		n.UpdatedAt,
		n.ID,
		n.Version,
	)
	stored, err := scanNews(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrConflict
		}
		return nil, err
	}

	if rec != nil {
		if err := insertHistory(ctx, tx, documentTypeNews, rec); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return stored, nil
}

// List returns news items matching the filter using LIMIT/OFFSET
// pagination and a total count.
func (r *NewsPostgres) List(ctx context.Context, f repository.NewsFilter, pq repository.PageQuery) (*repository.PageResult[model.NewsItem], error) {
	where := ` WHERE ((($1 = '' OR status = $1)
		AND ($2 = '' OR type = $2)
		AND ($3 = '' OR owner_id = $3))
		OR ($4 AND status = 'published'))`
	args := []any{string(f.Status), string(f.Type), f.OwnerID, f.OrPublished}

	qCount := `SELECT COUNT(*) FROM news` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + newsColumns + ` FROM news` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.NewsItem, 0)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.NewsItem]{Items: items, Total: total}, nil
}

// Delete removes a news item by ID. It does not return an error if the
// row does not exist.
func (r *NewsPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM news WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// History returns the news item's approval history, oldest first.
func (r *NewsPostgres) History(ctx context.Context, id string) ([]model.HistoryRecord, error) {
	return listHistory(ctx, r.db, documentTypeNews, id)
}
