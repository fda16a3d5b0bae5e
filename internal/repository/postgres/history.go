package postgres

import (
	"context"
	"database/sql"

	"courtflow/internal/model"
)

// Document type discriminators for the shared approval_history table.
const (
	documentTypeExpediente = "expediente"
	documentTypeNews       = "news"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertHistory appends one immutable history row. Callers pass their
// transaction so the append shares the document update's atomicity.
func insertHistory(ctx context.Context, ex execer, docType string, rec *model.HistoryRecord) error {
	const q = `
		INSERT INTO approval_history (id, document_type, document_id, action, actor_id, actor_role, from_status, to_status, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := ex.ExecContext(ctx, q,
		rec.ID,
		docType,
		rec.DocumentID,
		rec.Action,
		rec.ActorID,
		rec.ActorRole,
		rec.FromStatus,
		rec.ToStatus,
		rec.Comment,
		rec.CreatedAt,
	)
	return err
}

// listHistory returns one document's history rows, oldest first.
func listHistory(ctx context.Context, db *sql.DB, docType, documentID string) ([]model.HistoryRecord, error) {
	const q = `
		SELECT id, document_id, action, actor_id, actor_role, from_status, to_status, comment, created_at
		FROM approval_history
		WHERE document_type = $1 AND document_id = $2
		ORDER BY created_at ASC, id ASC
	`
	rows, err := db.QueryContext(ctx, q, docType, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.HistoryRecord, 0)
	for rows.Next() {
		var rec model.HistoryRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.DocumentID,
			&rec.Action,
			&rec.ActorID,
			&rec.ActorRole,
			&rec.FromStatus,
			&rec.ToStatus,
			&rec.Comment,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
