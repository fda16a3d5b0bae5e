package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"courtflow/internal/model"
	"courtflow/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newsRows(n *model.NewsItem) *sqlmock.Rows {
	var publishedAt any
	if n.PublishedAt != nil {
		publishedAt = *n.PublishedAt
	}
	return sqlmock.NewRows([]string{
		"id", "title", "content", "type", "status", "owner_id",
		"rejection_reason", "published_at", "version", "created_at", "updated_at",
	}).AddRow(
		n.ID, n.Title, n.Content, string(n.Type), string(n.Status), n.OwnerID,
		n.RejectionReason, publishedAt, n.Version, n.CreatedAt, n.UpdatedAt,
	)
}

func testNews() *model.NewsItem {
	now := time.Now().UTC()
	return &model.NewsItem{
		ID:        "n-1",
		Title:     "Press notice",
		Content:   "body",
		Type:      model.NewsNotice,
		Status:    model.NewsDraft,
		OwnerID:   "u-tech",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNewsPostgres_Create(t *testing.T) {
	t.Run("draft without history", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewNewsPostgres(db)

		n := testNews()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO news").
			WithArgs(n.ID, n.Title, n.Content, string(n.Type), string(n.Status), n.OwnerID,
				n.RejectionReason, n.PublishedAt, n.Version, n.CreatedAt, n.UpdatedAt).
			WillReturnRows(newsRows(n))
		mock.ExpectCommit()

		result, err := repo.Create(context.Background(), n, nil)

		assert.NoError(t, err)
		assert.Equal(t, n.ID, result.ID)
		assert.Nil(t, result.PublishedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("court submission row and submit record commit together", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewNewsPostgres(db)

		n := testNews()
		n.Status = model.NewsPendingDirector
		n.OwnerID = "u-judge"

		rec := &model.HistoryRecord{
			ID:         "h-1",
			DocumentID: n.ID,
			Action:     model.ActionSubmit,
			ActorID:    "u-judge",
			ActorRole:  model.RoleJudge,
			FromStatus: string(model.NewsDraft),
			ToStatus:   string(model.NewsPendingDirector),
			CreatedAt:  time.Now().UTC(),
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO news").
			WithArgs(n.ID, n.Title, n.Content, string(n.Type), string(n.Status), n.OwnerID,
				n.RejectionReason, n.PublishedAt, n.Version, n.CreatedAt, n.UpdatedAt).
			WillReturnRows(newsRows(n))
		mock.ExpectExec("INSERT INTO approval_history").
			WithArgs(rec.ID, documentTypeNews, rec.DocumentID, string(rec.Action), rec.ActorID,
				string(rec.ActorRole), rec.FromStatus, rec.ToStatus, rec.Comment, rec.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := repo.Create(context.Background(), n, rec)

		assert.NoError(t, err)
		assert.Equal(t, model.NewsPendingDirector, result.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("history failure rolls the row back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewNewsPostgres(db)

		n := testNews()
		n.Status = model.NewsPendingDirector

		rec := &model.HistoryRecord{ID: "h-1", DocumentID: n.ID, Action: model.ActionSubmit}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO news").
			WillReturnRows(newsRows(n))
		mock.ExpectExec("INSERT INTO approval_history").
			WillReturnError(errors.New("history insert failed"))
		mock.ExpectRollback()

		result, err := repo.Create(context.Background(), n, rec)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNewsPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNewsPostgres(db)

	t.Run("found with publish timestamp", func(t *testing.T) {
		n := testNews()
		n.Status = model.NewsPublished
		published := time.Now().UTC()
		n.PublishedAt = &published

		mock.ExpectQuery("SELECT (.+) FROM news WHERE id = ?").
			WithArgs("n-1").
			WillReturnRows(newsRows(n))

		got, err := repo.FindByID(context.Background(), "n-1")

		assert.NoError(t, err)
		assert.NotNil(t, got.PublishedAt)
		assert.WithinDuration(t, published, *got.PublishedAt, time.Second)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM news WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(context.Background(), "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, got)
	})
}

func TestNewsPostgres_Save(t *testing.T) {
	t.Run("publish with history", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewNewsPostgres(db)

		n := testNews()
		n.Status = model.NewsPublished
		published := time.Now().UTC()
		n.PublishedAt = &published

		stored := *n
		stored.Version = 2

		rec := &model.HistoryRecord{
			ID:         "h-1",
			DocumentID: n.ID,
			Action:     model.ActionApprove,
			ActorID:    "u-dir",
			ActorRole:  model.RolePressDirector,
			FromStatus: string(model.NewsPendingDirector),
			ToStatus:   string(model.NewsPublished),
			CreatedAt:  time.Now().UTC(),
		}

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE news").
			WithArgs(n.Title, n.Content, string(n.Status), n.RejectionReason, n.PublishedAt,
				n.UpdatedAt, n.ID, n.Version).
			WillReturnRows(newsRows(&stored))
		mock.ExpectExec("INSERT INTO approval_history").
			WithArgs(rec.ID, documentTypeNews, rec.DocumentID, string(rec.Action), rec.ActorID,
				string(rec.ActorRole), rec.FromStatus, rec.ToStatus, rec.Comment, rec.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := repo.Save(context.Background(), n, rec)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), result.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version maps to ErrConflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewNewsPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE news").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		result, err := repo.Save(context.Background(), testNews(), nil)

		assert.ErrorIs(t, err, repository.ErrConflict)
		assert.Nil(t, result)
	})
}

func TestNewsPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewNewsPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM news").
		WithArgs(string(model.NewsPendingDirector), "", "", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT (.+) FROM news").
		WithArgs(string(model.NewsPendingDirector), "", "", false, 20, 0).
		WillReturnRows(newsRows(testNews()))

	res, err := repo.List(context.Background(), repository.NewsFilter{Status: model.NewsPendingDirector}, repository.PageQuery{Limit: 20, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
}
