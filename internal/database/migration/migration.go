package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_sequence_case_number",
		SQL:  `CREATE SEQUENCE IF NOT EXISTS case_number_seq START 1;`,
	},
	{
		Name: "create_table_expedientes",
		SQL: `CREATE TABLE IF NOT EXISTS expedientes (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  case_number      TEXT        NOT NULL UNIQUE,
  title            TEXT        NOT NULL,
  description      TEXT        NOT NULL DEFAULT '',
  status           TEXT        NOT NULL,
  current_level    TEXT        NOT NULL DEFAULT '',
  department_id    TEXT        NOT NULL,
  owner_id         TEXT        NOT NULL,
  rejection_reason TEXT        NOT NULL DEFAULT '',
  version          BIGINT      NOT NULL DEFAULT 1 CHECK (version >= 1),
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_expedientes_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_expedientes_status ON expedientes (status);`,
	},
	{
		Name: "create_index_expedientes_department",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_expedientes_department ON expedientes (department_id);`,
	},
	{
		Name: "create_index_expedientes_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_expedientes_owner ON expedientes (owner_id);`,
	},
	{
		Name: "create_table_news",
		SQL: `CREATE TABLE IF NOT EXISTS news (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title            TEXT        NOT NULL,
  content          TEXT        NOT NULL,
  type             TEXT        NOT NULL,
  status           TEXT        NOT NULL,
  owner_id         TEXT        NOT NULL,
  rejection_reason TEXT        NOT NULL DEFAULT '',
  published_at     TIMESTAMPTZ,
  version          BIGINT      NOT NULL DEFAULT 1 CHECK (version >= 1),
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_news_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_news_status ON news (status);`,
	},
	{
		Name: "create_index_news_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_news_owner ON news (owner_id);`,
	},
	{
		Name: "create_table_approval_history",
		SQL: `CREATE TABLE IF NOT EXISTS approval_history (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_type TEXT        NOT NULL,
  document_id   UUID        NOT NULL,
  action        TEXT        NOT NULL,
  actor_id      TEXT        NOT NULL,
  actor_role    TEXT        NOT NULL,
  from_status   TEXT        NOT NULL,
  to_status     TEXT        NOT NULL,
  comment       TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_approval_history_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_approval_history_document ON approval_history (document_type, document_id, created_at);`,
	},
	{
		Name: "create_table_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS attachments (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  expediente_id UUID       NOT NULL REFERENCES expedientes (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  uploaded_by  TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_attachments_expediente",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attachments_expediente ON attachments (expediente_id);`,
	},
}

// EnsureMigrated checks if the 'expedientes' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.expedientes') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
