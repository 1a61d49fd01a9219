package store

import (
	"database/sql"
	"fmt"
)

// schema is applied on every Open. Statements must stay idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		request_id    TEXT    NOT NULL DEFAULT '',
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON llm_request_events (purpose)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_timestamp ON llm_request_events (timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_request_events_request ON llm_request_events (request_id)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
	`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}
