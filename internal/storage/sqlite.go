package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStorage keeps the catalog and the conversation log in a SQLite file.
// List columns are stored as comma-joined TEXT.
type SQLiteStorage struct {
	*sqlStorage
}

// NewSQLiteStorage opens path, which may be ":memory:".
func NewSQLiteStorage(path string, logger *zap.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	store, err := newSQLStorage(db, sqliteDialect, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStorage{sqlStorage: store}, nil
}

// upgradeSQLiteConversations adds the session and creation-time columns to a
// conversations table created without them, then indexes it by session.
// Older databases keep their "timestamp" column; its values seed created_at.
func upgradeSQLiteConversations(db *sql.DB) error {
	columns, err := tableColumns(db, "conversations")
	if err != nil {
		return err
	}

	if !columns["session_id"] {
		if _, err := db.Exec(`ALTER TABLE conversations ADD COLUMN session_id TEXT NOT NULL DEFAULT ''`); err != nil {
			return fmt.Errorf("error adding session_id column: %w", err)
		}
	}

	if !columns["created_at"] {
		if _, err := db.Exec(`ALTER TABLE conversations ADD COLUMN created_at TIMESTAMP`); err != nil {
			return fmt.Errorf("error adding created_at column: %w", err)
		}

		backfill := `UPDATE conversations SET created_at = CURRENT_TIMESTAMP WHERE created_at IS NULL`
		if columns["timestamp"] {
			backfill = `UPDATE conversations SET created_at = COALESCE(timestamp, CURRENT_TIMESTAMP) WHERE created_at IS NULL`
		}
		if _, err := db.Exec(backfill); err != nil {
			return fmt.Errorf("error backfilling created_at: %w", err)
		}
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations(session_id, id)`); err != nil {
		return fmt.Errorf("error creating session index: %w", err)
	}

	return nil
}

func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("error reading %s columns: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning %s columns: %w", table, err)
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
