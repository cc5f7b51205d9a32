package oplog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warpz0ne/openclaw/internal/graph"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - empty database (pre-migration)
// 1 - records table
const currentSchemaVersion = 1

// SQLiteLog stores records in a single-file SQLite database. Unlike the
// file backend it keeps one connection open for its lifetime; SQLite's
// own journal makes each INSERT atomic, which is all the append contract
// needs.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite-backed log at path. Idempotent:
// pragmas and schema migrations are applied on every open.
//
// The database is configured with:
//   - WAL mode, so readers are not blocked by an in-flight append
//   - synchronous=NORMAL
//   - a 5-second busy timeout for lock contention
func OpenSQLite(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open log database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to log database: %w", err)
	}

	// SQLite allows one writer at a time; a single pooled connection
	// avoids SQLITE_BUSY surprises.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteLog{db: db}, nil
}

// Append encodes the record and inserts one row.
func (l *SQLiteLog) Append(ctx context.Context, rec graph.Record) error {
	data, err := EncodeRecord(rec)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO records (op, payload) VALUES (?, ?)`,
		rec.Op(), string(data),
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// ReadAll returns every record ordered by seq.
func (l *SQLiteLog) ReadAll(ctx context.Context) ([]graph.Record, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT seq, payload FROM records ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer rows.Close()

	records := make([]graph.Record, 0)
	for rows.Next() {
		var (
			seq     int64
			payload string
		)
		if err := rows.Scan(&seq, &payload); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		rec, err := DecodeRecord([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("read log: seq %d: %w", seq, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (l *SQLiteLog) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates the table if needed and runs migrations. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("log database is schema version %d, this build supports %d", version, currentSchemaVersion)
	}
	// No incremental migrations yet; version 0 databases get the full
	// schema from schema.sql above.
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
