// Package oplog persists the append-only record log. Two backends share
// one wire format (RFC 8785 canonical JSON per record): a JSON-lines
// file for the default workspace layout, and a single-file SQLite
// database for logs that outgrow line scanning.
//
// The log layer knows nothing about graph semantics beyond the record
// vocabulary: it appends and reads back in total order. Materialization
// is graph.Replay's job.
package oplog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/warpz0ne/openclaw/internal/graph"
)

// ErrCorruptRecord marks log content that cannot be decoded. Reads fail
// atomically on the first corrupt record; nothing is skipped or repaired.
var ErrCorruptRecord = errors.New("oplog: corrupt record")

// Log is an ordered, append-only record store. Append persists exactly
// one record; ReadAll returns every record in append order. There is no
// partial read, no seek, and no rewrite.
type Log interface {
	Append(ctx context.Context, rec graph.Record) error
	ReadAll(ctx context.Context) ([]graph.Record, error)
	Close() error
}

// Open selects a backend by path extension: .db, .sqlite, and .sqlite3
// open a SQLite log, anything else a JSON-lines file log rooted at the
// path's directory.
func Open(path string) (Log, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		dir := filepath.Dir(path)
		return NewFileLog(osfs.New(dir), filepath.Base(path)), nil
	}
}
