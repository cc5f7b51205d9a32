package oplog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"github.com/warpz0ne/openclaw/internal/graph"
)

// maxRecordBytes bounds a single log line. Property payloads are small
// JSON documents; anything near this size indicates corruption.
const maxRecordBytes = 4 * 1024 * 1024

// FileLog stores records as JSON lines on a billy filesystem. Every
// Append opens the file, writes one line, and closes it again — no
// handle outlives a mutation, which is what makes the single-writer
// contract survive process restarts and crashes mid-run.
type FileLog struct {
	fs   billy.Filesystem
	path string
}

// NewFileLog returns a file log at path. The file and its parent
// directories are created on first append; a missing file reads as an
// empty log.
func NewFileLog(fs billy.Filesystem, path string) *FileLog {
	return &FileLog{fs: fs, path: path}
}

// Append encodes the record and writes it as one line.
func (l *FileLog) Append(ctx context.Context, rec graph.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeRecord(rec)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." && dir != "/" {
		if err := l.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("append record: %w", err)
		}
	}

	f, err := l.fs.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append record: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// ReadAll scans the whole file in order. Blank lines are tolerated; a
// line that does not decode fails the read with its line number.
func (l *FileLog) ReadAll(ctx context.Context) ([]graph.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := l.fs.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []graph.Record{}, nil
		}
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer f.Close()

	records := make([]graph.Record, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxRecordBytes)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		rec, err := DecodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("read log: line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return records, nil
}

// Close is a no-op; FileLog holds no open handles between calls.
func (l *FileLog) Close() error { return nil }
