// Package ledger records every successful store in a local SQLite database
// so blob ids and their content digests survive across runs.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"walctl/internal/models"
)

const (
	busyTimeoutMS   = 5000
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute

	defaultListLimit = 50
)

// ErrNotRecorded is returned by Find when a blob id has no ledger entry.
var ErrNotRecorded = errors.New("blob is not recorded in the ledger")

// Ledger wraps the SQLite database.
type Ledger struct {
	db *sql.DB
}

// Open opens the SQLite database and bootstraps the schema.
func Open(path string) (*Ledger, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := configureDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record upserts one stored blob. Storing the same content twice yields the
// same blob id, so the latest epochs/note win.
func (l *Ledger) Record(ctx context.Context, rec models.BlobRecord) error {
	if strings.TrimSpace(rec.BlobID) == "" {
		return fmt.Errorf("blob id is required")
	}
	if rec.StoredAt.IsZero() {
		rec.StoredAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `
INSERT INTO blobs (blob_id, size_bytes, digest, epochs, content_type, note, stored_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(blob_id) DO UPDATE SET
  size_bytes = excluded.size_bytes,
  digest = excluded.digest,
  epochs = excluded.epochs,
  content_type = excluded.content_type,
  note = excluded.note,
  stored_at = excluded.stored_at`,
		rec.BlobID, rec.SizeBytes, rec.Digest, rec.Epochs, rec.ContentType, rec.Note,
		rec.StoredAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record blob: %w", err)
	}
	return nil
}

// Find returns the ledger entry for a blob id.
func (l *Ledger) Find(ctx context.Context, blobID string) (models.BlobRecord, error) {
	var zero models.BlobRecord
	row := l.db.QueryRowContext(ctx, `
SELECT blob_id, size_bytes, digest, epochs, content_type, note, stored_at
FROM blobs WHERE blob_id = ?`, blobID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ErrNotRecorded
	}
	if err != nil {
		return zero, err
	}
	return rec, nil
}

// List returns the most recent ledger entries, newest first.
func (l *Ledger) List(ctx context.Context, limit int) ([]models.BlobRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := l.db.QueryContext(ctx, `
SELECT blob_id, size_bytes, digest, epochs, content_type, note, stored_at
FROM blobs ORDER BY stored_at DESC, blob_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.BlobRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.BlobRecord, error) {
	var rec models.BlobRecord
	var contentType, note sql.NullString
	var storedAt string
	err := row.Scan(&rec.BlobID, &rec.SizeBytes, &rec.Digest, &rec.Epochs, &contentType, &note, &storedAt)
	if err != nil {
		return rec, err
	}
	rec.ContentType = contentType.String
	rec.Note = note.String
	if t, parseErr := time.Parse(time.RFC3339, storedAt); parseErr == nil {
		rec.StoredAt = t
	}
	return rec, nil
}

func configureDB(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Tune connection pool for local usage.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("ledger path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}
