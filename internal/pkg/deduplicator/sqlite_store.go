package deduper

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    _ "modernc.org/sqlite" // pure-Go SQLite driver

    "postguard/internal/pkg/models"
)

// Implements Store on an embedded SQLite database. The PRIMARY KEY on
// fingerprint gives Insert its atomic insert-or-fail semantics.
type sqliteStore struct {
    db *sql.DB
}

const createPostsTable = `
CREATE TABLE IF NOT EXISTS posts (
    fingerprint     TEXT PRIMARY KEY,
    text            TEXT NOT NULL,
    media_signature TEXT,
    created_at      TIMESTAMP NOT NULL
);`

// Creates a Store backed by the SQLite database at path. The parent directory
// is created if needed; ":memory:" is accepted for tests.
func NewSQLiteStore(path string) (Store, error) {
    if path != ":memory:" && !strings.HasPrefix(path, "file:") {
        if dir := filepath.Dir(path); dir != "." {
            if err := os.MkdirAll(dir, 0755); err != nil {
                return nil, fmt.Errorf("failed to create store directory: %w", err)
            }
        }
    }

    db, err := sql.Open("sqlite", path)
    if err != nil {
        return nil, fmt.Errorf("failed to open post store: %w", err)
    }

    if path == ":memory:" {
        // Each pooled connection would otherwise get its own empty database.
        db.SetMaxOpenConns(1)
    }

    if err := db.Ping(); err != nil {
        db.Close()
        return nil, fmt.Errorf("failed to connect to post store: %w", err)
    }

    if _, err := db.Exec(createPostsTable); err != nil {
        db.Close()
        return nil, fmt.Errorf("failed to create posts table: %w", err)
    }

    return &sqliteStore{db: db}, nil
}

// Insert registers a new post record. INSERT OR IGNORE keeps the write atomic
// under the fingerprint primary key; zero affected rows means another record
// with the same fingerprint already won.
func (store *sqliteStore) Insert(ctx context.Context, record models.PostRecord) error {
    media := sql.NullString{String: record.MediaSignature, Valid: record.MediaSignature != ""}

    result, err := store.db.ExecContext(ctx,
        `INSERT OR IGNORE INTO posts (fingerprint, text, media_signature, created_at) VALUES (?, ?, ?, ?)`,
        record.Fingerprint, record.Text, media, record.CreatedAt)
    if err != nil {
        return err
    }

    affected, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrDuplicateFingerprint
    }
    return nil
}

func (store *sqliteStore) Exists(ctx context.Context, fingerprint string) (bool, error) {
    var one int
    err := store.db.QueryRowContext(ctx,
        `SELECT 1 FROM posts WHERE fingerprint = ?`, fingerprint).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

func (store *sqliteStore) Delete(ctx context.Context, fingerprint string) (bool, error) {
    result, err := store.db.ExecContext(ctx,
        `DELETE FROM posts WHERE fingerprint = ?`, fingerprint)
    if err != nil {
        return false, err
    }
    affected, err := result.RowsAffected()
    if err != nil {
        return false, err
    }
    return affected > 0, nil
}

func (store *sqliteStore) DeleteAll(ctx context.Context) error {
    _, err := store.db.ExecContext(ctx, `DELETE FROM posts`)
    return err
}

func (store *sqliteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
    result, err := store.db.ExecContext(ctx,
        `DELETE FROM posts WHERE created_at < ?`, cutoff)
    if err != nil {
        return 0, err
    }
    return result.RowsAffected()
}

func (store *sqliteStore) Close() error {
    return store.db.Close()
}
