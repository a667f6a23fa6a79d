package deduper

import (
    "context"
    "errors"
    "time"

    "postguard/internal/pkg/models"
)

// Returned by Store.Insert when a record with the same fingerprint already
// exists. This is the expected signal for repeated content, not a failure.
var ErrDuplicateFingerprint = errors.New("fingerprint already registered")

// Store is the persistence layer beneath the Deduper. Insert must be an
// atomic insert-or-fail: the engine's own uniqueness enforcement on the
// fingerprint, not application-level locking, is what resolves concurrent
// writers racing on the same content.
type Store interface {
    Insert(ctx context.Context, record models.PostRecord) error
    Exists(ctx context.Context, fingerprint string) (bool, error)
    Delete(ctx context.Context, fingerprint string) (bool, error)
    DeleteAll(ctx context.Context) error
    DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
    Close() error
}
