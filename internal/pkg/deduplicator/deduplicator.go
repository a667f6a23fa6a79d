package deduper

import (
    "context"
    "errors"
    "time"

    "go.uber.org/zap"

    "postguard/internal/pkg/logger"
    "postguard/internal/pkg/metrics"
    "postguard/internal/pkg/models"
)

// Deduper guarantees at most one successful registration per content
// fingerprint and provides a fast existence check.
type Deduper interface {
    // IsDuplicate reports whether the content's fingerprint is already
    // registered. A storage failure degrades to false so a dedup check never
    // blocks posting.
    IsDuplicate(text, mediaSignature string) bool

    // Add registers the content. The bool is true only when this call won the
    // insert; the fingerprint is returned either way so callers can log it.
    Add(text, mediaSignature string) (bool, string)

    // Remove deletes the record with that exact fingerprint. True only when a
    // record was actually deleted.
    Remove(fingerprint string) bool

    // Clear deletes all records. Maintenance only, not part of the posting path.
    Clear() bool
}

type deduper struct {
    store   Store
    timeout time.Duration
}

// Creates a Deduper on top of the given store.
func New(store Store) Deduper {
    return &deduper{
        store:   store,
        timeout: 2 * time.Second,
    }
}

func (deduper *deduper) IsDuplicate(text, mediaSignature string) bool {
    fingerprint := Fingerprint(text, mediaSignature)

    ctx, cancel := context.WithTimeout(context.Background(), deduper.timeout)
    defer cancel()

    exists, err := deduper.store.Exists(ctx, fingerprint)
    if err != nil {
        // If there's an error, assume not duplicate so we don't block posting.
        logger.Log.Error("Duplicate check failed",
            zap.String("fingerprint", fingerprint), zap.Error(err))
        metrics.StorageErrors.Inc()
        return false
    }
    return exists
}

func (deduper *deduper) Add(text, mediaSignature string) (bool, string) {
    fingerprint := Fingerprint(text, mediaSignature)
    record := models.PostRecord{
        Fingerprint:    fingerprint,
        Text:           text,
        MediaSignature: mediaSignature,
        CreatedAt:      time.Now().UTC(),
    }

    ctx, cancel := context.WithTimeout(context.Background(), deduper.timeout)
    defer cancel()

    err := deduper.store.Insert(ctx, record)
    switch {
    case err == nil:
        return true, fingerprint
    case errors.Is(err, ErrDuplicateFingerprint):
        // Expected outcome for repeated content, not an error.
        return false, fingerprint
    default:
        // Fail closed: never report success when the write did not durably happen.
        logger.Log.Error("Failed to register post",
            zap.String("fingerprint", fingerprint), zap.Error(err))
        metrics.StorageErrors.Inc()
        return false, fingerprint
    }
}

func (deduper *deduper) Remove(fingerprint string) bool {
    ctx, cancel := context.WithTimeout(context.Background(), deduper.timeout)
    defer cancel()

    deleted, err := deduper.store.Delete(ctx, fingerprint)
    if err != nil {
        logger.Log.Error("Failed to remove post record",
            zap.String("fingerprint", fingerprint), zap.Error(err))
        metrics.StorageErrors.Inc()
        return false
    }
    return deleted
}

func (deduper *deduper) Clear() bool {
    ctx, cancel := context.WithTimeout(context.Background(), deduper.timeout)
    defer cancel()

    if err := deduper.store.DeleteAll(ctx); err != nil {
        logger.Log.Error("Failed to clear post records", zap.Error(err))
        metrics.StorageErrors.Inc()
        return false
    }
    return true
}
