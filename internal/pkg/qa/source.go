package qa

import (
    "context"
    "path/filepath"
    "sync/atomic"

    "github.com/fsnotify/fsnotify"
    "go.uber.org/zap"

    "postguard/internal/pkg/logger"
    "postguard/internal/pkg/metrics"
)

// Source holds the live QA snapshot and swaps it atomically on reload, so
// matches in progress keep reading a consistent map.
type Source struct {
    path    string
    current atomic.Value // Store
}

// Creates a Source from the file at path. The initial load must succeed.
func NewSource(path string) (*Source, error) {
    store, err := Load(path)
    if err != nil {
        return nil, err
    }

    source := &Source{path: path}
    source.current.Store(store)

    logger.Log.Info("Loaded QA store",
        zap.String("file", path),
        zap.Int("entries", len(store)))
    return source, nil
}

// Snapshot returns the current QA mapping.
func (source *Source) Snapshot() Store {
    return source.current.Load().(Store)
}

// Reload re-reads the backing file and swaps in the new snapshot. On failure
// the previous snapshot stays in place.
func (source *Source) Reload() error {
    store, err := Load(source.path)
    if err != nil {
        return err
    }
    source.current.Store(store)
    metrics.QAReloads.Inc()
    return nil
}

// Watch reloads the snapshot whenever the backing file changes. The watcher
// runs until the context is cancelled. We watch the parent directory because
// most editors and config tools replace the file rather than write in place.
func (source *Source) Watch(ctx context.Context) error {
    watcher, err := fsnotify.NewWatcher()
    if err != nil {
        return err
    }
    if err := watcher.Add(filepath.Dir(source.path)); err != nil {
        watcher.Close()
        return err
    }

    go source.watchLoop(ctx, watcher)
    return nil
}

func (source *Source) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
    defer watcher.Close()

    for {
        select {
        case <-ctx.Done():
            return
        case event, ok := <-watcher.Events:
            if !ok {
                return
            }
            if filepath.Clean(event.Name) != filepath.Clean(source.path) {
                continue
            }
            if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
                continue
            }
            if err := source.Reload(); err != nil {
                logger.Log.Warn("QA reload failed, keeping previous snapshot",
                    zap.String("file", source.path), zap.Error(err))
                continue
            }
            logger.Log.Info("QA store reloaded",
                zap.String("file", source.path),
                zap.Int("entries", len(source.Snapshot())))
        case err, ok := <-watcher.Errors:
            if !ok {
                return
            }
            logger.Log.Warn("QA file watcher error", zap.Error(err))
        }
    }
}
