package administrator

import (
    "context"
    "fmt"
    "time"

    "github.com/robfig/cron/v3"
    "go.uber.org/zap"

    "postguard/internal/pkg/config"
    deduper "postguard/internal/pkg/deduplicator"
    "postguard/internal/pkg/logger"
    "postguard/internal/pkg/matcher"
    "postguard/internal/pkg/metrics"
    "postguard/internal/pkg/models"
    "postguard/internal/pkg/publisher"
    "postguard/internal/pkg/qa"
    "postguard/internal/pkg/queue"
    "postguard/internal/pkg/worker"
)

// Administrator interface
type Administrator interface {
    EnqueueQuestion(ctx context.Context, post models.QuestionPost) error
    FindAnswer(question string) models.Answer
    CheckDuplicate(text, mediaSignature string) (bool, string)
    RemovePost(fingerprint string) bool
    StartWorkers(ctx context.Context) error
    StartService(port string)
    Stop()
    QueueDepth() int
    WorkerCount() int
    StartTime() time.Time
}

// Implementation of the Administrator interface
type administrator struct {
    config     *config.Config
    queue      *queue.Queue
    qaSource   *qa.Source
    store      deduper.Store
    deduper    deduper.Deduper
    workerPool *worker.WorkerPool
    cron       *cron.Cron
    startTime  time.Time
    numWorkers int
}

// Creates a new instance of an Administrator with a config
func New(config *config.Config) (Administrator, error) {
    questionQueue, err := queue.CreateQueue(config.QueueCapacity)
    if err != nil {
        return nil, fmt.Errorf("failed to create queue: %w", err)
    }

    qaSource, err := qa.NewSource(config.QAFile)
    if err != nil {
        return nil, fmt.Errorf("failed to load QA store: %w", err)
    }

    store, err := newStore(config)
    if err != nil {
        return nil, fmt.Errorf("failed to create post store: %w", err)
    }

    dedup := deduper.New(store)

    var pub publisher.Publisher
    if config.WebhookURL != "" {
        pub = publisher.NewWebhookPublisher(config.WebhookURL, config.PublishMaxRetries)
    } else {
        logger.Log.Warn("No webhook URL configured, outbound posts will only be logged")
        pub = publisher.NewLogPublisher()
    }

    numWorkers := config.NumWorkers
    if numWorkers <= 0 {
        numWorkers = 1
    }

    pool := worker.NewWorkerPool(numWorkers, questionQueue, qaSource, dedup, pub)

    return &administrator{
        config:     config,
        queue:      questionQueue,
        qaSource:   qaSource,
        store:      store,
        deduper:    dedup,
        workerPool: pool,
        startTime:  time.Now(),
        numWorkers: numWorkers,
    }, nil
}

// Selects the post store backend from config.
func newStore(config *config.Config) (deduper.Store, error) {
    switch config.StoreBackend {
    case "redis":
        return deduper.NewRedisStore(config)
    case "", "sqlite":
        return deduper.NewSQLiteStore(config.SQLitePath)
    default:
        return nil, fmt.Errorf("unknown store backend %q", config.StoreBackend)
    }
}

func (admin *administrator) EnqueueQuestion(ctx context.Context, post models.QuestionPost) error {
    // This quickly returns so the ingesting caller can move on
    if post.ReceivedAt.IsZero() {
        post.ReceivedAt = time.Now().UTC()
    }
    return admin.queue.Insert(post)
}

// Runs the matcher against the current QA snapshot.
func (admin *administrator) FindAnswer(question string) models.Answer {
    return matcher.FindAnswer(admin.qaSource.Snapshot(), question)
}

// Reports whether the content is already registered, along with its fingerprint.
func (admin *administrator) CheckDuplicate(text, mediaSignature string) (bool, string) {
    fingerprint := deduper.Fingerprint(text, mediaSignature)
    return admin.deduper.IsDuplicate(text, mediaSignature), fingerprint
}

func (admin *administrator) RemovePost(fingerprint string) bool {
    return admin.deduper.Remove(fingerprint)
}

// Starts the worker pool, the QA file watcher, and the retention sweep.
func (admin *administrator) StartWorkers(ctx context.Context) error {
    if admin.config.QAWatch {
        if err := admin.qaSource.Watch(ctx); err != nil {
            return fmt.Errorf("failed to start QA watcher: %w", err)
        }
    }

    if admin.config.RetentionDays > 0 {
        admin.cron = cron.New()
        _, err := admin.cron.AddFunc(admin.config.CleanupSchedule, admin.runRetentionSweep)
        if err != nil {
            return fmt.Errorf("invalid cleanup schedule: %w", err)
        }
        admin.cron.Start()
        logger.Log.Info("Retention sweep scheduled",
            zap.String("schedule", admin.config.CleanupSchedule),
            zap.Int("retention_days", admin.config.RetentionDays))
    }

    admin.workerPool.Start(ctx)
    return nil
}

// Deletes post records older than the configured retention window.
func (admin *administrator) runRetentionSweep() {
    cutoff := time.Now().UTC().AddDate(0, 0, -admin.config.RetentionDays)

    ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
    defer cancel()

    purged, err := admin.store.DeleteOlderThan(ctx, cutoff)
    if err != nil {
        logger.Log.Error("Retention sweep failed", zap.Error(err))
        metrics.StorageErrors.Inc()
        return
    }
    metrics.RecordsPurged.Add(float64(purged))
    logger.Log.Info("Retention sweep complete",
        zap.Int64("purged", purged),
        zap.Time("cutoff", cutoff))
}

// StartService starts the HTTP service at the given port
func (admin *administrator) StartService(port string) {
    logger.Log.Info("Starting HTTP service", zap.String("port", port))
    startHTTP(admin, port)
}

// Stops the queue, worker pool, and store gracefully
func (admin *administrator) Stop() {
    logger.Log.Info("Beginning shutdown sequence")

    // Stop accepting new questions; workers drain what is already queued.
    admin.queue.Close()

    if admin.cron != nil {
        admin.cron.Stop()
    }

    logger.Log.Info("Waiting for worker pool to finish processing existing items")
    admin.workerPool.Wait()

    if err := admin.store.Close(); err != nil {
        logger.Log.Warn("Failed to close post store", zap.Error(err))
    }

    logger.Log.Info("Administrator stopped gracefully")
}

// Returns the current queue depth for health checks
func (admin *administrator) QueueDepth() int {
    return admin.queue.Length()
}

// Returns the number of workers for health checks
func (admin *administrator) WorkerCount() int {
    return admin.numWorkers
}

// Returns the service start time for health checks
func (admin *administrator) StartTime() time.Time {
    return admin.startTime
}
