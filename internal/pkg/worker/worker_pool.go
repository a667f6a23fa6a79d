package worker

import (
    "context"
    "sync"
    "time"

    "go.uber.org/zap"

    deduper "postguard/internal/pkg/deduplicator"
    "postguard/internal/pkg/logger"
    "postguard/internal/pkg/matcher"
    "postguard/internal/pkg/metrics"
    "postguard/internal/pkg/models"
    "postguard/internal/pkg/publisher"
    "postguard/internal/pkg/qa"
    "postguard/internal/pkg/queue"
)

// Manages a pool of workers that drain the question queue: each question is
// resolved to an answer, gated through the deduper, and handed to the
// publisher.
type WorkerPool struct {
    numWorkers int
    queue      *queue.Queue
    qaSource   *qa.Source
    deduper    deduper.Deduper
    publisher  publisher.Publisher
    wg         sync.WaitGroup
}

// Creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int, queue *queue.Queue, qaSource *qa.Source, deduper deduper.Deduper, publisher publisher.Publisher) *WorkerPool {
    return &WorkerPool{
        numWorkers: numWorkers,
        queue:      queue,
        qaSource:   qaSource,
        deduper:    deduper,
        publisher:  publisher,
    }
}

// Launches the worker goroutines
func (wp *WorkerPool) Start(ctx context.Context) {
    logger.Log.Info("Starting worker pool", zap.Int("workers", wp.numWorkers))

    for i := 0; i < wp.numWorkers; i++ {
        wp.wg.Add(1)
        go wp.runWorker(ctx, i)
    }
}

// Blocks until all workers have finished
func (wp *WorkerPool) Wait() {
    wp.wg.Wait()
}

// The main loop for each worker goroutine
func (wp *WorkerPool) runWorker(ctx context.Context, id int) {
    defer wp.wg.Done()

    logger.Log.Info("Worker started", zap.Int("worker_id", id))

    for {
        post, err := wp.queue.Remove()
        if err == queue.ErrQueueClosed {
            // Queue closed and drained, nothing more will ever arrive.
            logger.Log.Info("Worker drained queue", zap.Int("worker_id", id))
            return
        }
        if err != nil {
            // If queue is empty, wait a bit before trying again
            select {
            case <-ctx.Done():
                logger.Log.Info("Worker received stop signal", zap.Int("worker_id", id))
                return
            case <-time.After(200 * time.Millisecond):
            }
            continue
        }
        wp.handle(ctx, id, post)
    }
}

// Resolves one queued question and publishes the result unless the dedup gate
// blocks it.
func (wp *WorkerPool) handle(ctx context.Context, id int, post models.QuestionPost) {
    metrics.QuestionsProcessed.Inc()

    answer := matcher.FindAnswer(wp.qaSource.Snapshot(), post.Question)
    if answer.Text == matcher.NoAnswerText {
        // Nothing prepared for this question; posting the fixed apology to
        // the feed would be noise, so skip it.
        metrics.FallbackAnswers.Inc()
        logger.Log.Info("No stored answer for question",
            zap.Int("worker_id", id),
            zap.String("question", post.Question))
        return
    }

    registered, fingerprint := wp.deduper.Add(answer.Text, answer.MediaURL)
    if !registered {
        metrics.DuplicatesDetected.Inc()
        logger.Log.Info("Skipping already-published content",
            zap.Int("worker_id", id),
            zap.String("fingerprint", fingerprint))
        return
    }

    outbound := models.OutboundPost{
        Question:    post.Question,
        Text:        answer.Text,
        MediaURL:    answer.MediaURL,
        Fingerprint: fingerprint,
    }

    if err := wp.publisher.Publish(ctx, outbound); err != nil {
        metrics.PublishFailures.Inc()
        logger.Log.Error("Publish failed",
            zap.Int("worker_id", id),
            zap.String("fingerprint", fingerprint),
            zap.Error(err))

        // Release the reservation so a later attempt can publish this content.
        if !wp.deduper.Remove(fingerprint) {
            logger.Log.Warn("Failed to release fingerprint after publish error",
                zap.String("fingerprint", fingerprint))
        }
        return
    }

    metrics.PostsPublished.Inc()
    logger.Log.Debug("Post published",
        zap.Int("worker_id", id),
        zap.String("fingerprint", fingerprint))
}
