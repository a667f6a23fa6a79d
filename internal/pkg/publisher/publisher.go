package publisher

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "time"

    "go.uber.org/zap"

    "postguard/internal/pkg/circuitbreaker"
    "postguard/internal/pkg/logger"
    "postguard/internal/pkg/metrics"
    "postguard/internal/pkg/models"
)

// Publisher delivers a resolved reply payload to the posting collaborator.
// Everything behind it (browser automation, platform APIs) is out of scope.
type Publisher interface {
    Publish(ctx context.Context, post models.OutboundPost) error
}

// Posts payloads as JSON to a webhook, with bounded retries behind a circuit
// breaker.
type webhookPublisher struct {
    url        string
    maxRetries int
    client     *http.Client
    breaker    *circuitbreaker.CircuitBreaker
}

// Creates a Publisher that delivers to the given webhook URL.
func NewWebhookPublisher(url string, maxRetries int) Publisher {
    if maxRetries < 0 {
        maxRetries = 0
    }
    return &webhookPublisher{
        url:        url,
        maxRetries: maxRetries,
        client:     &http.Client{Timeout: 10 * time.Second},
        breaker:    circuitbreaker.NewCircuitBreaker("webhook", 5, 30*time.Second),
    }
}

func (publisher *webhookPublisher) Publish(ctx context.Context, post models.OutboundPost) error {
    payload, err := json.Marshal(post)
    if err != nil {
        return fmt.Errorf("failed to marshal outbound post: %w", err)
    }

    start := time.Now()
    defer func() {
        metrics.PublishLatency.Observe(time.Since(start).Seconds())
    }()

    var lastErr error
    for attempt := 0; attempt <= publisher.maxRetries; attempt++ {
        if attempt > 0 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(time.Duration(attempt) * time.Second):
            }
            logger.Log.Info("Retrying publish",
                zap.Int("attempt", attempt),
                zap.String("fingerprint", post.Fingerprint))
        }

        lastErr = publisher.breaker.Execute(func() error {
            return publisher.send(ctx, payload)
        })
        if lastErr == nil {
            return nil
        }
    }
    return lastErr
}

func (publisher *webhookPublisher) send(ctx context.Context, payload []byte) error {
    request, err := http.NewRequestWithContext(ctx, http.MethodPost, publisher.url, bytes.NewReader(payload))
    if err != nil {
        return err
    }
    request.Header.Set("Content-Type", "application/json")

    response, err := publisher.client.Do(request)
    if err != nil {
        return err
    }
    defer response.Body.Close()

    if response.StatusCode < 200 || response.StatusCode >= 300 {
        return fmt.Errorf("webhook returned status %d", response.StatusCode)
    }
    return nil
}

// Logs outbound posts instead of delivering them. Used when no webhook URL is
// configured.
type logPublisher struct{}

func NewLogPublisher() Publisher {
    return logPublisher{}
}

func (logPublisher) Publish(ctx context.Context, post models.OutboundPost) error {
    logger.Log.Info("Publishing post (log only)",
        zap.String("question", post.Question),
        zap.String("fingerprint", post.Fingerprint),
        zap.String("media_url", post.MediaURL))
    return nil
}
