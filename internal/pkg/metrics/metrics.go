package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Counts how many queued questions have been processed in total.
var QuestionsProcessed = promauto.NewCounter(prometheus.CounterOpts{
    Name: "postguard_questions_processed_total",
    Help: "Total number of queued questions processed",
})

// Counts how many outbound posts were blocked by the dedup gate.
var DuplicatesDetected = promauto.NewCounter(prometheus.CounterOpts{
    Name: "postguard_duplicates_detected_total",
    Help: "Total number of posts blocked because their fingerprint was already registered",
})

// Counts successfully published posts.
var PostsPublished = promauto.NewCounter(prometheus.CounterOpts{
    Name: "postguard_posts_published_total",
    Help: "Total number of posts delivered to the publisher",
})

// Counts publish attempts that failed after retries.
var PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
    Name: "postguard_publish_failures_total",
    Help: "Total number of posts that could not be delivered",
})

// Counts post-store operations that failed for reasons other than a
// uniqueness conflict.
var StorageErrors = promauto.NewCounter(prometheus.CounterOpts{
    Name: "postguard_storage_errors_total",
    Help: "Total number of post store operations that failed",
})

// Counts questions that resolved to the fixed no-answer fallback.
var FallbackAnswers = promauto.NewCounter(prometheus.CounterOpts{
    Name: "postguard_fallback_answers_total",
    Help: "Total number of questions with no stored answer",
})

// Counts reloads of the question/answer snapshot.
var QAReloads = promauto.NewCounter(prometheus.CounterOpts{
    Name: "postguard_qa_reloads_total",
    Help: "Total number of times the QA snapshot was reloaded from disk",
})

// Counts records removed by the retention sweep.
var RecordsPurged = promauto.NewCounter(prometheus.CounterOpts{
    Name: "postguard_records_purged_total",
    Help: "Total number of post records removed by the retention sweep",
})

// Matcher metrics
var (
    MatchStageHits = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "postguard_match_stage_hits_total",
            Help: "Answers resolved per matching stage",
        },
        []string{"stage"},
    )

    PublishLatency = promauto.NewHistogram(prometheus.HistogramOpts{
        Name:    "postguard_publish_latency_seconds",
        Help:    "Time taken to deliver an outbound post",
        Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
    })

    CircuitBreakerState = promauto.NewGaugeVec(
        prometheus.GaugeOpts{
            Name: "postguard_circuit_breaker_state",
            Help: "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
        },
        []string{"service"},
    )
)
