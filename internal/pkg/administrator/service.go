package administrator

import (
    "encoding/json"
    "net/http"
    "strings"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"
    "go.uber.org/zap"

    "postguard/internal/pkg/logger"
    "postguard/internal/pkg/models"
    "postguard/internal/pkg/queue"
)

// Builds the HTTP surface: question ingestion, direct answer lookup, dedup
// checks, record removal, health, and metrics.
func newMux(admin Administrator) *http.ServeMux {
    mux := http.NewServeMux()

    mux.HandleFunc("/posts", func(writer http.ResponseWriter, request *http.Request) {
        if request.Method != http.MethodPost {
            http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
            return
        }

        var post models.QuestionPost
        if err := json.NewDecoder(request.Body).Decode(&post); err != nil {
            http.Error(writer, "invalid JSON payload", http.StatusBadRequest)
            logger.Log.Warn("Failed to decode incoming question", zap.Error(err))
            return
        }
        if strings.TrimSpace(post.Question) == "" {
            http.Error(writer, "question is required", http.StatusBadRequest)
            return
        }

        if err := admin.EnqueueQuestion(request.Context(), post); err != nil {
            if err == queue.ErrQueueFull {
                http.Error(writer, "queue is full, try again later", http.StatusServiceUnavailable)
                return
            }
            http.Error(writer, "failed to enqueue question", http.StatusInternalServerError)
            logger.Log.Error("Failed to enqueue question", zap.Error(err))
            return
        }
        writer.WriteHeader(http.StatusAccepted)
        writer.Write([]byte("Accepted"))
    })

    // DELETE /posts/{fingerprint}
    mux.HandleFunc("/posts/", func(writer http.ResponseWriter, request *http.Request) {
        if request.Method != http.MethodDelete {
            http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
            return
        }
        fingerprint := strings.TrimPrefix(request.URL.Path, "/posts/")
        if fingerprint == "" {
            http.Error(writer, "fingerprint is required", http.StatusBadRequest)
            return
        }
        if !admin.RemovePost(fingerprint) {
            http.Error(writer, "no such record", http.StatusNotFound)
            return
        }
        writer.WriteHeader(http.StatusNoContent)
    })

    mux.HandleFunc("/answer", func(writer http.ResponseWriter, request *http.Request) {
        if request.Method != http.MethodGet {
            http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
            return
        }
        question := request.URL.Query().Get("q")
        if question == "" {
            http.Error(writer, "query parameter q is required", http.StatusBadRequest)
            return
        }

        writer.Header().Set("Content-Type", "application/json")
        json.NewEncoder(writer).Encode(admin.FindAnswer(question))
    })

    mux.HandleFunc("/dedup/check", func(writer http.ResponseWriter, request *http.Request) {
        if request.Method != http.MethodPost {
            http.Error(writer, "Method Not Allowed", http.StatusMethodNotAllowed)
            return
        }

        var payload struct {
            Text           string `json:"text"`
            MediaSignature string `json:"media_signature"`
        }
        if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
            http.Error(writer, "invalid JSON payload", http.StatusBadRequest)
            return
        }

        duplicate, fingerprint := admin.CheckDuplicate(payload.Text, payload.MediaSignature)
        writer.Header().Set("Content-Type", "application/json")
        json.NewEncoder(writer).Encode(struct {
            Duplicate   bool   `json:"duplicate"`
            Fingerprint string `json:"fingerprint"`
        }{duplicate, fingerprint})
    })

    // /metrics endpoint for Prometheus
    mux.Handle("/metrics", promhttp.Handler())

    // /health endpoint
    mux.HandleFunc("/health", func(writer http.ResponseWriter, request *http.Request) {
        health := struct {
            Status     string    `json:"status"`
            QueueDepth int       `json:"queue_depth"`
            Workers    int       `json:"workers"`
            Uptime     string    `json:"uptime"`
            StartTime  time.Time `json:"start_time"`
        }{
            Status:     "OK",
            QueueDepth: admin.QueueDepth(),
            Workers:    admin.WorkerCount(),
            Uptime:     time.Since(admin.StartTime()).String(),
            StartTime:  admin.StartTime(),
        }

        writer.Header().Set("Content-Type", "application/json")
        json.NewEncoder(writer).Encode(health)
    })

    return mux
}

// Starts the HTTP service at the given port.
func startHTTP(admin Administrator, port string) {
    logger.Log.Info("HTTP service listening", zap.String("address", ":"+port))

    if err := http.ListenAndServe(":"+port, newMux(admin)); err != nil {
        logger.Log.Fatal("Failed to start HTTP service", zap.Error(err))
    }
}
