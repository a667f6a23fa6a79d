package administrator

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"postguard/internal/pkg/logger"
	"postguard/internal/pkg/matcher"
	"postguard/internal/pkg/models"
	"postguard/internal/pkg/queue"
)

func init() {
	logger.Log = zap.NewNop()
}

// dummyAdmin implements the Administrator interface minimally so we can
// verify the HTTP surface without a real store or worker pool.
type dummyAdmin struct {
	enqueued   chan models.QuestionPost
	queueFull  bool
	answers    map[string]models.Answer
	duplicates map[string]bool
	removed    map[string]bool
}

func newDummyAdmin() *dummyAdmin {
	return &dummyAdmin{
		enqueued:   make(chan models.QuestionPost, 1),
		answers:    map[string]models.Answer{},
		duplicates: map[string]bool{},
		removed:    map[string]bool{},
	}
}

func (da *dummyAdmin) EnqueueQuestion(ctx context.Context, post models.QuestionPost) error {
	if da.queueFull {
		return queue.ErrQueueFull
	}
	da.enqueued <- post
	return nil
}

func (da *dummyAdmin) FindAnswer(question string) models.Answer {
	if answer, ok := da.answers[question]; ok {
		return answer
	}
	return models.Answer{Text: matcher.NoAnswerText}
}

func (da *dummyAdmin) CheckDuplicate(text, mediaSignature string) (bool, string) {
	return da.duplicates[text], "fingerprint-for-" + text
}

func (da *dummyAdmin) RemovePost(fingerprint string) bool {
	return da.removed[fingerprint]
}

func (da *dummyAdmin) StartWorkers(ctx context.Context) error { return nil }
func (da *dummyAdmin) StartService(port string)               {}
func (da *dummyAdmin) Stop()                                  {}
func (da *dummyAdmin) QueueDepth() int                        { return 0 }
func (da *dummyAdmin) WorkerCount() int                       { return 2 }
func (da *dummyAdmin) StartTime() time.Time                   { return time.Now() }

func TestPostsEndpoint(t *testing.T) {
	da := newDummyAdmin()
	server := httptest.NewServer(newMux(da))
	defer server.Close()

	payload, _ := json.Marshal(models.QuestionPost{Question: "質問1", Source: "test"})
	response, err := http.Post(server.URL+"/posts", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to send POST request: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", response.StatusCode)
	}

	select {
	case post := <-da.enqueued:
		if post.Question != "質問1" || post.Source != "test" {
			t.Errorf("Enqueued post mismatch: %+v", post)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for enqueued question")
	}
}

func TestPostsEndpointRejectsBadInput(t *testing.T) {
	da := newDummyAdmin()
	server := httptest.NewServer(newMux(da))
	defer server.Close()

	// Missing question.
	response, err := http.Post(server.URL+"/posts", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("Failed to send POST request: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty question, got %d", response.StatusCode)
	}

	// Malformed JSON.
	response, err = http.Post(server.URL+"/posts", "application/json", bytes.NewReader([]byte(`{`)))
	if err != nil {
		t.Fatalf("Failed to send POST request: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for malformed JSON, got %d", response.StatusCode)
	}
}

func TestPostsEndpointQueueFull(t *testing.T) {
	da := newDummyAdmin()
	da.queueFull = true
	server := httptest.NewServer(newMux(da))
	defer server.Close()

	payload, _ := json.Marshal(models.QuestionPost{Question: "質問1"})
	response, err := http.Post(server.URL+"/posts", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to send POST request: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", response.StatusCode)
	}
}

func TestAnswerEndpoint(t *testing.T) {
	da := newDummyAdmin()
	da.answers["質問1"] = models.Answer{Text: "回答1", MediaURL: "https://example.com/a.png"}
	server := httptest.NewServer(newMux(da))
	defer server.Close()

	response, err := http.Get(server.URL + "/answer?q=質問1")
	if err != nil {
		t.Fatalf("Failed to send GET request: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", response.StatusCode)
	}

	var answer models.Answer
	if err := json.NewDecoder(response.Body).Decode(&answer); err != nil {
		t.Fatalf("Failed to decode answer: %v", err)
	}
	if answer.Text != "回答1" || answer.MediaURL != "https://example.com/a.png" {
		t.Errorf("Answer mismatch: %+v", answer)
	}
}

func TestDedupCheckEndpoint(t *testing.T) {
	da := newDummyAdmin()
	da.duplicates["seen before"] = true
	server := httptest.NewServer(newMux(da))
	defer server.Close()

	payload := []byte(`{"text": "seen before", "media_signature": ""}`)
	response, err := http.Post(server.URL+"/dedup/check", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to send POST request: %v", err)
	}
	defer response.Body.Close()

	var result struct {
		Duplicate   bool   `json:"duplicate"`
		Fingerprint string `json:"fingerprint"`
	}
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if !result.Duplicate {
		t.Error("Expected duplicate to be true")
	}
	if result.Fingerprint == "" {
		t.Error("Expected a fingerprint in the response")
	}
}

func TestRemoveEndpoint(t *testing.T) {
	da := newDummyAdmin()
	da.removed["abc123"] = true
	server := httptest.NewServer(newMux(da))
	defer server.Close()

	request, _ := http.NewRequest(http.MethodDelete, server.URL+"/posts/abc123", nil)
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("Failed to send DELETE request: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", response.StatusCode)
	}

	request, _ = http.NewRequest(http.MethodDelete, server.URL+"/posts/missing", nil)
	response, err = http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("Failed to send DELETE request: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown fingerprint, got %d", response.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	da := newDummyAdmin()
	server := httptest.NewServer(newMux(da))
	defer server.Close()

	response, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("Failed to send GET request: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", response.StatusCode)
	}

	var health struct {
		Status  string `json:"status"`
		Workers int    `json:"workers"`
	}
	if err := json.NewDecoder(response.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if health.Status != "OK" {
		t.Errorf("Expected status OK, got %q", health.Status)
	}
	if health.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", health.Workers)
	}
}
