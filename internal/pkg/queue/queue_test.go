package queue

import (
	"testing"

	"postguard/internal/pkg/models"
)

// Tests creating a queue with a given capacity.
func TestCreateQueue(t *testing.T) {
	q, err := CreateQueue(3)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if q.capacity != 3 {
		t.Errorf("Expected queue capacity to be 3, got %d", q.capacity)
	}

	q, err = CreateQueue(0)
	if err == nil {
		t.Errorf("Expected error, got nil")
	}
	if q != nil {
		t.Errorf("Expected queue to be nil, got %v", q)
	}

	q, err = CreateQueue(-1)
	if err == nil {
		t.Errorf("Expected error, got nil")
	}
	if q != nil {
		t.Errorf("Expected queue to be nil, got %v", q)
	}
}

// Tests inserting elements into the queue.
func TestInsert(t *testing.T) {
	q, err := CreateQueue(2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := q.Insert(models.QuestionPost{Question: "a"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := q.Insert(models.QuestionPost{Question: "b"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if q.Length() != 2 {
		t.Errorf("Expected queue length to be 2, got %d", q.Length())
	}

	if err := q.Insert(models.QuestionPost{Question: "c"}); err != ErrQueueFull {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
	if q.Length() != 2 {
		t.Errorf("Queue should be full, expected length 2, got %d", q.Length())
	}
}

// Tests removing elements from the queue in FIFO order.
func TestRemove(t *testing.T) {
	q, err := CreateQueue(3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, question := range []string{"a", "b", "c"} {
		if err := q.Insert(models.QuestionPost{Question: question}); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
	}

	for _, expected := range []string{"a", "b", "c"} {
		item, err := q.Remove()
		if err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
		if item.Question != expected {
			t.Errorf("Expected removed question to be %q, got %q", expected, item.Question)
		}
	}

	if _, err := q.Remove(); err != ErrQueueEmpty {
		t.Errorf("Expected ErrQueueEmpty, got %v", err)
	}
}

// A closed queue rejects inserts but still drains; once drained it reports
// ErrQueueClosed instead of ErrQueueEmpty so consumers know to stop.
func TestClose(t *testing.T) {
	q, err := CreateQueue(3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := q.Insert(models.QuestionPost{Question: "a"}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := q.Insert(models.QuestionPost{Question: "b"}); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	q.Close()

	if err := q.Insert(models.QuestionPost{Question: "c"}); err != ErrQueueClosed {
		t.Errorf("Expected ErrQueueClosed, got %v", err)
	}

	for _, expected := range []string{"a", "b"} {
		item, err := q.Remove()
		if err != nil {
			t.Errorf("Expected drain after close to succeed, got %v", err)
		}
		if item.Question != expected {
			t.Errorf("Expected queued item %q to survive close, got %q", expected, item.Question)
		}
	}

	if _, err := q.Remove(); err != ErrQueueClosed {
		t.Errorf("Expected ErrQueueClosed after draining a closed queue, got %v", err)
	}
}

// An open queue keeps reporting ErrQueueEmpty, never ErrQueueClosed.
func TestRemoveEmptyOpenQueue(t *testing.T) {
	q, err := CreateQueue(1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := q.Remove(); err != ErrQueueEmpty {
		t.Errorf("Expected ErrQueueEmpty, got %v", err)
	}
}

// Tests checking if the queue is empty.
func TestIsEmpty(t *testing.T) {
	q, err := CreateQueue(3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !q.IsEmpty() {
		t.Errorf("Expected queue to be empty")
	}
	q.Insert(models.QuestionPost{Question: "a"})
	if q.IsEmpty() {
		t.Errorf("Expected queue to not be empty")
	}
	q.Remove()
	if !q.IsEmpty() {
		t.Errorf("Expected queue to be empty again")
	}
}
