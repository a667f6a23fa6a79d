package queue

import (
	"errors"
	"sync"

	"postguard/internal/pkg/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrQueueClosed = errors.New("queue is closed")
)

// Bounded FIFO of questions waiting to be answered and published.
type Queue struct {
	mu       sync.Mutex
	capacity int
	closed   bool
	q        []models.QuestionPost
}

// Creates an empty queue with a specified capacity
func CreateQueue(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, errors.New("capacity should be greater than 0")
	}
	return &Queue{
		capacity: capacity,
		q:        make([]models.QuestionPost, 0, capacity),
	}, nil
}

// Inserts an item into the queue
func (q *Queue) Insert(item models.QuestionPost) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	if len(q.q) >= q.capacity {
		return ErrQueueFull
	}
	q.q = append(q.q, item)
	return nil
}

// Removes the oldest element from the queue. Once the queue is closed and
// drained, ErrQueueClosed tells consumers no more items will ever arrive.
func (q *Queue) Remove() (models.QuestionPost, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.q) == 0 {
		if q.closed {
			return models.QuestionPost{}, ErrQueueClosed
		}
		return models.QuestionPost{}, ErrQueueEmpty
	}
	item := q.q[0]
	q.q = q.q[1:]
	return item, nil
}

// Close stops the queue from accepting new items. Items already queued can
// still be removed so workers drain on shutdown.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// Returns the number of elements in the queue
func (q *Queue) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.q)
}

// Returns true if the queue is empty
func (q *Queue) IsEmpty() bool {
	return q.Length() == 0
}
