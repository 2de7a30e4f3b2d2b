package writer

import "sync"

// Queue is a thread-safe buffer between the poller and the history
// writer. It doubles its capacity when it reaches 70% full, so a slow
// database flush backs up memory instead of blocking refresh cycles.
type Queue[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []T
	head     int // read position
	tail     int // write position
	count    int
	capacity int
	closed   bool

	totalEnqueued int64
	totalDequeued int64
	resizes       int
}

// NewQueue creates a queue with the given initial capacity.
func NewQueue[T any](initialCapacity int) *Queue[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	q := &Queue[T]{
		buf:      make([]T, initialCapacity),
		capacity: initialCapacity,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue adds an item, growing the queue when it crosses the 70%
// threshold. Returns false if the queue is closed.
func (q *Queue[T]) Enqueue(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	threshold := (q.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if q.count+1 >= threshold {
		q.grow()
	}

	q.buf[q.tail] = item
	q.tail = (q.tail + 1) % q.capacity
	q.count++
	q.totalEnqueued++

	q.cond.Signal()
	return true
}

// TryDequeue removes an item without blocking. Returns the zero value and
// false when the queue is empty.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.takeLocked(), true
}

// Dequeue blocks until an item is available or the queue is closed.
// Returns false only when the queue is closed and drained.
func (q *Queue[T]) Dequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.takeLocked(), true
}

// Drain removes up to max items (all of them when max <= 0).
func (q *Queue[T]) Drain(max int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil
	}
	n := q.count
	if max > 0 && max < n {
		n = max
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = q.takeLocked()
	}
	return out
}

// Close closes the queue. Enqueue returns false afterwards; consumers
// drain the remaining items and then observe the closed signal.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the current capacity.
func (q *Queue[T]) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// Stats returns queue counters.
func (q *Queue[T]) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Count:         q.count,
		Capacity:      q.capacity,
		TotalEnqueued: q.totalEnqueued,
		TotalDequeued: q.totalDequeued,
		Resizes:       q.resizes,
	}
}

// QueueStats contains queue counters.
type QueueStats struct {
	Count         int
	Capacity      int
	TotalEnqueued int64
	TotalDequeued int64
	Resizes       int
}

// takeLocked removes the head item. Must be called with the lock held and
// count > 0.
func (q *Queue[T]) takeLocked() T {
	item := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // release reference for GC
	q.head = (q.head + 1) % q.capacity
	q.count--
	q.totalDequeued++
	return item
}

// grow doubles the capacity. Must be called with the lock held.
func (q *Queue[T]) grow() {
	newCapacity := q.capacity * 2
	newBuf := make([]T, newCapacity)

	if q.count > 0 {
		if q.head < q.tail {
			copy(newBuf, q.buf[q.head:q.tail])
		} else {
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.tail])
		}
	}

	q.buf = newBuf
	q.head = 0
	q.tail = q.count
	q.capacity = newCapacity
	q.resizes++
}
