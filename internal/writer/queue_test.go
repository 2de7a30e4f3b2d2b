package writer

import (
	"sync"
	"testing"
)

func TestQueueEnqueueDequeue(t *testing.T) {
	q := NewQueue[int](10)

	for i := 0; i < 5; i++ {
		if !q.Enqueue(i) {
			t.Fatalf("Enqueue(%d) returned false", i)
		}
	}
	if got := q.Len(); got != 5 {
		t.Errorf("Len = %d, want 5", got)
	}

	for i := 0; i < 5; i++ {
		v, ok := q.TryDequeue()
		if !ok || v != i {
			t.Fatalf("TryDequeue = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	if _, ok := q.TryDequeue(); ok {
		t.Error("TryDequeue on empty queue should return false")
	}
}

func TestQueueGrows(t *testing.T) {
	q := NewQueue[int](4)

	for i := 0; i < 100; i++ {
		if !q.Enqueue(i) {
			t.Fatalf("Enqueue(%d) failed", i)
		}
	}

	stats := q.Stats()
	if stats.Resizes == 0 {
		t.Error("queue never resized")
	}
	if stats.Count != 100 {
		t.Errorf("Count = %d, want 100", stats.Count)
	}

	// FIFO order must survive resizes.
	for i := 0; i < 100; i++ {
		v, ok := q.TryDequeue()
		if !ok || v != i {
			t.Fatalf("item %d = (%d, %v)", i, v, ok)
		}
	}
}

func TestQueueGrowPreservesWrappedOrder(t *testing.T) {
	q := NewQueue[int](8)

	// Wrap the ring: push, pop a few, push more.
	for i := 0; i < 4; i++ {
		q.Enqueue(i)
	}
	q.TryDequeue() // 0
	q.TryDequeue() // 1
	for i := 4; i < 20; i++ {
		q.Enqueue(i)
	}

	want := 2
	for {
		v, ok := q.TryDequeue()
		if !ok {
			break
		}
		if v != want {
			t.Fatalf("got %d, want %d", v, want)
		}
		want++
	}
	if want != 20 {
		t.Errorf("drained up to %d, want 20", want)
	}
}

func TestQueueClose(t *testing.T) {
	q := NewQueue[string](4)
	q.Enqueue("a")
	q.Close()

	if q.Enqueue("b") {
		t.Error("Enqueue after Close should return false")
	}

	// Remaining items drain before the closed signal.
	v, ok := q.Dequeue()
	if !ok || v != "a" {
		t.Errorf("Dequeue = (%q, %v)", v, ok)
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue on closed empty queue should return false")
	}
}

func TestQueueCloseWakesBlockedConsumer(t *testing.T) {
	q := NewQueue[int](4)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, ok := q.Dequeue(); ok {
			t.Error("blocked Dequeue should observe close, not an item")
		}
	}()

	q.Close()
	<-done
}

func TestQueueDrain(t *testing.T) {
	q := NewQueue[int](8)
	for i := 0; i < 6; i++ {
		q.Enqueue(i)
	}

	batch := q.Drain(4)
	if len(batch) != 4 {
		t.Fatalf("Drain(4) returned %d items", len(batch))
	}
	for i, v := range batch {
		if v != i {
			t.Errorf("batch[%d] = %d", i, v)
		}
	}

	rest := q.Drain(0)
	if len(rest) != 2 || rest[0] != 4 || rest[1] != 5 {
		t.Errorf("Drain(0) = %v", rest)
	}
	if q.Drain(0) != nil {
		t.Error("Drain on empty queue should return nil")
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue[int](16)

	const producers = 8
	const perProducer = 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(i)
			}
		}()
	}
	wg.Wait()

	if got := q.Len(); got != producers*perProducer {
		t.Errorf("Len = %d, want %d", got, producers*perProducer)
	}
}
