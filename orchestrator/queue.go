package orchestrator

// Queue is a simple FIFO publisher. The host pushes into it during a frame and
// drains it once the frame's simulation work is done.
type Queue[T any] struct {
	items []T
}

// Push adds an item.
func (q *Queue[T]) Push(item T) {
	if q == nil {
		return
	}
	q.items = append(q.items, item)
}

// Publish makes Queue a Publisher.
func (q *Queue[T]) Publish(item T) {
	q.Push(item)
}

// Len reports how many items are waiting.
func (q *Queue[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all items and clears the queue.
func (q *Queue[T]) Drain() []T {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
