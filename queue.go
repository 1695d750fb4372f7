package readterm

import "sync"

// queueItem is one item produced by a session's background goroutines.
type queueItem interface {
	queueItem()
}

// rawOutput carries a chunk of bytes read from the session.
type rawOutput struct {
	data []byte
}

// sessionEnded marks the end of the session. It is always the last item
// pushed to a queue.
type sessionEnded struct{}

func (rawOutput) queueItem()    {}
func (sessionEnded) queueItem() {}

// outputQueue is an unbounded multi-producer FIFO. Producers never
// block; the consumer drains everything available in one call.
type outputQueue struct {
	mu    sync.Mutex
	items []queueItem
}

func (q *outputQueue) push(item queueItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// drain removes and returns every queued item, oldest first. It returns
// nil when the queue is empty.
func (q *outputQueue) drain() []queueItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}
