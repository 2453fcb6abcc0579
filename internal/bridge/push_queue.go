package bridge

import "sync"

// pushQueue is an unbounded FIFO of push frames. The read loop never waits
// on it, so responses keep flowing while a push handler calls the host.
type pushQueue struct {
	mu     sync.Mutex
	frames []pushFrame
	ready  chan struct{}
}

func newPushQueue() *pushQueue {
	return &pushQueue{ready: make(chan struct{}, 1)}
}

func (q *pushQueue) put(f pushFrame) {
	q.mu.Lock()
	q.frames = append(q.frames, f)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// take removes and returns every queued frame in arrival order.
func (q *pushQueue) take() []pushFrame {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.frames
	q.frames = nil
	return out
}
