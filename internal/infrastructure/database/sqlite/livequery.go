package sqlite

import "sync"

// liveQuery tracks subscribers that must re-read the table after a write.
// Each subscriber owns a one-slot signal channel, so bursts of writes
// collapse into a single pending re-read.
type liveQuery struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

func newLiveQuery() *liveQuery {
	return &liveQuery{subs: make(map[int]chan struct{})}
}

func (q *liveQuery) subscribe() (int, <-chan struct{}) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	ch := make(chan struct{}, 1)
	q.subs[q.nextID] = ch
	return q.nextID, ch
}

func (q *liveQuery) unsubscribe(id int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.subs, id)
}

// invalidate marks every subscriber dirty without blocking.
func (q *liveQuery) invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, ch := range q.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (q *liveQuery) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.subs)
}
