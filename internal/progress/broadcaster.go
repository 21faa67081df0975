// Package progress fans job progress updates out to live subscribers such
// as the websocket event stream.
package progress

import (
	"sync"

	"catalog-go/internal/catalog"
	"catalog-go/internal/metrics"
)

// DefaultBuffer is the per-subscriber queue length used by Subscribe.
const DefaultBuffer = 64

// Broadcaster implements catalog.ProgressNotifier. Notify never blocks: a
// subscriber whose queue is full misses the update, and Dropped counts it.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[int]chan catalog.ProgressUpdate
	nextID  int
	dropped uint64
	closed  bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan catalog.ProgressUpdate)}
}

// Subscribe registers a subscriber. The returned cancel function closes the
// channel and is safe to call more than once.
func (b *Broadcaster) Subscribe(buffer int) (<-chan catalog.ProgressUpdate, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan catalog.ProgressUpdate, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	metrics.EventSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broadcaster) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
		metrics.EventSubscribers.Dec()
	}
}

func (b *Broadcaster) Notify(update catalog.ProgressUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- update:
		default:
			b.dropped++
		}
	}
}

// Subscribers returns the number of live subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a queue was full.
func (b *Broadcaster) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close disconnects every subscriber. Later subscriptions get a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
		metrics.EventSubscribers.Dec()
	}
	b.closed = true
}

var _ catalog.ProgressNotifier = (*Broadcaster)(nil)
