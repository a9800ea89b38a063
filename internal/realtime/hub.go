package realtime

import (
	"sync"
)

// subscriberBuffer is how many changes a slow subscriber may lag behind
// before the hub drops changes for it.
const subscriberBuffer = 16

// Hub fans changes out to in-process subscribers keyed by topic.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Change]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Change]struct{}),
	}
}

// Subscribe registers a buffered channel for topic and returns it with its
// cleanup function. Cleanup closes the channel.
func (h *Hub) Subscribe(topic string) (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Change, subscriberBuffer)

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Change]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers change to every subscriber of its topic. Slow subscribers
// whose buffer is full miss the change.
func (h *Hub) Publish(change Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[change.Topic()] {
		select {
		case ch <- change:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
