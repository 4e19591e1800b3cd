// Package events is the payload-less notification bus views use to learn
// that persisted state changed. Subscribers re-read the store themselves.
package events

import "sync"

type Topic string

const (
	CartChanged Topic = "cartUpdated"
	AuthChanged Topic = "authUpdated"
)

type subscriber struct {
	id uint64
	fn func(Topic)
}

// Bus delivers synchronously, in registration order.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Topic][]subscriber
}

func NewBus() *Bus { return &Bus{subs: map[Topic][]subscriber{}} }

// Subscribe registers fn for topic and returns a func that removes it.
func (b *Bus) Subscribe(topic Topic, fn func(Topic)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[topic]
			for i, s := range list {
				if s.id == id {
					b.subs[topic] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish calls every subscriber of topic before returning. The subscriber
// list is snapshotted first, so handlers may subscribe or unsubscribe.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	snapshot := append([]subscriber(nil), b.subs[topic]...)
	b.mu.Unlock()
	for _, s := range snapshot {
		s.fn(topic)
	}
}

// Hub hands out one Bus per origin.
type Hub struct {
	mu    sync.Mutex
	buses map[string]*Bus
}

func NewHub() *Hub { return &Hub{buses: map[string]*Bus{}} }

func (h *Hub) Bus(origin string) *Bus {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.buses[origin]
	if !ok {
		b = NewBus()
		h.buses[origin] = b
	}
	return b
}

// Drop forgets the bus of origin; existing holders keep working.
func (h *Hub) Drop(origin string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.buses, origin)
}
