// Package events provides an in-process broadcast bus for mutation
// notifications. Interested components subscribe and re-fetch on delivery;
// events carry no entity payload beyond identifiers, so consumers reload
// rather than diff.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Topic identifies the kind of entity a mutation touched.
type Topic string

const (
	TopicScheme     Topic = "scheme"
	TopicSchemeItem Topic = "scheme_item"
	TopicCatalog    Topic = "catalog"
	TopicMember     Topic = "member"
)

// Event describes a single committed mutation. Seq increases monotonically
// across all topics so consumers can discard out-of-order deliveries.
type Event struct {
	Seq      uint64
	Topic    Topic
	Action   string // created | updated | deleted | assigned | removed
	EntityID uuid.UUID
}

// Subscriber receives events. Implementations must not block; long work
// belongs on the subscriber's own goroutine.
type Subscriber interface {
	Notify(e Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(e Event)

func (f SubscriberFunc) Notify(e Event) { f(e) }

// Bus fans mutation events out to subscribers.
type Bus struct {
	mu   sync.RWMutex
	seq  uint64
	subs map[Topic][]Subscriber
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]Subscriber)}
}

// Subscribe registers sub for every topic in topics.
func (b *Bus) Subscribe(sub Subscriber, topics ...Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range topics {
		b.subs[t] = append(b.subs[t], sub)
	}
}

// Publish stamps the event with the next sequence token and delivers it
// synchronously to every subscriber of its topic.
func (b *Bus) Publish(topic Topic, action string, entityID uuid.UUID) uint64 {
	b.mu.Lock()
	b.seq++
	e := Event{Seq: b.seq, Topic: topic, Action: action, EntityID: entityID}
	subs := append([]Subscriber(nil), b.subs[topic]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.Notify(e)
	}
	return e.Seq
}

// Seq returns the last issued sequence token.
func (b *Bus) Seq() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.seq
}
