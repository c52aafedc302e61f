package dispatch

//go:generate go run go.uber.org/mock/mockgen -source=./relay.go -destination=./mocks/relay_mock.go -package=mocks

import (
	"sync"
	"tms/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Publisher is the write side of the relay, the only part the booking
// service sees.
type Publisher interface {
	Publish(event Event)
}

// Relay fans assignment offers out to the live connections of each guide.
// Delivery is best effort: events for guides with no open channel are
// dropped, and nothing is replayed to channels opened later.
type Relay interface {
	Publisher
	Open(guideID string) *Channel
	Close(channel *Channel)
	Shutdown()
}

// Channel is one live connection's subscription. The transport reads Events
// until it is closed; the relay owns the channel and is the only closer.
type Channel struct {
	id      string
	guideID string
	events  chan Event
}

func (c *Channel) GuideID() string {
	return c.guideID
}

func (c *Channel) Events() <-chan Event {
	return c.events
}

type relayImpl struct {
	mu       sync.RWMutex
	registry map[string]map[string]*Channel
	buffer   int
	closed   bool
}

func New(cfg *config.Config) Relay {
	return &relayImpl{
		registry: map[string]map[string]*Channel{},
		buffer:   cfg.Dispatch.ChannelBuffer,
	}
}

// Open registers a new channel for the guide. Multiple channels per guide
// are expected (one per device). After Shutdown the returned channel is
// already closed, so transports drain immediately instead of hanging.
func (r *relayImpl) Open(guideID string) *Channel {
	channel := &Channel{
		id:      uuid.NewString(),
		guideID: guideID,
		events:  make(chan Event, r.buffer),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		close(channel.events)

		return channel
	}

	set, ok := r.registry[guideID]
	if !ok {
		set = map[string]*Channel{}
		r.registry[guideID] = set
	}

	set[channel.id] = channel

	return channel
}

// Close deregisters and closes the channel. Closing an already closed or
// pruned channel is a no-op.
func (r *relayImpl) Close(channel *Channel) {
	if channel == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.remove(channel)
}

// Publish delivers the event to every open channel of the target guide, in
// registration-independent but per-channel FIFO order. A channel whose
// buffer is full cannot keep up and is pruned rather than blocking the
// publisher. No channel for the guide means the event is dropped.
//
// Delivery runs under the read lock so publishes to unrelated guides never
// serialize; the write lock is taken only when a stale channel needs pruning.
// Channels are closed exclusively under the write lock, so a send under the
// read lock can never hit a closed channel.
func (r *relayImpl) Publish(event Event) {
	r.mu.RLock()

	if r.closed {
		r.mu.RUnlock()

		return
	}

	var stale []*Channel

	for _, channel := range r.registry[event.GuideID] {
		select {
		case channel.events <- event:
		default:
			stale = append(stale, channel)
		}
	}

	r.mu.RUnlock()

	if len(stale) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, channel := range stale {
		log.Warn().
			Str("guide_id", channel.guideID).
			Str("channel_id", channel.id).
			Msg("dispatch channel buffer full, pruning")

		r.remove(channel)
	}
}

// Shutdown closes every registered channel and makes the relay inert.
func (r *relayImpl) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true

	for _, set := range r.registry {
		for _, channel := range set {
			close(channel.events)
		}
	}

	r.registry = map[string]map[string]*Channel{}
}

// remove must be called with the write lock held. The registry presence
// check is what makes Close idempotent and prune/Close safe together.
func (r *relayImpl) remove(channel *Channel) {
	set, ok := r.registry[channel.guideID]
	if !ok {
		return
	}

	if _, ok := set[channel.id]; !ok {
		return
	}

	delete(set, channel.id)

	if len(set) == 0 {
		delete(r.registry, channel.guideID)
	}

	close(channel.events)
}
