package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	channelPrefix    = "staffdesk:events:user:"
	broadcastChannel = "staffdesk:events:all"
	presencePrefix   = "staffdesk:presence:"

	// presenceTTL bounds how long a registration outlives its connection.
	presenceTTL = 5 * time.Minute
)

// Hub owns the realtime connections of this process. Only Connect creates
// connections; every other code path reads or subscribes. Connection
// failures are logged, never surfaced to the portal UI.
type Hub struct {
	rdb *redis.Client

	mu        sync.Mutex
	conns     map[string]*Conn
	observers []*Conn
	closed    bool
}

// NewHub creates a hub backed by the given redis client.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rdb:   rdb,
		conns: make(map[string]*Conn),
	}
}

// Connect opens (or returns) the connection for an identity. It is
// idempotent: a live connection is returned unchanged, no second one is
// opened. Registration is re-issued on every call so a reconnect behaves
// exactly like an initial connection.
func (h *Hub) Connect(ctx context.Context, identityID string) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	if conn, ok := h.conns[identityID]; ok {
		if err := h.register(ctx, identityID); err != nil {
			log.Warn().Err(err).Str("identity_id", identityID).Msg("realtime re-register failed")
		}

		return conn, nil
	}

	pubsub := h.rdb.Subscribe(ctx, channelPrefix+identityID, broadcastChannel)

	conn := &Conn{
		hub:        h,
		identityID: identityID,
		pubsub:     pubsub,
		subs:       make(map[EventType]map[int]func(Event)),
	}

	if err := h.register(ctx, identityID); err != nil {
		log.Warn().Err(err).Str("identity_id", identityID).Msg("realtime register failed")
	}

	h.conns[identityID] = conn

	go conn.loop()

	return conn, nil
}

// Observe opens a broadcast-only connection. Observers see every event
// published to all identities but register no presence; the identity
// refresh bridge watches permission changes this way.
func (h *Hub) Observe(ctx context.Context) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	pubsub := h.rdb.Subscribe(ctx, broadcastChannel)

	conn := &Conn{
		hub:    h,
		pubsub: pubsub,
		subs:   make(map[EventType]map[int]func(Event)),
	}

	h.observers = append(h.observers, conn)

	go conn.loop()

	return conn, nil
}

// register announces the identity to the event bus so pushes can be routed
// to it. Repeating it refreshes the presence TTL.
func (h *Hub) register(ctx context.Context, identityID string) error {
	return h.rdb.Set(ctx, presencePrefix+identityID, "1", presenceTTL).Err()
}

// Registered reports whether an identity currently has a live registration.
func (h *Hub) Registered(ctx context.Context, identityID string) (bool, error) {
	n, err := h.rdb.Exists(ctx, presencePrefix+identityID).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Publish delivers one event to each named recipient.
func (h *Hub) Publish(ctx context.Context, recipientIDs []string, ev Event) error {
	data, err := ev.Encode()
	if err != nil {
		return err
	}

	for _, id := range recipientIDs {
		if err := h.rdb.Publish(ctx, channelPrefix+id, data).Err(); err != nil {
			return err
		}
	}

	publishedCounter.WithLabelValues(string(ev.Type)).Inc()

	return nil
}

// Broadcast delivers one event to every connected identity.
func (h *Hub) Broadcast(ctx context.Context, ev Event) error {
	data, err := ev.Encode()
	if err != nil {
		return err
	}

	if err := h.rdb.Publish(ctx, broadcastChannel, data).Err(); err != nil {
		return err
	}

	publishedCounter.WithLabelValues(string(ev.Type)).Inc()

	return nil
}

// Close shuts down every connection and refuses further connects.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))

	for _, c := range h.conns {
		conns = append(conns, c)
	}

	conns = append(conns, h.observers...)
	h.observers = nil
	h.closed = true
	h.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}

// drop removes a closed connection from the hub registry.
func (h *Hub) drop(identityID string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[identityID] == conn {
		delete(h.conns, identityID)
	}
}

// Conn is the realtime connection of one identity.
type Conn struct {
	hub        *Hub
	identityID string
	pubsub     *redis.PubSub

	mu        sync.Mutex
	subs      map[EventType]map[int]func(Event)
	nextSubID int
	closed    bool
}

// IdentityID returns the identity the connection is registered for.
func (c *Conn) IdentityID() string {
	return c.identityID
}

// Subscribe registers a handler for one event type and returns its
// revocation func. Components unsubscribe on teardown so a re-render never
// handles the same push twice.
func (c *Conn) Subscribe(t EventType, fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subs[t] == nil {
		c.subs[t] = make(map[int]func(Event))
	}

	id := c.nextSubID
	c.nextSubID++
	c.subs[t][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.subs[t], id)
	}
}

// Close tears the connection down and deregisters it from the hub.
func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.closed = true
	c.mu.Unlock()

	if err := c.pubsub.Close(); err != nil {
		log.Debug().Err(err).Str("identity_id", c.identityID).Msg("realtime pubsub close failed")
	}

	c.hub.drop(c.identityID, c)
}

// loop dispatches incoming events to subscribers in transport order. The
// single goroutine per connection is what guarantees in-order delivery.
func (c *Conn) loop() {
	for msg := range c.pubsub.Channel() {
		ev, err := DecodeEvent([]byte(msg.Payload))
		if err != nil {
			log.Warn().Err(err).Str("identity_id", c.identityID).Msg("dropping undecodable realtime event")

			continue
		}

		c.dispatch(ev)
	}
}

// dispatch fans one event out to the matching subscribers.
func (c *Conn) dispatch(ev Event) {
	c.mu.Lock()
	handlers := make([]func(Event), 0, len(c.subs[ev.Type]))

	for _, fn := range c.subs[ev.Type] {
		handlers = append(handlers, fn)
	}
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}

	deliveredCounter.WithLabelValues(string(ev.Type)).Inc()
}
