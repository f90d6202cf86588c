package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/repository"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/store"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

// Envelope is the frame every observer receives. Observers compare timestamps
// to discard stale generations after reconnects.
type Envelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

func newEnvelope(kind string, data interface{}) Envelope {
	return Envelope{
		Type:      kind,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Gate admits or denies one inbound frame under a connection key.
type Gate interface {
	Allow(key string) bool
}

// Hub owns the observer set. All membership changes and fan-outs go through
// its channels, so no mutex guards the client map.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	clients map[*Client]struct{}
	store   *store.Store
	gate    Gate
	metrics repository.Metrics
	log     *logger.Logger
}

// NewHub creates a hub over the given store snapshot source and push gate.
func NewHub(st *store.Store, gate Gate, metrics repository.Metrics, log *logger.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		store:      st,
		gate:       gate,
		metrics:    metrics,
		log:        log,
	}
}

// Run processes membership and fan-out until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.remove(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.metrics.SetConnectedObservers(len(h.clients))
			h.log.Info("observer connected", logger.String("client", c.id))

			// Only the new observer gets the snapshot.
			c.enqueue(newEnvelope(repository.KindInitialData, h.store.Snapshot()))

		case c := <-h.unregister:
			h.remove(c)

		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// Slow observer: drop the connection, not the cycle.
					h.remove(c)
				}
			}
		}
	}
}

// Broadcast implements repository.Broadcaster. It never blocks the caller
// beyond the buffered channel; an overrun frame is dropped with a log line.
func (h *Hub) Broadcast(kind string, payload interface{}) {
	frame, err := json.Marshal(newEnvelope(kind, payload))
	if err != nil {
		h.metrics.RecordError("broadcast_marshal")
		h.log.Error("broadcast marshal failed", logger.String("kind", kind), logger.Error(err))
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		h.metrics.RecordError("broadcast_overrun")
		h.log.Warn("broadcast channel full, frame dropped", logger.String("kind", kind))
	}
}

// remove is idempotent: a client already gone is a no-op, so the unregister
// path and the slow-observer path cannot double-close.
func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.metrics.SetConnectedObservers(len(h.clients))
	h.log.Info("observer disconnected", logger.String("client", c.id))
}
