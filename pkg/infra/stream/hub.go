package stream

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/domain/trapevent"
	"github.com/honeyguard/honeygate/pkg/infra/prometheus"
)

const clientBuffer = 16

// Client is one connected live feed subscriber.
type Client struct {
	send chan []byte
}

// Frames returns the subscriber's outbound frame channel. The channel is
// closed when the client is unregistered.
func (c *Client) Frames() <-chan []byte {
	return c.send
}

// Hub fans recorded events out to live feed subscribers. Slow subscribers
// lose frames instead of blocking the recorder.
type Hub struct {
	logger  *logrus.Logger
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register() *Client {
	client := &Client{send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	prometheus.StreamClients.Inc()
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	prometheus.StreamClients.Dec()
}

// Broadcast serializes the event once and offers the frame to every
// subscriber without blocking.
func (h *Hub) Broadcast(event *trapevent.TrapEvent) {
	frame, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("failed to marshal stream frame")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- frame:
		default:
			h.logger.Debug("stream client is slow, dropping frame")
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
