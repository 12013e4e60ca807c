package websocket

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"

	"github.com/honeyguard/honeygate/pkg/config"
	"github.com/honeyguard/honeygate/pkg/infra/stream"
)

type streamHandler struct {
	config *config.Config
	logger *logrus.Logger
	hub    *stream.Hub
}

func NewStreamHandler(
	config *config.Config,
	logger *logrus.Logger,
	hub *stream.Hub,
) Handler {
	return &streamHandler{
		config: config,
		logger: logger,
		hub:    hub,
	}
}

// Handle pushes recorded trap events to one admin subscriber until the
// connection drops. The feed is one-way; inbound frames only keep the
// connection alive.
func (h *streamHandler) Handle(c *websocket.Conn) {
	limiterInterface := c.Locals("stream_limiter")
	if limiterInterface != nil {
		if limiter, ok := limiterInterface.(*stream.Limiter); ok {
			defer limiter.Release()
		}
	}

	pongWait, err := time.ParseDuration(h.config.Stream.PongWait)
	if err != nil {
		pongWait = 45 * time.Second
	}

	pingPeriod, err := time.ParseDuration(h.config.Stream.PingPeriod)
	if err != nil {
		pingPeriod = 30 * time.Second
	}

	client := h.hub.Register()
	defer h.hub.Unregister(client)

	if err := c.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.WithError(err).Error("failed to set read deadline")
		return
	}

	c.SetPongHandler(func(string) error {
		h.logger.Debug("pong received, resetting read deadline")
		return c.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go h.writePump(c, client, pingPeriod, done)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *streamHandler) writePump(
	c *websocket.Conn,
	client *stream.Client,
	pingPeriod time.Duration,
	done <-chan struct{},
) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case frame, ok := <-client.Frames():
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.logger.WithError(err).Debug("failed to write stream frame")
				return
			}
		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				h.logger.WithError(err).Debug("failed to send ping")
				return
			}
		}
	}
}
