// Package server coordinates client registration, pump lifecycles and
// connection cleanup for the chat relay via the Hub type.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/lanchat/internal/chat"
	"github.com/Tyrowin/lanchat/internal/config"
)

// Hub wires accepted WebSocket connections into the chat router and owns the
// goroutines that serve them. One Hub is created per process.
type Hub struct {
	router   *chat.Router
	cfg      config.Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

// NewHub creates a hub with its own chat router.
func NewHub(cfg config.Config, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.Sanitize()

	policy := newOriginPolicy(cfg.AllowedOrigins, logger)
	return &Hub{
		router: chat.NewRouter(chat.WithLogger(logger)),
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     policy.checkOrigin,
		},
		logger: logger,
	}
}

// Router returns the chat router driven by this hub.
func (h *Hub) Router() *chat.Router {
	return h.router
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	return h.router.Count()
}

// Serve registers conn with the router and starts its pumps. It returns nil
// and closes conn when the hub is shutting down.
func (h *Hub) Serve(conn *websocket.Conn, addr string) *Client {
	client := newClient(conn, h, addr)

	h.mu.Lock()
	if h.closing {
		h.mu.Unlock()
		h.logger.Info("rejecting connection during shutdown", "addr", addr)
		if err := conn.Close(); err != nil && !isExpectedCloseError(err) {
			h.logger.Debug("closing rejected connection", "error", err)
		}
		return nil
	}
	client.id = h.router.Connect(client)
	h.wg.Add(2)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()

	return client
}

// Shutdown closes every open connection and waits for their pumps to finish,
// or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.mu.Lock()
	h.closing = true
	h.mu.Unlock()

	closed := h.router.Shutdown()
	h.logger.Info("closing client connections", "count", closed)

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.Info("hub shutdown completed")
		return nil
	case <-time.After(timeout):
		h.logger.Warn("hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
