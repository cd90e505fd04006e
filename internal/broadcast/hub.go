// Package broadcast streams world snapshots to remote viewers over websocket.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/simulation"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Envelope is what a viewer receives for every frame.
type Envelope struct {
	Type        string               `json:"type"`
	Fingerprint string               `json:"fingerprint"`
	Snapshot    *simulation.Snapshot `json:"snapshot"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to every connected viewer. A viewer that cannot keep
// up loses frames; Publish never waits for the network.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	logger  golog.Logger
	closed  bool
}

func NewHub(logger golog.Logger) *Hub {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// Publish encodes snap once and queues it for every viewer.
func (h *Hub) Publish(snap *simulation.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || len(h.clients) == 0 {
		return
	}
	payload, err := json.Marshal(Envelope{
		Type:        "snapshot",
		Fingerprint: fmt.Sprintf("%016x", snap.Fingerprint()),
		Snapshot:    snap,
	})
	if err != nil {
		h.logger.Errorf("failed to encode snapshot: %v", err)
		return
	}
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// viewer busy, skip frame
		}
	}
}

// Clients is the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and keeps the viewer registered until it
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Infof("viewer %s connected", conn.RemoteAddr())

	go h.writeLoop(c)

	// viewers only listen; reading is how we notice they left
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
	h.logger.Infof("viewer %s disconnected", conn.RemoteAddr())
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
		time.Now().Add(writeWait))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// ListenAndServe serves the hub on addr under /ws until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	h.logger.Infof("snapshot feed listening on ws://%s/ws", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("snapshot feed: %w", err)
	case <-ctx.Done():
	}
	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("snapshot feed shutdown: %w", err)
	}
	return nil
}
