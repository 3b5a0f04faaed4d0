// Package livefeed pushes lead activity to connected admin dashboards
// over WebSocket so the pipeline view updates without polling.
package livefeed

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/apexdigital/leadgen-platform/internal/leads"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Event is a single feed entry pushed to dashboards.
type Event struct {
	Type      string      `json:"type"` // "lead.created", "lead.updated", "ping"
	Lead      *leads.Lead `json:"lead,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Hub fans events out to every connected dashboard. Connections that
// fail a send are dropped; a dashboard reconnects and resyncs via the
// regular list endpoint.
type Hub struct {
	logger *logging.Logger

	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// LeadCreated broadcasts a freshly captured lead.
func (h *Hub) LeadCreated(lead *leads.Lead) {
	h.broadcast(Event{Type: "lead.created", Lead: lead, Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

// LeadUpdated broadcasts a lead status change.
func (h *Hub) LeadUpdated(lead *leads.Lead) {
	h.broadcast(Event{Type: "lead.updated", Lead: lead, Timestamp: time.Now().UTC().Format(time.RFC3339)})
}

func (h *Hub) broadcast(evt Event) {
	h.mu.RLock()
	targets := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		if err := websocket.JSON.Send(conn, evt); err != nil {
			h.logger.Debug("livefeed: dropping stale connection", "error", err)
			h.remove(conn)
		}
	}
}

// ConnectionCount reports the number of attached dashboards.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// ServeHTTP upgrades to WebSocket and keeps the connection in the hub
// until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn)
	}).ServeHTTP(w, r)
}

func (h *Hub) serveWS(conn *websocket.Conn) {
	h.add(conn)
	defer h.remove(conn)

	h.logger.Info("livefeed: dashboard connected", "connections", h.ConnectionCount())

	// The feed is one-way; inbound frames are only pings and the
	// eventual close.
	for {
		var msg Event
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("livefeed: connection closed", "error", err)
			return
		}
		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, Event{Type: "pong", Timestamp: time.Now().UTC().Format(time.RFC3339)})
		}
	}
}
