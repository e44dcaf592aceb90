package monitoring

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Server broadcasts monitor events to WebSocket dashboard clients and
// serves snapshot queries over plain HTTP.
type Server struct {
	mu      sync.RWMutex
	monitor *Monitor
	clients map[*client]bool

	upgrader websocket.Upgrader
}

// client is one connected dashboard.
type client struct {
	conn     *websocket.Conn
	sendChan chan []byte
}

// NewServer creates a broadcast server fed by the monitor's event stream.
func NewServer(monitor *Monitor) *Server {
	s := &Server{
		monitor: monitor,
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	monitor.OnEvent(s.Broadcast)
	return s
}

// Handler returns the HTTP routes: /ws for the live stream, /runs and
// /stats for snapshots.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/alerts", s.handleAlerts)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	c := &client{
		conn:     conn,
		sendChan: make(chan []byte, 64),
	}
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	go s.writePump(c)
	s.readPump(c)
}

// readPump drains the connection until the client goes away; incoming
// payloads are ignored, the stream is one-way.
func (s *Server) readPump(c *client) {
	defer s.dropClient(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	for msg := range c.sendChan {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (s *Server) dropClient(c *client) {
	s.mu.Lock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.sendChan)
	}
	s.mu.Unlock()
	c.conn.Close()
}

// Broadcast sends one event to every connected client. Slow clients that
// cannot keep up are disconnected rather than blocking the run.
func (s *Server) Broadcast(ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("marshal event: %v", err)
		return
	}

	s.mu.RLock()
	var stalled []*client
	for c := range s.clients {
		select {
		case c.sendChan <- msg:
		default:
			stalled = append(stalled, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range stalled {
		s.dropClient(c)
	}
}

// ClientCount returns the number of connected dashboard clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.monitor.Runs())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.monitor.Stats())
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.monitor.Alerts())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
