package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Server wires the HTTP surface: websocket session stream, drawing
// side channel, auth endpoints, and static files.
type Server struct {
	hub   *Hub
	auth  AuthStore
	draws DrawingStore

	staticDir string
}

func NewServer(hub *Hub, auth AuthStore, draws DrawingStore, staticDir string) *Server {
	return &Server{hub: hub, auth: auth, draws: draws, staticDir: staticDir}
}

// Start registers routes and serves. Blocks until the listener fails.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/draw", SaveDrawingHandler(s.draws))
	mux.HandleFunc("/drawings", DrawingsHandler(s.draws))
	mux.HandleFunc("/login", LoginHandler(s.auth))
	mux.HandleFunc("/register", RegisterHandler(s.auth))
	mux.HandleFunc("/account", AccountInfoHandler(s.auth))

	log.Printf("Server starting on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// wsConn adapts a gorilla connection to the hub's Conn. Writes are
// serialized under a mutex because broadcasts and pings race.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// handleWebSocket upgrades the connection and runs its read loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	wc := &wsConn{conn: conn}
	session := s.hub.Add(wc)

	stop := make(chan struct{})
	go s.keepalive(wc, stop)

	defer func() {
		close(stop)
		s.hub.Remove(session.ID)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		s.hub.HandleFrame(session, data)
	}
}

func (s *Server) keepalive(c *wsConn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.Ping(); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}
