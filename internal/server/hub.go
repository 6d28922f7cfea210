package server

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"paintbrawl/internal/protocol"
)

// Store is the persistence surface the hub needs. Implemented by
// store.Store; faked in tests.
type Store interface {
	Players(ctx context.Context) ([]protocol.PlayerSnapshot, error)
	CreatePlayer(ctx context.Context, name string, accountID int) (protocol.PlayerSnapshot, error)
	UpdatePosition(ctx context.Context, id, x, y int) error
	RenamePlayer(ctx context.Context, id int, name string) error
	UpdateHealth(ctx context.Context, id, health int) error
	DeletePlayer(ctx context.Context, id int) error
	SetLastPlayer(ctx context.Context, accountID, playerID int) error
}

// Conn is one client's outbound half. Send must be safe for
// concurrent use.
type Conn interface {
	Send([]byte) error
	Close() error
}

// sendBuffer is the per-session outbound queue depth. A client that
// falls this many frames behind is considered stalled and evicted.
const sendBuffer = 256

// Session is one connected client, keyed by a server-issued id that is
// independent of any player avatar the client may control. Outbound
// frames go through a buffered channel drained by one write loop, so a
// slow client never blocks the hub.
type Session struct {
	ID   string
	Conn Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// enqueue queues a frame for the write loop. Returns false when the
// session is closed or its buffer is full.
func (s *Session) enqueue(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

// closeSend is idempotent. The write loop drains what is queued and
// then exits.
func (s *Session) closeSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// Hub relays envelopes between all connected clients and persists the
// effects. It holds no game simulation: clients are authoritative for
// combat outcomes, the hub is authoritative for existence.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    Store

	handlers map[string]func(*Session, protocol.Envelope) error
}

func NewHub(store Store) *Hub {
	h := &Hub{
		sessions: make(map[string]*Session),
		store:    store,
	}
	h.handlers = map[string]func(*Session, protocol.Envelope) error{
		protocol.MsgGetPlayers:    h.onGetPlayers,
		protocol.MsgCreate:        h.onCreate,
		protocol.MsgMove:          h.onMove,
		protocol.MsgChangeName:    h.onChangeName,
		protocol.MsgControlPlayer: h.onControlPlayer,
		protocol.MsgSpawnBullet:   h.onRelay,
		protocol.MsgSpawnMedkit:   h.onRelay,
		protocol.MsgHealthChange:  h.onHealthChange,
		protocol.MsgDeletePlayer:  h.onDeletePlayer,
	}
	return h
}

// Add registers a connection, starts its write loop, and returns its
// session.
func (h *Hub) Add(conn Conn) *Session {
	s := &Session{
		ID:   uuid.New().String(),
		Conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
	go h.writeLoop(s)
	log.Printf("hub: session %s connected", s.ID)
	return s
}

// Remove drops a session and closes its connection. Safe to call more
// than once for the same id.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
		s.closeSend()
	}
	h.mu.Unlock()
	if ok {
		s.Conn.Close()
		log.Printf("hub: session %s disconnected", id)
	}
}

// writeLoop drains one session's send channel onto its connection. A
// failed write tears the session down.
func (h *Hub) writeLoop(s *Session) {
	for data := range s.send {
		if err := s.Conn.Send(data); err != nil {
			log.Printf("hub: session %s write failed: %v", s.ID, err)
			break
		}
	}
	h.Remove(s.ID)
}

// NumSessions returns the number of connected clients.
func (h *Hub) NumSessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// HandleFrame dispatches one inbound frame from a session. Unknown
// types are logged and dropped.
func (h *Hub) HandleFrame(s *Session, data []byte) {
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		log.Printf("hub: bad frame from %s: %v", s.ID, err)
		return
	}
	handler, ok := h.handlers[env.Type]
	if !ok {
		log.Printf("hub: unhandled type %q from %s", env.Type, s.ID)
		return
	}
	if err := handler(s, env); err != nil {
		log.Printf("hub: %s from %s: %v", env.Type, s.ID, err)
	}
}

// Broadcast queues an envelope for every connected client. The enqueue
// never blocks: a client whose buffer is full has stalled and is
// evicted instead of holding up the world.
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		log.Printf("hub: encode %s: %v", msgType, err)
		return
	}

	h.mu.Lock()
	var stalled []*Session
	for _, s := range h.sessions {
		if !s.enqueue(data) {
			stalled = append(stalled, s)
		}
	}
	for _, s := range stalled {
		delete(h.sessions, s.ID)
		s.closeSend()
	}
	h.mu.Unlock()

	for _, s := range stalled {
		s.Conn.Close()
		log.Printf("hub: session %s evicted, send buffer full", s.ID)
	}
}

func (h *Hub) sendTo(s *Session, msgType string, payload any) error {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		return err
	}
	if !s.enqueue(data) {
		h.Remove(s.ID)
		return fmt.Errorf("session %s send buffer full", s.ID)
	}
	return nil
}

// --- message handlers -----------------------------------------------

func (h *Hub) onGetPlayers(s *Session, _ protocol.Envelope) error {
	players, err := h.store.Players(context.Background())
	if err != nil {
		return err
	}
	if players == nil {
		players = []protocol.PlayerSnapshot{}
	}
	return h.sendTo(s, protocol.MsgPlayers, players)
}

func (h *Hub) onCreate(s *Session, env protocol.Envelope) error {
	req, err := protocol.DecodePayload[protocol.CreatePayload](env)
	if err != nil {
		return err
	}
	p, err := h.store.CreatePlayer(context.Background(), req.Name, req.AccountID)
	if err != nil {
		return err
	}
	// The creator gets `created` (which grants control); everyone
	// else, `new_player`.
	if err := h.sendTo(s, protocol.MsgCreated, p); err != nil {
		return err
	}
	h.Broadcast(protocol.MsgNewPlayer, p)
	return nil
}

func (h *Hub) onMove(_ *Session, env protocol.Envelope) error {
	m, err := protocol.DecodePayload[protocol.MovePayload](env)
	if err != nil {
		return err
	}
	// Relay first; the position write must never delay the echo.
	h.Broadcast(protocol.MsgMove, m)
	go func() {
		if err := h.store.UpdatePosition(context.Background(), m.ID, m.X, m.Y); err != nil {
			log.Printf("hub: persist move for %d: %v", m.ID, err)
		}
	}()
	return nil
}

func (h *Hub) onChangeName(_ *Session, env protocol.Envelope) error {
	req, err := protocol.DecodePayload[protocol.ChangeNamePayload](env)
	if err != nil {
		return err
	}
	if err := h.store.RenamePlayer(context.Background(), req.ID, req.Name); err != nil {
		return err
	}
	h.Broadcast(protocol.MsgNameChanged, req)
	return nil
}

func (h *Hub) onControlPlayer(_ *Session, env protocol.Envelope) error {
	req, err := protocol.DecodePayload[protocol.ControlPlayerPayload](env)
	if err != nil {
		return err
	}
	return h.store.SetLastPlayer(context.Background(), req.AccountID, req.PlayerID)
}

// onRelay echoes fire intents to every client, sender included, so all
// clients simulate the same projectile flight.
func (h *Hub) onRelay(_ *Session, env protocol.Envelope) error {
	p, err := protocol.DecodePayload[protocol.SpawnPayload](env)
	if err != nil {
		return err
	}
	h.Broadcast(env.Type, p)
	return nil
}

func (h *Hub) onHealthChange(_ *Session, env protocol.Envelope) error {
	p, err := protocol.DecodePayload[protocol.HealthChangePayload](env)
	if err != nil {
		return err
	}
	h.Broadcast(protocol.MsgHealthChange, p)
	go func() {
		if err := h.store.UpdateHealth(context.Background(), p.PlayerID, p.Health); err != nil {
			log.Printf("hub: persist health for %d: %v", p.PlayerID, err)
		}
	}()
	return nil
}

func (h *Hub) onDeletePlayer(_ *Session, env protocol.Envelope) error {
	req, err := protocol.DecodePayload[protocol.DeletePlayerPayload](env)
	if err != nil {
		return err
	}
	if err := h.store.DeletePlayer(context.Background(), req.ID); err != nil {
		return err
	}
	h.Broadcast(protocol.MsgPlayerDeleted, req)
	return nil
}
