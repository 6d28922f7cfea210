package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"paintbrawl/internal/protocol"
)

// Sender delivers outbound intents to the shared session.
type Sender interface {
	Send(msgType string, payload any) error
}

// Reconnect backoff bounds.
const (
	reconnectBase = time.Second
	reconnectMax  = 30 * time.Second
	writeTimeout  = 10 * time.Second
)

// WSChannel is the connection channel to the shared session: a single
// ordered duplex websocket stream of envelopes. It reconnects with
// exponential backoff when the stream drops; the engine treats a
// reconnect like a fresh join and re-requests the player list.
type WSChannel struct {
	url    string
	cancel context.CancelFunc

	// Inbox carries inbound envelopes; the engine owner drains it from
	// the same goroutine that ticks the engine.
	Inbox chan protocol.Envelope

	// Opened fires once per (re)established connection.
	Opened chan struct{}

	mu   sync.Mutex
	conn *websocket.Conn
}

// DialChannel starts the connect/read loop and returns immediately.
func DialChannel(ctx context.Context, url string) *WSChannel {
	ctx, cancel := context.WithCancel(ctx)
	ch := &WSChannel{
		url:    url,
		cancel: cancel,
		Inbox:  make(chan protocol.Envelope, 256),
		Opened: make(chan struct{}, 1),
	}
	go ch.run(ctx)
	return ch
}

func (ch *WSChannel) run(ctx context.Context) {
	defer close(ch.Inbox)

	backoff := reconnectBase
	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, ch.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("channel: dial %s: %v (retry in %v)", ch.url, err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > reconnectMax {
				backoff = reconnectMax
			}
			continue
		}

		backoff = reconnectBase
		ch.mu.Lock()
		ch.conn = conn
		ch.mu.Unlock()

		select {
		case ch.Opened <- struct{}{}:
		default:
		}

		ch.readLoop(ctx, conn)

		ch.mu.Lock()
		ch.conn = nil
		ch.mu.Unlock()
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		log.Printf("channel: connection to %s lost, reconnecting", ch.url)
	}
}

func (ch *WSChannel) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("channel: read: %v", err)
			}
			return
		}
		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			log.Printf("channel: bad frame: %v", err)
			continue
		}
		select {
		case ch.Inbox <- env:
		case <-ctx.Done():
			return
		}
	}
}

// Send encodes an envelope and writes it to the current connection.
func (ch *WSChannel) Send(msgType string, payload any) error {
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		return err
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.conn == nil {
		return fmt.Errorf("channel: not connected")
	}
	ch.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ch.conn.WriteMessage(websocket.TextMessage, data)
}

// Close stops the channel and any pending reconnect.
func (ch *WSChannel) Close() {
	ch.cancel()
	ch.mu.Lock()
	if ch.conn != nil {
		ch.conn.Close()
	}
	ch.mu.Unlock()
}
