package engine

import (
	"testing"

	"paintbrawl/internal/protocol"
)

// recordingSender captures outbound intents instead of writing to a
// socket.
type recordingSender struct {
	sent []sentIntent
}

type sentIntent struct {
	Type    string
	Payload any
}

func (r *recordingSender) Send(msgType string, payload any) error {
	r.sent = append(r.sent, sentIntent{Type: msgType, Payload: payload})
	return nil
}

func (r *recordingSender) count(msgType string) int {
	n := 0
	for _, m := range r.sent {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

func (r *recordingSender) last(msgType string) (sentIntent, bool) {
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].Type == msgType {
			return r.sent[i], true
		}
	}
	return sentIntent{}, false
}

// recordingNotifier captures user-visible notifications.
type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(message string) {
	r.messages = append(r.messages, message)
}

func newTestEngine(t *testing.T) (*Engine, *recordingSender, *recordingNotifier) {
	t.Helper()
	sender := &recordingSender{}
	notifier := &recordingNotifier{}
	eng := New(Config{ViewportW: 800, ViewportH: 600, AccountID: 7}, sender, notifier)
	return eng, sender, notifier
}

// feed builds a server-shaped envelope and hands it to the engine.
func feed(t *testing.T, eng *Engine, msgType string, payload any) {
	t.Helper()
	data, err := protocol.Encode(msgType, payload)
	if err != nil {
		t.Fatalf("encode %s: %v", msgType, err)
	}
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode %s: %v", msgType, err)
	}
	eng.HandleMessage(env)
}

func snapshot(id, x, y, health int) protocol.PlayerSnapshot {
	return protocol.PlayerSnapshot{
		ID: id, Name: "p", Color: "teal", X: x, Y: y, Health: health,
	}
}

// drainProjectiles ticks until no projectile is in flight.
func drainProjectiles(t *testing.T, eng *Engine) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if len(eng.Projectiles()) == 0 {
			return
		}
		eng.Tick()
	}
	t.Fatalf("projectiles still in flight after 10000 ticks")
}
