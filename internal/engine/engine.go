// Package engine is the client-side state reconciliation and
// interaction core for the shared world: it keeps one client's view of
// every avatar consistent with the session stream while applying local
// prediction for the controlled avatar, interpolation for everyone
// else, and locally simulated combat with single-client authority.
package engine

import (
	"fmt"
	"log"

	"paintbrawl/internal/protocol"
)

// Config carries the per-client parameters the engine cannot derive.
type Config struct {
	ViewportW int
	ViewportH int
	AccountID int
	// BaseURL is the HTTP side channel for drawing persistence.
	BaseURL string
}

// Engine owns all mutable client state. It is not goroutine safe on
// purpose: the owner drains the channel inbox, feeds input, and calls
// Tick from one goroutine, so state is never observed mid-step.
type Engine struct {
	send   Sender
	notify Notifier

	reg         *Registry
	pos         *Reconciler
	camera      *Camera
	modes       *ModeMachine
	keys        KeySet
	projectiles *ProjectileEngine
	combat      *Resolver
	overlay     *Overlay
	journal     *Journal

	controlledID int // 0 while no avatar is controlled
	accountID    int

	handlers map[string]func(protocol.Envelope) error
}

func New(cfg Config, send Sender, notify Notifier) *Engine {
	if notify == nil {
		notify = LogNotifier{}
	}
	e := &Engine{
		send:      send,
		notify:    notify,
		reg:       NewRegistry(),
		pos:       NewReconciler(),
		camera:    NewCamera(cfg.ViewportW, cfg.ViewportH),
		modes:     NewModeMachine(),
		overlay:   NewOverlay(cfg.BaseURL),
		journal:   NewJournal(),
		accountID: cfg.AccountID,
	}
	e.projectiles = NewProjectileEngine(e.reg, e.pos)
	e.combat = NewResolver(e.reg, send, e.removeEntity)

	e.handlers = map[string]func(protocol.Envelope) error{
		protocol.MsgPlayers:       e.onPlayers,
		protocol.MsgNewPlayer:     e.onNewPlayer,
		protocol.MsgCreated:       e.onCreated,
		protocol.MsgMove:          e.onMove,
		protocol.MsgNameChanged:   e.onNameChanged,
		protocol.MsgPlayerDeleted: e.onPlayerDeleted,
		protocol.MsgHealthChange:  e.onHealthChange,
		protocol.MsgSpawnBullet:   e.onSpawn,
		protocol.MsgSpawnMedkit:   e.onSpawn,
	}
	return e
}

// Accessors for rendering and tests.

func (e *Engine) Registry() *Registry        { return e.reg }
func (e *Engine) Positions() *Reconciler     { return e.pos }
func (e *Engine) Camera() *Camera            { return e.camera }
func (e *Engine) Overlay() *Overlay          { return e.overlay }
func (e *Engine) Journal() *Journal          { return e.journal }
func (e *Engine) Projectiles() []*Projectile { return e.projectiles.Active() }
func (e *Engine) ControlledID() int          { return e.controlledID }
func (e *Engine) Mode() Mode                 { return e.modes.Active() }

// HandleMessage dispatches one inbound envelope. Unknown types are
// logged and skipped so protocol growth never kills a client.
func (e *Engine) HandleMessage(env protocol.Envelope) {
	e.journal.Record(env)
	h, ok := e.handlers[env.Type]
	if !ok {
		log.Printf("engine: unhandled message type %q", env.Type)
		return
	}
	if err := h(env); err != nil {
		log.Printf("engine: %s: %v", env.Type, err)
	}
}

// Tick runs one simulation step in fixed pipeline order: entity
// interpolation, movement input, camera retarget, camera smoothing,
// projectile advancement. Render happens after Tick in the caller.
func (e *Engine) Tick() {
	for _, id := range e.reg.IDs() {
		e.pos.Advance(id, id == e.controlledID)
	}

	e.applyMovement()

	if st := e.controlledState(); st != nil {
		cx, cy := st.Center()
		e.camera.SetTarget(cx, cy)
	}
	e.camera.Advance()

	for _, hit := range e.projectiles.Step() {
		e.resolveHit(hit)
	}
}

func (e *Engine) applyMovement() {
	if e.controlledID == 0 || !e.keys.Any() {
		return
	}
	st := e.controlledState()
	if st == nil {
		// Control points at a removed avatar; stop evaluating keys.
		e.keys.Clear()
		return
	}
	dx, dy := e.keys.Delta()
	if dx == 0 && dy == 0 {
		return
	}
	prevX, prevY := st.CurrentX, st.CurrentY
	e.pos.Predict(e.controlledID, prevX+float64(dx), prevY+float64(dy))

	// Send the clamped position so server state matches prediction.
	// Pressing into a map edge clamps back to the same spot; that is
	// not a move, so no intent goes out.
	st = e.pos.Get(e.controlledID)
	if st.CurrentX == prevX && st.CurrentY == prevY {
		return
	}
	e.sendIntent(protocol.MsgMove, protocol.MovePayload{
		ID: e.controlledID,
		X:  int(st.CurrentX),
		Y:  int(st.CurrentY),
	})
}

// resolveHit applies a projectile's effect under the single-authority
// rule: every client simulated the flight, but only the client that
// controls the origin avatar applies damage or healing. Everyone else
// just saw the projectile end.
func (e *Engine) resolveHit(hit Hit) {
	if hit.Projectile.OriginID != e.controlledID || e.controlledID == 0 {
		return
	}
	switch hit.Projectile.Kind {
	case KindMedkit:
		e.combat.ApplyHealing(hit.TargetID, MedkitHeal)
	default:
		e.combat.ApplyDamage(hit.TargetID, BulletDamage)
	}
}

// --- user input -----------------------------------------------------

func (e *Engine) KeyDown(d Direction) {
	if e.controlledID == 0 {
		return
	}
	e.keys.Press(d)
}

func (e *Engine) KeyUp(d Direction) {
	e.keys.Release(d)
}

// Click handles a screen-space click. While a fire mode is active the
// click is consumed as a fire intent before any other handling; while
// paint mode is active it stamps the canvas. Returns whether the
// click was consumed.
func (e *Engine) Click(screenX, screenY int) bool {
	if e.modes.IsActive() {
		if e.modes.EntityID() != e.controlledID {
			// Control changed under an active mode; drop the stale mode.
			e.modes.Reset()
			return false
		}
		wx, wy := e.camera.ToWorld(screenX, screenY)
		msg := protocol.MsgSpawnBullet
		if e.modes.Active() == ModeMed {
			msg = protocol.MsgSpawnMedkit
		}
		// The projectile itself spawns when the server echoes the
		// intent back, so every client, this one included, simulates
		// the same flight.
		e.sendIntent(msg, protocol.SpawnPayload{
			FromID:  e.controlledID,
			TargetX: wx,
			TargetY: wy,
		})
		return true
	}

	if e.overlay.Active() {
		wx, wy := e.camera.ToWorld(screenX, screenY)
		e.overlay.Stamp(wx, wy, e.controlledID)
		return true
	}
	return false
}

// Paint stamps the canvas during a drag while paint mode is active.
func (e *Engine) Paint(screenX, screenY int) {
	if !e.overlay.Active() {
		return
	}
	wx, wy := e.camera.ToWorld(screenX, screenY)
	e.overlay.Stamp(wx, wy, e.controlledID)
}

// ToggleGun enters or leaves gun mode for the controlled avatar.
func (e *Engine) ToggleGun() error { return e.toggleMode(ModeGun) }

// ToggleMed enters or leaves med mode for the controlled avatar.
func (e *Engine) ToggleMed() error { return e.toggleMode(ModeMed) }

func (e *Engine) toggleMode(mode Mode) error {
	if e.controlledID == 0 {
		e.notify.Notify(ErrNotControlled.Error())
		return ErrNotControlled
	}
	ent := e.reg.Get(e.controlledID)
	if ent == nil || ent.Health <= 0 {
		e.notify.Notify(ErrEntityDead.Error())
		return ErrEntityDead
	}
	e.modes.Toggle(mode, e.controlledID)
	return nil
}

// ControlPlayer requests control of an avatar. Rejected while the
// currently controlled avatar is alive and different, and while a fire
// mode is active.
func (e *Engine) ControlPlayer(id int) error {
	if e.modes.IsActive() {
		e.notify.Notify(ErrModeActive.Error())
		return ErrModeActive
	}
	if e.controlledID != 0 && e.controlledID != id && e.reg.Get(e.controlledID) != nil {
		e.notify.Notify(ErrAlreadyControlling.Error())
		return ErrAlreadyControlling
	}
	ent := e.reg.Get(id)
	if ent == nil {
		err := fmt.Errorf("player %d does not exist", id)
		e.notify.Notify(err.Error())
		return err
	}

	e.acquireControl(id)
	e.sendIntent(protocol.MsgControlPlayer, protocol.ControlPlayerPayload{
		PlayerID:  id,
		AccountID: e.accountID,
	})
	return nil
}

// CreatePlayer asks the server to create a fresh avatar. Control is
// granted when the `created` echo arrives.
func (e *Engine) CreatePlayer(name string) {
	e.sendIntent(protocol.MsgCreate, protocol.CreatePayload{Name: name, AccountID: e.accountID})
}

// ChangeName renames an avatar.
func (e *Engine) ChangeName(id int, name string) {
	e.sendIntent(protocol.MsgChangeName, protocol.ChangeNamePayload{ID: id, Name: name})
}

// RequestPlayers asks for the full avatar snapshot. Called on every
// (re)connect.
func (e *Engine) RequestPlayers() {
	e.sendIntent(protocol.MsgGetPlayers, struct{}{})
}

// Resize propagates a viewport change to the camera.
func (e *Engine) Resize(w, h int) {
	e.camera.Resize(w, h)
}

// --- inbound handlers -----------------------------------------------

func (e *Engine) onPlayers(env protocol.Envelope) error {
	snaps, err := protocol.DecodePayload[[]protocol.PlayerSnapshot](env)
	if err != nil {
		return err
	}
	for _, s := range snaps {
		e.registerEntity(s)
	}
	return nil
}

func (e *Engine) onNewPlayer(env protocol.Envelope) error {
	s, err := protocol.DecodePayload[protocol.PlayerSnapshot](env)
	if err != nil {
		return err
	}
	e.registerEntity(s)
	return nil
}

func (e *Engine) onCreated(env protocol.Envelope) error {
	s, err := protocol.DecodePayload[protocol.PlayerSnapshot](env)
	if err != nil {
		return err
	}
	e.registerEntity(s)
	e.acquireControl(s.ID)
	return nil
}

func (e *Engine) onMove(env protocol.Envelope) error {
	m, err := protocol.DecodePayload[protocol.MovePayload](env)
	if err != nil {
		return err
	}
	if e.reg.Get(m.ID) == nil {
		return nil // move for an avatar we no longer track
	}
	e.pos.ApplyAuthoritative(m.ID, m.X, m.Y, m.ID == e.controlledID)
	return nil
}

func (e *Engine) onNameChanged(env protocol.Envelope) error {
	p, err := protocol.DecodePayload[protocol.ChangeNamePayload](env)
	if err != nil {
		return err
	}
	if ent := e.reg.Get(p.ID); ent != nil {
		ent.Name = p.Name
	}
	return nil
}

func (e *Engine) onPlayerDeleted(env protocol.Envelope) error {
	p, err := protocol.DecodePayload[protocol.DeletePlayerPayload](env)
	if err != nil {
		return err
	}
	e.removeEntity(p.ID)
	return nil
}

func (e *Engine) onHealthChange(env protocol.Envelope) error {
	p, err := protocol.DecodePayload[protocol.HealthChangePayload](env)
	if err != nil {
		return err
	}
	ent := e.reg.Get(p.PlayerID)
	if ent == nil {
		return nil
	}
	h := p.Health
	if h > MaxHealth {
		h = MaxHealth
	}
	if h < 0 {
		h = 0
	}
	ent.Health = h
	if h <= 0 {
		// Reflect a death computed by the authoritative client. That
		// client already emitted delete_player; we only clean up.
		e.removeEntity(p.PlayerID)
	}
	return nil
}

func (e *Engine) onSpawn(env protocol.Envelope) error {
	p, err := protocol.DecodePayload[protocol.SpawnPayload](env)
	if err != nil {
		return err
	}
	kind := KindBullet
	if env.Type == protocol.MsgSpawnMedkit {
		kind = KindMedkit
	}
	e.projectiles.Spawn(kind, p.FromID, p.TargetX, p.TargetY)
	return nil
}

// --- internal -------------------------------------------------------

func (e *Engine) registerEntity(s protocol.PlayerSnapshot) {
	h := s.Health
	if h <= 0 || h > MaxHealth {
		h = MaxHealth
	}
	if !e.reg.Upsert(Entity{ID: s.ID, Name: s.Name, Color: s.Color, Health: h}) {
		return
	}
	e.pos.Init(s.ID, s.X, s.Y)
}

// removeEntity deletes an avatar and everything hanging off it:
// position state, any fire mode bound to it, and local control.
func (e *Engine) removeEntity(id int) {
	if !e.reg.Remove(id) {
		return
	}
	e.pos.Remove(id)
	e.modes.ReleaseFor(id)
	if e.controlledID == id {
		e.controlledID = 0
		e.keys.Clear()
		e.notify.Notify("your player is gone; you are no longer controlling anyone")
	}
}

func (e *Engine) acquireControl(id int) {
	e.controlledID = id
	e.keys.Clear()
	if st := e.pos.Get(id); st != nil {
		cx, cy := st.Center()
		e.camera.SnapTo(cx, cy)
	}
	name := "unknown"
	if ent := e.reg.Get(id); ent != nil {
		name = ent.Name
	}
	e.notify.Notify("you are now controlling: " + name)
}

func (e *Engine) controlledState() *PositionState {
	if e.controlledID == 0 {
		return nil
	}
	return e.pos.Get(e.controlledID)
}

func (e *Engine) sendIntent(msgType string, payload any) {
	if err := e.send.Send(msgType, payload); err != nil {
		log.Printf("engine: send %s: %v", msgType, err)
	}
}
