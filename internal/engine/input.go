package engine

import "errors"

// Mode is the exclusive interaction mode gating what a click does.
type Mode int

const (
	ModeNone Mode = iota
	ModeGun
	ModeMed
)

func (m Mode) String() string {
	switch m {
	case ModeGun:
		return "gun"
	case ModeMed:
		return "med"
	default:
		return "none"
	}
}

// Precondition violations. These reach the user as blocking
// notifications; no state is mutated when they fire.
var (
	ErrNotControlled      = errors.New("that player is not under your control")
	ErrEntityDead         = errors.New("that player is not alive")
	ErrModeActive         = errors.New("leave gun/med mode first")
	ErrAlreadyControlling = errors.New("release your current player first")
)

// ModeMachine tracks which fire mode is active and for which
// controlled entity. At most one of gun/med is active at a time.
type ModeMachine struct {
	mode     Mode
	entityID int
}

func NewModeMachine() *ModeMachine {
	return &ModeMachine{mode: ModeNone}
}

func (m *ModeMachine) Active() Mode   { return m.mode }
func (m *ModeMachine) EntityID() int  { return m.entityID }
func (m *ModeMachine) IsActive() bool { return m.mode != ModeNone }

// Toggle activates mode for entityID, deactivates it if it was already
// active, and switches over if the other fire mode was active. The
// caller validates control and liveness before calling.
func (m *ModeMachine) Toggle(mode Mode, entityID int) {
	if m.mode == mode && m.entityID == entityID {
		m.Reset()
		return
	}
	m.mode = mode
	m.entityID = entityID
}

// Reset returns the machine to Idle.
func (m *ModeMachine) Reset() {
	m.mode = ModeNone
	m.entityID = 0
}

// ReleaseFor resets the machine if it is bound to entityID. Used when
// that entity dies or is removed.
func (m *ModeMachine) ReleaseFor(entityID int) {
	if m.mode != ModeNone && m.entityID == entityID {
		m.Reset()
	}
}

// Direction is one of the four movement keys.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// KeySet tracks which movement keys are currently held. It is
// evaluated once per tick while a live entity is controlled.
type KeySet struct {
	held [4]bool
}

func (k *KeySet) Press(d Direction)   { k.held[d] = true }
func (k *KeySet) Release(d Direction) { k.held[d] = false }
func (k *KeySet) Clear()              { k.held = [4]bool{} }

// Delta returns the movement this tick, MoveStep per held axis key.
// Opposite keys cancel.
func (k *KeySet) Delta() (dx, dy int) {
	if k.held[DirUp] {
		dy -= MoveStep
	}
	if k.held[DirDown] {
		dy += MoveStep
	}
	if k.held[DirLeft] {
		dx -= MoveStep
	}
	if k.held[DirRight] {
		dx += MoveStep
	}
	return dx, dy
}

func (k *KeySet) Any() bool {
	return k.held[0] || k.held[1] || k.held[2] || k.held[3]
}
