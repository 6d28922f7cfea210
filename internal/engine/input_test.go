package engine

import "testing"

func TestModeMachineExclusive(t *testing.T) {
	m := NewModeMachine()

	m.Toggle(ModeGun, 1)
	if m.Active() != ModeGun {
		t.Fatalf("gun not active")
	}

	// Entering med must exit gun, and vice versa.
	m.Toggle(ModeMed, 1)
	if m.Active() != ModeMed {
		t.Fatalf("med did not displace gun, active=%v", m.Active())
	}
	m.Toggle(ModeGun, 1)
	if m.Active() != ModeGun {
		t.Fatalf("gun did not displace med, active=%v", m.Active())
	}
}

func TestModeMachineRetoggleReturnsToIdle(t *testing.T) {
	m := NewModeMachine()
	m.Toggle(ModeGun, 1)
	m.Toggle(ModeGun, 1)
	if m.IsActive() {
		t.Fatalf("re-toggle should deactivate, active=%v", m.Active())
	}
}

func TestModeMachineReleaseFor(t *testing.T) {
	m := NewModeMachine()
	m.Toggle(ModeMed, 5)

	m.ReleaseFor(4)
	if m.Active() != ModeMed {
		t.Fatalf("release for another entity reset the mode")
	}
	m.ReleaseFor(5)
	if m.IsActive() {
		t.Fatalf("release for the bound entity did not reset the mode")
	}
}

func TestKeySetDelta(t *testing.T) {
	var k KeySet

	k.Press(DirRight)
	k.Press(DirDown)
	dx, dy := k.Delta()
	if dx != MoveStep || dy != MoveStep {
		t.Fatalf("delta = (%d, %d), want (%d, %d)", dx, dy, MoveStep, MoveStep)
	}

	// Opposite keys cancel.
	k.Press(DirLeft)
	dx, _ = k.Delta()
	if dx != 0 {
		t.Fatalf("opposite keys did not cancel, dx=%d", dx)
	}

	k.Clear()
	if k.Any() {
		t.Fatalf("clear left keys held")
	}
}
