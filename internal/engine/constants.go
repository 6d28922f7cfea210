package engine

import "time"

// World geometry. The map is one shared square instance; positions are
// top-left corners of avatar boxes, so the valid range per axis is
// [0, MapSize-EntitySize].
const (
	MapSize    = 20000
	EntitySize = 60
	MoveStep   = 40
)

// Avatar hit box used for projectile containment tests. Height exceeds
// EntitySize because the rendered element carries a name label above
// the body.
const (
	HitboxWidth  = 60
	HitboxHeight = 80
)

// Smoothing factor shared by entity interpolation and camera follow.
// Exponential convergence toward the target, applied once per tick.
const LerpFactor = 0.15

// TickPeriod is the fixed simulation/render cadence (~60Hz).
const TickPeriod = 16 * time.Millisecond

// Combat tuning.
const (
	MaxHealth    = 100
	BulletDamage = 10
	MedkitHeal   = 15

	BulletStep = 15 // distance units advanced per tick
	MedkitStep = 12

	// ProjectileSlack pads the step budget past the exact distance so a
	// projectile can still catch a target that moved away slightly.
	ProjectileSlack = 20

	// ProjectileBoundsMargin ends a projectile once it has left the map
	// by this much, whatever its step budget says.
	ProjectileBoundsMargin = 200
)

// DrawStampSize is the dot radius stamped onto the shared canvas.
const DrawStampSize = 2
