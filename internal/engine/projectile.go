package engine

import (
	"log"
	"math"
)

// ProjectileKind distinguishes bullets from medkits.
type ProjectileKind int

const (
	KindBullet ProjectileKind = iota
	KindMedkit
)

func (k ProjectileKind) String() string {
	if k == KindMedkit {
		return "medkit"
	}
	return "bullet"
}

func (k ProjectileKind) stepLength() float64 {
	if k == KindMedkit {
		return MedkitStep
	}
	return BulletStep
}

// Projectile flies in a straight line from its origin entity's center
// (fixed at spawn time) toward a world point. It applies its effect at
// most once and is then finished.
type Projectile struct {
	Kind     ProjectileKind
	OriginID int
	X, Y     float64

	stepX, stepY float64
	stepsLeft    int
	finished     bool
}

// Finish ends the projectile. Idempotent: a hit and an expiry in the
// same tick must not double-fire.
func (p *Projectile) Finish() {
	p.finished = true
	p.stepsLeft = 0
}

func (p *Projectile) Finished() bool { return p.finished }

// Hit reports one projectile reaching one target.
type Hit struct {
	Projectile *Projectile
	TargetID   int
}

// ProjectileEngine advances all live projectiles from a single per-tick
// scheduler pass. One shared pass instead of a timer per projectile
// keeps projectile steps from drifting against the render loop.
type ProjectileEngine struct {
	reg    *Registry
	pos    *Reconciler
	active []*Projectile
}

func NewProjectileEngine(reg *Registry, pos *Reconciler) *ProjectileEngine {
	return &ProjectileEngine{reg: reg, pos: pos}
}

// Spawn launches a projectile of kind from originID's current center
// toward the world point (targetX, targetY). A missing origin entity
// is a silently dropped race, not an error.
func (pe *ProjectileEngine) Spawn(kind ProjectileKind, originID, targetX, targetY int) *Projectile {
	if pe.reg.Get(originID) == nil {
		log.Printf("projectile: spawn %s from unknown player %d dropped", kind, originID)
		return nil
	}
	st := pe.pos.Get(originID)
	if st == nil {
		log.Printf("projectile: spawn %s from unplaced player %d dropped", kind, originID)
		return nil
	}

	startX, startY := st.Center()
	dx := float64(targetX) - startX
	dy := float64(targetY) - startY
	dist := math.Hypot(dx, dy)

	step := kind.stepLength()
	p := &Projectile{
		Kind:      kind,
		OriginID:  originID,
		X:         startX,
		Y:         startY,
		stepsLeft: ProjectileSlack,
	}
	if dist > 0 {
		p.stepX = dx / dist * step
		p.stepY = dy / dist * step
		p.stepsLeft = int(math.Ceil(dist/step)) + ProjectileSlack
	}

	pe.active = append(pe.active, p)
	return p
}

// Step advances every projectile once and returns the hits resolved
// this tick. At most one hit per projectile, never against its origin.
func (pe *ProjectileEngine) Step() []Hit {
	var hits []Hit
	remaining := pe.active[:0]

	for _, p := range pe.active {
		if p.finished {
			continue
		}

		p.X += p.stepX
		p.Y += p.stepY
		p.stepsLeft--

		if target, ok := pe.firstContainment(p); ok {
			hits = append(hits, Hit{Projectile: p, TargetID: target})
			p.Finish()
			continue
		}
		if p.stepsLeft <= 0 || pe.outOfBounds(p) {
			p.Finish()
			continue
		}
		remaining = append(remaining, p)
	}

	// Zero dropped tails so finished projectiles can be collected.
	for i := len(remaining); i < len(pe.active); i++ {
		pe.active[i] = nil
	}
	pe.active = remaining
	return hits
}

// Active returns the in-flight projectiles, for rendering.
func (pe *ProjectileEngine) Active() []*Projectile {
	return pe.active
}

// firstContainment finds the lowest-id live entity other than the
// origin whose hit box contains the projectile's current point.
func (pe *ProjectileEngine) firstContainment(p *Projectile) (int, bool) {
	for _, id := range pe.reg.IDs() {
		if id == p.OriginID {
			continue
		}
		st := pe.pos.Get(id)
		if st == nil {
			continue
		}
		if p.X >= st.CurrentX && p.X <= st.CurrentX+HitboxWidth &&
			p.Y >= st.CurrentY && p.Y <= st.CurrentY+HitboxHeight {
			return id, true
		}
	}
	return 0, false
}

func (pe *ProjectileEngine) outOfBounds(p *Projectile) bool {
	return p.X < -ProjectileBoundsMargin || p.X > MapSize+ProjectileBoundsMargin ||
		p.Y < -ProjectileBoundsMargin || p.Y > MapSize+ProjectileBoundsMargin
}
