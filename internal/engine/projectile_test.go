package engine

import (
	"math"
	"testing"
)

func projectileWorld(t *testing.T, entities ...[3]int) (*Registry, *Reconciler, *ProjectileEngine) {
	t.Helper()
	reg := NewRegistry()
	pos := NewReconciler()
	for _, e := range entities {
		reg.Upsert(Entity{ID: e[0], Health: MaxHealth})
		pos.Init(e[0], e[1], e[2])
	}
	return reg, pos, NewProjectileEngine(reg, pos)
}

func TestSpawnFromUnknownOriginIsDropped(t *testing.T) {
	_, _, pe := projectileWorld(t)
	if p := pe.Spawn(KindBullet, 99, 500, 500); p != nil {
		t.Fatalf("spawn from unknown origin returned a projectile")
	}
	if len(pe.Active()) != 0 {
		t.Fatalf("dropped spawn left an active projectile")
	}
}

func TestProjectileHitsFirstTargetOnce(t *testing.T) {
	reg, _, pe := projectileWorld(t, [3]int{1, 1000, 1000}, [3]int{2, 1300, 1000})

	// Shooter 1 fires at the center of entity 2.
	p := pe.Spawn(KindBullet, 1, 1300+EntitySize/2, 1000+EntitySize/2)
	if p == nil {
		t.Fatalf("spawn failed")
	}

	var hits []Hit
	for i := 0; i < 1000 && !p.Finished(); i++ {
		hits = append(hits, pe.Step()...)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want exactly 1", len(hits))
	}
	if hits[0].TargetID != 2 {
		t.Fatalf("hit target %d, want 2", hits[0].TargetID)
	}
	if reg.Get(2) == nil {
		t.Fatalf("projectile engine must not remove entities itself")
	}
}

func TestProjectileNeverHitsItsOrigin(t *testing.T) {
	_, _, pe := projectileWorld(t, [3]int{1, 1000, 1000})

	// Fire straight at our own center.
	p := pe.Spawn(KindBullet, 1, 1000+EntitySize/2, 1000+EntitySize/2)
	for i := 0; i < 1000 && !p.Finished(); i++ {
		if hits := pe.Step(); len(hits) != 0 {
			t.Fatalf("projectile hit its own origin: %+v", hits)
		}
	}
}

func TestProjectileTerminatesWithinStepBudget(t *testing.T) {
	_, pos, pe := projectileWorld(t, [3]int{1, 0, 0})

	targetX, targetY := 3000, 2000
	p := pe.Spawn(KindBullet, 1, targetX, targetY)

	startX, startY := pos.Get(1).Center()
	dist := math.Hypot(float64(targetX)-startX, float64(targetY)-startY)
	budget := int(math.Ceil(dist/BulletStep)) + ProjectileSlack

	steps := 0
	for !p.Finished() {
		pe.Step()
		steps++
		if steps > budget {
			t.Fatalf("projectile still alive after %d steps, budget %d", steps, budget)
		}
	}
}

func TestProjectileFinishIsIdempotent(t *testing.T) {
	_, _, pe := projectileWorld(t, [3]int{1, 0, 0})
	p := pe.Spawn(KindMedkit, 1, 500, 500)
	p.Finish()
	p.Finish()
	if !p.Finished() {
		t.Fatalf("double finish undid itself")
	}
	if hits := pe.Step(); len(hits) != 0 {
		t.Fatalf("finished projectile produced hits: %+v", hits)
	}
	if len(pe.Active()) != 0 {
		t.Fatalf("finished projectile not collected")
	}
}

func TestMedkitStepsSlowerThanBullet(t *testing.T) {
	_, _, pe := projectileWorld(t, [3]int{1, 0, 0})

	b := pe.Spawn(KindBullet, 1, 10000, 30)
	m := pe.Spawn(KindMedkit, 1, 10000, 30)
	pe.Step()

	if !(b.X > m.X) {
		t.Fatalf("bullet should outpace medkit: bullet %f medkit %f", b.X, m.X)
	}
}
