package engine

import (
	"math"
	"testing"
)

func TestReconcilerInitialUpdatePlacesBothPoints(t *testing.T) {
	rc := NewReconciler()
	rc.ApplyAuthoritative(1, 120, 80, false)

	st := rc.Get(1)
	if st == nil {
		t.Fatalf("no state after first update")
	}
	if st.CurrentX != 120 || st.CurrentY != 80 || st.TargetX != 120 || st.TargetY != 80 {
		t.Fatalf("first update should place current and target together, got %+v", st)
	}
}

func TestReconcilerRemoteConvergesToTarget(t *testing.T) {
	rc := NewReconciler()
	rc.Init(1, 0, 0)
	rc.ApplyAuthoritative(1, 1000, 500, false)

	st := rc.Get(1)
	prev := st.CurrentX
	for i := 0; i < 100; i++ {
		rc.Advance(1, false)
		if st.CurrentX < prev {
			t.Fatalf("convergence went backward at step %d: %f < %f", i, st.CurrentX, prev)
		}
		prev = st.CurrentX
	}
	if math.Abs(st.CurrentX-1000) > 1 || math.Abs(st.CurrentY-500) > 1 {
		t.Fatalf("did not converge after 100 steps: (%f, %f)", st.CurrentX, st.CurrentY)
	}
}

func TestReconcilerLocalDiscardsAuthoritativeEcho(t *testing.T) {
	rc := NewReconciler()
	rc.Init(1, 100, 100)

	// Echo of our own move must not rubber-band the local avatar.
	rc.ApplyAuthoritative(1, 500, 500, true)

	st := rc.Get(1)
	if st.TargetX != 100 || st.TargetY != 100 {
		t.Fatalf("local echo changed target: %+v", st)
	}
}

func TestReconcilerLocalSnapsEveryTick(t *testing.T) {
	rc := NewReconciler()
	rc.Init(1, 0, 0)
	rc.Predict(1, 440, 360)
	rc.Advance(1, true)

	st := rc.Get(1)
	if st.CurrentX != st.TargetX || st.CurrentY != st.TargetY {
		t.Fatalf("local avatar lags its target: %+v", st)
	}
	if st.CurrentX != 440 || st.CurrentY != 360 {
		t.Fatalf("prediction not applied: %+v", st)
	}
}

func TestReconcilerClampsToMapBounds(t *testing.T) {
	rc := NewReconciler()
	rc.Init(1, 0, 0)

	rc.Predict(1, -100, float64(MapSize+100))
	st := rc.Get(1)
	if st.CurrentX != 0 {
		t.Fatalf("x not clamped at 0: %f", st.CurrentX)
	}
	if st.CurrentY != MapSize-EntitySize {
		t.Fatalf("y not clamped at %d: %f", MapSize-EntitySize, st.CurrentY)
	}
}

func TestReconcilerRemoveIsIdempotent(t *testing.T) {
	rc := NewReconciler()
	rc.Init(1, 0, 0)
	rc.Remove(1)
	rc.Remove(1)
	if rc.Get(1) != nil {
		t.Fatalf("state survived removal")
	}
}
