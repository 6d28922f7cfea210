package engine

// PositionState tracks where an entity is rendered (current) versus
// where the latest authority or prediction says it is (target).
type PositionState struct {
	CurrentX, CurrentY float64
	TargetX, TargetY   float64
}

// Reconciler owns per-entity position state and converges rendered
// positions toward their targets once per tick.
type Reconciler struct {
	states map[int]*PositionState
}

func NewReconciler() *Reconciler {
	return &Reconciler{states: make(map[int]*PositionState)}
}

// Get returns the position state for id, or nil.
func (rc *Reconciler) Get(id int) *PositionState {
	return rc.states[id]
}

// Init places an entity with no interpolation history.
func (rc *Reconciler) Init(id, x, y int) {
	fx, fy := clampPos(float64(x), float64(y))
	rc.states[id] = &PositionState{CurrentX: fx, CurrentY: fy, TargetX: fx, TargetY: fy}
}

// Remove drops the state for id. Safe on absent ids.
func (rc *Reconciler) Remove(id int) {
	delete(rc.states, id)
}

// ApplyAuthoritative feeds a position update from the channel. Updates
// for the locally controlled entity are discarded: local prediction is
// authoritative for one's own avatar, otherwise the echo of our own
// moves would rubber-band us backward.
func (rc *Reconciler) ApplyAuthoritative(id, x, y int, local bool) {
	st, ok := rc.states[id]
	if !ok {
		rc.Init(id, x, y)
		return
	}
	if local {
		return
	}
	st.TargetX, st.TargetY = clampPos(float64(x), float64(y))
}

// Predict moves the local entity immediately: current and target jump
// together so the controlled avatar never lags its own input.
func (rc *Reconciler) Predict(id int, x, y float64) {
	st, ok := rc.states[id]
	if !ok {
		return
	}
	fx, fy := clampPos(x, y)
	st.CurrentX, st.CurrentY = fx, fy
	st.TargetX, st.TargetY = fx, fy
}

// Advance runs one interpolation step for id. The local entity snaps.
func (rc *Reconciler) Advance(id int, local bool) {
	st, ok := rc.states[id]
	if !ok {
		return
	}
	if local {
		st.CurrentX, st.CurrentY = st.TargetX, st.TargetY
		return
	}
	st.CurrentX += (st.TargetX - st.CurrentX) * LerpFactor
	st.CurrentY += (st.TargetY - st.CurrentY) * LerpFactor
}

// Center returns the geometric center of the entity's rendered box.
func (st *PositionState) Center() (float64, float64) {
	return st.CurrentX + EntitySize/2, st.CurrentY + EntitySize/2
}

func clampPos(x, y float64) (float64, float64) {
	return clampf(x, 0, MapSize-EntitySize), clampf(y, 0, MapSize-EntitySize)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
