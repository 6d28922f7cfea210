package engine

// Camera derives the viewport offset from the controlled entity's
// rendered position. It smooths independently of entity interpolation,
// with the same convergence factor, so the view lags exactly as much
// as the avatar's own rendering.
type Camera struct {
	OffsetX, OffsetY             float64
	TargetOffsetX, TargetOffsetY float64
	viewportW, viewportH         int
}

func NewCamera(viewportW, viewportH int) *Camera {
	return &Camera{viewportW: viewportW, viewportH: viewportH}
}

// Resize updates the viewport dimensions (window resize).
func (c *Camera) Resize(w, h int) {
	c.viewportW, c.viewportH = w, h
	c.TargetOffsetX, c.TargetOffsetY = c.clamp(c.TargetOffsetX, c.TargetOffsetY)
	c.OffsetX, c.OffsetY = c.clamp(c.OffsetX, c.OffsetY)
}

// SetTarget centers the viewport target on a world point, clamped to
// the map. Called every tick with the controlled entity's current
// (interpolated) position.
func (c *Camera) SetTarget(x, y float64) {
	c.TargetOffsetX, c.TargetOffsetY = c.clamp(x-float64(c.viewportW)/2, y-float64(c.viewportH)/2)
}

// SnapTo recenters both current and target offset at once. Used when
// control is newly acquired so spawn does not start a visible sweep
// across the whole map.
func (c *Camera) SnapTo(x, y float64) {
	c.SetTarget(x, y)
	c.OffsetX, c.OffsetY = c.TargetOffsetX, c.TargetOffsetY
}

// Advance runs one smoothing step toward the target offset.
func (c *Camera) Advance() {
	c.OffsetX += (c.TargetOffsetX - c.OffsetX) * LerpFactor
	c.OffsetY += (c.TargetOffsetY - c.OffsetY) * LerpFactor
}

// ToWorld converts a screen point to world coordinates using the
// rendered (current) offset.
func (c *Camera) ToWorld(screenX, screenY int) (int, int) {
	return screenX + int(c.OffsetX), screenY + int(c.OffsetY)
}

func (c *Camera) clamp(x, y float64) (float64, float64) {
	maxX := float64(MapSize - c.viewportW)
	maxY := float64(MapSize - c.viewportH)
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	return clampf(x, 0, maxX), clampf(y, 0, maxY)
}
