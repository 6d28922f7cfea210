package engine

import (
	"math"
	"testing"
)

func TestCameraTargetCentersAndClamps(t *testing.T) {
	c := NewCamera(800, 600)

	c.SetTarget(100, 100)
	if c.TargetOffsetX != 0 || c.TargetOffsetY != 0 {
		t.Fatalf("near-origin target should clamp to 0, got (%f, %f)", c.TargetOffsetX, c.TargetOffsetY)
	}

	c.SetTarget(5000, 5000)
	if c.TargetOffsetX != 5000-400 || c.TargetOffsetY != 5000-300 {
		t.Fatalf("target should center the point, got (%f, %f)", c.TargetOffsetX, c.TargetOffsetY)
	}

	c.SetTarget(MapSize, MapSize)
	if c.TargetOffsetX != MapSize-800 || c.TargetOffsetY != MapSize-600 {
		t.Fatalf("far-edge target should clamp to map, got (%f, %f)", c.TargetOffsetX, c.TargetOffsetY)
	}
}

func TestCameraSnapSkipsSweep(t *testing.T) {
	c := NewCamera(800, 600)
	c.SnapTo(10000, 10000)
	if c.OffsetX != c.TargetOffsetX || c.OffsetY != c.TargetOffsetY {
		t.Fatalf("snap left offset trailing target: %+v", c)
	}
}

func TestCameraAdvanceConverges(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetTarget(5000, 5000)
	for i := 0; i < 100; i++ {
		c.Advance()
	}
	if math.Abs(c.OffsetX-c.TargetOffsetX) > 1 || math.Abs(c.OffsetY-c.TargetOffsetY) > 1 {
		t.Fatalf("camera did not converge: offset (%f, %f) target (%f, %f)",
			c.OffsetX, c.OffsetY, c.TargetOffsetX, c.TargetOffsetY)
	}
}

func TestCameraToWorldUsesRenderedOffset(t *testing.T) {
	c := NewCamera(800, 600)
	c.SnapTo(5000, 5000)
	wx, wy := c.ToWorld(10, 20)
	if wx != 10+int(c.OffsetX) || wy != 20+int(c.OffsetY) {
		t.Fatalf("world point (%d, %d) does not include offset (%f, %f)", wx, wy, c.OffsetX, c.OffsetY)
	}
}
