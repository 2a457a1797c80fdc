package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestWorldToScreen_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		pan   Vec2
		zoom  float64
		point Vec2
	}{
		{
			name:  "identity transform at origin",
			pan:   Vec2{},
			zoom:  1.0,
			point: Vec2{},
		},
		{
			name:  "identity transform off origin",
			pan:   Vec2{},
			zoom:  1.0,
			point: Vec2{X: 123.5, Y: -42.25},
		},
		{
			name:  "panned view",
			pan:   Vec2{X: 250, Y: -80},
			zoom:  1.0,
			point: Vec2{X: -17, Y: 99},
		},
		{
			name:  "minimum zoom",
			pan:   Vec2{X: 10, Y: 10},
			zoom:  MinZoom,
			point: Vec2{X: 1000, Y: -1000},
		},
		{
			name:  "maximum zoom",
			pan:   Vec2{X: -3.7, Y: 12.1},
			zoom:  MaxZoom,
			point: Vec2{X: 0.25, Y: 0.75},
		},
		{
			name:  "fractional zoom with large coordinates",
			pan:   Vec2{X: 1e6, Y: -1e6},
			zoom:  0.37,
			point: Vec2{X: -54321.5, Y: 98765.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewViewTransform(tt.pan, tt.zoom)

			screen := view.WorldToScreen(tt.point)
			back := view.ScreenToWorld(screen)

			assert.InDelta(t, tt.point.X, back.X, math.Abs(tt.point.X)*1e-12+tolerance)
			assert.InDelta(t, tt.point.Y, back.Y, math.Abs(tt.point.Y)*1e-12+tolerance)
		})
	}
}

func TestViewTransform_ZoomClamped(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
		want float64
	}{
		{name: "below minimum clamps up", zoom: 0.01, want: MinZoom},
		{name: "above maximum clamps down", zoom: 50, want: MaxZoom},
		{name: "in range untouched", zoom: 2.5, want: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewViewTransform(Vec2{}, tt.zoom)
			assert.Equal(t, tt.want, view.Zoom())
		})
	}
}

func TestViewTransform_ZoomedAt_KeepsAnchorFixed(t *testing.T) {
	tests := []struct {
		name    string
		pan     Vec2
		zoom    float64
		anchor  Vec2
		newZoom float64
	}{
		{
			name:    "zoom in at viewport corner",
			pan:     Vec2{X: 40, Y: 60},
			zoom:    1.0,
			anchor:  Vec2{},
			newZoom: 2.0,
		},
		{
			name:    "zoom out at arbitrary point",
			pan:     Vec2{X: -100, Y: 35},
			zoom:    1.5,
			anchor:  Vec2{X: 320, Y: 240},
			newZoom: 0.75,
		},
		{
			name:    "zoom request past maximum still anchors after clamping",
			pan:     Vec2{X: 5, Y: 5},
			zoom:    4.0,
			anchor:  Vec2{X: 100, Y: 100},
			newZoom: 25.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewViewTransform(tt.pan, tt.zoom)
			before := view.ScreenToWorld(tt.anchor)

			zoomed := view.ZoomedAt(tt.anchor, tt.newZoom)
			after := zoomed.ScreenToWorld(tt.anchor)

			assert.InDelta(t, before.X, after.X, 1e-9)
			assert.InDelta(t, before.Y, after.Y, 1e-9)
		})
	}
}

func TestRecentered(t *testing.T) {
	viewport := Vec2{X: 800, Y: 600}
	target := Vec2{X: 150, Y: -75}

	view := Recentered(target, viewport, 2.0)

	center := view.WorldToScreen(target)
	assert.InDelta(t, 400, center.X, tolerance)
	assert.InDelta(t, 300, center.Y, tolerance)

	require.Equal(t, 2.0, view.Zoom())
	got := view.WorldCenter(viewport)
	assert.InDelta(t, target.X, got.X, tolerance)
	assert.InDelta(t, target.Y, got.Y, tolerance)
}

func TestViewTransform_PannedBy(t *testing.T) {
	// A screen-space pointer delta moves the pan by delta/zoom world units.
	view := NewViewTransform(Vec2{X: 10, Y: 20}, 2.0)

	panned := view.PannedBy(Vec2{X: 100, Y: -50})

	assert.InDelta(t, 60, panned.Pan().X, tolerance)
	assert.InDelta(t, -5, panned.Pan().Y, tolerance)
	assert.Equal(t, 2.0, panned.Zoom())
}
