package valueobjects

// Zoom bounds for the canvas view. Every mutation path clamps into this
// range, so a ViewTransform can never hold an out-of-range zoom.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// ViewTransform is a value object mapping between world space and screen
// space: screen = (world + pan) * zoom. Pan is expressed in world units.
type ViewTransform struct {
	pan  Vec2
	zoom float64
}

// NewViewTransform creates a transform with the zoom clamped into range
func NewViewTransform(pan Vec2, zoom float64) ViewTransform {
	return ViewTransform{pan: pan, zoom: clampZoom(zoom)}
}

// DefaultViewTransform returns the identity view: no pan, zoom 1.
func DefaultViewTransform() ViewTransform {
	return ViewTransform{zoom: 1.0}
}

// Pan returns the current pan offset in world units
func (t ViewTransform) Pan() Vec2 {
	return t.pan
}

// Zoom returns the current zoom factor
func (t ViewTransform) Zoom() float64 {
	return t.zoom
}

// WorldToScreen maps a world-space point to screen pixels
func (t ViewTransform) WorldToScreen(world Vec2) Vec2 {
	return world.Add(t.pan).Scale(t.zoom)
}

// ScreenToWorld maps a screen pixel to world space. Exact inverse of
// WorldToScreen up to floating-point precision.
func (t ViewTransform) ScreenToWorld(screen Vec2) Vec2 {
	return screen.Scale(1 / t.zoom).Sub(t.pan)
}

// WithPan returns a copy of the transform with a new pan offset
func (t ViewTransform) WithPan(pan Vec2) ViewTransform {
	return ViewTransform{pan: pan, zoom: t.zoom}
}

// PannedBy applies a screen-space pointer delta to the pan offset
func (t ViewTransform) PannedBy(screenDelta Vec2) ViewTransform {
	return ViewTransform{pan: t.pan.Add(screenDelta.Scale(1 / t.zoom)), zoom: t.zoom}
}

// ZoomedAt changes the zoom factor while keeping the world point currently
// under the given screen point fixed under it.
func (t ViewTransform) ZoomedAt(screen Vec2, zoom float64) ViewTransform {
	anchor := t.ScreenToWorld(screen)
	next := ViewTransform{pan: t.pan, zoom: clampZoom(zoom)}
	// screen = (anchor + pan) * zoom  =>  pan = screen/zoom - anchor
	next.pan = screen.Scale(1 / next.zoom).Sub(anchor)
	return next
}

// Recentered computes the pan that places the given world point at the
// center of a viewport of the given pixel size, at the given zoom. Used when
// zoom changes through a numeric input so the apparent center is preserved.
func Recentered(targetWorld Vec2, viewportSize Vec2, zoom float64) ViewTransform {
	z := clampZoom(zoom)
	pan := viewportSize.Scale(0.5 / z).Sub(targetWorld)
	return ViewTransform{pan: pan, zoom: z}
}

// WorldCenter returns the world point currently at the center of a viewport
// of the given pixel size.
func (t ViewTransform) WorldCenter(viewportSize Vec2) Vec2 {
	return t.ScreenToWorld(viewportSize.Scale(0.5))
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
