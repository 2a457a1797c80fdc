package canvas

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
)

// ControlStrip is the numeric zoom and world-center fields, two-way bound to
// the controller's transform. Gestures update the fields; submitting a field
// updates the transform. The applying flag stops the two directions from
// feeding each other.
type ControlStrip struct {
	ctrl         *Controller
	viewportSize func() valueobjects.Vec2

	mu          sync.Mutex
	applying    bool
	zoomText    string
	centerXText string
	centerYText string
}

// NewControlStrip binds a control strip to the controller. viewportSize
// supplies the current surface size for the recenter math.
func NewControlStrip(ctrl *Controller, viewportSize func() valueobjects.Vec2) *ControlStrip {
	cs := &ControlStrip{ctrl: ctrl, viewportSize: viewportSize}
	cs.syncFields(ctrl.Transform())
	ctrl.OnTransformChanged(cs.onTransformChanged)
	return cs
}

// Fields returns the current field texts for display.
func (cs *ControlStrip) Fields() (zoom, centerX, centerY string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.zoomText, cs.centerXText, cs.centerYText
}

// SubmitZoom applies an edited zoom field, keeping the world center fixed.
// The fields re-sync to the applied (possibly clamped) transform.
func (cs *ControlStrip) SubmitZoom(text string) error {
	zoom, err := parseField(text)
	if err != nil {
		return err
	}
	if zoom <= 0 {
		return pkgerrors.NewValidationError("zoom must be positive")
	}

	viewport := cs.viewportSize()
	center := cs.ctrl.Transform().WorldCenter(viewport)
	cs.apply(valueobjects.Recentered(center, viewport, zoom))
	return nil
}

// SubmitCenter applies edited world-center fields at the current zoom.
func (cs *ControlStrip) SubmitCenter(xText, yText string) error {
	x, err := parseField(xText)
	if err != nil {
		return err
	}
	y, err := parseField(yText)
	if err != nil {
		return err
	}

	center, err := valueobjects.NewVec2(x, y)
	if err != nil {
		return pkgerrors.NewValidationError("center must be finite")
	}
	cs.apply(valueobjects.Recentered(center, cs.viewportSize(), cs.ctrl.Transform().Zoom()))
	return nil
}

// apply pushes a transform to the controller with the re-entrancy guard
// raised, then re-syncs the fields from the transform actually in effect.
func (cs *ControlStrip) apply(t valueobjects.ViewTransform) {
	cs.mu.Lock()
	cs.applying = true
	cs.mu.Unlock()

	cs.ctrl.SetTransform(t)

	cs.mu.Lock()
	cs.applying = false
	cs.mu.Unlock()

	cs.syncFields(cs.ctrl.Transform())
}

// onTransformChanged mirrors gesture-driven transform changes into the
// fields unless the change originated here.
func (cs *ControlStrip) onTransformChanged(t valueobjects.ViewTransform) {
	cs.mu.Lock()
	skip := cs.applying
	cs.mu.Unlock()
	if skip {
		return
	}
	cs.syncFields(t)
}

func (cs *ControlStrip) syncFields(t valueobjects.ViewTransform) {
	center := t.WorldCenter(cs.viewportSize())

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.zoomText = strconv.FormatFloat(t.Zoom(), 'f', 2, 64)
	cs.centerXText = strconv.FormatFloat(math.Round(center.X), 'f', 0, 64)
	cs.centerYText = strconv.FormatFloat(math.Round(center.Y), 'f', 0, 64)
}

func parseField(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, pkgerrors.NewValidationError("not a number: " + strings.TrimSpace(text))
	}
	return v, nil
}
