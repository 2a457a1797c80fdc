package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"notecanvas/domain/core/valueobjects"
	"notecanvas/interfaces/canvas"
	"notecanvas/interfaces/canvas/render"
	"notecanvas/pkg/observability"
)

const (
	doubleClickWindow = 400 * time.Millisecond
	doubleClickSlopPx = 4.0
)

// stripField identifies which control-strip field has keyboard focus.
type stripField int

const (
	fieldNone stripField = iota
	fieldZoom
	fieldCenterX
	fieldCenterY
)

// game is the desktop shell: it translates raw input into controller events,
// hosts the control strip, and blits the rendered frame.
type game struct {
	ctrl     *canvas.Controller
	strip    *canvas.ControlStrip
	renderer *render.Renderer
	metrics  *observability.Metrics
	logger   *zap.Logger

	// reloads carries vault and config change signals onto the update loop.
	reloads <-chan struct{}

	width, height int
	frame         *ebiten.Image

	lastPointer   valueobjects.Vec2
	pointerInside bool
	lastClickAt   time.Time
	lastClickPos  valueobjects.Vec2

	focus    stripField
	editText string
}

func (g *game) Update() error {
	g.drainReloads()
	g.handleKeyboard()
	g.handlePointer()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	graph, transform, state := g.ctrl.RenderState()
	img := g.renderer.Frame(graph, transform, state, g.width, g.height)
	if img != nil {
		if g.frame == nil || g.frame.Bounds().Dx() != g.width || g.frame.Bounds().Dy() != g.height {
			g.frame = ebiten.NewImage(g.width, g.height)
		}
		g.frame.WritePixels(img.Pix)
		screen.DrawImage(g.frame, nil)
	}

	g.drawStrip(screen)
	g.metrics.FramesRendered.Inc()
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// ViewportSize reports the surface size for the recenter math.
func (g *game) ViewportSize() valueobjects.Vec2 {
	return valueobjects.Vec2{X: float64(g.width), Y: float64(g.height)}
}

func (g *game) drainReloads() {
	reload := false
	for {
		select {
		case _, ok := <-g.reloads:
			if !ok {
				return
			}
			reload = true
		default:
			if reload {
				if err := g.ctrl.Reload(context.Background()); err != nil {
					g.logger.Warn("graph reload failed", zap.Error(err))
				}
			} else if g.ctrl.ConsumePendingReload() {
				if err := g.ctrl.Reload(context.Background()); err != nil {
					g.logger.Warn("deferred graph reload failed", zap.Error(err))
				}
			}
			return
		}
	}
}

func (g *game) handlePointer() {
	x, y := ebiten.CursorPosition()
	pos := valueobjects.Vec2{X: float64(x), Y: float64(y)}
	inside := x >= 0 && y >= 0 && x < g.width && y < g.height

	if g.pointerInside && !inside {
		g.ctrl.PointerLeave()
	}
	g.pointerInside = inside

	if inside && !pos.Equals(g.lastPointer) {
		g.ctrl.PointerMove(pos)
	}
	g.lastPointer = pos

	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if time.Since(g.lastClickAt) < doubleClickWindow && pos.DistanceTo(g.lastClickPos) <= doubleClickSlopPx {
			g.ctrl.DoubleClick(pos)
			g.lastClickAt = time.Time{}
		} else {
			g.ctrl.PointerDown(pos, canvas.ButtonPrimary, shift)
			g.lastClickAt = time.Now()
			g.lastClickPos = pos
		}
	}
	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.ctrl.PointerDown(pos, canvas.ButtonSecondary, shift)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) ||
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		g.ctrl.PointerUp(pos)
	}

	if _, dy := ebiten.Wheel(); dy != 0 && inside {
		g.ctrl.Wheel(pos, dy)
	}
}

// handleKeyboard drives the control-strip fields: Tab cycles focus, typing
// edits, Enter submits, Escape blurs (or cancels an edge creation when no
// field is focused).
func (g *game) handleKeyboard() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.focus = (g.focus + 1) % 4
		g.editText = g.focusedFieldValue()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.focus != fieldNone {
			g.focus = fieldNone
			g.editText = ""
		} else {
			g.ctrl.KeyEscape()
		}
		return
	}

	if g.focus == fieldNone {
		return
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			g.editText += string(r)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(g.editText) > 0 {
		g.editText = g.editText[:len(g.editText)-1]
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.submitFocusedField()
		g.focus = fieldNone
		g.editText = ""
	}
}

func (g *game) focusedFieldValue() string {
	zoom, cx, cy := g.strip.Fields()
	switch g.focus {
	case fieldZoom:
		return zoom
	case fieldCenterX:
		return cx
	case fieldCenterY:
		return cy
	}
	return ""
}

func (g *game) submitFocusedField() {
	_, cx, cy := g.strip.Fields()
	var err error
	switch g.focus {
	case fieldZoom:
		err = g.strip.SubmitZoom(g.editText)
	case fieldCenterX:
		err = g.strip.SubmitCenter(g.editText, cy)
	case fieldCenterY:
		err = g.strip.SubmitCenter(cx, g.editText)
	}
	if err != nil {
		g.logger.Debug("control strip input rejected", zap.String("input", g.editText), zap.Error(err))
	}
}

func (g *game) drawStrip(screen *ebiten.Image) {
	zoom, cx, cy := g.strip.Fields()
	if g.focus == fieldZoom {
		zoom = g.editText + "_"
	}
	if g.focus == fieldCenterX {
		cx = g.editText + "_"
	}
	if g.focus == fieldCenterY {
		cy = g.editText + "_"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("zoom %s   center x %s   y %s   (tab to edit)", zoom, cx, cy), 8, 4)
}
