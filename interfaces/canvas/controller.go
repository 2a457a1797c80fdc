package canvas

import (
	"context"
	"math"
	"sync"

	"go.uber.org/zap"

	"notecanvas/application/ports"
	"notecanvas/application/services"
	"notecanvas/domain/core/aggregates"
	"notecanvas/domain/core/valueobjects"
	pkgerrors "notecanvas/pkg/errors"
)

// wheelZoomStep is the zoom multiplier per wheel notch.
const wheelZoomStep = 1.1

// Controller owns the view transform, the interaction mode, and the current
// graph. Pointer and keyboard events arrive on the host's update loop; note
// write-backs run on background goroutines and never touch controller state,
// so the vault change notification reconciles the graph afterwards.
type Controller struct {
	builder   *services.GraphBuilder
	positions *services.PositionService
	edgeSvc   *services.EdgeService
	opener    ports.NoteOpener
	filter    func() string
	logger    *zap.Logger

	mu            sync.Mutex
	graph         *aggregates.Graph
	transform     valueobjects.ViewTransform
	mode          Mode
	dragNodeID    valueobjects.NoteID
	grabOffset    valueobjects.Vec2
	panLast       valueobjects.Vec2
	edgeSourceID  valueobjects.NoteID
	pointer       valueobjects.Vec2
	hover         Hover
	pendingReload bool

	listeners []func(valueobjects.ViewTransform)
	wg        sync.WaitGroup
}

// NewController creates a controller with an empty graph. filter supplies
// the current directory filter on every reload, so config changes take
// effect without restarting.
func NewController(
	builder *services.GraphBuilder,
	positions *services.PositionService,
	edgeSvc *services.EdgeService,
	opener ports.NoteOpener,
	filter func() string,
	initial valueobjects.ViewTransform,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		builder:   builder,
		positions: positions,
		edgeSvc:   edgeSvc,
		opener:    opener,
		filter:    filter,
		logger:    logger,
		graph:     aggregates.NewGraph(),
		transform: initial,
	}
}

// Reload rebuilds the graph from the vault. While a drag or edge creation is
// in flight the reload is deferred so the gesture's in-memory state is not
// clobbered; the host loop picks it up via ConsumePendingReload.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.mode == ModeDraggingNode || c.mode == ModeCreatingEdge {
		c.pendingReload = true
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	graph, err := c.builder.Build(ctx, c.filter())
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.graph = graph
	c.hover = hoverAt(graph, c.transform, c.pointer)
	c.mu.Unlock()
	return nil
}

// ConsumePendingReload reports and clears the deferred-reload flag.
func (c *Controller) ConsumePendingReload() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingReload && c.mode == ModeIdle {
		c.pendingReload = false
		return true
	}
	return false
}

// PointerDown starts a gesture. Shift over a node begins edge creation, the
// primary button over a node begins a drag, the primary button over empty
// space begins a pan, and the secondary button (or shift) over an edge with
// no node under the pointer deletes that edge immediately.
func (c *Controller) PointerDown(screen valueobjects.Vec2, button PointerButton, shift bool) {
	if !screen.IsFinite() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pointer = screen
	if c.mode != ModeIdle {
		return
	}

	if id, ok := nodeAt(c.graph, c.transform, screen); ok {
		if shift {
			c.mode = ModeCreatingEdge
			c.edgeSourceID = id
			return
		}
		if button == ButtonPrimary {
			node, _ := c.graph.GetNode(id)
			c.mode = ModeDraggingNode
			c.dragNodeID = id
			c.grabOffset = screen.Sub(c.transform.WorldToScreen(node.Position()))
		}
		return
	}

	if button == ButtonSecondary || shift {
		if edge, ok := edgeAt(c.graph, c.transform, screen); ok {
			c.deleteEdgeLocked(edge)
		}
		return
	}

	if button == ButtonPrimary {
		c.mode = ModePanning
		c.panLast = screen
	}
}

// PointerMove advances the active gesture and recomputes hover.
func (c *Controller) PointerMove(screen valueobjects.Vec2) {
	if !screen.IsFinite() {
		return
	}
	var notify bool
	c.mu.Lock()
	c.pointer = screen

	switch c.mode {
	case ModeDraggingNode:
		if node, ok := c.graph.GetNode(c.dragNodeID); ok {
			world := c.transform.ScreenToWorld(screen.Sub(c.grabOffset))
			if err := node.MoveTo(world); err != nil {
				c.logger.Debug("ignoring non-finite drag position", zap.Error(err))
			}
		}
	case ModePanning:
		if delta := screen.Sub(c.panLast); delta.Length() > 0 {
			c.transform = c.transform.PannedBy(delta)
			c.panLast = screen
			notify = true
		}
	case ModeCreatingEdge, ModeIdle:
		c.hover = hoverAt(c.graph, c.transform, screen)
	}
	transform := c.transform
	c.mu.Unlock()

	if notify {
		c.notifyTransform(transform)
	}
}

// PointerUp ends the active gesture: a drag commits the node's rounded
// position, a pan simply stops, and an edge creation connects to the node
// under the pointer (discarded over empty space or the source itself).
func (c *Controller) PointerUp(screen valueobjects.Vec2) {
	if !screen.IsFinite() {
		c.mu.Lock()
		screen = c.pointer
		c.mu.Unlock()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pointer = screen
	c.finishGestureLocked(screen, false)
}

// PointerLeave treats leaving the surface as pointer-up so no gesture gets
// stuck. An in-progress edge creation is discarded.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishGestureLocked(c.pointer, true)
}

// KeyEscape discards an in-progress edge creation.
func (c *Controller) KeyEscape() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeCreatingEdge {
		c.mode = ModeIdle
		c.edgeSourceID = valueobjects.NoteID{}
	}
}

// Wheel zooms around the pointer position, keeping the world point under the
// cursor fixed.
func (c *Controller) Wheel(screen valueobjects.Vec2, notches float64) {
	if !screen.IsFinite() || math.IsNaN(notches) || math.IsInf(notches, 0) || notches == 0 {
		return
	}
	c.mu.Lock()
	c.transform = c.transform.ZoomedAt(screen, c.transform.Zoom()*math.Pow(wheelZoomStep, notches))
	c.hover = hoverAt(c.graph, c.transform, c.pointer)
	transform := c.transform
	c.mu.Unlock()

	c.notifyTransform(transform)
}

// DoubleClick asks the host to open the note under the pointer. It does not
// affect the gesture state machine.
func (c *Controller) DoubleClick(screen valueobjects.Vec2) {
	if !screen.IsFinite() {
		return
	}
	c.mu.Lock()
	id, ok := nodeAt(c.graph, c.transform, screen)
	c.mu.Unlock()
	if !ok {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.opener.Open(id); err != nil {
			c.logger.Warn("failed to open note", zap.String("note", id.String()), zap.Error(err))
		}
	}()
}

// Transform returns the current view transform.
func (c *Controller) Transform() valueobjects.ViewTransform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transform
}

// SetTransform replaces the view transform, e.g. from the control strip.
func (c *Controller) SetTransform(t valueobjects.ViewTransform) {
	c.mu.Lock()
	c.transform = t
	c.hover = hoverAt(c.graph, t, c.pointer)
	c.mu.Unlock()

	c.notifyTransform(t)
}

// OnTransformChanged registers a listener for pan/zoom changes. Listeners
// run outside the controller lock.
func (c *Controller) OnTransformChanged(fn func(valueobjects.ViewTransform)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// RenderState returns the inputs for one draw pass. The graph pointer is
// only safe to traverse on the host loop that delivers the events.
func (c *Controller) RenderState() (*aggregates.Graph, valueobjects.ViewTransform, InteractionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph, c.transform, InteractionState{
		Mode:          c.mode,
		DragNodeID:    c.dragNodeID,
		EdgeSourceID:  c.edgeSourceID,
		PointerScreen: c.pointer,
		Hover:         c.hover,
	}
}

// Wait blocks until in-flight write-backs and open requests finish.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// finishGestureLocked resolves the active gesture at the given screen point.
// discard suppresses edge creation (pointer left the surface).
func (c *Controller) finishGestureLocked(screen valueobjects.Vec2, discard bool) {
	switch c.mode {
	case ModeDraggingNode:
		if node, ok := c.graph.GetNode(c.dragNodeID); ok {
			// The in-memory position snaps to what gets written, so model
			// and note agree without waiting for the reload.
			rounded := node.Position().Rounded()
			if err := node.MoveTo(rounded); err == nil {
				c.commitPosition(node.ID(), rounded)
			}
		}
		c.dragNodeID = valueobjects.NoteID{}

	case ModeCreatingEdge:
		source := c.edgeSourceID
		c.edgeSourceID = valueobjects.NoteID{}
		if !discard {
			if target, ok := nodeAt(c.graph, c.transform, screen); ok && !target.Equals(source) {
				c.createEdgeLocked(source, target)
			}
		}

	case ModePanning:
		// A down-up pair at the same pixel is a zero-length pan: a no-op.
	}

	c.mode = ModeIdle
	c.hover = hoverAt(c.graph, c.transform, screen)
}

// createEdgeLocked applies the edge optimistically and persists it in the
// background. A duplicate is rejected here and never written.
func (c *Controller) createEdgeLocked(source, target valueobjects.NoteID) {
	if _, err := c.graph.ConnectNodes(source, target); err != nil {
		if !pkgerrors.IsConflict(err) {
			c.logger.Debug("edge rejected",
				zap.String("source", source.String()),
				zap.String("target", target.String()),
				zap.Error(err))
		}
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.edgeSvc.CreateEdge(context.Background(), source, target); err != nil && !pkgerrors.IsConflict(err) {
			c.logger.Warn("edge create write-back failed", zap.Error(err))
		}
	}()
}

// deleteEdgeLocked removes the edge optimistically and persists the removal
// in the background.
func (c *Controller) deleteEdgeLocked(edge aggregates.Edge) {
	if err := c.graph.DisconnectNodes(edge.Source, edge.Target); err != nil {
		return
	}
	c.hover = hoverAt(c.graph, c.transform, c.pointer)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.edgeSvc.DeleteEdge(context.Background(), edge.Source, edge.Target); err != nil && !pkgerrors.IsNotFound(err) {
			c.logger.Warn("edge delete write-back failed", zap.Error(err))
		}
	}()
}

// commitPosition persists a dragged node's final position in the background.
func (c *Controller) commitPosition(id valueobjects.NoteID, world valueobjects.Vec2) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		// The service re-reads the note before patching, so a body edited
		// mid-drag survives.
		if err := c.positions.Commit(context.Background(), id, world); err != nil {
			c.logger.Warn("position write-back failed", zap.Error(err))
		}
	}()
}

func (c *Controller) notifyTransform(t valueobjects.ViewTransform) {
	c.mu.Lock()
	listeners := make([]func(valueobjects.ViewTransform), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
}
