// Package render draws the canvas: grid, edges, nodes, and labels. The draw
// pass is a pure function of the graph, the view transform, and the
// interaction state; it holds no state between frames.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"notecanvas/domain/core/aggregates"
	"notecanvas/domain/core/valueobjects"
	"notecanvas/interfaces/canvas"
)

const (
	// gridInterval is the spacing between grid lines in world units.
	gridInterval = 100.0

	labelFontSize = 13.0
	labelGap      = 6.0
)

var (
	colorBackground = color.RGBA{R: 0x16, G: 0x17, B: 0x1c, A: 0xff}
	colorGrid       = color.RGBA{R: 0x24, G: 0x26, B: 0x2e, A: 0xff}
	colorEdge       = color.RGBA{R: 0x6c, G: 0x70, B: 0x86, A: 0xff}
	colorEdgeHover  = color.RGBA{R: 0xe5, G: 0xc0, B: 0x7b, A: 0xff}
	colorPreview    = color.RGBA{R: 0x8a, G: 0xad, B: 0xf4, A: 0xff}
	colorNodeFill   = color.RGBA{R: 0x3b, G: 0x66, B: 0xa0, A: 0xff}
	colorNodeStroke = color.RGBA{R: 0x9d, G: 0xc1, B: 0xe8, A: 0xff}
	colorNodeActive = color.RGBA{R: 0xe8, G: 0xdc, B: 0x9d, A: 0xff}
	colorLabel      = color.RGBA{R: 0xc8, G: 0xcc, B: 0xd8, A: 0xff}
)

// Renderer rasterizes frames. The font face is built once and reused.
type Renderer struct {
	face font.Face
}

// New creates a renderer with the bundled label font.
func New() (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		face: truetype.NewFace(f, &truetype.Options{Size: labelFontSize}),
	}, nil
}

// Frame draws one frame at the given pixel size. Returns nil when the
// surface has no area.
func (r *Renderer) Frame(
	graph *aggregates.Graph,
	t valueobjects.ViewTransform,
	state canvas.InteractionState,
	width, height int,
) *image.RGBA {
	if width <= 0 || height <= 0 {
		return nil
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackground)
	dc.Clear()

	drawGrid(dc, t, width, height)
	r.drawEdges(dc, graph, t, state)
	r.drawPreview(dc, graph, t, state)
	r.drawNodes(dc, graph, t, state)

	return dc.Image().(*image.RGBA)
}

// drawGrid paints vertical and horizontal lines at a fixed world interval.
// The phase wraps with the pan so the grid scrolls continuously.
func drawGrid(dc *gg.Context, t valueobjects.ViewTransform, width, height int) {
	spacing := gridInterval * t.Zoom()
	if spacing < 4 {
		return
	}

	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)

	for x := phase(t.Pan().X*t.Zoom(), spacing); x < float64(width); x += spacing {
		dc.DrawLine(x, 0, x, float64(height))
	}
	for y := phase(t.Pan().Y*t.Zoom(), spacing); y < float64(height); y += spacing {
		dc.DrawLine(0, y, float64(width), y)
	}
	dc.Stroke()
}

// phase wraps an offset into [0, spacing)
func phase(offset, spacing float64) float64 {
	p := math.Mod(offset, spacing)
	if p < 0 {
		p += spacing
	}
	return p
}

func (r *Renderer) drawEdges(dc *gg.Context, graph *aggregates.Graph, t valueobjects.ViewTransform, state canvas.InteractionState) {
	for _, edge := range graph.Edges() {
		source, okS := graph.GetNode(edge.Source)
		target, okT := graph.GetNode(edge.Target)
		if !okS || !okT {
			continue
		}
		a := t.WorldToScreen(source.Position())
		b := t.WorldToScreen(target.Position())

		if state.Hover.HasEdge && state.Hover.Edge.Key() == edge.Key() {
			dc.SetColor(colorEdgeHover)
			dc.SetLineWidth(3)
		} else {
			dc.SetColor(colorEdge)
			dc.SetLineWidth(1.5)
		}
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
}

// drawPreview paints the dashed segment from the edge-creation source to the
// pointer.
func (r *Renderer) drawPreview(dc *gg.Context, graph *aggregates.Graph, t valueobjects.ViewTransform, state canvas.InteractionState) {
	if state.Mode != canvas.ModeCreatingEdge {
		return
	}
	source, ok := graph.GetNode(state.EdgeSourceID)
	if !ok {
		return
	}
	from := t.WorldToScreen(source.Position())

	dc.SetColor(colorPreview)
	dc.SetLineWidth(2)
	dc.SetDash(6, 4)
	dc.DrawLine(from.X, from.Y, state.PointerScreen.X, state.PointerScreen.Y)
	dc.Stroke()
	dc.SetDash()
}

func (r *Renderer) drawNodes(dc *gg.Context, graph *aggregates.Graph, t valueobjects.ViewTransform, state canvas.InteractionState) {
	dc.SetFontFace(r.face)

	for _, node := range graph.NodesInOrder() {
		center := t.WorldToScreen(node.Position())
		radius := canvas.NodeBaseRadius * node.Size() * t.Zoom()

		active := (state.Mode == canvas.ModeDraggingNode && state.DragNodeID.Equals(node.ID())) ||
			(state.Mode == canvas.ModeCreatingEdge && state.EdgeSourceID.Equals(node.ID())) ||
			(state.Hover.HasNode && state.Hover.NodeID.Equals(node.ID()))

		dc.SetColor(colorNodeFill)
		dc.DrawCircle(center.X, center.Y, radius)
		dc.Fill()

		if active {
			dc.SetColor(colorNodeActive)
			dc.SetLineWidth(2.5)
		} else {
			dc.SetColor(colorNodeStroke)
			dc.SetLineWidth(1.5)
		}
		dc.DrawCircle(center.X, center.Y, radius)
		dc.Stroke()

		dc.SetColor(colorLabel)
		dc.DrawStringAnchored(node.Label(), center.X, center.Y+radius+labelGap, 0.5, 1)
	}
}
