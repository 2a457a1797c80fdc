package canvas

// Snapshot is a read-only copy of the controller state for the debug
// endpoint. Built under the controller lock; safe to serialize from any
// goroutine.
type Snapshot struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
	PanX  float64    `json:"pan_x"`
	PanY  float64    `json:"pan_y"`
	Zoom  float64    `json:"zoom"`
	Mode  string     `json:"mode"`
}

// NodeView is the wire form of a node.
type NodeView struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

// EdgeView is the wire form of an edge.
type EdgeView struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Snapshot copies the current graph and transform.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Nodes: make([]NodeView, 0, c.graph.NodeCount()),
		Edges: make([]EdgeView, 0, c.graph.EdgeCount()),
		PanX:  c.transform.Pan().X,
		PanY:  c.transform.Pan().Y,
		Zoom:  c.transform.Zoom(),
		Mode:  c.mode.String(),
	}
	for _, node := range c.graph.NodesInOrder() {
		snap.Nodes = append(snap.Nodes, NodeView{
			ID:    node.ID().String(),
			Label: node.Label(),
			X:     node.Position().X,
			Y:     node.Position().Y,
			Size:  node.Size(),
		})
	}
	for _, edge := range c.graph.Edges() {
		snap.Edges = append(snap.Edges, EdgeView{
			Source: edge.Source.String(),
			Target: edge.Target.String(),
		})
	}
	return snap
}
