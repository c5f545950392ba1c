package workflow

import "slices"

// Ids of the seeded pair of a new workflow.
const (
	SeedStartID = "start"
	SeedEndID   = "end"
	SeedEdgeID  = "start-end"
)

// Seed returns the graph of a new workflow: a start node, an end node and
// one edge between them.
func Seed() *Graph {
	nodes := []Node{
		{ID: SeedStartID, Kind: KindStart, Label: DefaultLabel(KindStart), Position: &Position{X: 250, Y: 50}},
		{ID: SeedEndID, Kind: KindEnd, Label: DefaultLabel(KindEnd), Position: &Position{X: 250, Y: 200}},
	}
	edges := []Edge{
		{ID: SeedEdgeID, Source: SeedStartID, Target: SeedEndID, Style: DefaultEdgeStyle()},
	}
	return build(nodes, edges)
}

// InsertNode returns g with a new node of kind k at pos. An unusable pos
// places the node at DefaultPosition.
func InsertNode(g *Graph, f *Factory, k Kind, pos *Position) (*Graph, Node) {
	at := DefaultPosition
	if usable(pos) {
		at = *pos
	}
	n := f.nodeFor(g, k, &at)
	return build(append(slices.Clone(g.nodes), n), g.edges), n
}

// SplitEdge replaces edge edgeID (A→B) by A→N→B where N is a new node of
// kind k placed at the midpoint of A and B, or at DefaultPosition when
// either endpoint lacks a usable position.
//
// When the edge or one of its endpoints no longer exists the split is not
// attempted and N is inserted at pointer instead.
func SplitEdge(g *Graph, f *Factory, edgeID string, k Kind, pointer *Position) (*Graph, Node) {
	e, ok := g.Edge(edgeID)
	if !ok {
		return InsertNode(g, f, k, pointer)
	}
	src, okSrc := g.Node(e.Source)
	dst, okDst := g.Node(e.Target)
	if !okSrc || !okDst {
		return InsertNode(g, f, k, pointer)
	}

	at := DefaultPosition
	if usable(src.Position) && usable(dst.Position) {
		at = Position{
			X: (src.Position.X + dst.Position.X) / 2,
			Y: (src.Position.Y + dst.Position.Y) / 2,
		}
	}
	n := f.nodeFor(g, k, &at)

	edges := slices.DeleteFunc(slices.Clone(g.edges), func(x Edge) bool { return x.ID == edgeID })
	next := build(append(slices.Clone(g.nodes), n), edges)
	in := f.edgeFor(next, src.ID, n.ID)
	next = build(next.nodes, append(next.edges, in))
	out := f.edgeFor(next, n.ID, dst.ID)
	return build(next.nodes, append(next.edges, out)), n
}

// DeleteNode removes nodeID and connects each former predecessor to each
// former successor. A predecessor that is also a successor is not
// connected to itself. An unknown nodeID leaves g as is.
func DeleteNode(g *Graph, f *Factory, nodeID string) *Graph {
	if !g.hasNode(nodeID) {
		return g
	}
	var preds, succs []string
	for _, e := range g.edges {
		if e.Target == nodeID && !slices.Contains(preds, e.Source) {
			preds = append(preds, e.Source)
		}
		if e.Source == nodeID && !slices.Contains(succs, e.Target) {
			succs = append(succs, e.Target)
		}
	}

	next, _ := g.RemoveNode(nodeID)
	for _, p := range preds {
		for _, s := range succs {
			if p == s {
				continue
			}
			e := f.edgeFor(next, p, s)
			next = build(next.nodes, append(slices.Clone(next.edges), e))
		}
	}
	return next
}

// Connect returns g with a new edge from source to target.
func Connect(g *Graph, f *Factory, source, target string) (*Graph, Edge, error) {
	if source == target {
		return g, Edge{}, invalid("connect", source, ErrSelfLoop)
	}
	if !g.hasNode(source) || !g.hasNode(target) {
		return g, Edge{}, ErrNodeNotFound
	}
	e := f.edgeFor(g, source, target)
	return build(g.nodes, append(slices.Clone(g.edges), e)), e, nil
}
