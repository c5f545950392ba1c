// Package workflow is the editing model of a workflow graph: typed nodes,
// directed edges, the structural operators an editor applies to them, and
// the translation to and from the persisted Document.
package workflow

import "slices"

// Graph is an immutable set of nodes and edges. Every mutator returns a new
// Graph and leaves the receiver untouched, so no caller ever observes a
// partially applied change.
//
// Invariants: node ids are unique, edge ids are unique, every edge endpoint
// names an existing node and no edge is a self loop.
type Graph struct {
	nodes     []Node
	edges     []Edge
	nodeIndex map[string]int
	edgeIndex map[string]int
}

// NewGraph validates nodes and edges as a whole and returns the graph.
func NewGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{}
	for _, n := range nodes {
		next, err := g.AddNode(n)
		if err != nil {
			return nil, err
		}
		g = next
	}
	for _, e := range edges {
		next, err := g.AddEdge(e)
		if err != nil {
			return nil, err
		}
		g = next
	}
	return g, nil
}

func build(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:     nodes,
		edges:     edges,
		nodeIndex: make(map[string]int, len(nodes)),
		edgeIndex: make(map[string]int, len(edges)),
	}
	for i, n := range nodes {
		g.nodeIndex[n.ID] = i
	}
	for i, e := range edges {
		g.edgeIndex[e.ID] = i
	}
	return g
}

// Nodes returns a copy of the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.clone()
	}
	return out
}

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i].clone(), true
}

// Edge looks up an edge by id.
func (g *Graph) Edge(id string) (Edge, bool) {
	i, ok := g.edgeIndex[id]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Incoming returns the edges whose target is id.
func (g *Graph) Incoming(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// Outgoing returns the edges whose source is id.
func (g *Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) hasNode(id string) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

func (g *Graph) hasEdge(id string) bool {
	_, ok := g.edgeIndex[id]
	return ok
}

// AddNode returns a graph with n appended.
func (g *Graph) AddNode(n Node) (*Graph, error) {
	if n.ID == "" {
		return nil, invalid("add node", "id", ErrEmptyID)
	}
	if g.hasNode(n.ID) {
		return nil, invalid("add node", n.ID, ErrDuplicateNode)
	}
	if n.Details != nil && n.Details.kind() != n.Kind {
		return nil, invalid("add node", n.ID, ErrFieldKind)
	}
	if n.Position != nil && !usable(n.Position) {
		return nil, invalid("add node", "position", ErrInvalidPosition)
	}
	nodes := append(slices.Clone(g.nodes), n.clone())
	return build(nodes, g.edges), nil
}

// AddEdge returns a graph with e appended. Parallel edges between the same
// ordered pair are kept as distinct edges.
func (g *Graph) AddEdge(e Edge) (*Graph, error) {
	if e.ID == "" {
		return nil, invalid("add edge", "id", ErrEmptyID)
	}
	if g.hasEdge(e.ID) {
		return nil, invalid("add edge", e.ID, ErrDuplicateEdge)
	}
	if e.Source == e.Target {
		return nil, invalid("add edge", e.ID, ErrSelfLoop)
	}
	if !g.hasNode(e.Source) || !g.hasNode(e.Target) {
		return nil, ErrNodeNotFound
	}
	edges := append(slices.Clone(g.edges), e)
	return build(g.nodes, edges), nil
}

// RemoveEdge returns a graph without the edge id.
func (g *Graph) RemoveEdge(id string) (*Graph, error) {
	if !g.hasEdge(id) {
		return nil, ErrEdgeNotFound
	}
	edges := slices.DeleteFunc(slices.Clone(g.edges), func(e Edge) bool { return e.ID == id })
	return build(g.nodes, edges), nil
}

// RemoveNode returns a graph without the node id and without every edge
// that touched it.
func (g *Graph) RemoveNode(id string) (*Graph, error) {
	if !g.hasNode(id) {
		return nil, ErrNodeNotFound
	}
	edges := slices.DeleteFunc(slices.Clone(g.edges), func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	nodes := slices.DeleteFunc(slices.Clone(g.nodes), func(n Node) bool { return n.ID == id })
	return build(nodes, edges), nil
}

// Field names an editable node attribute.
type Field string

const (
	FieldID        Field = "id"
	FieldType      Field = "type"
	FieldLabel     Field = "label"
	FieldEndpoint  Field = "endpoint"
	FieldRecipient Field = "recipient"
)

// UpdateNodeField returns a graph where field of node id holds value.
// The id and type fields are rejected.
func (g *Graph) UpdateNodeField(id string, field Field, value string) (*Graph, error) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	n := g.nodes[i].clone()
	switch field {
	case FieldID, FieldType:
		return nil, invalid("update node", string(field), ErrImmutableField)
	case FieldLabel:
		n.Label = value
	case FieldEndpoint:
		if n.Kind != KindAPI {
			return nil, invalid("update node", string(field), ErrFieldKind)
		}
		n.Details = APIDetails{Endpoint: value}
	case FieldRecipient:
		if n.Kind != KindEmail {
			return nil, invalid("update node", string(field), ErrFieldKind)
		}
		n.Details = EmailDetails{Recipient: value}
	default:
		return nil, invalid("update node", string(field), ErrUnknownField)
	}
	return g.replaceNode(i, n), nil
}

// MoveNode returns a graph where node id sits at p.
func (g *Graph) MoveNode(id string, p Position) (*Graph, error) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	if !usable(&p) {
		return nil, invalid("move node", "position", ErrInvalidPosition)
	}
	n := g.nodes[i].clone()
	n.Position = &p
	return g.replaceNode(i, n), nil
}

func (g *Graph) replaceNode(i int, n Node) *Graph {
	nodes := slices.Clone(g.nodes)
	nodes[i] = n
	return build(nodes, g.edges)
}
