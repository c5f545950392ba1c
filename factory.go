package workflow

import "github.com/google/uuid"

// IDGenerator returns a fresh id starting with prefix.
type IDGenerator func(prefix string) string

func uuidGenerator(prefix string) string {
	return prefix + uuid.NewString()
}

// Factory produces well-formed nodes and edges.
type Factory struct {
	newID IDGenerator
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithIDGenerator replaces the uuid based id generator. gen should keep
// producing fresh ids; after maxIDAttempts taken ids in a row the factory
// falls back to uuid ids for that node or edge.
func WithIDGenerator(gen IDGenerator) FactoryOption {
	return func(f *Factory) {
		f.newID = gen
	}
}

// NewFactory creates a Factory.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{newID: uuidGenerator}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DefaultLabel maps a kind to its initial label. Unknown kinds get "Node".
func DefaultLabel(k Kind) string {
	switch k {
	case KindStart:
		return "Start"
	case KindEnd:
		return "End"
	case KindAPI:
		return "API Call"
	case KindEmail:
		return "Email"
	case KindDecision:
		return "Decision"
	default:
		return "Node"
	}
}

func defaultDetails(k Kind) Details {
	switch k {
	case KindAPI:
		return APIDetails{}
	case KindEmail:
		return EmailDetails{}
	}
	return nil
}

// CreateNode returns a node of kind k at pos with a fresh id and the
// default label. A nil pos leaves the position absent.
func (f *Factory) CreateNode(k Kind, pos *Position) Node {
	n := Node{
		ID:      f.newID(string(k) + "_"),
		Kind:    k,
		Label:   DefaultLabel(k),
		Details: defaultDetails(k),
	}
	if pos != nil {
		p := *pos
		n.Position = &p
	}
	return n
}

// CreateEdge returns an edge from source to target with a fresh id and the
// default style.
func (f *Factory) CreateEdge(source, target string) Edge {
	return Edge{
		ID:     f.newID("e-"),
		Source: source,
		Target: target,
		Style:  DefaultEdgeStyle(),
	}
}

// maxIDAttempts bounds how often a custom generator is asked again for an
// id that is already taken.
const maxIDAttempts = 16

// nodeFor draws node ids until one is free in g.
func (f *Factory) nodeFor(g *Graph, k Kind, pos *Position) Node {
	n := f.CreateNode(k, pos)
	n.ID = f.redraw(n.ID, string(k)+"_", g.hasNode)
	return n
}

// edgeFor draws edge ids until one is free in g.
func (f *Factory) edgeFor(g *Graph, source, target string) Edge {
	e := f.CreateEdge(source, target)
	e.ID = f.redraw(e.ID, "e-", g.hasEdge)
	return e
}

// redraw returns id, or a replacement for it when taken reports it in use.
func (f *Factory) redraw(id, prefix string, taken func(string) bool) string {
	for i := 0; taken(id) && i < maxIDAttempts; i++ {
		id = f.newID(prefix)
	}
	for taken(id) {
		id = uuidGenerator(prefix)
	}
	return id
}
