package workflow

import (
	"context"
	"log/slog"
)

// Session is one editing session over one workflow. It owns the graph it
// edits and the selection; the persisted copy changes only on Save.
//
// A Session is driven by one gesture at a time and is not safe for
// concurrent use.
type Session struct {
	repo    Repository
	factory *Factory
	logger  *slog.Logger

	graph *Graph
	meta  Metadata

	selectedNode string
	selectedEdge string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithFactory sets the factory used to create nodes and edges.
func WithFactory(f *Factory) SessionOption {
	return func(s *Session) {
		s.factory = f
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession starts a session on a new workflow seeded with a start and an
// end node.
func NewSession(repo Repository, opts ...SessionOption) *Session {
	s := &Session{
		repo:    repo,
		factory: NewFactory(),
		logger:  slog.Default(),
		meta:    Metadata{Name: "New Workflow"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.graph = Seed()
	return s
}

// Graph returns the graph being edited.
func (s *Session) Graph() *Graph { return s.graph }

// Metadata returns the document-level fields of the workflow being edited.
func (s *Session) Metadata() Metadata { return s.meta }

// NewGraph discards the current graph and starts over from the seed.
func (s *Session) NewGraph() *Graph {
	s.graph = Seed()
	s.meta = Metadata{Name: "New Workflow"}
	s.ClearSelection()
	return s.graph
}

// Load replaces the session graph by the stored workflow id. On any error
// the session is left exactly as it was.
func (s *Session) Load(ctx context.Context, id string) (*Graph, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("workflow load failed", "id", id, "error", err)
		return nil, err
	}
	doc, err := FindDocument(docs, id)
	if err != nil {
		s.logger.Info("workflow not found", "id", id)
		return nil, err
	}
	g, err := FromDocument(doc)
	if err != nil {
		s.logger.Warn("workflow document rejected", "id", id, "error", err)
		return nil, err
	}
	s.graph = g
	s.meta = doc.Metadata()
	s.ClearSelection()
	s.logger.Debug("workflow loaded", "id", id, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// Rename sets the workflow name and description.
func (s *Session) Rename(name, description string) {
	s.meta.Name = name
	s.meta.Description = description
}

// SelectNode marks node id as selected. Unknown ids clear the selection.
func (s *Session) SelectNode(id string) {
	s.ClearSelection()
	if s.graph.hasNode(id) {
		s.selectedNode = id
	}
}

// SelectEdge marks edge id as selected. Unknown ids clear the selection.
func (s *Session) SelectEdge(id string) {
	s.ClearSelection()
	if s.graph.hasEdge(id) {
		s.selectedEdge = id
	}
}

// ClearSelection drops any selected node or edge.
func (s *Session) ClearSelection() {
	s.selectedNode = ""
	s.selectedEdge = ""
}

// Selection returns the selected node id and edge id; either may be empty.
func (s *Session) Selection() (nodeID, edgeID string) {
	return s.selectedNode, s.selectedEdge
}

// AddNode places a new node of kind k at pos.
func (s *Session) AddNode(k Kind, pos *Position) Node {
	g, n := InsertNode(s.graph, s.factory, k, pos)
	s.graph = g
	return n
}

// ApplyEdgeSplit inserts a node of kind k on edge edgeID. pos is where the
// gesture happened and is used when the edge is stale.
func (s *Session) ApplyEdgeSplit(edgeID string, k Kind, pos *Position) Node {
	if !s.graph.hasEdge(edgeID) {
		s.logger.Debug("split on stale edge, inserting instead", "edge", edgeID)
	}
	g, n := SplitEdge(s.graph, s.factory, edgeID, k, pos)
	s.graph = g
	s.dropStaleSelection()
	return n
}

// ApplyNodeDelete removes node id and rewires around it.
func (s *Session) ApplyNodeDelete(id string) {
	s.graph = DeleteNode(s.graph, s.factory, id)
	s.dropStaleSelection()
}

// CanDelete reports whether the editor offers deletion of node id.
// Start and end nodes are not offered; DeleteNode itself accepts them.
func (s *Session) CanDelete(id string) bool {
	n, ok := s.graph.Node(id)
	if !ok {
		return false
	}
	return n.Kind != KindStart && n.Kind != KindEnd
}

// Connect adds an edge from source to target.
func (s *Session) Connect(source, target string) (Edge, error) {
	g, e, err := Connect(s.graph, s.factory, source, target)
	if err != nil {
		return Edge{}, err
	}
	s.graph = g
	return e, nil
}

// RemoveEdge deletes edge id without touching its endpoints.
func (s *Session) RemoveEdge(id string) error {
	g, err := s.graph.RemoveEdge(id)
	if err != nil {
		return err
	}
	s.graph = g
	s.dropStaleSelection()
	return nil
}

// UpdateNodeField edits one field of node id.
func (s *Session) UpdateNodeField(id string, field Field, value string) error {
	g, err := s.graph.UpdateNodeField(id, field, value)
	if err != nil {
		return err
	}
	s.graph = g
	return nil
}

// MoveNode records the drop position of a dragged node.
func (s *Session) MoveNode(id string, p Position) error {
	g, err := s.graph.MoveNode(id, p)
	if err != nil {
		return err
	}
	s.graph = g
	return nil
}

// Issues reports structural gaps in the current graph.
func (s *Session) Issues() []Issue { return Check(s.graph) }

// Export returns the document the session would save.
func (s *Session) Export() Document {
	return ExportDocument(s.graph, s.meta)
}

// Save writes the session to the repository, creating the workflow when it
// has no id yet. A failed save leaves the session untouched.
func (s *Session) Save(ctx context.Context) (*Document, error) {
	doc := s.Export()
	var (
		saved *Document
		err   error
	)
	if s.meta.ID == "" {
		saved, err = s.repo.Create(ctx, &doc)
	} else {
		saved, err = s.repo.Replace(ctx, s.meta.ID, &doc)
	}
	if err != nil {
		s.logger.Warn("workflow save failed", "id", s.meta.ID, "error", err)
		return nil, err
	}
	s.meta.ID = saved.ID
	s.logger.Info("workflow saved", "id", saved.ID, "nodes", len(saved.Nodes), "edges", len(saved.Edges))
	return saved, nil
}

func (s *Session) dropStaleSelection() {
	if s.selectedNode != "" && !s.graph.hasNode(s.selectedNode) {
		s.selectedNode = ""
	}
	if s.selectedEdge != "" && !s.graph.hasEdge(s.selectedEdge) {
		s.selectedEdge = ""
	}
}

// ExportDocument is ToDocument under the name the editor uses.
func ExportDocument(g *Graph, meta Metadata) Document {
	return ToDocument(g, meta)
}
