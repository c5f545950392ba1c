package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Document is the persisted form of a workflow.
type Document struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsFavorite  bool           `json:"isFavorite,omitempty"`
	Nodes       []DocumentNode `json:"nodes"`
	Edges       []DocumentEdge `json:"edges"`
}

// UnmarshalJSON accepts id as a JSON string or number. Numbers are kept in
// their literal form, so 1712345678901 becomes "1712345678901".
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := documentID(raw.ID)
	if err != nil {
		return err
	}
	*d = Document(raw.plain)
	d.ID = id
	return nil
}

func documentID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("workflow: document id must be a string or number: %s", raw)
	}
	return n.String(), nil
}

// DocumentNode is a node as persisted. Label and Position may be absent.
type DocumentNode struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Type      Kind      `json:"type"`
	Position  *Position `json:"position,omitempty"`
	Endpoint  string    `json:"endpoint,omitempty"`
	Recipient string    `json:"recipient,omitempty"`
}

// UnmarshalJSON accepts the older "nodeType" key in place of "type".
func (n *DocumentNode) UnmarshalJSON(data []byte) error {
	type plain DocumentNode
	var raw struct {
		plain
		NodeType Kind `json:"nodeType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = DocumentNode(raw.plain)
	if n.Type == "" {
		n.Type = raw.NodeType
	}
	return nil
}

// DocumentEdge is an edge as persisted.
type DocumentEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Patch is a partial update of a persisted workflow.
type Patch struct {
	IsFavorite *bool `json:"isFavorite,omitempty"`
}

// Metadata returns the document-level fields of d.
func (d Document) Metadata() Metadata {
	return Metadata{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		IsFavorite:  d.IsFavorite,
	}
}

// ToDocument flattens g into its persisted form. Edge styles are dropped.
func ToDocument(g *Graph, meta Metadata) Document {
	d := Document{
		ID:          meta.ID,
		Name:        meta.Name,
		Description: meta.Description,
		IsFavorite:  meta.IsFavorite,
		Nodes:       make([]DocumentNode, 0, len(g.nodes)),
		Edges:       make([]DocumentEdge, 0, len(g.edges)),
	}
	for _, n := range g.Nodes() {
		d.Nodes = append(d.Nodes, DocumentNode{
			ID:        n.ID,
			Label:     n.Label,
			Type:      n.Kind,
			Position:  n.Position,
			Endpoint:  n.Endpoint(),
			Recipient: n.Recipient(),
		})
	}
	for _, e := range g.edges {
		d.Edges = append(d.Edges, DocumentEdge{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	return d
}

// FromDocument rebuilds a graph from d. Missing labels default to the
// kind's label, missing or non-finite positions to LoadPosition, and every
// edge gets the default style.
func FromDocument(d Document) (*Graph, error) {
	nodes := make([]Node, 0, len(d.Nodes))
	for _, dn := range d.Nodes {
		n := Node{
			ID:    dn.ID,
			Kind:  dn.Type,
			Label: dn.Label,
		}
		if n.Label == "" {
			n.Label = DefaultLabel(dn.Type)
		}
		p := LoadPosition
		if usable(dn.Position) {
			p = *dn.Position
		}
		n.Position = &p
		switch n.Kind {
		case KindAPI:
			n.Details = APIDetails{Endpoint: dn.Endpoint}
		case KindEmail:
			n.Details = EmailDetails{Recipient: dn.Recipient}
		}
		nodes = append(nodes, n)
	}
	edges := make([]Edge, 0, len(d.Edges))
	for _, de := range d.Edges {
		edges = append(edges, Edge{
			ID:     de.ID,
			Source: de.Source,
			Target: de.Target,
			Style:  DefaultEdgeStyle(),
		})
	}
	g, err := NewGraph(nodes, edges)
	if err != nil {
		return nil, &ValidationError{Op: "load document", Field: d.ID, Err: fmt.Errorf("%w: %w", ErrInvalidDocument, err)}
	}
	return g, nil
}

// FindDocument selects the document with id from docs.
func FindDocument(docs []Document, id string) (Document, error) {
	for _, d := range docs {
		if d.ID == id {
			return d, nil
		}
	}
	return Document{}, &NotFoundError{ID: id}
}

// Search returns the documents whose name or id contains query, ignoring
// case. An empty query matches everything.
func Search(docs []Document, query string) []Document {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if q == "" || strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.ID), q) {
			out = append(out, d)
		}
	}
	return out
}
