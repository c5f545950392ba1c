package workflow

import "math"

// Kind tags a node. The set is closed for the editor's palette, but any
// other value is carried through untouched and labelled generically.
type Kind string

const (
	KindStart    Kind = "start"
	KindEnd      Kind = "end"
	KindAPI      Kind = "api"
	KindEmail    Kind = "email"
	KindDecision Kind = "decision"
)

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// usable reports whether p is present and both coordinates are finite.
func usable(p *Position) bool {
	if p == nil {
		return false
	}
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Details is the kind-specific payload of a node.
// Only APIDetails and EmailDetails implement it.
type Details interface {
	kind() Kind
}

// APIDetails holds the fields of an api node.
type APIDetails struct {
	Endpoint string
}

func (APIDetails) kind() Kind { return KindAPI }

// EmailDetails holds the fields of an email node.
type EmailDetails struct {
	Recipient string
}

func (EmailDetails) kind() Kind { return KindEmail }

// Node is a vertex of the workflow graph.
// ID and Kind never change once the node exists.
type Node struct {
	ID       string
	Kind     Kind
	Label    string
	Position *Position
	Details  Details
}

// Endpoint returns the api endpoint, or "" for any other kind.
func (n Node) Endpoint() string {
	if d, ok := n.Details.(APIDetails); ok {
		return d.Endpoint
	}
	return ""
}

// Recipient returns the email recipient, or "" for any other kind.
func (n Node) Recipient() string {
	if d, ok := n.Details.(EmailDetails); ok {
		return d.Recipient
	}
	return ""
}

func (n Node) clone() Node {
	if n.Position != nil {
		p := *n.Position
		n.Position = &p
	}
	return n
}

// MarkerEnd describes the arrow head drawn at an edge target.
type MarkerEnd struct {
	Type   string `json:"type"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Color  string `json:"color,omitempty"`
}

// EdgeStyle is presentation metadata carried with an edge while editing.
// It has no meaning to the graph and is not persisted.
type EdgeStyle struct {
	Type        string    `json:"type"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth int       `json:"strokeWidth"`
	Marker      MarkerEnd `json:"markerEnd"`
	Animated    bool      `json:"animated"`
}

// DefaultEdgeStyle returns the style attached to every new or loaded edge.
func DefaultEdgeStyle() EdgeStyle {
	return EdgeStyle{
		Type:        "buttonEdge",
		Stroke:      "#2563eb",
		StrokeWidth: 2,
		Marker: MarkerEnd{
			Type:   "arrowclosed",
			Width:  20,
			Height: 20,
			Color:  "#2563eb",
		},
		Animated: true,
	}
}

// Edge is a directed connection between two distinct nodes.
type Edge struct {
	ID     string
	Source string
	Target string
	Style  EdgeStyle
}

// Metadata is the document-level information exported alongside a graph.
type Metadata struct {
	ID          string
	Name        string
	Description string
	IsFavorite  bool
}

var (
	// DefaultPosition is used when a split cannot compute a midpoint.
	DefaultPosition = Position{X: 250, Y: 200}
	// LoadPosition is used for persisted nodes that carry no position.
	LoadPosition = Position{X: 250, Y: 150}
)
