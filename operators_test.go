package workflow

import (
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairs renders edges as sorted "source->target" strings.
func pairs(g *Graph) []string {
	var out []string
	for _, e := range g.Edges() {
		out = append(out, e.Source+"->"+e.Target)
	}
	sort.Strings(out)
	return out
}

func nodeIDs(g *Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		out = append(out, n.ID)
	}
	sort.Strings(out)
	return out
}

func TestDefaultLabel(t *testing.T) {
	assert.Equal(t, "Start", DefaultLabel(KindStart))
	assert.Equal(t, "End", DefaultLabel(KindEnd))
	assert.Equal(t, "API Call", DefaultLabel(KindAPI))
	assert.Equal(t, "Email", DefaultLabel(KindEmail))
	assert.Equal(t, "Decision", DefaultLabel(KindDecision))
	assert.Equal(t, "Node", DefaultLabel(Kind("webhook")))
}

func TestFactoryCreateNode(t *testing.T) {
	f := counterFactory()

	api := f.CreateNode(KindAPI, &Position{X: 1, Y: 2})
	assert.Equal(t, "api_1", api.ID)
	assert.Equal(t, "API Call", api.Label)
	assert.Equal(t, APIDetails{}, api.Details)

	other := f.CreateNode(Kind("webhook"), nil)
	assert.Equal(t, "Node", other.Label)
	assert.Nil(t, other.Position)
	assert.Nil(t, other.Details)

	e := f.CreateEdge("a", "b")
	assert.Equal(t, "e-3", e.ID)
	assert.Equal(t, DefaultEdgeStyle(), e.Style)
}

func TestFactoryDefaultIDsAreUnique(t *testing.T) {
	f := NewFactory()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := f.CreateNode(KindAPI, nil).ID
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestSplitSeedEdge(t *testing.T) {
	g, n := SplitEdge(Seed(), counterFactory(), SeedEdgeID, KindAPI, nil)

	requireWellFormed(t, g)
	assert.Equal(t, KindAPI, n.Kind)
	assert.Equal(t, []string{"api_1", "end", "start"}, nodeIDs(g))
	assert.Equal(t, []string{"api_1->end", "start->api_1"}, pairs(g))
	assert.Equal(t, Position{X: 250, Y: 125}, *n.Position)

	_, stale := g.Edge(SeedEdgeID)
	assert.False(t, stale)
}

func TestSplitCounts(t *testing.T) {
	g := Seed()
	f := counterFactory()
	for i := 0; i < 5; i++ {
		e := g.Edges()[0]
		before := e
		next, n := SplitEdge(g, f, e.ID, KindDecision, nil)

		requireWellFormed(t, next)
		assert.Equal(t, g.NodeCount()+1, next.NodeCount())
		assert.Equal(t, g.EdgeCount()+1, next.EdgeCount())
		require.Len(t, next.Incoming(n.ID), 1)
		require.Len(t, next.Outgoing(n.ID), 1)
		assert.Equal(t, before.Source, next.Incoming(n.ID)[0].Source)
		assert.Equal(t, before.Target, next.Outgoing(n.ID)[0].Target)
		g = next
	}
}

func TestSplitWithUnusablePositionUsesDefault(t *testing.T) {
	g, err := NewGraph(
		[]Node{
			{ID: "a", Kind: KindStart, Label: "Start"},
			node("b", KindEnd, 10, 10),
		},
		[]Edge{edge("ab", "a", "b")},
	)
	require.NoError(t, err)

	g, n := SplitEdge(g, counterFactory(), "ab", KindEmail, &Position{X: 1, Y: 1})

	requireWellFormed(t, g)
	assert.Equal(t, DefaultPosition, *n.Position)
	assert.Equal(t, []string{"a->email_1", "email_1->b"}, pairs(g))
}

func TestSplitStaleEdgeInsertsAtPointer(t *testing.T) {
	g := Seed()
	next, n := SplitEdge(g, counterFactory(), "gone", KindAPI, &Position{X: 7, Y: 8})

	requireWellFormed(t, next)
	assert.Equal(t, g.NodeCount()+1, next.NodeCount())
	assert.Equal(t, g.EdgeCount(), next.EdgeCount())
	assert.Equal(t, Position{X: 7, Y: 8}, *n.Position)

	_, n = SplitEdge(g, counterFactory(), "gone", KindAPI, &Position{X: math.Inf(1), Y: 0})
	assert.Equal(t, DefaultPosition, *n.Position)
}

func TestSplitRedrawsTakenID(t *testing.T) {
	g, err := Seed().AddNode(node("api_1", KindAPI, 0, 0))
	require.NoError(t, err)

	g, n := SplitEdge(g, counterFactory(), SeedEdgeID, KindAPI, nil)

	requireWellFormed(t, g)
	assert.Equal(t, "api_2", n.ID)
}

func TestStuckGeneratorStillTerminates(t *testing.T) {
	calls := 0
	f := NewFactory(WithIDGenerator(func(prefix string) string {
		calls++
		return prefix + "x"
	}))

	g, first := SplitEdge(Seed(), f, SeedEdgeID, KindAPI, nil)
	requireWellFormed(t, g)
	assert.Equal(t, "api_x", first.ID)

	g, second := SplitEdge(g, f, g.Outgoing(first.ID)[0].ID, KindAPI, nil)
	requireWellFormed(t, g)
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, strings.HasPrefix(second.ID, "api_"))
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())

	g = DeleteNode(g, f, first.ID)
	requireWellFormed(t, g)
	assert.Equal(t, []string{second.ID + "->end", "start->" + second.ID}, pairs(g))
	for _, e := range g.Edges() {
		assert.True(t, strings.HasPrefix(e.ID, "e-"))
	}
	assert.Less(t, calls, 10*(maxIDAttempts+1))
}

func TestDeleteNodeRewiresFanOut(t *testing.T) {
	g, err := NewGraph(
		[]Node{
			node("start", KindStart, 0, 0),
			node("A", KindDecision, 0, 1),
			node("B", KindAPI, 0, 2),
			node("C", KindEmail, 1, 2),
			node("end", KindEnd, 0, 3),
		},
		[]Edge{
			edge("e1", "start", "A"),
			edge("e2", "A", "B"),
			edge("e3", "A", "C"),
			edge("e4", "B", "end"),
			edge("e5", "C", "end"),
		},
	)
	require.NoError(t, err)

	next := DeleteNode(g, counterFactory(), "A")

	requireWellFormed(t, next)
	assert.Equal(t, []string{"B", "C", "end", "start"}, nodeIDs(next))
	assert.Equal(t, []string{"B->end", "C->end", "start->B", "start->C"}, pairs(next))
	// |P|=1, |S|=2: edges change by 1*2 - 3.
	assert.Equal(t, g.EdgeCount()+(1*2-3), next.EdgeCount())
}

func TestDeleteNodeEdgeCountFormula(t *testing.T) {
	testCases := []struct {
		name         string
		preds, succs int
	}{
		{"isolated", 0, 0},
		{"source only", 0, 3},
		{"sink only", 2, 0},
		{"two by two", 2, 2},
		{"three by one", 3, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nodes := []Node{node("N", KindDecision, 0, 0)}
			var edges []Edge
			for i := 0; i < tc.preds; i++ {
				id := "p" + string(rune('a'+i))
				nodes = append(nodes, node(id, KindAPI, 0, 0))
				edges = append(edges, edge("in-"+id, id, "N"))
			}
			for i := 0; i < tc.succs; i++ {
				id := "s" + string(rune('a'+i))
				nodes = append(nodes, node(id, KindAPI, 0, 0))
				edges = append(edges, edge("out-"+id, "N", id))
			}
			g, err := NewGraph(nodes, edges)
			require.NoError(t, err)

			next := DeleteNode(g, counterFactory(), "N")

			requireWellFormed(t, next)
			assert.Equal(t, g.NodeCount()-1, next.NodeCount())
			want := tc.preds*tc.succs - (tc.preds + tc.succs)
			assert.Equal(t, g.EdgeCount()+want, next.EdgeCount())
		})
	}
}

func TestDeleteNodeSkipsSelfLoopOnCycle(t *testing.T) {
	g, err := NewGraph(
		[]Node{node("A", KindDecision, 0, 0), node("N", KindAPI, 0, 0)},
		[]Edge{edge("an", "A", "N"), edge("na", "N", "A")},
	)
	require.NoError(t, err)

	next := DeleteNode(g, counterFactory(), "N")

	requireWellFormed(t, next)
	assert.Equal(t, 0, next.EdgeCount())
}

func TestDeleteNodeDoesNotSpecialCaseKind(t *testing.T) {
	next := DeleteNode(Seed(), counterFactory(), SeedEndID)

	requireWellFormed(t, next)
	assert.Equal(t, []string{"start"}, nodeIDs(next))
	assert.Equal(t, 0, next.EdgeCount())
}

func TestDeleteUnknownNodeIsNoop(t *testing.T) {
	g := Seed()
	assert.Same(t, g, DeleteNode(g, counterFactory(), "missing"))
}

func TestConnect(t *testing.T) {
	f := counterFactory()
	g := Seed()

	next, e, err := Connect(g, f, SeedStartID, SeedEndID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.EdgeCount())
	assert.Equal(t, SeedStartID, e.Source)

	same, _, err := Connect(g, f, SeedStartID, SeedStartID)
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrSelfLoop)
	assert.Same(t, g, same)

	_, _, err = Connect(g, f, SeedStartID, "missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestCheck(t *testing.T) {
	assert.Empty(t, Check(Seed()))

	g := DeleteNode(Seed(), counterFactory(), SeedEndID)
	issues := Check(g)
	require.Len(t, issues, 1)
	assert.Equal(t, IssueNoEnd, issues[0].Code)

	g, _ = InsertNode(Seed(), counterFactory(), KindAPI, nil)
	g, _, err := Connect(g, counterFactory(), SeedEndID, "api_1")
	require.NoError(t, err)
	g, _, err = Connect(g, NewFactory(), "api_1", SeedEndID)
	require.NoError(t, err)

	var codes []IssueCode
	for _, is := range Check(g) {
		codes = append(codes, is.Code)
	}
	assert.Equal(t, []IssueCode{IssueCycleDetected}, codes)
}
