package workflow

import "fmt"

// IssueCode classifies a structural soundness finding.
type IssueCode string

const (
	IssueNoStart       IssueCode = "no_start"
	IssueManyStarts    IssueCode = "many_starts"
	IssueNoEnd         IssueCode = "no_end"
	IssueUnreachable   IssueCode = "unreachable"
	IssueCycleDetected IssueCode = "cycle"
)

// Issue is one soundness finding. NodeID is set when it concerns a node.
type Issue struct {
	Code    IssueCode
	NodeID  string
	Message string
}

// Check reports structural gaps in g. The editor never refuses an edit on
// these grounds; a graph with no end node, for instance, is still a valid
// Graph.
func Check(g *Graph) []Issue {
	var issues []Issue
	var starts []string
	ends := 0
	for _, n := range g.nodes {
		switch n.Kind {
		case KindStart:
			starts = append(starts, n.ID)
		case KindEnd:
			ends++
		}
	}
	switch {
	case len(starts) == 0:
		issues = append(issues, Issue{Code: IssueNoStart, Message: "workflow has no start node"})
	case len(starts) > 1:
		issues = append(issues, Issue{Code: IssueManyStarts, Message: fmt.Sprintf("workflow has %d start nodes", len(starts))})
	}
	if ends == 0 {
		issues = append(issues, Issue{Code: IssueNoEnd, Message: "workflow has no end node"})
	}

	adj := make(map[string][]string)
	for _, e := range g.edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	if len(starts) > 0 {
		seen := make(map[string]bool)
		stack := append([]string(nil), starts...)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[id] {
				continue
			}
			seen[id] = true
			stack = append(stack, adj[id]...)
		}
		for _, n := range g.nodes {
			if !seen[n.ID] {
				issues = append(issues, Issue{Code: IssueUnreachable, NodeID: n.ID, Message: fmt.Sprintf("node %q is not reachable from start", n.ID)})
			}
		}
	}

	if id, ok := findCycle(g, adj); ok {
		issues = append(issues, Issue{Code: IssueCycleDetected, NodeID: id, Message: fmt.Sprintf("cycle through node %q", id)})
	}
	return issues
}

// findCycle runs a colouring DFS and returns a node on the first cycle found.
func findCycle(g *Graph, adj map[string][]string) (string, bool) {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(g.nodes))
	var dfs func(id string) (string, bool)
	dfs = func(id string) (string, bool) {
		state[id] = visiting
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				return next, true
			case unvisited:
				if at, ok := dfs(next); ok {
					return at, true
				}
			}
		}
		state[id] = visited
		return "", false
	}

	// Node order keeps the result deterministic.
	for _, n := range g.nodes {
		if state[n.ID] == unvisited {
			if at, ok := dfs(n.ID); ok {
				return at, true
			}
		}
	}
	return "", false
}
