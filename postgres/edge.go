package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/workflow"
)

// insertEdges writes edges in document order. Endpoints must already be
// present in workflow_nodes.
func insertEdges(ctx context.Context, q querier, workflowID string, edges []workflow.DocumentEdge) error {
	for i, e := range edges {
		if _, err := q.Exec(ctx,
			`INSERT INTO workflow_edges (workflow_id, id, ord, source, target) VALUES ($1, $2, $3, $4, $5)`,
			workflowID, e.ID, i, e.Source, e.Target,
		); err != nil {
			return fmt.Errorf("insert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// listEdges returns edges grouped by workflow id. An empty workflowID
// selects every workflow.
func listEdges(ctx context.Context, q querier, workflowID string) (map[string][]workflow.DocumentEdge, error) {
	rows, err := q.Query(ctx,
		`SELECT workflow_id, id, source, target FROM workflow_edges
		 WHERE $1::text = '' OR workflow_id = $1
		 ORDER BY workflow_id, ord`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]workflow.DocumentEdge)
	for rows.Next() {
		var (
			wfID string
			e    workflow.DocumentEdge
		)
		if err := rows.Scan(&wfID, &e.ID, &e.Source, &e.Target); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		out[wfID] = append(out[wfID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows edges: %w", err)
	}
	return out, nil
}

// deleteGraph removes the nodes and edges of a workflow, keeping its row.
func deleteGraph(ctx context.Context, q querier, workflowID string) error {
	if _, err := q.Exec(ctx, `DELETE FROM workflow_edges WHERE workflow_id = $1`, workflowID); err != nil {
		return fmt.Errorf("delete edges: %w", err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM workflow_nodes WHERE workflow_id = $1`, workflowID); err != nil {
		return fmt.Errorf("delete nodes: %w", err)
	}
	return nil
}
