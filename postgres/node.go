package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/meikuraledutech/workflow"
)

// querier is the part of pgxpool.Pool and pgx.Tx used here.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// insertNodes writes nodes in document order. The whole node record,
// including its id, is kept in data.
func insertNodes(ctx context.Context, q querier, workflowID string, nodes []workflow.DocumentNode) error {
	for i, n := range nodes {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("encode node %s: %w", n.ID, err)
		}
		if _, err := q.Exec(ctx,
			`INSERT INTO workflow_nodes (workflow_id, id, ord, data) VALUES ($1, $2, $3, $4)`,
			workflowID, n.ID, i, data,
		); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}
	return nil
}

// listNodes returns nodes grouped by workflow id. An empty workflowID
// selects every workflow.
func listNodes(ctx context.Context, q querier, workflowID string) (map[string][]workflow.DocumentNode, error) {
	rows, err := q.Query(ctx,
		`SELECT workflow_id, data FROM workflow_nodes
		 WHERE $1::text = '' OR workflow_id = $1
		 ORDER BY workflow_id, ord`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]workflow.DocumentNode)
	for rows.Next() {
		var (
			wfID string
			data []byte
		)
		if err := rows.Scan(&wfID, &data); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		var n workflow.DocumentNode
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("decode node: %w", err)
		}
		out[wfID] = append(out[wfID], n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows nodes: %w", err)
	}
	return out, nil
}
