package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/workflow"
)

// List returns every workflow with its nodes and edges, oldest first.
func (s *PGStore) List(ctx context.Context) ([]workflow.Document, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, is_favorite FROM workflows ORDER BY created_at, id`)
	if err != nil {
		return nil, ioErr("list", fmt.Errorf("query workflows: %w", err))
	}
	defer rows.Close()

	docs := []workflow.Document{}
	for rows.Next() {
		var d workflow.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.IsFavorite); err != nil {
			return nil, ioErr("list", fmt.Errorf("scan workflow: %w", err))
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("list", fmt.Errorf("rows workflows: %w", err))
	}

	nodes, err := listNodes(ctx, s.db, "")
	if err != nil {
		return nil, ioErr("list", err)
	}
	edges, err := listEdges(ctx, s.db, "")
	if err != nil {
		return nil, ioErr("list", err)
	}
	for i := range docs {
		docs[i].Nodes = orEmpty(nodes[docs[i].ID])
		docs[i].Edges = orEmpty(edges[docs[i].ID])
	}
	return docs, nil
}

// Create saves a full workflow (row + nodes + edges) in one transaction.
// An empty id gets a generated UUID. An id already stored is rejected with
// a *workflow.ConflictError and the stored workflow is left untouched.
func (s *PGStore) Create(ctx context.Context, d *workflow.Document) (*workflow.Document, error) {
	doc := *d
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			`INSERT INTO workflows (id, name, description, is_favorite) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			doc.ID, doc.Name, doc.Description, doc.IsFavorite,
		)
		if err != nil {
			return fmt.Errorf("insert workflow: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return &workflow.ConflictError{ID: doc.ID}
		}
		return writeGraph(ctx, tx, &doc)
	})
	if err != nil {
		return nil, wrap("create", err)
	}
	return &doc, nil
}

// Replace overwrites the workflow id, its nodes and its edges in one
// transaction.
func (s *PGStore) Replace(ctx context.Context, id string, d *workflow.Document) (*workflow.Document, error) {
	doc := *d
	doc.ID = id

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			`UPDATE workflows SET name = $1, description = $2, is_favorite = $3, updated_at = NOW() WHERE id = $4`,
			doc.Name, doc.Description, doc.IsFavorite, id,
		)
		if err != nil {
			return fmt.Errorf("update workflow: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return &workflow.NotFoundError{ID: id}
		}
		return writeGraph(ctx, tx, &doc)
	})
	if err != nil {
		return nil, wrap("replace", err)
	}
	return &doc, nil
}

// Patch updates the list-level flags of a workflow.
func (s *PGStore) Patch(ctx context.Context, id string, p workflow.Patch) (*workflow.Document, error) {
	ct, err := s.db.Exec(ctx,
		`UPDATE workflows SET is_favorite = COALESCE($1, is_favorite), updated_at = NOW() WHERE id = $2`,
		p.IsFavorite, id,
	)
	if err != nil {
		return nil, ioErr("patch", fmt.Errorf("update workflow: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return nil, &workflow.NotFoundError{ID: id}
	}
	doc, err := s.get(ctx, id)
	if err != nil {
		return nil, wrap("patch", err)
	}
	return doc, nil
}

// Delete removes a workflow; its nodes and edges are cascade-deleted.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	ct, err := s.db.Exec(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return ioErr("delete", fmt.Errorf("delete workflow: %w", err))
	}
	if ct.RowsAffected() == 0 {
		return &workflow.NotFoundError{ID: id}
	}
	return nil
}

// get fetches a single workflow by id.
func (s *PGStore) get(ctx context.Context, id string) (*workflow.Document, error) {
	var d workflow.Document
	err := s.db.QueryRow(ctx,
		`SELECT id, name, description, is_favorite FROM workflows WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.IsFavorite)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &workflow.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get workflow: %w", err)
	}

	nodes, err := listNodes(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	edges, err := listEdges(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	d.Nodes = orEmpty(nodes[id])
	d.Edges = orEmpty(edges[id])
	return &d, nil
}

// writeGraph swaps the stored nodes and edges of doc for the ones it carries.
func writeGraph(ctx context.Context, tx pgx.Tx, doc *workflow.Document) error {
	if err := deleteGraph(ctx, tx, doc.ID); err != nil {
		return err
	}
	if err := insertNodes(ctx, tx, doc.ID, doc.Nodes); err != nil {
		return err
	}
	return insertEdges(ctx, tx, doc.ID, doc.Edges)
}

func (s *PGStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// wrap passes not-found and conflict errors through and reports anything
// else as an i/o failure.
func wrap(op string, err error) error {
	var nf *workflow.NotFoundError
	if errors.As(err, &nf) {
		return nf
	}
	var ce *workflow.ConflictError
	if errors.As(err, &ce) {
		return ce
	}
	return ioErr(op, err)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
