// Package memory is an in-process workflow.Repository.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/meikuraledutech/workflow"
)

// Store keeps documents in insertion order. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs []workflow.Document
}

var _ workflow.Repository = (*Store)(nil)

// New creates a Store holding copies of docs.
func New(docs ...workflow.Document) *Store {
	s := &Store{}
	for _, d := range docs {
		s.docs = append(s.docs, clone(d))
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]workflow.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]workflow.Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, clone(d))
	}
	return out, nil
}

// Create stores d. An empty id is replaced by a uuid; an id already in use
// is rejected with a *workflow.ConflictError.
func (s *Store) Create(ctx context.Context, d *workflow.Document) (*workflow.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := clone(*d)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if s.index(doc.ID) >= 0 {
		return nil, &workflow.ConflictError{ID: doc.ID}
	}
	s.docs = append(s.docs, doc)
	out := clone(doc)
	return &out, nil
}

func (s *Store) Replace(ctx context.Context, id string, d *workflow.Document) (*workflow.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, &workflow.NotFoundError{ID: id}
	}
	doc := clone(*d)
	doc.ID = id
	s.docs[i] = doc
	out := clone(doc)
	return &out, nil
}

func (s *Store) Patch(ctx context.Context, id string, p workflow.Patch) (*workflow.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, &workflow.NotFoundError{ID: id}
	}
	if p.IsFavorite != nil {
		s.docs[i].IsFavorite = *p.IsFavorite
	}
	out := clone(s.docs[i])
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return &workflow.NotFoundError{ID: id}
	}
	s.docs = slices.Delete(s.docs, i, i+1)
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.docs, func(d workflow.Document) bool { return d.ID == id })
}

func clone(d workflow.Document) workflow.Document {
	d.Nodes = slices.Clone(d.Nodes)
	for i, n := range d.Nodes {
		if n.Position != nil {
			p := *n.Position
			d.Nodes[i].Position = &p
		}
	}
	d.Edges = slices.Clone(d.Edges)
	return d
}
