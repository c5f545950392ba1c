package workflow

import "context"

// Repository is the persistence collaborator an editing session loads from
// and saves to. Implementations report a missing workflow with a
// *NotFoundError, a taken id on Create with a *ConflictError and a failed
// transport with a *TransientIOError.
type Repository interface {
	// List returns every stored workflow.
	List(ctx context.Context) ([]Document, error)
	// Create stores d, generating an id when d.ID is empty. It never
	// overwrites an existing workflow.
	Create(ctx context.Context, d *Document) (*Document, error)
	// Replace overwrites the workflow id with d.
	Replace(ctx context.Context, id string, d *Document) (*Document, error)
	// Patch applies a partial update to the workflow id.
	Patch(ctx context.Context, id string, p Patch) (*Document, error)
	// Delete removes the workflow id.
	Delete(ctx context.Context, id string) error
}

// SchemaManager is implemented by repositories that own a database schema.
type SchemaManager interface {
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
}
