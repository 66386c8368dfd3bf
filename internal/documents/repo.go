package documents

import "context"

// Repo persists document rows. Implementations must return ErrNotFound for
// missing IDs so services can distinguish absence from infrastructure
// failures.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	// ListStorageKeys returns every storage key currently referenced by a
	// document row. Reconciliation compares these against the blob store.
	ListStorageKeys(ctx context.Context) (map[string]struct{}, error)
}
