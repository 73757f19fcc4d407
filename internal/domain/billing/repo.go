package billing

import "context"

type BillRepository interface {
	// Create assigns the next bill id and persists b.
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id string) (*Bill, error)
	List(ctx context.Context) ([]*Bill, error)
}
