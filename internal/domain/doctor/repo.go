package doctor

import "context"

type Repository interface {
	// Create assigns the next doctor id and persists d.
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
}
