package patient

import "context"

type Repository interface {
	// Create assigns the next patient id and persists p.
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
}
