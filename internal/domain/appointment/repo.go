package appointment

import "context"

type Repository interface {
	// Create assigns the next appointment id and persists a.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context) ([]*Appointment, error)
}
