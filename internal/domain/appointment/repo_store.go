package appointment

import (
	"context"

	"github.com/ehr/hms/internal/platform/store"
)

type storeRepo struct {
	records *store.Typed[Appointment]
}

func NewStoreRepo(st *store.Store) Repository {
	return &storeRepo{records: store.NewTyped[Appointment](st, store.Appointments)}
}

func (r *storeRepo) Create(ctx context.Context, a *Appointment) error {
	_, err := r.records.Append(ctx, func(id string) (*Appointment, error) {
		a.ID = id
		return a, nil
	})
	return err
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return r.records.Find(ctx, id)
}

func (r *storeRepo) List(ctx context.Context) ([]*Appointment, error) {
	return r.records.All(ctx)
}
