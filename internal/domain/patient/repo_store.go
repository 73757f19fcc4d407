package patient

import (
	"context"

	"github.com/ehr/hms/internal/platform/store"
)

type storeRepo struct {
	records *store.Typed[Patient]
}

func NewStoreRepo(st *store.Store) Repository {
	return &storeRepo{records: store.NewTyped[Patient](st, store.Patients)}
}

func (r *storeRepo) Create(ctx context.Context, p *Patient) error {
	_, err := r.records.Append(ctx, func(id string) (*Patient, error) {
		p.ID = id
		return p, nil
	})
	return err
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*Patient, error) {
	return r.records.Find(ctx, id)
}

func (r *storeRepo) List(ctx context.Context) ([]*Patient, error) {
	return r.records.All(ctx)
}
