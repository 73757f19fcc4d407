package doctor

import (
	"context"

	"github.com/ehr/hms/internal/platform/store"
)

type storeRepo struct {
	records *store.Typed[Doctor]
}

func NewStoreRepo(st *store.Store) Repository {
	return &storeRepo{records: store.NewTyped[Doctor](st, store.Doctors)}
}

func (r *storeRepo) Create(ctx context.Context, d *Doctor) error {
	_, err := r.records.Append(ctx, func(id string) (*Doctor, error) {
		d.ID = id
		return d, nil
	})
	return err
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return r.records.Find(ctx, id)
}

func (r *storeRepo) List(ctx context.Context) ([]*Doctor, error) {
	return r.records.All(ctx)
}
