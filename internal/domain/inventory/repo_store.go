package inventory

import (
	"context"

	"github.com/ehr/hms/internal/platform/store"
)

type storeRepo struct {
	records *store.Typed[Item]
}

func NewStoreRepo(st *store.Store) Repository {
	return &storeRepo{records: store.NewTyped[Item](st, store.Inventory)}
}

func (r *storeRepo) Create(ctx context.Context, item *Item) error {
	_, err := r.records.Append(ctx, func(id string) (*Item, error) {
		item.ID = id
		return item, nil
	})
	return err
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	return r.records.Find(ctx, id)
}

func (r *storeRepo) List(ctx context.Context) ([]*Item, error) {
	return r.records.All(ctx)
}
