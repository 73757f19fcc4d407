package billing

import (
	"context"

	"github.com/ehr/hms/internal/platform/store"
)

type billStoreRepo struct {
	records *store.Typed[Bill]
}

func NewBillStoreRepo(st *store.Store) BillRepository {
	return &billStoreRepo{records: store.NewTyped[Bill](st, store.Billing)}
}

func (r *billStoreRepo) Create(ctx context.Context, b *Bill) error {
	_, err := r.records.Append(ctx, func(id string) (*Bill, error) {
		b.ID = id
		return b, nil
	})
	return err
}

func (r *billStoreRepo) GetByID(ctx context.Context, id string) (*Bill, error) {
	return r.records.Find(ctx, id)
}

func (r *billStoreRepo) List(ctx context.Context) ([]*Bill, error) {
	return r.records.All(ctx)
}
