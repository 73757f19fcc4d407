package inventory

import "context"

type Repository interface {
	// Create assigns the next inventory id and persists item.
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
}
