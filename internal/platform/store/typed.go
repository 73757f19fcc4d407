package store

import (
	"context"
	"errors"
	"fmt"
)

// Typed reads and appends one collection as values of T. Records that do not
// decode into T are skipped with a warning instead of failing the whole
// read, and a corrupt collection reads as empty.
type Typed[T any] struct {
	st *Store
	c  Collection
}

// NewTyped binds a store collection to the domain type T.
func NewTyped[T any](st *Store, c Collection) *Typed[T] {
	return &Typed[T]{st: st, c: c}
}

// Collection returns the bound collection.
func (t *Typed[T]) Collection() Collection { return t.c }

// All returns every decodable record in document order.
func (t *Typed[T]) All(ctx context.Context) ([]*T, error) {
	records, err := t.st.Load(ctx, t.c)
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return nil, err
	}
	out := make([]*T, 0, len(records))
	for i, rec := range records {
		v, err := Decode[T](rec)
		if err != nil {
			t.st.logger.Warn().Err(err).
				Str("collection", t.c.String()).
				Int("index", i).
				Msg("skipping undecodable record")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Find returns the record with the given id or ErrNotFound.
func (t *Typed[T]) Find(ctx context.Context, id string) (*T, error) {
	records, err := t.st.Load(ctx, t.c)
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID() == id {
			return Decode[T](rec)
		}
	}
	return nil, fmt.Errorf("%s %s: %w", t.c, id, ErrNotFound)
}

// Append stores the value produced by build under the next id. build may run
// more than once if a concurrent writer forces a retry.
func (t *Typed[T]) Append(ctx context.Context, build func(id string) (*T, error)) (*T, error) {
	var out *T
	_, err := t.st.Append(ctx, t.c, func(id string) (Record, error) {
		v, err := build(id)
		if err != nil {
			return nil, err
		}
		out = v
		return Encode(v)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
