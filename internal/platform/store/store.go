// Package store persists the hospital record collections as whole JSON
// documents and hands out record ids.
//
// A Backend reads and writes complete collections. Store layers the
// record-store contract on top of any backend: permissive loads, id
// generation and optimistic appends.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// EmptyVersion is the version of a collection whose document does not exist.
const EmptyVersion = ""

// maxAppendAttempts bounds the optimistic retry loop in Append.
const maxAppendAttempts = 3

// Snapshot is a collection as read at one version.
type Snapshot struct {
	Records []Record
	Version string
}

// Backend is the persistence contract shared by the file and Postgres
// stores.
type Backend interface {
	// LoadVersioned returns the collection and its current version. A
	// missing document yields an empty snapshot at EmptyVersion; an
	// unreadable one yields an empty snapshot and an error wrapping
	// ErrCorrupt.
	LoadVersioned(ctx context.Context, c Collection) (Snapshot, error)
	// Save overwrites the collection unconditionally.
	Save(ctx context.Context, c Collection, records []Record) error
	// SaveIfVersion overwrites the collection only if it is still at
	// version, returning the new version or ErrVersionConflict.
	SaveIfVersion(ctx context.Context, c Collection, records []Record, version string) (string, error)
	// Exists reports whether the collection has a backing document.
	Exists(ctx context.Context, c Collection) (bool, error)
	Ping(ctx context.Context) error
}

// Store is the record store used by the domain repositories.
type Store struct {
	backend Backend
	logger  zerolog.Logger
}

// New wraps a backend.
func New(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "store").Logger(),
	}
}

// Backend exposes the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Load returns the records of a collection. A missing collection is empty.
// A corrupt one is also returned as empty, together with an error wrapping
// ErrCorrupt so callers can tell it apart from "no data yet".
func (s *Store) Load(ctx context.Context, c Collection) ([]Record, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.backend.LoadVersioned(ctx, c)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			s.logger.Warn().Err(err).Str("collection", c.String()).Msg("collection unreadable, treating as empty")
			return []Record{}, err
		}
		return nil, err
	}
	if snap.Records == nil {
		snap.Records = []Record{}
	}
	return snap.Records, nil
}

// Save overwrites a collection with records.
func (s *Store) Save(ctx context.Context, c Collection, records []Record) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}
	if err := s.backend.Save(ctx, c, records); err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	s.logger.Debug().Str("collection", c.String()).Int("records", len(records)).Msg("collection saved")
	return nil
}

// NextID returns the id the next record appended to c would receive.
func (s *Store) NextID(ctx context.Context, c Collection) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	snap, err := s.backend.LoadVersioned(ctx, c)
	if err != nil {
		return "", fmt.Errorf("next id for %s: %w", c, err)
	}
	return NextIDFrom(c, snap.Records)
}

// Append adds one record built from the next id. Load, id assignment and save
// run against a single version; a concurrent writer forces a retry instead of
// a lost update. A corrupt collection is never overwritten.
func (s *Store) Append(ctx context.Context, c Collection, build func(id string) (Record, error)) (Record, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		snap, err := s.backend.LoadVersioned(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("append to %s: %w", c, err)
		}
		id, err := NextIDFrom(c, snap.Records)
		if err != nil {
			return nil, fmt.Errorf("append to %s: %w", c, err)
		}
		rec, err := build(id)
		if err != nil {
			return nil, err
		}
		rec["id"] = id

		records := append(cloneRecords(snap.Records), rec)
		if _, err := s.backend.SaveIfVersion(ctx, c, records, snap.Version); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				s.logger.Warn().Str("collection", c.String()).Int("attempt", attempt).Msg("append conflict, retrying")
				continue
			}
			return nil, fmt.Errorf("append to %s: %w", c, err)
		}
		s.logger.Info().Str("collection", c.String()).Str("id", id).Msg("record appended")
		return rec, nil
	}
	return nil, fmt.Errorf("append to %s: %w", c, ErrVersionConflict)
}

// Exists reports whether c has a backing document.
func (s *Store) Exists(ctx context.Context, c Collection) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	return s.backend.Exists(ctx, c)
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}
