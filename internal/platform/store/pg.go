package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// CollectionsTableDDL creates the table PGStore keeps its documents in. Each
// collection is one row holding the same JSON array the file store writes.
const CollectionsTableDDL = `CREATE TABLE IF NOT EXISTS hms_collections (
    name       TEXT PRIMARY KEY,
    document   JSONB NOT NULL DEFAULT '[]'::jsonb,
    version    BIGINT NOT NULL DEFAULT 1,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PGStore keeps collections in Postgres. Versions are a per-row counter and
// SaveIfVersion is a compare-and-swap on it.
type PGStore struct {
	db   queryable
	ping func(ctx context.Context) error
}

// NewPGStore builds a store over a connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{db: pool, ping: pool.Ping}
}

// EnsureSchema creates the collections table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, CollectionsTableDDL); err != nil {
		return fmt.Errorf("create hms_collections: %w", err)
	}
	return nil
}

func (s *PGStore) LoadVersioned(ctx context.Context, c Collection) (Snapshot, error) {
	var (
		doc     []byte
		version int64
	)
	err := s.db.QueryRow(ctx,
		`SELECT document, version FROM hms_collections WHERE name = $1`, string(c),
	).Scan(&doc, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{Records: []Record{}, Version: EmptyVersion}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", c, err)
	}

	ver := strconv.FormatInt(version, 10)
	records, err := decodeDocument(doc)
	if err != nil {
		return Snapshot{Records: []Record{}, Version: ver}, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, c, err)
	}
	return Snapshot{Records: records, Version: ver}, nil
}

func (s *PGStore) Save(ctx context.Context, c Collection, records []Record) error {
	doc, err := marshalDocument(records)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO hms_collections (name, document, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (name) DO UPDATE
		SET document = EXCLUDED.document,
		    version = hms_collections.version + 1,
		    updated_at = NOW()`,
		string(c), doc)
	if err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}

func (s *PGStore) SaveIfVersion(ctx context.Context, c Collection, records []Record, version string) (string, error) {
	doc, err := marshalDocument(records)
	if err != nil {
		return "", err
	}

	var next int64
	if version == EmptyVersion {
		err = s.db.QueryRow(ctx, `
			INSERT INTO hms_collections (name, document, version)
			VALUES ($1, $2, 1)
			ON CONFLICT (name) DO NOTHING
			RETURNING version`,
			string(c), doc).Scan(&next)
	} else {
		expected, perr := strconv.ParseInt(version, 10, 64)
		if perr != nil {
			return "", fmt.Errorf("%w: bad version %q", ErrVersionConflict, version)
		}
		err = s.db.QueryRow(ctx, `
			UPDATE hms_collections
			SET document = $2, version = version + 1, updated_at = NOW()
			WHERE name = $1 AND version = $3
			RETURNING version`,
			string(c), doc, expected).Scan(&next)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrVersionConflict
	}
	if err != nil {
		return "", fmt.Errorf("save %s: %w", c, err)
	}
	return strconv.FormatInt(next, 10), nil
}

func (s *PGStore) Exists(ctx context.Context, c Collection) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM hms_collections WHERE name = $1)`, string(c),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", c, err)
	}
	return exists, nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func marshalDocument(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	doc, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return doc, nil
}
