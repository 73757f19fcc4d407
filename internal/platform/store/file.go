package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each collection in <dir>/<name>.json as an indented JSON
// array. Writes go through a temp file and rename. The version of a
// collection is the SHA-256 of its document, so the on-disk layout carries
// no extra fields.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[Collection]*sync.Mutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, locks: make(map[Collection]*sync.Mutex)}, nil
}

// Dir is the data directory.
func (s *FileStore) Dir() string { return s.dir }

// Path is the backing document of c.
func (s *FileStore) Path(c Collection) string {
	return filepath.Join(s.dir, c.FileName())
}

func (s *FileStore) lock(c Collection) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[c]
	if !ok {
		l = &sync.Mutex{}
		s.locks[c] = l
	}
	return l
}

func (s *FileStore) LoadVersioned(ctx context.Context, c Collection) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	data, err := os.ReadFile(s.Path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{Records: []Record{}, Version: EmptyVersion}, nil
	}
	if err != nil {
		return Snapshot{Records: []Record{}}, fmt.Errorf("%w: read %s: %v", ErrCorrupt, c.FileName(), err)
	}
	version := documentVersion(data)
	records, err := decodeDocument(data)
	if err != nil {
		return Snapshot{Records: []Record{}, Version: version}, fmt.Errorf("%w: parse %s: %v", ErrCorrupt, c.FileName(), err)
	}
	return Snapshot{Records: records, Version: version}, nil
}

func (s *FileStore) Save(ctx context.Context, c Collection, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()
	_, err := s.write(c, records)
	return err
}

func (s *FileStore) SaveIfVersion(ctx context.Context, c Collection, records []Record, version string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()

	current, err := s.currentVersion(c)
	if err != nil {
		return "", err
	}
	if current != version {
		return "", ErrVersionConflict
	}
	return s.write(c, records)
}

func (s *FileStore) Exists(ctx context.Context, c Collection) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.Path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", c.FileName(), err)
	}
	return true, nil
}

// Ping verifies the data directory is still a directory.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}

func (s *FileStore) currentVersion(c Collection) (string, error) {
	data, err := os.ReadFile(s.Path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return EmptyVersion, nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", c.FileName(), err)
	}
	return documentVersion(data), nil
}

// write replaces the document atomically and returns its new version.
func (s *FileStore) write(c Collection, records []Record) (string, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", c, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+string(c)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", c, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("write %s: %w", c, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("sync %s: %w", c, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close %s: %w", c, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("chmod %s: %w", c, err)
	}
	if err := os.Rename(tmpName, s.Path(c)); err != nil {
		cleanup()
		return "", fmt.Errorf("rename %s: %w", c, err)
	}
	return documentVersion(data), nil
}

func documentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
