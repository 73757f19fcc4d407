package store

import "errors"

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrCorrupt           = errors.New("collection document is corrupt")
	ErrInvalidIDFormat   = errors.New("invalid record id format")
	ErrVersionConflict   = errors.New("collection was modified concurrently")
	ErrNotFound          = errors.New("record not found")
)
