package ingestion

import "errors"

var (
	// ErrCatalogRepositoryRequired is returned when a catalog repository is not provided.
	ErrCatalogRepositoryRequired = errors.New("catalog repository required")

	// ErrInvalidRecord is returned by a strict importer for a line it cannot import.
	ErrInvalidRecord = errors.New("invalid record")
)
