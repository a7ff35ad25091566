package badger

import "github.com/poiesic/simrank/storage"

// NewMemoryCatalog creates an in-memory catalog repository for testing.
// Closing the repository releases the database.
func NewMemoryCatalog() (storage.CatalogRepository, error) {
	backend, err := OpenBackend("", InMemory())
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{backend: backend, owned: true}, nil
}
