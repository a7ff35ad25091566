package simrank

import "errors"

// ErrCatalogRequired is returned by catalog operations on an engine opened without a catalog.
var ErrCatalogRequired = errors.New("engine has no catalog")
