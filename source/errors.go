package source

import "errors"

var (
	// ErrSearchUnavailable indicates the candidate search could not be performed.
	ErrSearchUnavailable = errors.New("candidate search unavailable")

	// ErrRepositoryRequired indicates a catalog source was built without a repository.
	ErrRepositoryRequired = errors.New("catalog repository required")
)
