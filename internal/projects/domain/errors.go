package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("project not found")
	ErrValidation       = errors.New("invalid project request")
	ErrDuplicateSlug    = errors.New("project slug already exists")
	ErrStoreUnavailable = errors.New("project store unavailable")

	// ErrIncompleteBatch is a validation error: a reorder batch must name
	// every stored project exactly once.
	ErrIncompleteBatch = fmt.Errorf("%w: reorder batch must include every project", ErrValidation)
)
