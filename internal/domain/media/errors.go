package media

import "errors"

var (
	ErrTooManyKeys         = errors.New("too many keys in batch")
	ErrEmptyKey            = errors.New("empty storage key")
	ErrInvalidKind         = errors.New("invalid media kind")
	ErrInstitutionNotFound = errors.New("institution not found")
)
