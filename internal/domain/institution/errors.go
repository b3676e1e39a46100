package institution

import "errors"

var (
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrSlugTaken           = errors.New("slug already in use")
	ErrInvalidType         = errors.New("invalid institution type")
	ErrNotReadyToPublish   = errors.New("institution profile is not complete enough to publish")
	ErrInvalidMediaKind    = errors.New("invalid media kind")
)
