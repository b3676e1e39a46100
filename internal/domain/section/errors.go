package section

import "errors"

var (
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrInvalidPayload      = errors.New("invalid section payload")
)
