package completeness

import "errors"

var ErrInvalidSection = errors.New("invalid section")
