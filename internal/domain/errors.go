package domain

import "errors"

// ErrInvalidInput is returned when birth data fails validation.
var ErrInvalidInput = errors.New("invalid birth input")
