package service

import "errors"

// ErrForbidden is returned when the acting user fails a permission check
// inside a service. Route-level role gates live in middleware; object-level
// checks surface here.
var ErrForbidden = errors.New("permission denied")
