package pathrules

import "errors"

// ErrBadPattern indicates a glob pattern failed validation.
var ErrBadPattern = errors.New("bad path pattern")
