package password

import "errors"

var (
	ErrBusy              = errors.New("too many concurrent password operations")
	ErrConflictingParams = errors.New("preset and params are mutually exclusive")
)
