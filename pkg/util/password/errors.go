package password

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidHash         = errors.New("invalid password hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrInvalidParams       = errors.New("invalid argon2id parameters")
	ErrUnknownPreset       = errors.New("unknown argon2id preset")
)
