package config

import "errors"

// Sentinel errors returned by this package. Callers match them with errors.Is.
var (
	ErrInvalidBalance    = errors.New("invalid balance config")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNoAdminPassword   = errors.New("admin password not available")
	ErrWrongPassword     = errors.New("wrong admin password")
)
