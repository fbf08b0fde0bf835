package config

import "errors"

// Validation errors returned by [StructuredConfig.validate].
var (
	// ErrInvalidRemoteConfigs indicates an unknown remote mode or missing
	// settings for the selected mode.
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidMirrorConfigs indicates an empty mirror DSN or a negative
	// cache size.
	ErrInvalidMirrorConfigs = errors.New("invalid mirror configuration")
	// ErrInvalidServerConfigs indicates a missing listen address or a
	// non-positive auth rate limit.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAppConfigs indicates a half-specified admin bootstrap.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
