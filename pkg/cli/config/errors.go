package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrInvalidBackend  = goerr.New("invalid store backend")
	ErrMissingArgument = goerr.New("required option is missing")
	ErrSeedNotFound    = goerr.New("seed file not found")
)

// Context keys for error values
const (
	BackendKey = "backend"
	FlagKey    = "flag"
	PathKey    = "path"
)
