package config

import "errors"

var (
	// ErrInvalidConfig marks values that fail validation or cannot be decoded.
	ErrInvalidConfig = errors.New("config: invalid")
	// ErrLoadConfig marks a config file or environment that could not be read.
	ErrLoadConfig = errors.New("config: load failed")
)
