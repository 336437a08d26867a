package config

import "errors"

var (
	// ErrParsingConfig is returned when the environment cannot be parsed into the struct
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrNilPointer is returned when a nil pointer is passed to Load
	ErrNilPointer = errors.New("config: nil pointer")
)
