package model

// Shared defaults used by the CLI and its packages.
const (
	DefaultFormat      = "text"
	DefaultLogFormat   = "combined"
	DefaultHostLimit   = 0
	DefaultMaxLineSize = 1024 * 1024 // 1MB
	DefaultLineBuffer  = 4096
)
