package model

import "time"

// LogRecord represents a single parsed access-log entry.
// It is the narrow shape the aggregation core consumes; parsers adapt
// their richer output into it at the boundary.
type LogRecord struct {
	Timestamp time.Time // request receive time, UTC
	Host      string    // remote host, verbatim
	Status    int       // final status; 0 = unknown
	Request   string    // first request line, e.g. "GET / HTTP/1.1"
	Bytes     int64     // response size; 0 when logged as "-"
	Source    string    // "stdin" or the file path
}

// HostCount represents one host and its request count.
type HostCount struct {
	Host  string
	Count int
}
