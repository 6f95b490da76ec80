package ingest

import "github.com/tinytelemetry/logtally/internal/model"

// RecordSink receives every successfully parsed record exactly once.
type RecordSink interface {
	Add(record *model.LogRecord)
}

// LineParser turns one raw line into a record.
type LineParser interface {
	Parse(line string) (*model.LogRecord, error)
}
