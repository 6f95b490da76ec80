package ingest

import (
	"log"

	"github.com/tinytelemetry/logtally/internal/logsource"
	"github.com/tinytelemetry/logtally/internal/model"
)

// Stats summarizes what a processor has seen.
type Stats struct {
	Lines   int // envelopes received
	Parsed  int // records handed to the sink
	Skipped int // malformed lines
}

// Add sums other into s.
func (s *Stats) Add(other Stats) {
	s.Lines += other.Lines
	s.Parsed += other.Parsed
	s.Skipped += other.Skipped
}

// ProcessResult holds the result of processing a log line.
type ProcessResult struct {
	Record *model.LogRecord
	Err    error // non-nil when the line was skipped
}

// Processor parses source lines and routes records to a sink.
// A Processor is not safe for concurrent use; run one per source.
type Processor struct {
	parser LineParser
	sink   RecordSink
	stats  Stats
}

// NewProcessor creates a processor that parses with parser and feeds sink.
func NewProcessor(parser LineParser, sink RecordSink) *Processor {
	return &Processor{
		parser: parser,
		sink:   sink,
	}
}

// ProcessEnvelope parses one source-tagged line. Malformed and oversized
// lines are logged and skipped; they never stop ingestion.
func (p *Processor) ProcessEnvelope(env model.IngestEnvelope) *ProcessResult {
	if env.Line == "" && !env.Oversized {
		return nil
	}
	p.stats.Lines++

	var (
		record *model.LogRecord
		err    error
	)
	if env.Oversized {
		err = logsource.ErrLineTooLong
	} else {
		record, err = p.parser.Parse(env.Line)
	}
	if err != nil {
		p.stats.Skipped++
		log.Printf("ingest: skipping %s:%d: %v", env.Source, env.LineNo, err)
		return &ProcessResult{Err: err}
	}
	record.Source = env.Source

	if p.sink != nil {
		p.sink.Add(record)
	}
	p.stats.Parsed++

	return &ProcessResult{Record: record}
}

// Run drains src until it is exhausted or stopped and returns the source's
// read error, if any.
func (p *Processor) Run(src logsource.LogSource) error {
	for env := range src.Lines() {
		p.ProcessEnvelope(env)
	}
	return src.Err()
}

// Stats returns the counts accumulated so far.
func (p *Processor) Stats() Stats { return p.stats }
