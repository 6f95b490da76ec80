package model

// IngestEnvelope carries one raw log line with source metadata.
// It is the transport contract between log sources and processing.
type IngestEnvelope struct {
	Source    string
	Line      string
	LineNo    int  // 1-based line number within Source
	Oversized bool // line exceeded the source's max size; Line is empty
}
