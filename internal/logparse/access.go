package logparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tinytelemetry/logtally/internal/model"
	"github.com/tinytelemetry/logtally/internal/timestamp"
)

// Supported access-log formats.
const (
	FormatCombined = "combined"
	FormatCommon   = "common"
)

// CombinedFormat is the Apache LogFormat string the combined parser understands.
const CombinedFormat = `%h %l %u %t "%r" %>s %b "%{Referer}i" "%{User-Agent}i"`

// CommonFormat is the NCSA common log format.
const CommonFormat = `%h %l %u %t "%r" %>s %b`

var (
	// ErrMalformedLine is returned when a line does not match the parser's format.
	ErrMalformedLine = errors.New("malformed log line")

	// ErrUnknownFormat is returned by NewParser for unsupported format names.
	ErrUnknownFormat = errors.New("unknown log format")
)

const commonHead = `^(?P<host>\S+) (?P<ident>\S+) (?P<user>\S+) \[(?P<time>[^\]]+)\] ` +
	`"(?P<request>(?:[^"\\]|\\.)*)" (?P<status>\d{3}|-) (?P<bytes>\d+|-)`

// CommonRegex matches a common-format line.
var CommonRegex = regexp.MustCompile(commonHead + `\s*$`)

// CombinedRegex matches a combined-format line. The referer and user-agent
// tail is optional so common-format lines parse too.
var CombinedRegex = regexp.MustCompile(commonHead +
	`(?: "(?P<referer>(?:[^"\\]|\\.)*)" "(?P<agent>(?:[^"\\]|\\.)*)")?\s*$`)

// Parser turns access-log lines into model.LogRecord values.
type Parser struct {
	format string
	layout string
	re     *regexp.Regexp
	idx    map[string]int
}

// NewParser creates a parser for the named format ("combined" or "common").
// An empty name selects combined.
func NewParser(format string) (*Parser, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	var (
		re     *regexp.Regexp
		layout string
	)
	switch name {
	case "", FormatCombined:
		name, layout, re = FormatCombined, CombinedFormat, CombinedRegex
	case FormatCommon:
		layout, re = CommonFormat, CommonRegex
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	idx := make(map[string]int)
	for i, group := range re.SubexpNames() {
		if group != "" {
			idx[group] = i
		}
	}
	return &Parser{format: name, layout: layout, re: re, idx: idx}, nil
}

// Format returns the parser's format name.
func (p *Parser) Format() string { return p.format }

// Layout returns the Apache LogFormat string the parser understands.
func (p *Parser) Layout() string { return p.layout }

// Parse parses one line. The returned record's Source is left empty.
func (p *Parser) Parse(line string) (*model.LogRecord, error) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return nil, ErrMalformedLine
	}

	ts, err := timestamp.ParseCLF(m[p.idx["time"]])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}

	status, err := parseDashInt(m[p.idx["status"]])
	if err != nil {
		return nil, fmt.Errorf("%w: status: %v", ErrMalformedLine, err)
	}
	size, err := parseDashInt(m[p.idx["bytes"]])
	if err != nil {
		return nil, fmt.Errorf("%w: bytes: %v", ErrMalformedLine, err)
	}

	return &model.LogRecord{
		Timestamp: ts,
		Host:      m[p.idx["host"]],
		Status:    int(status),
		Request:   m[p.idx["request"]],
		Bytes:     size,
	}, nil
}

// parseDashInt parses a numeric field where "-" means zero.
func parseDashInt(value string) (int64, error) {
	if value == "-" || value == "" {
		return 0, nil
	}
	return strconv.ParseInt(value, 10, 64)
}
