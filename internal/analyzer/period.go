package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/logtally/internal/timestamp"
)

// ErrInvalidPeriodSyntax is returned when a "<start>/<end>" string cannot be parsed.
var ErrInvalidPeriodSyntax = errors.New("invalid period syntax")

// Period is a half-open time interval [Start, End). A nil bound is unbounded
// in that direction, so the zero value matches every timestamp.
type Period struct {
	Start *time.Time
	End   *time.Time
}

// UnboundedPeriod returns a period that matches every timestamp.
func UnboundedPeriod() Period { return Period{} }

// NewPeriod returns the period [start, end), normalized to UTC.
func NewPeriod(start, end time.Time) Period {
	s, e := start.UTC(), end.UTC()
	return Period{Start: &s, End: &e}
}

// ParsePeriod parses "<start>/<end>", resolving sides without an offset in
// the local time zone.
func ParsePeriod(text string) (Period, error) {
	return ParsePeriodInLocation(text, time.Local)
}

// ParsePeriodInLocation parses "<start>/<end>" where each side is an ISO-8601
// date or date-time. Sides without an offset are resolved in loc. Both bounds
// are stored in UTC.
func ParsePeriodInLocation(text string, loc *time.Location) (Period, error) {
	parts := strings.Split(text, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Period{}, fmt.Errorf("%w: %q: want <start>/<end>", ErrInvalidPeriodSyntax, text)
	}

	start, err := timestamp.ParseISO8601(parts[0], loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: start: %v", ErrInvalidPeriodSyntax, err)
	}
	end, err := timestamp.ParseISO8601(parts[1], loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: end: %v", ErrInvalidPeriodSyntax, err)
	}

	return Period{Start: &start, End: &end}, nil
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if p.Start != nil && t.Before(*p.Start) {
		return false
	}
	if p.End != nil && !t.Before(*p.End) {
		return false
	}
	return true
}

// IsUnbounded reports whether the period has neither bound.
func (p Period) IsUnbounded() bool {
	return p.Start == nil && p.End == nil
}

// String renders the period as "start/end" in RFC 3339; an unbounded side is empty.
func (p Period) String() string {
	var b strings.Builder
	if p.Start != nil {
		b.WriteString(p.Start.Format(time.RFC3339))
	}
	b.WriteByte('/')
	if p.End != nil {
		b.WriteString(p.End.Format(time.RFC3339))
	}
	return b.String()
}
