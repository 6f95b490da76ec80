package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CLFLayout is the Apache/NCSA %t layout, without the surrounding brackets.
const CLFLayout = "02/Jan/2006:15:04:05 -0700"

// ErrUnrecognized is returned when no known layout matches the input.
var ErrUnrecognized = errors.New("unrecognized timestamp")

var (
	dateLayout  = "2006-01-02"
	clockParts  = []string{"15", "15:04", "15:04:05", "15:04:05.999999999"}
	zoneParts   = []string{"", "Z07:00", "-0700", "-07"}
	isoLayouts  = buildISOLayouts()
	isoMinLen   = len(dateLayout)
	clfExpected = len(CLFLayout)
)

// buildISOLayouts expands the supported ISO-8601 shapes: a bare date, or a
// date followed by T or a space, a clock of hour to nanosecond precision and
// an optional offset.
func buildISOLayouts() []string {
	layouts := []string{dateLayout}
	for _, sep := range []string{"T", " "} {
		for _, clock := range clockParts {
			for _, zone := range zoneParts {
				layouts = append(layouts, dateLayout+sep+clock+zone)
			}
		}
	}
	return layouts
}

// ParseISO8601 parses an ISO-8601 date or date-time. Inputs without an
// offset are interpreted in loc (time.Local when nil). The result is in UTC.
func ParseISO8601(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if len(s) < isoMinLen {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}
	for _, layout := range isoLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
}

// ParseCLF parses a common-log-format time such as
// "10/Oct/2000:13:55:36 -0700", with or without brackets. The result is in UTC.
func ParseCLF(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")
	if len(s) != clfExpected {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}
	t, err := time.Parse(CLFLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
	}
	return t.UTC(), nil
}
