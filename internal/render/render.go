// Package render formats aggregated counters for output. Renderers return
// the formatted document and never write to stdout themselves.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tinytelemetry/logtally/internal/analyzer"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by New for unsupported format names.
var ErrUnknownFormat = errors.New("unknown output format")

// Params is the input to every renderer.
type Params struct {
	Hourly *analyzer.TimeBucketCounter
	Hosts  *analyzer.HostCounter
	Limit  int // host display limit; <= 0 means all
}

// Renderer formats counters as a document.
type Renderer interface {
	Render(params Params) ([]byte, error)
}

var registry = map[string]func() Renderer{
	FormatText: func() Renderer { return TextRenderer{} },
	FormatJSON: func() Renderer { return JSONRenderer{} },
	FormatYAML: func() Renderer { return YAMLRenderer{} },
}

// New returns the renderer registered under format.
func New(format string) (Renderer, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
	return ctor(), nil
}

// Formats lists the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedBuckets returns the hourly buckets in ascending order.
func sortedBuckets(c *analyzer.TimeBucketCounter) []time.Time {
	if c == nil {
		return nil
	}
	buckets := c.Buckets()
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })
	return buckets
}
