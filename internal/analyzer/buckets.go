package analyzer

import (
	"errors"
	"fmt"
	"time"

	"github.com/tinytelemetry/logtally/internal/model"
)

// ErrInvalidBucketWidth is returned when a counter is built with an unsupported width.
var ErrInvalidBucketWidth = errors.New("invalid bucket width")

// BucketWidth selects the granularity of a TimeBucketCounter.
type BucketWidth int

const (
	// BucketHour groups timestamps by the start of their UTC hour.
	BucketHour BucketWidth = iota + 1
)

func (w BucketWidth) String() string {
	switch w {
	case BucketHour:
		return "hour"
	default:
		return fmt.Sprintf("BucketWidth(%d)", int(w))
	}
}

// truncate returns the start of the bucket containing t, in UTC.
func (w BucketWidth) truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// TimeBucketCounter counts records per time bucket, restricted to a period.
type TimeBucketCounter struct {
	period Period
	width  BucketWidth
	counts map[time.Time]int
}

// NewTimeBucketCounter creates a counter for the given period and width.
// Only BucketHour is supported.
func NewTimeBucketCounter(period Period, width BucketWidth) (*TimeBucketCounter, error) {
	if width != BucketHour {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBucketWidth, width)
	}
	return &TimeBucketCounter{
		period: period,
		width:  width,
		counts: make(map[time.Time]int),
	}, nil
}

// Add counts the record in its bucket. Records outside the period are ignored.
func (c *TimeBucketCounter) Add(record *model.LogRecord) {
	if record == nil || !c.period.Contains(record.Timestamp) {
		return
	}
	c.counts[c.width.truncate(record.Timestamp)]++
}

// Buckets returns every bucket that has received at least one record, in no
// particular order.
func (c *TimeBucketCounter) Buckets() []time.Time {
	keys := make([]time.Time, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	return keys
}

// CountAt returns the count for the bucket starting at bucket, or 0.
func (c *TimeBucketCounter) CountAt(bucket time.Time) int {
	return c.counts[bucket.UTC()]
}

// Total returns the number of records counted across all buckets.
func (c *TimeBucketCounter) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Width returns the counter's bucket width.
func (c *TimeBucketCounter) Width() BucketWidth { return c.width }

// Merge adds other's counts into c.
func (c *TimeBucketCounter) Merge(other *TimeBucketCounter) {
	if other == nil {
		return
	}
	for k, n := range other.counts {
		c.counts[k] += n
	}
}
