package analyzer

import "github.com/tinytelemetry/logtally/internal/model"

// Counters is the pair of aggregates fed by one ingestion worker.
type Counters struct {
	Hourly *TimeBucketCounter
	Hosts  *HostCounter
}

// NewCounters creates an hourly counter and a host counter sharing period.
func NewCounters(period Period) (*Counters, error) {
	hourly, err := NewTimeBucketCounter(period, BucketHour)
	if err != nil {
		return nil, err
	}
	return &Counters{
		Hourly: hourly,
		Hosts:  NewHostCounter(period),
	}, nil
}

// Add feeds the record to both counters.
func (c *Counters) Add(record *model.LogRecord) {
	c.Hourly.Add(record)
	c.Hosts.Add(record)
}

// Merge sums other into c.
func (c *Counters) Merge(other *Counters) {
	if other == nil {
		return
	}
	c.Hourly.Merge(other.Hourly)
	c.Hosts.Merge(other.Hosts)
}

// MergeAll merges parts into a fresh pair in slice order, which keeps host
// tie order identical to a sequential pass over the same inputs.
func MergeAll(period Period, parts []*Counters) (*Counters, error) {
	merged, err := NewCounters(period)
	if err != nil {
		return nil, err
	}
	for _, part := range parts {
		merged.Merge(part)
	}
	return merged, nil
}
