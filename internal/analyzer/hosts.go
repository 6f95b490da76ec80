package analyzer

import (
	"sort"

	"github.com/tinytelemetry/logtally/internal/model"
)

// HostCounter counts records per remote host, restricted to a period.
// Hosts are kept in first-seen order so ranking ties are deterministic.
type HostCounter struct {
	period Period
	counts map[string]int
	order  []string
}

// NewHostCounter creates a host counter for the given period.
func NewHostCounter(period Period) *HostCounter {
	return &HostCounter{
		period: period,
		counts: make(map[string]int),
	}
}

// Add counts the record's host verbatim. Records outside the period are ignored.
func (c *HostCounter) Add(record *model.LogRecord) {
	if record == nil || !c.period.Contains(record.Timestamp) {
		return
	}
	c.inc(record.Host, 1)
}

func (c *HostCounter) inc(host string, n int) {
	if _, ok := c.counts[host]; !ok {
		c.order = append(c.order, host)
	}
	c.counts[host] += n
}

// MostCommon returns hosts ordered by count descending, ties in first-seen
// order. A limit <= 0 returns every host.
func (c *HostCounter) MostCommon(limit int) []model.HostCount {
	out := make([]model.HostCount, 0, len(c.order))
	for _, host := range c.order {
		out = append(out, model.HostCount{Host: host, Count: c.counts[host]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// CountOf returns the count for host, or 0.
func (c *HostCounter) CountOf(host string) int {
	return c.counts[host]
}

// Len returns the number of distinct hosts.
func (c *HostCounter) Len() int { return len(c.order) }

// Merge adds other's counts into c. Hosts new to c are appended in other's
// first-seen order.
func (c *HostCounter) Merge(other *HostCounter) {
	if other == nil {
		return
	}
	for _, host := range other.order {
		c.inc(host, other.counts[host])
	}
}
