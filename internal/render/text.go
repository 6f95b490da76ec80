package render

import (
	"bytes"
	"fmt"

	"github.com/tinytelemetry/logtally/internal/model"
)

const textTimeLayout = "2006-01-02 15:04:05"

// TextRenderer renders the human-readable report.
type TextRenderer struct{}

// Render emits the hourly section with buckets in ascending time order,
// a blank line, then the host section in MostCommon order.
func (TextRenderer) Render(params Params) ([]byte, error) {
	var b bytes.Buffer

	b.WriteString("Requests per hour:\n")
	b.WriteString("[DateTime]: [Requests]\n")
	for _, bucket := range sortedBuckets(params.Hourly) {
		fmt.Fprintf(&b, "%s: %d\n", bucket.UTC().Format(textTimeLayout), params.Hourly.CountAt(bucket))
	}

	b.WriteString("\n")
	b.WriteString("Requests per IP address:\n")
	b.WriteString("[IP Address]: [Requests]\n")
	for _, hc := range mostCommon(params) {
		fmt.Fprintf(&b, "%s: %d\n", hc.Host, hc.Count)
	}

	return b.Bytes(), nil
}

func mostCommon(params Params) []model.HostCount {
	if params.Hosts == nil {
		return nil
	}
	return params.Hosts.MostCommon(params.Limit)
}
