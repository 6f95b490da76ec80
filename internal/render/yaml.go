package render

import (
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLRenderer renders the JSON document's content as YAML, hours ascending
// and hosts in MostCommon order.
type YAMLRenderer struct{}

func (YAMLRenderer) Render(params Params) ([]byte, error) {
	hours := mappingNode()
	for _, bucket := range sortedBuckets(params.Hourly) {
		hours.Content = append(hours.Content,
			strNode(bucket.UTC().Format(time.RFC3339)),
			intNode(params.Hourly.CountAt(bucket)))
	}

	hosts := mappingNode()
	for _, hc := range mostCommon(params) {
		hosts.Content = append(hosts.Content, strNode(hc.Host), intNode(hc.Count))
	}

	root := mappingNode()
	root.Content = append(root.Content,
		strNode(KeyRequestPerHour), hours,
		strNode(KeyRequestPerHost), hosts)

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	return yaml.Marshal(doc)
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
}
