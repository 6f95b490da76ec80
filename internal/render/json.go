package render

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// JSON document keys.
const (
	KeyRequestPerHour = "request_per_hour"
	KeyRequestPerHost = "request_per_host"
)

// JSONRenderer renders a single-line JSON object with request_per_hour and
// request_per_host. Host keys follow MostCommon order.
type JSONRenderer struct{}

func (JSONRenderer) Render(params Params) ([]byte, error) {
	doc := orderedObject{
		{Key: KeyRequestPerHour, Value: hourlyObject(params)},
		{Key: KeyRequestPerHost, Value: hostObject(params)},
	}
	return json.Marshal(doc)
}

func hourlyObject(params Params) orderedObject {
	buckets := sortedBuckets(params.Hourly)
	obj := make(orderedObject, 0, len(buckets))
	for _, bucket := range buckets {
		obj = append(obj, member{Key: bucket.UTC().Format(time.RFC3339), Value: params.Hourly.CountAt(bucket)})
	}
	return obj
}

func hostObject(params Params) orderedObject {
	hosts := mostCommon(params)
	obj := make(orderedObject, 0, len(hosts))
	for _, hc := range hosts {
		obj = append(obj, member{Key: hc.Host, Value: hc.Count})
	}
	return obj
}

type member struct {
	Key   string
	Value any
}

// orderedObject marshals as a JSON object whose members keep slice order.
type orderedObject []member

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		switch v := m.Value.(type) {
		case int:
			b.WriteString(strconv.Itoa(v))
		default:
			val, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			b.Write(val)
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
