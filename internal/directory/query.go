package directory

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is one key/value pair of a passthrough query.
type Param struct {
	Key   string
	Value string
}

// ParseQuery splits a raw query string into pairs, keeping their order and
// any repeated keys. Empty segments are skipped.
func ParseQuery(raw string) ([]Param, error) {
	var params []Param
	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("decode query key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("decode query value for %q: %w", key, err)
		}
		params = append(params, Param{Key: key, Value: value})
	}
	return params, nil
}

// Encode renders params as a query string in their original order.
func Encode(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
