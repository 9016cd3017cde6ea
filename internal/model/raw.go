package model

import (
	"fmt"
	"sort"
	"strings"
)

// RawRecord is a single decoded JSON object from the SOTA API.
// Numbers are json.Number when decoded by the feed client.
type RawRecord map[string]any

// String renders the record with sorted keys for log output.
func (r RawRecord) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, r[k])
	}
	b.WriteByte('}')
	return b.String()
}
