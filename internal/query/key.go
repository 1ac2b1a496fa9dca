package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key is the logical identity of a query, e.g. {"pokemon", "list", 0, 20}.
// Two keys with the same canonical form address the same cache entry.
type Key []any

// String returns the canonical form: each part JSON-encoded, joined by "/".
func (k Key) String() string {
	return strings.Join(k.parts(), "/")
}

// HasPrefix reports whether the leading parts of k equal prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	own := k[:len(prefix)].parts()
	for i, p := range prefix.parts() {
		if own[i] != p {
			return false
		}
	}
	return true
}

func (k Key) parts() []string {
	out := make([]string, len(k))
	for i, part := range k {
		b, err := json.Marshal(part)
		if err != nil {
			out[i] = fmt.Sprintf("%q", fmt.Sprint(part))
			continue
		}
		out[i] = string(b)
	}
	return out
}
