package query

import (
	"net/url"
	"slices"
	"strconv"
)

// Key identifies a cached query: the operation name plus its parameter set
type Key struct {
	Operation string
	Params    url.Values
}

// NewKey creates a key from an operation name and alternating name/value pairs.
// Values may be strings, ints, bools, or nil pointers (skipped).
func NewKey(operation string, pairs ...any) Key {
	params := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			continue
		}
		switch v := pairs[i+1].(type) {
		case string:
			if v != "" {
				params.Add(name, v)
			}
		case int:
			params.Add(name, strconv.Itoa(v))
		case *int:
			if v != nil {
				params.Add(name, strconv.Itoa(*v))
			}
		case bool:
			params.Add(name, strconv.FormatBool(v))
		case []string:
			for _, s := range v {
				params.Add(name, s)
			}
		}
	}
	return Key{Operation: operation, Params: params}
}

// String returns the normalized form used for cache lookups. Parameter names
// and the values of each name are sorted, so insertion order never matters.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Operation
	}

	normalized := make(url.Values, len(k.Params))
	for name, values := range k.Params {
		sorted := slices.Clone(values)
		slices.Sort(sorted)
		normalized[name] = sorted
	}
	return k.Operation + "?" + normalized.Encode()
}
