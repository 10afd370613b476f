package uri

import (
	"slices"
	"strings"
)

// A Pair is one key=value item of a query.  A key can appear without '='
// at all, which is distinct from an empty value: "?flag" and "?flag=" both
// have an empty Value but only the latter HasValue.
type Pair struct {
	Key      string
	Value    string
	HasValue bool
}

// A Query is the query part of a URI, a sequence of key=value pairs.  The
// pairs keep the order they have in the URI, and the same key can appear
// several times.
//
// A nil *Query means the URI has no query at all, which is distinct from
// an empty one: "/a?" has an empty query while "/a" has none.
type Query struct {
	pairs []Pair
}

// ParseQuery decodes a query string: items separated by '&', each one a
// key optionally followed by '=' and a value.
func ParseQuery(s string) (*Query, error) {
	q := &Query{}
	if s == "" {
		return q, nil
	}
	for _, item := range strings.Split(s, "&") {
		rawKey, rawValue, hasValue := strings.Cut(item, "=")
		key, err := PercentDecode(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := PercentDecode(rawValue)
		if err != nil {
			return nil, err
		}
		q.pairs = append(q.pairs, Pair{Key: key, Value: value, HasValue: hasValue})
	}
	return q, nil
}

// MakeQuery returns the Query with the given pairs.
func MakeQuery(pairs ...Pair) *Query {
	return &Query{pairs: pairs}
}

// Get returns the value of the first pair with the given key.
func (q *Query) Get(key string) (string, bool) {
	if q == nil {
		return "", false
	}
	for _, p := range q.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Pairs returns the pairs of the query, in order.
func (q *Query) Pairs() []Pair {
	if q == nil {
		return nil
	}
	return slices.Clone(q.pairs)
}

// Equal reports whether two queries have the same pairs in the same
// order.  Two nil queries are equal.
func (q *Query) Equal(r *Query) bool {
	if q == nil || r == nil {
		return q == nil && r == nil
	}
	return slices.Equal(q.pairs, r.pairs)
}

// String writes the query back out in encoded form.  A nil query comes
// out as the empty string.
func (q *Query) String() string {
	if q == nil {
		return ""
	}
	var b strings.Builder
	for i, p := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(PercentEncode(p.Key, querySafe))
		if p.HasValue {
			b.WriteByte('=')
			b.WriteString(PercentEncode(p.Value, querySafe))
		}
	}
	return b.String()
}

// Characters that can stay literal in query keys and values: the query
// production allows pchar plus '/' and '?', minus the '&' and '='
// delimiters of the pair syntax.
const querySafe = "!$'()*+,;:@/?"
