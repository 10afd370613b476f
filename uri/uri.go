package uri

import (
	"fmt"
	"strings"
)

// A URI holds the five parts of an RFC 3986 URI reference.  Each part can
// be absent, which is distinct from being empty; an absent part is simply
// not written out by String.
//
// A nil *URI is a valid "no URI at all" value: all methods treat it as a
// URI with every part absent.
type URI struct {
	scheme      string
	hasScheme   bool
	authority   *Authority
	path        Path
	query       *Query
	fragment    string
	hasFragment bool
}

// Parse splits a URI reference into its parts, as specified by RFC 3986
// §3.  The scheme, if any, ends at the first ':'; the fragment, if any,
// starts at the first '#'; the query, if any, starts at the first '?'
// before that; what remains is the authority (after "//") and the path.
func Parse(s string) (*URI, error) {
	u := &URI{}

	// Scheme.  A ':' only introduces a scheme if it comes before any
	// '/', '?' or '#', and the scheme syntax restricts which characters
	// can appear before it.
	if i := strings.IndexAny(s, ":/?#"); i >= 0 && s[i] == ':' {
		scheme := s[:i]
		if !validScheme(scheme) {
			return nil, fmt.Errorf("invalid scheme %q", scheme)
		}
		u.scheme = strings.ToLower(scheme)
		u.hasScheme = true
		s = s[i+1:]
	}

	// Fragment.
	if before, fragment, found := strings.Cut(s, "#"); found {
		decoded, err := PercentDecode(fragment)
		if err != nil {
			return nil, fmt.Errorf("invalid fragment: %w", err)
		}
		u.fragment = decoded
		u.hasFragment = true
		s = before
	}

	// Query.
	if before, query, found := strings.Cut(s, "?"); found {
		q, err := ParseQuery(query)
		if err != nil {
			return nil, fmt.Errorf("invalid query: %w", err)
		}
		u.query = q
		s = before
	}

	// Authority and path.
	if rest, found := strings.CutPrefix(s, "//"); found {
		authority := rest
		s = ""
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			authority, s = rest[:i], rest[i:]
		}
		a, err := ParseAuthority(authority)
		if err != nil {
			return nil, err
		}
		u.authority = a
	}
	path, err := ParsePath(s)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	u.path = path
	return u, nil
}

func validScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z':
		case i > 0 && (b >= '0' && b <= '9' || b == '+' || b == '-' || b == '.'):
		default:
			return false
		}
	}
	return true
}

// Scheme returns the scheme, if present.  Schemes are case-insensitive
// and come out lowercased.
func (u *URI) Scheme() (string, bool) {
	if u == nil {
		return "", false
	}
	return u.scheme, u.hasScheme
}

// Authority returns the authority part, nil if absent.
func (u *URI) Authority() *Authority {
	if u == nil {
		return nil
	}
	return u.authority
}

// Path returns the path part.  Every URI has one, possibly empty.
func (u *URI) Path() Path {
	if u == nil {
		return Path{}
	}
	return u.path
}

// Query returns the query part, nil if absent.
func (u *URI) Query() *Query {
	if u == nil {
		return nil
	}
	return u.query
}

// Fragment returns the decoded fragment, if present.
func (u *URI) Fragment() (string, bool) {
	if u == nil {
		return "", false
	}
	return u.fragment, u.hasFragment
}

// IsAbsolute reports whether the URI has a scheme.
func (u *URI) IsAbsolute() bool {
	return u != nil && u.hasScheme
}

// Equal reports whether two URIs have the same parts.  Two nil URIs are
// equal.
func (u *URI) Equal(v *URI) bool {
	if u == nil || v == nil {
		return u == nil && v == nil
	}
	return u.scheme == v.scheme && u.hasScheme == v.hasScheme &&
		u.authority.Equal(v.authority) &&
		u.path == v.path &&
		u.query.Equal(v.query) &&
		u.fragment == v.fragment && u.hasFragment == v.hasFragment
}

// String recomposes the URI from its parts, as specified by RFC 3986
// §5.3.  A nil URI comes out as the empty string.
func (u *URI) String() string {
	if u == nil {
		return ""
	}
	var b strings.Builder
	if u.hasScheme {
		b.WriteString(u.scheme)
		b.WriteByte(':')
	}
	if u.authority != nil {
		b.WriteString("//")
		b.WriteString(u.authority.String())
	}
	b.WriteString(u.path.String())
	if u.query != nil {
		b.WriteByte('?')
		b.WriteString(u.query.String())
	}
	if u.hasFragment {
		b.WriteByte('#')
		b.WriteString(PercentEncode(u.fragment, subDelims+":@/?"))
	}
	return b.String()
}

// Resolve transforms a URI reference, usually a relative one, into the
// target URI it designates from base, as specified by RFC 3986 §5.2.  In
// strict mode a reference carrying the base's own scheme is treated like
// any absolute reference; in non-strict mode the scheme is ignored for
// backward compatibility, so "http:g" against an http base behaves like
// "g".
//
// A nil reference resolves to nil.  Note that this differs from the empty
// reference, which resolves to the base itself.
func (u *URI) Resolve(ref *URI, strict bool) *URI {
	if u == nil {
		return ref
	}
	if ref == nil {
		// No reference, no target.
		return nil
	}
	refScheme := ref.hasScheme
	if !strict && ref.hasScheme && ref.scheme == u.scheme {
		refScheme = false
	}
	target := &URI{fragment: ref.fragment, hasFragment: ref.hasFragment}
	switch {
	case refScheme:
		target.scheme = ref.scheme
		target.hasScheme = ref.hasScheme
		target.authority = ref.authority
		target.path = ref.path.RemoveDotSegments()
		target.query = ref.query
	case ref.authority != nil:
		target.scheme = u.scheme
		target.hasScheme = u.hasScheme
		target.authority = ref.authority
		target.path = ref.path.RemoveDotSegments()
		target.query = ref.query
	case ref.path.IsEmpty():
		target.scheme = u.scheme
		target.hasScheme = u.hasScheme
		target.authority = u.authority
		target.path = u.path
		if ref.query != nil {
			target.query = ref.query
		} else {
			target.query = u.query
		}
	default:
		target.scheme = u.scheme
		target.hasScheme = u.hasScheme
		target.authority = u.authority
		if ref.path.IsAbsolute() {
			target.path = ref.path.RemoveDotSegments()
		} else {
			target.path = u.mergePath(ref.path).RemoveDotSegments()
		}
		target.query = ref.query
	}
	return target
}

// mergePath merges a relative reference path with the base path, as
// specified by RFC 3986 §5.3.
func (u *URI) mergePath(ref Path) Path {
	if u.authority != nil && u.path.IsEmpty() {
		return Path{decoded: "/" + ref.decoded}
	}
	base := u.path.decoded
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		return Path{decoded: base[:i+1] + ref.decoded}
	}
	return ref
}
