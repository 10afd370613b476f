package uri

import (
	"fmt"
	"strconv"
	"strings"
)

// An Authority is the user@host:port part of a URI (RFC 3986 §3.2).  The
// user info and host are stored in decoded form.
//
// A nil *Authority means the URI has no authority at all, which is
// distinct from an empty one: "file:///x" has an empty authority while
// "mailto:x" has none.
type Authority struct {
	userInfo    string
	hasUserInfo bool
	host        string
	port        int
	hasPort     bool
}

// ParseAuthority decodes an authority string.  The user info ends at the
// first '@' and the port starts at the last ':', so that a ':' may appear
// within the user info.
func ParseAuthority(s string) (*Authority, error) {
	a := &Authority{}
	hostPort := s
	if userInfo, rest, found := strings.Cut(s, "@"); found {
		decoded, err := PercentDecode(userInfo)
		if err != nil {
			return nil, fmt.Errorf("invalid user info: %w", err)
		}
		a.userInfo = decoded
		a.hasUserInfo = true
		hostPort = rest
	}
	host := hostPort
	// The ':' before the port must come after the ']' closing an IPv6
	// literal, if any.
	if i := strings.LastIndexByte(hostPort, ':'); i > strings.LastIndexByte(hostPort, ']') {
		port, err := strconv.Atoi(hostPort[i+1:])
		if err != nil || port < 0 || port > 65535 {
			return nil, fmt.Errorf("invalid port %q", hostPort[i+1:])
		}
		a.port = port
		a.hasPort = true
		host = hostPort[:i]
	}
	decoded, err := PercentDecode(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}
	a.host = decoded
	return a, nil
}

// UserInfo returns the decoded user info, if present.
func (a *Authority) UserInfo() (string, bool) {
	if a == nil {
		return "", false
	}
	return a.userInfo, a.hasUserInfo
}

// Host returns the decoded host.
func (a *Authority) Host() string {
	if a == nil {
		return ""
	}
	return a.host
}

// Port returns the port, if present.
func (a *Authority) Port() (int, bool) {
	if a == nil {
		return 0, false
	}
	return a.port, a.hasPort
}

// Equal reports whether two authorities are the same part for part.  Two
// nil authorities are equal.
func (a *Authority) Equal(b *Authority) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// String writes the authority back out in encoded form.  A nil authority
// comes out as the empty string.
func (a *Authority) String() string {
	if a == nil {
		return ""
	}
	var b strings.Builder
	if a.hasUserInfo {
		b.WriteString(PercentEncode(a.userInfo, subDelims+":"))
		b.WriteByte('@')
	}
	b.WriteString(PercentEncode(a.host, subDelims+":[]"))
	if a.hasPort {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(a.port))
	}
	return b.String()
}
