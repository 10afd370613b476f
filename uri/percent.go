// Package uri implements URIs as specified in RFC 3986, including
// reference resolution, and URI templates as specified in RFC 6570 (level
// 4).
//
// A URI is decomposed into parts (scheme, authority, path, query,
// fragment).  The parts store their content in decoded form and take care
// of percent-encoding when the URI is written back out, so user code never
// handles percent-escapes directly.
package uri

import "fmt"

const upperhex = "0123456789ABCDEF"

// Character classes of RFC 3986 §2.
const (
	genDelims = ":/?#[]@"
	subDelims = "!$&'()*+,;="
	reserved  = genDelims + subDelims
)

func isUnreserved(b byte) bool {
	return b >= 'A' && b <= 'Z' ||
		b >= 'a' && b <= 'z' ||
		b >= '0' && b <= '9' ||
		b == '-' || b == '.' || b == '_' || b == '~'
}

// PercentEncode escapes every byte of s that is neither unreserved nor
// listed in safe.  The '%' character is always escaped, whatever safe
// says, so that encoding can never produce an ambiguous escape sequence.
func PercentEncode(s string, safe string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isLiteral(s[i], safe) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	out := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		b := s[i]
		if isLiteral(b, safe) {
			out = append(out, b)
		} else {
			out = append(out, '%', upperhex[b>>4], upperhex[b&0xf])
		}
	}
	return string(out)
}

func isLiteral(b byte, safe string) bool {
	if b == '%' {
		return false
	}
	if isUnreserved(b) {
		return true
	}
	for i := 0; i < len(safe); i++ {
		if b == safe[i] {
			return true
		}
	}
	return false
}

// PercentDecode replaces every %XX escape sequence in s with the byte it
// encodes.  A '%' not followed by two hex digits is an error.
func PercentDecode(s string) (string, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			n++
		}
	}
	if n == 0 {
		return s, nil
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '%' {
			out = append(out, b)
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("truncated percent escape %q", s[i:])
		}
		hi, okHi := unhex(s[i+1])
		lo, okLo := unhex(s[i+2])
		if !okHi || !okLo {
			return "", fmt.Errorf("invalid percent escape %q", s[i:i+3])
		}
		out = append(out, hi<<4|lo)
		i += 2
	}
	return string(out), nil
}

func unhex(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
