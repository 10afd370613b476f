package uri

import "strings"

// A Path is the path part of a URI, stored in decoded form.  The zero
// Path is the empty path.
type Path struct {
	decoded string
}

// ParsePath decodes the path part of a URI.
func ParsePath(s string) (Path, error) {
	decoded, err := PercentDecode(s)
	if err != nil {
		return Path{}, err
	}
	return Path{decoded: decoded}, nil
}

// MakePath returns the Path for an already decoded string.
func MakePath(decoded string) Path {
	return Path{decoded: decoded}
}

// IsEmpty reports whether the path has no content at all.
func (p Path) IsEmpty() bool {
	return p.decoded == ""
}

// IsAbsolute reports whether the path starts with a '/'.
func (p Path) IsAbsolute() bool {
	return strings.HasPrefix(p.decoded, "/")
}

// Segments splits the path at every '/'.  An absolute path has an empty
// first segment and a path with a trailing slash an empty last one, so
// that joining the segments with '/' restores the path exactly.
func (p Path) Segments() []string {
	if p.decoded == "" {
		return nil
	}
	return strings.Split(p.decoded, "/")
}

// RemoveDotSegments interprets the "." and ".." segments of the path and
// removes them, as specified in RFC 3986 §5.2.4.  Leading ".." segments
// that would climb above the root are dropped.
func (p Path) RemoveDotSegments() Path {
	var out strings.Builder
	in := p.decoded
	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			popSegment(&out)
		case in == "/..":
			in = "/"
			popSegment(&out)
		case in == "." || in == "..":
			in = ""
		default:
			// Move the first segment (with its leading '/' if any) to the
			// output.
			i := strings.IndexByte(in[1:], '/')
			if i < 0 {
				out.WriteString(in)
				in = ""
			} else {
				out.WriteString(in[:i+1])
				in = in[i+1:]
			}
		}
	}
	return Path{decoded: out.String()}
}

// popSegment removes the last segment and its leading '/' from the output
// buffer.
func popSegment(out *strings.Builder) {
	s := out.String()
	i := strings.LastIndexByte(s, '/')
	if i < 0 {
		i = 0
	}
	out.Reset()
	out.WriteString(s[:i])
}

// String writes the path back out with every segment percent-encoded.
func (p Path) String() string {
	return PercentEncode(p.decoded, subDelims+":@/")
}

// Equal reports whether two paths are identical.
func (p Path) Equal(q Path) bool {
	return p == q
}
