package uri

import (
	"fmt"
	"strconv"
	"strings"
)

// A Template is a parsed URI template as specified by RFC 6570, up to
// level 4: all the operators plus the ':N' prefix and '*' explode
// modifiers are supported.
type Template struct {
	source string
	parts  []templatePart
}

// A Member is one name=value item of an Assoc.
type Member struct {
	Name  string
	Value any
}

// An Assoc is an ordered collection of name=value pairs, used as an
// associative template variable.  Go maps have no order, which would make
// expansion non-deterministic, so associative values are passed as a
// slice of members instead.
type Assoc []Member

type templatePart struct {
	// Literal text for a non-expression part, the operator's variable
	// list for an expression.
	text   string
	isExpr bool
	op     byte // 0 for the simple operator
	specs  []varSpec
}

type varSpec struct {
	name    string
	explode bool
	prefix  int // 0 means no prefix modifier
}

// NewTemplate parses a URI template.
func NewTemplate(source string) (*Template, error) {
	t := &Template{source: source}
	for len(source) > 0 {
		i := strings.IndexByte(source, '{')
		if i < 0 {
			t.parts = append(t.parts, templatePart{text: source})
			break
		}
		if i > 0 {
			t.parts = append(t.parts, templatePart{text: source[:i]})
		}
		j := strings.IndexByte(source[i:], '}')
		if j < 0 {
			return nil, fmt.Errorf("unterminated expression %q", source[i:])
		}
		part, err := parseExpression(source[i+1 : i+j])
		if err != nil {
			return nil, err
		}
		t.parts = append(t.parts, part)
		source = source[i+j+1:]
	}
	return t, nil
}

// MustTemplate is NewTemplate but panics on a parse error, for templates
// known at compile time.
func MustTemplate(source string) *Template {
	t, err := NewTemplate(source)
	if err != nil {
		panic(err)
	}
	return t
}

func parseExpression(expr string) (templatePart, error) {
	part := templatePart{text: expr, isExpr: true}
	if expr == "" {
		return part, fmt.Errorf("empty expression")
	}
	switch expr[0] {
	case '+', '#', '.', '/', ';', '?', '&':
		part.op = expr[0]
		expr = expr[1:]
	case '=', ',', '!', '|', '@':
		return part, fmt.Errorf("operator %q is reserved", expr[0])
	}
	for _, spec := range strings.Split(expr, ",") {
		vs := varSpec{}
		if name, found := strings.CutSuffix(spec, "*"); found {
			vs.explode = true
			spec = name
		}
		if name, lenStr, found := strings.Cut(spec, ":"); found {
			n, err := strconv.Atoi(lenStr)
			if err != nil || n <= 0 || n >= 10000 {
				return part, fmt.Errorf("invalid prefix length %q", lenStr)
			}
			vs.prefix = n
			spec = name
		}
		if spec == "" {
			return part, fmt.Errorf("missing variable name in %q", part.text)
		}
		vs.name = spec
		part.specs = append(part.specs, vs)
	}
	return part, nil
}

func (t *Template) String() string {
	return t.source
}

// ExpandURI is Expand followed by parsing the result into a URI.
func (t *Template) ExpandURI(values map[string]any) (*URI, error) {
	expanded, err := t.Expand(values)
	if err != nil {
		return nil, err
	}
	return Parse(expanded)
}

// expandOptions describes how one operator turns its values into text, as
// laid out in the table of RFC 6570 appendix A.
type expandOptions struct {
	first     string // before the first item, if there are any items
	separator string // between items
	safe      string // characters exempt from percent-encoding
	named     bool   // prefix items with the variable name
	ifEmpty   string // what follows the name when the value is empty
}

var opOptions = map[byte]expandOptions{
	0:   {first: "", separator: ","},
	'+': {first: "", separator: ",", safe: reserved},
	'#': {first: "#", separator: ",", safe: reserved},
	'.': {first: ".", separator: "."},
	'/': {first: "/", separator: "/"},
	';': {first: ";", separator: ";", named: true, ifEmpty: ""},
	'?': {first: "?", separator: "&", named: true, ifEmpty: "="},
	'&': {first: "&", separator: "&", named: true, ifEmpty: "="},
}

// Expand substitutes values into the template.  Variables can be bound to
// a string, a bool, any integer type, a float64, a []string or an Assoc.
// Unbound variables, nil values and empty lists or assocs expand to
// nothing at all, per RFC 6570.
func (t *Template) Expand(values map[string]any) (string, error) {
	var b strings.Builder
	for _, part := range t.parts {
		if !part.isExpr {
			b.WriteString(part.text)
			continue
		}
		expanded, err := expandExpression(part, values)
		if err != nil {
			return "", fmt.Errorf("expanding {%s}: %w", part.text, err)
		}
		b.WriteString(expanded)
	}
	return b.String(), nil
}

func expandExpression(part templatePart, values map[string]any) (string, error) {
	opts := opOptions[part.op]
	var items []string
	for _, spec := range part.specs {
		value, defined := values[spec.name]
		if !defined || value == nil {
			continue
		}
		specItems, err := expandSpec(spec, value, opts)
		if err != nil {
			return "", err
		}
		items = append(items, specItems...)
	}
	if len(items) == 0 {
		return "", nil
	}
	return opts.first + strings.Join(items, opts.separator), nil
}

// expandSpec turns one variable binding into its expansion items.  A
// composite value gives several items when exploded, one item otherwise.
func expandSpec(spec varSpec, value any, opts expandOptions) ([]string, error) {
	switch value := value.(type) {
	case []string:
		if len(value) == 0 {
			return nil, nil
		}
		if spec.explode {
			items := make([]string, len(value))
			for i, v := range value {
				items[i] = withName(spec.name, PercentEncode(v, opts.safe), opts)
			}
			return items, nil
		}
		encoded := make([]string, len(value))
		for i, v := range value {
			encoded[i] = PercentEncode(v, opts.safe)
		}
		return []string{withName(spec.name, strings.Join(encoded, ","), opts)}, nil
	case Assoc:
		if len(value) == 0 {
			return nil, nil
		}
		if spec.explode {
			items := make([]string, len(value))
			for i, m := range value {
				v, err := stringValue(m.Value)
				if err != nil {
					return nil, err
				}
				items[i] = PercentEncode(m.Name, opts.safe) + "=" + PercentEncode(v, opts.safe)
			}
			return items, nil
		}
		encoded := make([]string, 0, 2*len(value))
		for _, m := range value {
			v, err := stringValue(m.Value)
			if err != nil {
				return nil, err
			}
			encoded = append(encoded, PercentEncode(m.Name, opts.safe), PercentEncode(v, opts.safe))
		}
		return []string{withName(spec.name, strings.Join(encoded, ","), opts)}, nil
	default:
		v, err := stringValue(value)
		if err != nil {
			return nil, err
		}
		if spec.prefix > 0 {
			v = truncate(v, spec.prefix)
		}
		return []string{withName(spec.name, PercentEncode(v, opts.safe), opts)}, nil
	}
}

// withName prefixes an item with its variable name for the named
// operators (';', '?', '&').
func withName(name, item string, opts expandOptions) string {
	if !opts.named {
		return item
	}
	if item == "" {
		return name + opts.ifEmpty
	}
	return name + "=" + item
}

// stringValue renders a scalar variable value as a string.
func stringValue(value any) (string, error) {
	switch value := value.(type) {
	case string:
		return value, nil
	case bool:
		return strconv.FormatBool(value), nil
	case int:
		return strconv.Itoa(value), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64), nil
	case fmt.Stringer:
		return value.String(), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

// truncate keeps the first n characters of s.  The prefix modifier counts
// characters, not bytes, so a multibyte rune is kept or dropped whole.
func truncate(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
