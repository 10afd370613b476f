// Command uritool works with URIs on the command line: it splits a URI
// into its parts, resolves a relative reference against a base, or expands
// a URI template.
//
//	uritool parse 'https://bob@example.com:8042/over/there?name=ferret#nose'
//	uritool resolve 'http://a/b/c/d;p?q' '../g'
//	uritool expand 'http://example.com/search{?q,lang}' q='a b' lang=en
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arnodel/httpstream/uri"
)

func main() {
	var strict bool
	flag.Usage = printUsage
	flag.BoolVar(&strict, "strict", true, "resolve in strict mode (a reference with the base's scheme stays absolute)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	var err error
	switch args[0] {
	case "parse":
		err = runParse(args[1:])
	case "resolve":
		err = runResolve(args[1:], strict)
	case "expand":
		err = runExpand(args[1:])
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "uritool: %s\n", err)
		os.Exit(1)
	}
}

func runParse(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("parse expects one URI")
	}
	u, err := uri.Parse(args[0])
	if err != nil {
		return err
	}
	if scheme, ok := u.Scheme(); ok {
		fmt.Printf("scheme    %s\n", scheme)
	}
	if a := u.Authority(); a != nil {
		if userInfo, ok := a.UserInfo(); ok {
			fmt.Printf("user info %s\n", userInfo)
		}
		fmt.Printf("host      %s\n", a.Host())
		if port, ok := a.Port(); ok {
			fmt.Printf("port      %d\n", port)
		}
	}
	if !u.Path().IsEmpty() {
		fmt.Printf("path      %s\n", u.Path())
	}
	if q := u.Query(); q != nil {
		for _, p := range q.Pairs() {
			if p.HasValue {
				fmt.Printf("query     %s = %s\n", p.Key, p.Value)
			} else {
				fmt.Printf("query     %s\n", p.Key)
			}
		}
	}
	if fragment, ok := u.Fragment(); ok {
		fmt.Printf("fragment  %s\n", fragment)
	}
	return nil
}

func runResolve(args []string, strict bool) error {
	if len(args) != 2 {
		return fmt.Errorf("resolve expects a base URI and a reference")
	}
	base, err := uri.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid base: %w", err)
	}
	ref, err := uri.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid reference: %w", err)
	}
	fmt.Println(base.Resolve(ref, strict))
	return nil
}

func runExpand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("expand expects a template and name=value bindings")
	}
	template, err := uri.NewTemplate(args[0])
	if err != nil {
		return err
	}
	values := map[string]any{}
	for _, arg := range args[1:] {
		name, value, found := strings.Cut(arg, "=")
		if !found {
			return fmt.Errorf("invalid binding %q, expected name=value", arg)
		}
		if strings.Contains(value, ",") {
			values[name] = strings.Split(value, ",")
		} else {
			values[name] = value
		}
	}
	expanded, err := template.Expand(values)
	if err != nil {
		return err
	}
	fmt.Println(expanded)
	return nil
}

func printUsage() {
	io.WriteString(os.Stderr, `uritool - split, resolve and expand URIs

USAGE:
  uritool parse URI
  uritool [-strict=false] resolve BASE REFERENCE
  uritool expand TEMPLATE [name=value ...]

DESCRIPTION:
  'parse' splits a URI into its parts, one per line, decoded.

  'resolve' turns a relative reference into the target URI it designates
  from the base, e.g.

    $ uritool resolve 'http://a/b/c/d;p?q' '../g'
    http://a/b/g

  'expand' substitutes values into an RFC 6570 URI template, e.g.

    $ uritool expand 'http://example.com/search{?q,lang}' q='a b' lang=en
    http://example.com/search?q=a%20b&lang=en

  A value containing commas is treated as a list.
`)
}
