// Command jev reads JSON from stdin and prints one line per decoded
// (path, value) event.  It works on input that is still being produced,
// printing events as soon as they are complete, so it can be used to watch
// a stream of records arrive:
//
//	curl -sN https://example.com/events | jev
//
// With -group N the events are grouped by a path prefix of length N and
// each group is reassembled and printed as one JSON document, which turns
// a huge array of records into a stream of one record per line.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/arnodel/httpstream/jsonstream"
)

func main() {
	// A closed output pipe must not kill the process; the resulting EPIPE
	// is checked for after the event loop instead.
	signal.Ignore(syscall.SIGPIPE)

	// A panic prints its stack trace before exiting.
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
		}
	}()

	var colorMode string
	var groupLevel int
	var singleValue bool
	var chunkSize int

	flag.Usage = printUsage
	flag.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")
	flag.IntVar(&groupLevel, "group", 0, "group events by a path prefix of this length and print each group as a JSON document")
	flag.BoolVar(&singleValue, "single", false, "reject input containing more than one top-level value")
	flag.IntVar(&chunkSize, "chunk", 0, "size of the chunks read from stdin (0 for the default)")
	flag.Parse()

	var colorizer *Colorizer
	switch colorMode {
	case "always":
		colorizer = &defaultColorizer
	case "never":
	case "auto":
		if isatty.IsTerminal(os.Stdout.Fd()) {
			colorizer = &defaultColorizer
		}
	default:
		fatalError("invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	// On Windows the ANSI codes need translating.
	var stdout io.Writer = os.Stdout
	if colorizer != nil {
		stdout = colorable.NewColorableStdout()
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	stream := jsonstream.NewWithOptions(os.Stdin, jsonstream.Options{
		ChunkSize:   chunkSize,
		SingleValue: singleValue,
	})

	var err error
	if groupLevel > 0 {
		err = printGroups(out, stream, groupLevel)
	} else {
		err = printEvents(out, stream, colorizer)
	}
	if err != nil {
		if errors.Is(err, syscall.EPIPE) {
			// The consumer went away, which is a normal way for a pipeline
			// such as "jev | head" to stop.
			return
		}
		fatalError("error: %s", err)
	}
}

// printEvents writes one "path value" line per event, flushing after each
// one so a consumer of a live stream gets feedback early.
func printEvents(out *bufio.Writer, stream *jsonstream.Stream, colorizer *Colorizer) error {
	for {
		ev, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		colorizer.PrintPath(out, ev.Path)
		out.WriteByte(' ')
		colorizer.PrintValue(out, ev.Value)
		out.WriteByte('\n')
		if err := out.Flush(); err != nil {
			return err
		}
	}
}

// printGroups reassembles each group into a value and writes it out as one
// line of JSON.
func printGroups(out *bufio.Writer, stream *jsonstream.Stream, level int) error {
	groups := jsonstream.Grouped(stream, level)
	for {
		_, group, err := groups.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		value, err := jsonstream.Assembled(group)
		if err != nil {
			return err
		}
		line, err := json.Marshal(value)
		if err != nil {
			return err
		}
		out.Write(line)
		out.WriteByte('\n')
		if err := out.Flush(); err != nil {
			return err
		}
	}
}

// A Colorizer holds the ANSI codes used to print paths and values.  A nil
// *Colorizer prints everything plain.
type Colorizer struct {
	PathColorCode  []byte
	ValueColorCode func(value any) []byte
	ResetCode      []byte
}

func (c *Colorizer) PrintPath(out *bufio.Writer, path jsonstream.Path) {
	if c != nil {
		out.Write(c.PathColorCode)
	}
	out.WriteString(path.String())
	if c != nil {
		out.Write(c.ResetCode)
	}
}

func (c *Colorizer) PrintValue(out *bufio.Writer, value any) {
	if c != nil {
		out.Write(c.ValueColorCode(value))
	}
	out.WriteString(formatValue(value))
	if c != nil {
		out.Write(c.ResetCode)
	}
}

func formatValue(value any) string {
	switch value := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case string:
		return strconv.Quote(value)
	case []any:
		return "[]"
	case map[string]any:
		return "{}"
	default:
		panic(fmt.Sprintf("invalid event value %v", value))
	}
}

// ANSI escape codes for the colorizer.
var (
	Reset = []byte("\033[0m")

	Yellow = []byte("\033[33m")
	Green  = []byte("\033[32m")
	White  = []byte("\033[37m")

	DimWhite = []byte("\033[37;2m")

	BrightBlue = []byte("\033[34;1m")
)

var defaultColorizer = Colorizer{
	PathColorCode: BrightBlue,
	ValueColorCode: func(value any) []byte {
		switch value.(type) {
		case nil:
			return DimWhite
		case bool:
			return Yellow
		case string:
			return Green
		default:
			return White
		}
	},
	ResetCode: Reset,
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `jev - JSON event stream viewer

USAGE:
  jev [options] < input.json

DESCRIPTION:
  jev decodes JSON input incrementally and prints one line per decoded
  value, with the path locating it in the document:

    $ echo '{"name": "Alice", "pets": ["cat"]}' | jev
    () {}
    ("name") "Alice"
    ("pets") []
    ("pets", 0) "cat"

  Events are printed as soon as the input delivers them, so jev can watch
  a stream that is still being produced.

OPTIONS:
  -group N     Group events by a path prefix of length N and print each
               group reassembled, as one JSON document per line.  Use
               '-group 1' to split a top-level array into its elements.
  -single      Reject input with more than one top-level value.
  -chunk N     Read from stdin in chunks of N bytes.
  -color MODE  Colorize output: auto (default), always, never.
`)
}
