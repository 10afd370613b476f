package jsonstream

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"

	"github.com/arnodel/httpstream/token"
)

var cmpOpts = cmp.Options{cmp.AllowUnexported(Segment{})}

func collectEvents(r EventReader) ([]Event, error) {
	var evs []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return evs, nil
		}
		if err != nil {
			return evs, err
		}
		evs = append(evs, ev)
	}
}

func TestStreamEvents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{
			name:  "null",
			input: `null`,
			want:  []Event{{nil, nil}},
		},
		{
			name:  "booleans",
			input: `true false`,
			want:  []Event{{nil, true}, {nil, false}},
		},
		{
			name:  "numbers",
			input: `42 -7 3.5`,
			want:  []Event{{nil, int64(42)}, {nil, int64(-7)}, {nil, 3.5}},
		},
		{
			name:  "string",
			input: `"hello, world"`,
			want:  []Event{{nil, "hello, world"}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []Event{{nil, []any{}}},
		},
		{
			name:  "empty object",
			input: `{}`,
			want:  []Event{{nil, map[string]any{}}},
		},
		{
			name:  "flat array",
			input: `["foo", true, 19]`,
			want: []Event{
				{nil, []any{}},
				{Path{Index(0)}, "foo"},
				{Path{Index(1)}, true},
				{Path{Index(2)}, int64(19)},
			},
		},
		{
			name:  "nested array",
			input: `["foo", ["bar", "baz"], 19]`,
			want: []Event{
				{nil, []any{}},
				{Path{Index(0)}, "foo"},
				{Path{Index(1)}, []any{}},
				{Path{Index(1), Index(0)}, "bar"},
				{Path{Index(1), Index(1)}, "baz"},
				{Path{Index(2)}, int64(19)},
			},
		},
		{
			name:  "flat object",
			input: `{"one": 1, "two": 2}`,
			want: []Event{
				{nil, map[string]any{}},
				{Path{Key("one")}, int64(1)},
				{Path{Key("two")}, int64(2)},
			},
		},
		{
			name:  "nested object",
			input: `{"name": "Alice", "address": {"city": "Berlin"}}`,
			want: []Event{
				{nil, map[string]any{}},
				{Path{Key("name")}, "Alice"},
				{Path{Key("address")}, map[string]any{}},
				{Path{Key("address"), Key("city")}, "Berlin"},
			},
		},
		{
			name:  "objects in array",
			input: `[{"a": 1}, {"b": [2]}]`,
			want: []Event{
				{nil, []any{}},
				{Path{Index(0)}, map[string]any{}},
				{Path{Index(0), Key("a")}, int64(1)},
				{Path{Index(1)}, map[string]any{}},
				{Path{Index(1), Key("b")}, []any{}},
				{Path{Index(1), Key("b"), Index(0)}, int64(2)},
			},
		},
		{
			name:  "escaped key",
			input: `{"a\tb": 1}`,
			want: []Event{
				{nil, map[string]any{}},
				{Path{Key("a\tb")}, int64(1)},
			},
		},
		{
			name:  "empty input",
			input: ` `,
			want:  nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := collectEvents(New(strings.NewReader(test.input)))
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(test.want, got, cmpOpts); diff != "" {
				t.Fatalf("events mismatch (-want +got):\n%s", diff)
			}

			// The same input delivered a byte at a time must produce
			// exactly the same events.
			got, err = collectEvents(New(iotest.OneByteReader(strings.NewReader(test.input))))
			if err != nil {
				t.Fatalf("unexpected error (one byte at a time): %s", err)
			}
			if diff := cmp.Diff(test.want, got, cmpOpts); diff != "" {
				t.Fatalf("events mismatch, one byte at a time (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStreamHugeNumbers(t *testing.T) {
	input := `[123456789012345678901234567890, 1e400, -1e400]`
	got, err := collectEvents(New(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []Event{
		{nil, []any{}},
		{Path{Index(0)}, 1.2345678901234568e29},
		{Path{Index(1)}, math.Inf(1)},
		{Path{Index(2)}, math.Inf(-1)},
	}
	if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamSingleValue(t *testing.T) {
	opts := Options{SingleValue: true}

	// A single value with trailing whitespace is fine.
	evs, err := collectEvents(NewWithOptions(strings.NewReader("[1] \n"), opts))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}

	// Anything after the first value is rejected.
	_, err = collectEvents(NewWithOptions(strings.NewReader("[1] [2]"), opts))
	var tokErr *UnexpectedTokenError
	if !errors.As(err, &tokErr) {
		t.Fatalf("expected an unexpected token error, got %v", err)
	}
}

func TestStreamMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"comma after start", `[,1]`},
		{"trailing comma in array", `[1,]`},
		{"trailing comma in object", `{"a": 1,}`},
		{"missing colon", `{"a" 1}`},
		{"non-string key", `{1: 2}`},
		{"mismatched close", `[1}`},
		{"colon in array", `[1: 2]`},
		{"value after value", `{"a": 1 2}`},
		{"lone close", `]`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := collectEvents(New(strings.NewReader(test.input)))
			var tokErr *UnexpectedTokenError
			if !errors.As(err, &tokErr) {
				t.Fatalf("expected an unexpected token error, got %v", err)
			}
		})
	}
}

func TestStreamSyntaxError(t *testing.T) {
	_, err := collectEvents(New(strings.NewReader(`[nope]`)))
	var syntaxErr *token.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected a syntax error, got %v", err)
	}
}

func TestStreamTruncated(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed array", `[1, 2`},
		{"unclosed object", `{"a": 1`},
		{"dangling comma", `[1,`},
		{"dangling key", `{"a":`},
		{"cut literal", `[tru`},
		{"cut string", `["abc`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := collectEvents(New(strings.NewReader(test.input)))
			if !errors.Is(err, token.ErrUnexpectedEnd) {
				t.Fatalf("expected an unexpected end error, got %v", err)
			}
		})
	}
}

func TestStreamErrorIsSticky(t *testing.T) {
	s := New(strings.NewReader(`[1`))
	var first error
	for {
		_, err := s.Next()
		if err != nil {
			first = err
			break
		}
	}
	_, err := s.Next()
	if err != first {
		t.Fatalf("expected the same error again, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestStreamSourceError(t *testing.T) {
	_, err := collectEvents(New(failingReader{}))
	if err == nil || err.Error() != "connection reset" {
		t.Fatalf("expected the source error, got %v", err)
	}
}

func TestStreamLargeDocumentChunked(t *testing.T) {
	// A document much larger than the chunk size, read with a small chunk
	// size so many fetches happen mid-token.
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < 500; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"index": `)
		b.WriteString(strings.Repeat("9", 1+i%5))
		b.WriteString(`, "label": "item item item"}`)
	}
	b.WriteByte(']')

	evs, err := collectEvents(NewWithOptions(strings.NewReader(b.String()), Options{ChunkSize: 7}))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// 1 for the array, 3 per element.
	if len(evs) != 1+3*500 {
		t.Fatalf("expected %d events, got %d", 1+3*500, len(evs))
	}
}
