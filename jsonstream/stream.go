// Package jsonstream turns JSON input arriving in arbitrary chunks into a
// stream of (path, value) events, one per JSON value in the document,
// without ever materialising the whole document.
//
// Each event carries the Path of the value from the root of the document.
// Containers are reported as soon as they open, with an empty value, so a
// consumer knows about them before their contents arrive:
//
//	["foo", ["bar", "baz"], 19]
//
// produces the events
//
//	()     []
//	(0)    "foo"
//	(1)    []
//	(1, 0) "bar"
//	(1, 1) "baz"
//	(2)    19
//
// The event stream can be consumed directly, folded back into Go values
// with Assembled, or split into per-item groups with Grouped.
package jsonstream

import (
	"fmt"
	"io"

	"github.com/arnodel/httpstream/internal/debug"
	"github.com/arnodel/httpstream/token"
)

// An Event reports one JSON value found in the input.
type Event struct {

	// Path of the value from the document root.
	Path Path

	// The value itself: nil, bool, int64, float64 or string for scalars,
	// an empty []any for an opening array, an empty map[string]any for an
	// opening object.
	Value any
}

func (e Event) String() string {
	return fmt.Sprintf("%s %v", e.Path, e.Value)
}

// An EventReader is a source of events.  Next returns io.EOF when the
// stream is exhausted.
type EventReader interface {
	Next() (Event, error)
}

// Options adjusts the behaviour of a Stream.
type Options struct {

	// Size of the chunks read from the source.  Defaults to 4096.
	ChunkSize int

	// By default a stream may contain several JSON values one after the
	// other, which matches how streaming HTTP APIs deliver records.  Set
	// SingleValue to reject anything after the first value instead.
	SingleValue bool
}

const defaultChunkSize = 4096

// Expectations about the next token, encoded as a bitmask so a state can
// allow several token kinds at once.
const (
	expectValue uint8 = 1 << iota
	expectStartArray
	expectEndArray
	expectStartObject
	expectEndObject
	expectComma
	expectColon

	expectValueStart = expectValue | expectStartArray | expectStartObject
)

// An UnexpectedTokenError reports a token that is not valid at its position
// in the document, e.g. a ',' right after a '['.
type UnexpectedTokenError struct {
	Token token.Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected token %s", e.Token)
}

// maxConsecutiveEmptyReads is the number of empty reads tolerated from the
// source before giving up with io.ErrNoProgress.
const maxConsecutiveEmptyReads = 100

// A Stream decodes JSON from an io.Reader into events.  It reads from the
// source in chunks, only on demand, so it can follow input that is still
// being produced.
type Stream struct {
	tokeniser *token.Tokeniser
	source    io.Reader
	chunk     []byte
	path      Path
	expect    uint8
	opts      Options

	// First error encountered.  All subsequent calls to Next return it.
	err error
}

var _ EventReader = &Stream{}

// New returns a Stream decoding JSON read from source.
func New(source io.Reader) *Stream {
	return NewWithOptions(source, Options{})
}

func NewWithOptions(source io.Reader, opts Options) *Stream {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	return &Stream{
		tokeniser: token.NewTokeniser(),
		source:    source,
		chunk:     make([]byte, opts.ChunkSize),
		expect:    expectValueStart,
		opts:      opts,
	}
}

// Next returns the next event.  It returns io.EOF once the input is
// exhausted, and any other error is terminal.
func (s *Stream) Next() (Event, error) {
	if s.err != nil {
		return Event{}, s.err
	}
	ev, err := s.next()
	if err != nil {
		s.err = err
	}
	return ev, err
}

func (s *Stream) next() (Event, error) {
	for {
		tok, err := s.tokeniser.Read()
		switch err {
		case nil:
			ev, emitted, err := s.handleToken(tok)
			if err != nil {
				return Event{}, err
			}
			if emitted {
				if debug.On {
					debug.Printf("event: %s", ev)
				}
				return ev, nil
			}
		case token.ErrAwaitingData:
			if err := s.fetchChunk(); err != nil {
				return Event{}, err
			}
		case token.ErrEndOfStream:
			if len(s.path) > 0 {
				return Event{}, fmt.Errorf("%w: unclosed container", token.ErrUnexpectedEnd)
			}
			return Event{}, io.EOF
		default:
			return Event{}, err
		}
	}
}

// fetchChunk reads one chunk from the source into the tokeniser.
func (s *Stream) fetchChunk() error {
	for retry := 0; ; retry++ {
		n, err := s.source.Read(s.chunk)
		if n > 0 {
			return s.tokeniser.Write(s.chunk[:n])
		}
		if err == io.EOF {
			s.tokeniser.End()
			return nil
		}
		if err != nil {
			return err
		}
		if retry >= maxConsecutiveEmptyReads {
			return io.ErrNoProgress
		}
	}
}

// handleToken advances the document state machine by one token, reporting
// an event when the token completes a value.
func (s *Stream) handleToken(tok token.Token) (Event, bool, error) {
	switch tok := tok.(type) {
	case *token.Scalar:
		return s.handleScalar(tok)
	case *token.StartArray:
		if s.expect&expectStartArray == 0 {
			return Event{}, false, &UnexpectedTokenError{Token: tok}
		}
		ev := s.emit([]any{})
		s.path = append(s.path, Index(0))
		s.expect = expectValueStart | expectEndArray
		return ev, true, nil
	case *token.EndArray:
		if s.expect&expectEndArray == 0 {
			return Event{}, false, &UnexpectedTokenError{Token: tok}
		}
		s.path = s.path[:len(s.path)-1]
		s.closeValue()
		return Event{}, false, nil
	case *token.StartObject:
		if s.expect&expectStartObject == 0 {
			return Event{}, false, &UnexpectedTokenError{Token: tok}
		}
		ev := s.emit(map[string]any{})
		s.path = append(s.path, Segment{kind: pendingKeySegment})
		s.expect = expectValue | expectEndObject
		return ev, true, nil
	case *token.EndObject:
		if s.expect&expectEndObject == 0 {
			return Event{}, false, &UnexpectedTokenError{Token: tok}
		}
		s.path = s.path[:len(s.path)-1]
		s.closeValue()
		return Event{}, false, nil
	case *token.Comma:
		if s.expect&expectComma == 0 {
			return Event{}, false, &UnexpectedTokenError{Token: tok}
		}
		top := &s.path[len(s.path)-1]
		if top.kind == indexSegment {
			top.index++
			s.expect = expectValueStart
		} else {
			top.kind = pendingKeySegment
			top.key = ""
			s.expect = expectValue
		}
		return Event{}, false, nil
	case *token.Colon:
		if s.expect&expectColon == 0 {
			return Event{}, false, &UnexpectedTokenError{Token: tok}
		}
		s.expect = expectValueStart
		return Event{}, false, nil
	default:
		panic(fmt.Sprintf("invalid token %s", tok))
	}
}

func (s *Stream) handleScalar(tok *token.Scalar) (Event, bool, error) {
	if s.expect&expectValue == 0 {
		return Event{}, false, &UnexpectedTokenError{Token: tok}
	}
	if len(s.path) > 0 && s.path[len(s.path)-1].kind == pendingKeySegment {
		// In key position only a string will do.
		if tok.Type() != token.String {
			return Event{}, false, &UnexpectedTokenError{Token: tok}
		}
		top := &s.path[len(s.path)-1]
		top.kind = keySegment
		top.key = tok.ToString()
		s.expect = expectColon
		return Event{}, false, nil
	}
	ev := s.emit(tok.ToGo())
	s.closeValue()
	return ev, true, nil
}

// emit makes an event for the current path.  The path is copied because the
// stream keeps mutating its own.
func (s *Stream) emit(value any) Event {
	var path Path
	if len(s.path) > 0 {
		path = append(path, s.path...)
	}
	return Event{Path: path, Value: value}
}

// closeValue restores the expectations of the enclosing context after a
// value has been completed.
func (s *Stream) closeValue() {
	if len(s.path) == 0 {
		if s.opts.SingleValue {
			s.expect = 0
		} else {
			s.expect = expectValueStart
		}
		return
	}
	if s.path[len(s.path)-1].kind == indexSegment {
		s.expect = expectComma | expectEndArray
	} else {
		s.expect = expectComma | expectEndObject
	}
}
