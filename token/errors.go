package token

import (
	"errors"
	"fmt"
)

// ErrAwaitingData reports that the buffered input is not sufficient to
// complete the current token.  It is a recoverable condition, not a real
// error: the caller should Write more input and retry Read.
var ErrAwaitingData = errors.New("awaiting data")

// ErrEndOfStream reports that the input has ended and there are no more
// tokens to read.
var ErrEndOfStream = errors.New("end of stream")

// ErrUnexpectedEnd reports that the input ended part-way through a token,
// e.g. inside an unterminated string.  It wraps ErrEndOfStream so that
// errors.Is(err, ErrEndOfStream) holds for both conditions.
var ErrUnexpectedEnd = fmt.Errorf("unexpected %w", ErrEndOfStream)

// ErrStreamClosed is returned by Write after End has been called.
var ErrStreamClosed = errors.New("stream closed for writing")

// A SyntaxError is returned when the input cannot be valid JSON.  It is
// terminal: the input is malformed and supplying more data cannot fix it.
type SyntaxError struct {
	// The offending input byte.
	Byte byte

	// Context for the error message, e.g. `expected digit, got`.
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s %q", e.Msg, []byte{e.Byte})
}
