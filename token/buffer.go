package token

import (
	"slices"

	"github.com/arnodel/httpstream/internal/debug"
)

// minReleaseSize is the number of consumed bytes below which Release does
// not bother compacting the buffer.
const minReleaseSize = 4096

// A Buffer accumulates raw JSON input ahead of the tokeniser.  Input is
// appended at the end with Write while the tokeniser consumes bytes from an
// independent read position, so data can arrive in arbitrary fragments.
//
// The read position can be rewound to a mark, which is how a token attempt
// that runs out of data is abandoned and retried later.  Bytes before the
// last completed token are never read again and are reclaimed by Release.
type Buffer struct {
	data []byte

	// Current read position in data.
	// 0 <= pos <= len(data)
	pos int

	// Position in data of the currently recorded token.
	// -1 means not recording a token.
	// tokenStart <= pos
	tokenStart int

	ended bool
}

func NewBuffer() *Buffer {
	return &Buffer{tokenStart: -1}
}

// Write appends a chunk of input to the buffer.  It returns ErrStreamClosed
// if End has already been called.
func (b *Buffer) Write(data []byte) error {
	if b.ended {
		return ErrStreamClosed
	}
	b.data = append(b.data, data...)
	return nil
}

// End marks that no further input will arrive.
func (b *Buffer) End() {
	b.ended = true
}

// Ended reports whether End has been called.
func (b *Buffer) Ended() bool {
	return b.ended
}

func (b *Buffer) errOrEOF() error {
	if b.ended {
		return ErrEndOfStream
	}
	return ErrAwaitingData
}

// ReadByte consumes and returns the next byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= len(b.data) {
		return 0, b.errOrEOF()
	}
	c := b.data[b.pos]
	b.pos++
	return c, nil
}

// PeekByte returns the next byte without consuming it.
func (b *Buffer) PeekByte() (byte, error) {
	if b.pos >= len(b.data) {
		return 0, b.errOrEOF()
	}
	return b.data[b.pos], nil
}

// Back steps the read position back by one byte.
func (b *Buffer) Back() {
	if b.pos <= 0 || b.pos <= b.tokenStart {
		panic("cannot go back from start")
	}
	b.pos--
}

// Mark returns the current read position so that Rewind can later return
// to it.
func (b *Buffer) Mark() int {
	return b.pos
}

// Rewind returns the read position to a previous mark, cancelling any token
// recording started since.
func (b *Buffer) Rewind(mark int) {
	if mark > b.pos {
		panic("cannot rewind forward")
	}
	b.pos = mark
	if b.tokenStart >= mark {
		b.tokenStart = -1
	}
}

// SkipSpace consumes leading whitespace.
func (b *Buffer) SkipSpace() {
	for b.pos < len(b.data) {
		switch b.data[b.pos] {
		case ' ', '\t', '\n', '\r':
			b.pos++
		default:
			return
		}
	}
}

// StartToken starts recording the raw source span of a token at the current
// read position.
func (b *Buffer) StartToken() {
	if b.tokenStart >= 0 {
		panic("already in record mode")
	}
	b.tokenStart = b.pos
}

// EndToken stops recording and returns a copy of the recorded source span.
func (b *Buffer) EndToken() []byte {
	if b.tokenStart < 0 {
		panic("not in record mode")
	}
	tokBytes := slices.Clone(b.data[b.tokenStart:b.pos])
	b.tokenStart = -1
	return tokBytes
}

// Release discards input that has been consumed past the last completed
// token.  It must not be called while a token is being recorded.
func (b *Buffer) Release() {
	if b.tokenStart >= 0 || b.pos < minReleaseSize {
		return
	}
	if debug.On {
		debug.Printf("buffer release: dropping %d consumed bytes of %d", b.pos, len(b.data))
	}
	n := copy(b.data, b.data[b.pos:])
	b.data = b.data[:n]
	b.pos = 0
}
