// Package token implements an incremental JSON tokeniser.
//
// Input arrives in arbitrary fragments via Tokeniser.Write and tokens are
// consumed one at a time with Tokeniser.Read.  When the buffered input is
// not sufficient to complete a token, Read reports ErrAwaitingData and
// leaves the input untouched, so the caller can supply more data and retry.
// This makes it possible to decode a JSON document as it is received, e.g.
// from a chunked HTTP response, without ever holding the whole document in
// memory.
package token

import (
	"unicode/utf16"
	"unicode/utf8"
)

// A Tokeniser incrementally splits JSON input into Tokens.
type Tokeniser struct {
	buf *Buffer
}

func NewTokeniser() *Tokeniser {
	return &Tokeniser{buf: NewBuffer()}
}

// Write appends a chunk of raw JSON input.  It returns ErrStreamClosed if
// End has already been called.
func (t *Tokeniser) Write(data []byte) error {
	return t.buf.Write(data)
}

// End marks that no further input will arrive.
func (t *Tokeniser) End() {
	t.buf.End()
}

// Read consumes exactly one token from the input.  It can return
//
//   - ErrAwaitingData when the buffered input cannot complete a token yet
//     (recoverable: Write more input and retry);
//   - ErrEndOfStream when the input has ended cleanly and all tokens have
//     been read;
//   - ErrUnexpectedEnd when the input ended part-way through a token;
//   - a *SyntaxError when the input is malformed.
//
// After ErrAwaitingData the read position is rewound to where the token
// attempt began, so a later Read sees the whole token.
func (t *Tokeniser) Read() (Token, error) {
	t.buf.SkipSpace()
	b, err := t.buf.PeekByte()
	if err != nil {
		return nil, err
	}
	mark := t.buf.Mark()
	tok, err := t.readToken(b)
	if err != nil {
		t.buf.Rewind(mark)
		if err == ErrEndOfStream {
			// The token had started but the input ended before it could be
			// completed.
			err = ErrUnexpectedEnd
		}
		return nil, err
	}
	t.buf.Release()
	return tok, nil
}

func (t *Tokeniser) readToken(b byte) (Token, error) {
	switch b {
	case ',':
		t.buf.ReadByte()
		return &Comma{}, nil
	case ':':
		t.buf.ReadByte()
		return &Colon{}, nil
	case '[':
		t.buf.ReadByte()
		return &StartArray{}, nil
	case ']':
		t.buf.ReadByte()
		return &EndArray{}, nil
	case '{':
		t.buf.ReadByte()
		return &StartObject{}, nil
	case '}':
		t.buf.ReadByte()
		return &EndObject{}, nil
	case 'n':
		return t.readLiteral(nullBytes, NullScalar)
	case 't':
		return t.readLiteral(trueBytes, TrueScalar)
	case 'f':
		return t.readLiteral(falseBytes, FalseScalar)
	case '"':
		return t.readString()
	default:
		if b == '-' || isDigit(b) {
			return t.readNumber()
		}
		return nil, &SyntaxError{Byte: b, Msg: "invalid value starting with"}
	}
}

func (t *Tokeniser) readLiteral(lit []byte, tok *Scalar) (Token, error) {
	for _, expected := range lit {
		b, err := t.buf.ReadByte()
		if err != nil {
			return nil, err
		}
		if b != expected {
			return nil, &SyntaxError{Byte: b, Msg: "in literal " + string(lit) + ", got"}
		}
	}
	return tok, nil
}

func (t *Tokeniser) readString() (Token, error) {
	t.buf.StartToken()
	t.buf.ReadByte() // opening quote
	var decoded []byte
	escaped := false
	for {
		b, err := t.buf.ReadByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case '"':
			s := NewScalar(String, t.buf.EndToken())
			if escaped {
				s.decoded = decoded
			} else {
				s.TypeAndFlags |= UnescapedMask
			}
			return s, nil
		case '\\':
			escaped = true
			x, err := t.buf.ReadByte()
			if err != nil {
				return nil, err
			}
			switch x {
			case '"', '\\', '/':
				decoded = append(decoded, x)
			case 'b':
				decoded = append(decoded, '\b')
			case 'f':
				decoded = append(decoded, '\f')
			case 'n':
				decoded = append(decoded, '\n')
			case 'r':
				decoded = append(decoded, '\r')
			case 't':
				decoded = append(decoded, '\t')
			case 'u':
				r, err := t.readHex4()
				if err != nil {
					return nil, err
				}
				if utf16.IsSurrogate(r) {
					combined, ok, err := t.surrogatePair(r)
					if err != nil {
						return nil, err
					}
					if ok {
						r = combined
					}
					// A lone surrogate half stays invalid and
					// utf8.AppendRune writes U+FFFD for it.
				}
				decoded = utf8.AppendRune(decoded, r)
			default:
				return nil, &SyntaxError{Byte: x, Msg: "invalid escape character"}
			}
		default:
			decoded = append(decoded, b)
		}
	}
}

// readHex4 reads the four hex digits of a \uXXXX escape.
func (t *Tokeniser) readHex4() (rune, error) {
	var n rune
	for i := 0; i < 4; i++ {
		h, err := t.buf.ReadByte()
		if err != nil {
			return 0, err
		}
		d, ok := unhexByte(h)
		if !ok {
			return 0, &SyntaxError{Byte: h, Msg: "expected hex digit, got"}
		}
		n = n<<4 | rune(d)
	}
	return n, nil
}

// surrogatePair tries to read a \uXXXX escape right after the surrogate
// half hi, combining the two into the rune they encode.  If what follows
// does not complete a valid pair the input is left untouched, so the main
// string loop processes it normally.
func (t *Tokeniser) surrogatePair(hi rune) (rune, bool, error) {
	mark := t.buf.Mark()
	bail := func() (rune, bool, error) {
		t.buf.Rewind(mark)
		return 0, false, nil
	}
	b, err := t.buf.ReadByte()
	if err == ErrAwaitingData {
		return 0, false, err
	}
	if err != nil || b != '\\' {
		return bail()
	}
	b, err = t.buf.ReadByte()
	if err == ErrAwaitingData {
		return 0, false, err
	}
	if err != nil || b != 'u' {
		return bail()
	}
	lo, err := t.readHex4()
	if err == ErrAwaitingData {
		return 0, false, err
	}
	if err != nil {
		return bail()
	}
	r := utf16.DecodeRune(hi, lo)
	if r == utf8.RuneError {
		return bail()
	}
	return r, true, nil
}

// readNumber scans a number of the form
//
//	-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][-+]?[0-9]+)?
//
// A number is complete as soon as the next byte cannot extend it, or the
// input has ended.  Note that a leading 0 terminates the integer part, so
// "0123" reads as the two numbers 0 and 123.
func (t *Tokeniser) readNumber() (Token, error) {
	t.buf.StartToken()
	isFloat := false
	b, _ := t.buf.ReadByte() // '-' or first digit, already peeked
	if b == '-' {
		var err error
		b, err = t.buf.ReadByte()
		if err != nil {
			return nil, err
		}
		if !isDigit(b) {
			return nil, &SyntaxError{Byte: b, Msg: "expected digit, got"}
		}
	}

	// Integer part
	if b != '0' {
		if _, err := t.readDigits(); err != nil {
			return nil, err
		}
	}

	// Fraction part
	b, err := t.buf.PeekByte()
	if err == ErrAwaitingData {
		return nil, err
	}
	if err == nil && b == '.' {
		isFloat = true
		t.buf.ReadByte()
		if err := t.readRequiredDigits(); err != nil {
			return nil, err
		}
		b, err = t.buf.PeekByte()
		if err == ErrAwaitingData {
			return nil, err
		}
	}

	// Exponent part
	if err == nil && (b == 'e' || b == 'E') {
		isFloat = true
		t.buf.ReadByte()
		b, err = t.buf.PeekByte()
		if err != nil {
			return nil, err
		}
		if b == '+' || b == '-' {
			t.buf.ReadByte()
		}
		if err := t.readRequiredDigits(); err != nil {
			return nil, err
		}
	}

	s := NewScalar(Number, t.buf.EndToken())
	if isFloat {
		s.TypeAndFlags |= FloatMask
	}
	return s, nil
}

// readDigits consumes digits until the next byte is not a digit, returning
// how many were read.  The end of the input terminates the digit run: a
// number can validly end with the stream.
func (t *Tokeniser) readDigits() (int, error) {
	n := 0
	for {
		b, err := t.buf.PeekByte()
		if err != nil {
			if err == ErrEndOfStream {
				return n, nil
			}
			return n, err
		}
		if !isDigit(b) {
			return n, nil
		}
		t.buf.ReadByte()
		n++
	}
}

// readRequiredDigits is readDigits but at least one digit must be present.
func (t *Tokeniser) readRequiredDigits() error {
	n, err := t.readDigits()
	if err != nil {
		return err
	}
	if n == 0 {
		b, err := t.buf.PeekByte()
		if err != nil {
			return ErrEndOfStream
		}
		return &SyntaxError{Byte: b, Msg: "expected digit, got"}
	}
	return nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func unhexByte(b byte) (byte, bool) {
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
