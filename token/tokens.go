package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// A Token is an item in a stream that encodes a JSON value.
// For example, the JSON value
//
//	{"id": 123, "tags": ["important", "new"]}
//
// would be read as the sequence of Token (in pseudocode for clarity):
//
//	{            -> StartObject
//	"id"         -> Scalar("id", String)
//	:            -> Colon
//	123          -> Scalar(123, Number)
//	,            -> Comma
//	"tags"       -> Scalar("tags", String)
//	:            -> Colon
//	[            -> StartArray
//	"important"  -> Scalar("important", String)
//	,            -> Comma
//	"new"        -> Scalar("new", String)
//	]            -> EndArray
//	}            -> EndObject
//
// Unlike a whole-document parser, the tokeniser surfaces the ',' and ':'
// separators so that a consumer can validate the structure of input that is
// still arriving.
type Token interface {
	fmt.Stringer
}

// Comma represents the ',' separator between array elements or object
// members.
type Comma struct{}

func (c *Comma) String() string {
	return "Comma"
}

var _ Token = &Comma{}

// Colon represents the ':' separator between an object key and its value.
type Colon struct{}

func (c *Colon) String() string {
	return "Colon"
}

var _ Token = &Colon{}

// StartArray represents the start of a JSON array (introduced by '[').
type StartArray struct{}

func (s *StartArray) String() string {
	return "StartArray"
}

var _ Token = &StartArray{}

// EndArray represents the end of a JSON array (introduced by ']').
type EndArray struct{}

func (e *EndArray) String() string {
	return "EndArray"
}

var _ Token = &EndArray{}

// StartObject represents the start of a JSON object (introduced by '{').
type StartObject struct{}

func (s *StartObject) String() string {
	return "StartObject"
}

var _ Token = &StartObject{}

// EndObject represents the end of a JSON object (introduced by '}')
type EndObject struct{}

func (e *EndObject) String() string {
	return "EndObject"
}

var _ Token = &EndObject{}

// Scalar is the type used to represent all scalar JSON values, i.e.
// - strings
// - numbers
// - booleans (two values)
// - null (a single value)
//
// The type is encoded in the TypeAndFlags field, while the Bytes field
// contains the literal representation of the value as found in the input.
type Scalar struct {

	// Literal representation of the value, e.g.
	// - the string "foo" is represented as []byte("\"foo\"")
	// - the number 123.5 is represented as []byte("123.5")
	// - the boolean true is represented as []byte("true")
	Bytes []byte

	// Type of the value plus flag bits.
	TypeAndFlags uint8

	// Decoded form of a string value whose source contains escape
	// sequences.  Unescaped strings leave this nil and set UnescapedMask
	// instead.
	decoded []byte
}

func NewScalar(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp),
	}
}

func (s *Scalar) Type() ScalarType {
	return ScalarType(s.TypeAndFlags & TypeMask)
}

// IsFloat reports whether a number carries a fractional or exponent part.
func (s *Scalar) IsFloat() bool {
	return FloatMask&s.TypeAndFlags != 0
}

func (s *Scalar) IsUnescaped() bool {
	return UnescapedMask&s.TypeAndFlags != 0
}

func (s *Scalar) String() string {
	return fmt.Sprintf("Scalar(%s)", s.Bytes)
}

// EqualsString is a convenience method to check if a Scalar represents the
// passed string.
func (s *Scalar) EqualsString(str string) bool {
	if s.Type() != String {
		return false
	}
	return s.ToString() == str
}

func (s *Scalar) Equal(t *Scalar) bool {
	if s == nil || t == nil {
		return false
	}
	if s.Type() != t.Type() {
		return false
	}
	switch s.Type() {
	case Null:
		return true
	case Boolean:
		// The bytes are "true" or "false", so it's enough to compare the first one
		return s.Bytes[0] == t.Bytes[0]
	case String:
		return s.ToString() == t.ToString()
	case Number:
		if bytes.Equal(s.Bytes, t.Bytes) {
			return true
		}
		// Fall back to numeric comparison so that e.g. 1 and 1.0 are equal
		return s.ToFloat64() == t.ToFloat64()
	default:
		panic("invalid scalar type")
	}
}

// ToString returns the decoded string value.  Panics if the scalar is not a
// string.
func (s *Scalar) ToString() string {
	if s.Type() != String {
		panic("not a string")
	}
	if s.decoded != nil {
		return string(s.decoded)
	}
	return string(s.Bytes[1 : len(s.Bytes)-1])
}

// ToInt64 returns the value of an integer number scalar.  Panics if the
// value does not fit in an int64; ToGo falls back to float64 in that case.
func (s *Scalar) ToInt64() int64 {
	n, err := strconv.ParseInt(string(s.Bytes), 10, 64)
	if err != nil {
		panic(err)
	}
	return n
}

// ToFloat64 returns the value of a number scalar as a float.  A value
// beyond the range of a float64 saturates to ±Inf, as JSON puts no bound
// on the magnitude of a number.
func (s *Scalar) ToFloat64() float64 {
	x, err := strconv.ParseFloat(string(s.Bytes), 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			panic(err)
		}
	}
	return x
}

// ToGo returns the scalar as a plain Go value: nil, bool, int64, float64 or
// string.  Numbers without a fractional or exponent part come out as int64,
// all others as float64.  An integer too big for int64 comes out as a
// float64 too, losing precision rather than failing.
func (s *Scalar) ToGo() any {
	switch s.Type() {
	case Null:
		return nil
	case Boolean:
		return s.Bytes[0] == 't'
	case Number:
		if s.IsFloat() {
			return s.ToFloat64()
		}
		n, err := strconv.ParseInt(string(s.Bytes), 10, 64)
		if err != nil {
			// An integer too big for int64 comes out as a float64.
			return s.ToFloat64()
		}
		return n
	case String:
		return s.ToString()
	default:
		panic("invalid scalar type")
	}
}

// ScalarType encodes the four possible JSON scalar types.
type ScalarType uint8

const (
	Null               = 0x0 // the type of JSON null
	Boolean            = 0x1 // a JSON boolean
	Number             = 0x2 // a JSON number
	String  ScalarType = 0x3 // a JSON string
)

const (
	TypeMask      = 0b0011
	FloatMask     = 0b0100
	UnescapedMask = 0b1000
)

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)

var (
	TrueScalar  = NewScalar(Boolean, trueBytes)
	FalseScalar = NewScalar(Boolean, falseBytes)
	NullScalar  = NewScalar(Null, nullBytes)
)

func StringScalar(s string) *Scalar {
	encodedBytes, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	scalar := NewScalar(String, encodedBytes)
	if string(encodedBytes[1:len(encodedBytes)-1]) == s {
		scalar.TypeAndFlags |= UnescapedMask
	} else {
		scalar.decoded = []byte(s)
	}
	return scalar
}

func Float64Scalar(x float64) *Scalar {
	s := NewScalar(Number, []byte(strconv.FormatFloat(x, 'g', -1, 64)))
	s.TypeAndFlags |= FloatMask
	return s
}

func Int64Scalar(n int64) *Scalar {
	return NewScalar(Number, []byte(strconv.FormatInt(n, 10)))
}

func BoolScalar(b bool) *Scalar {
	if b {
		return TrueScalar
	}
	return FalseScalar
}
