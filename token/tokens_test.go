package token

import (
	"math"
	"testing"
)

func TestScalarEqual(t *testing.T) {
	tests := []struct {
		name  string
		x, y  *Scalar
		equal bool
	}{
		{"nulls", NullScalar, NullScalar, true},
		{"booleans", TrueScalar, TrueScalar, true},
		{"different booleans", TrueScalar, FalseScalar, false},
		{"null and boolean", NullScalar, FalseScalar, false},
		{"same ints", Int64Scalar(12), Int64Scalar(12), true},
		{"different ints", Int64Scalar(12), Int64Scalar(13), false},
		{"int and equal float", Int64Scalar(1), Float64Scalar(1), true},
		{"strings", StringScalar("a b"), StringScalar("a b"), true},
		{"different strings", StringScalar("a"), StringScalar("b"), false},
		{"string and number", StringScalar("1"), Int64Scalar(1), false},
		{"nil scalar", nil, NullScalar, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.x.Equal(test.y); got != test.equal {
				t.Fatalf("expected %s.Equal(%s) = %t, got %t", test.x, test.y, test.equal, got)
			}
		})
	}
}

func TestScalarEqualEscapedString(t *testing.T) {
	// The same string can have different source representations.
	esc := NewScalar(String, []byte(`"a b"`))
	esc.decoded = []byte("a b")
	if !esc.Equal(StringScalar("a b")) {
		t.Fatal("expected escaped and plain representations to be equal")
	}
}

func TestScalarToGo(t *testing.T) {
	tests := []struct {
		scalar *Scalar
		want   any
	}{
		{NullScalar, nil},
		{TrueScalar, true},
		{FalseScalar, false},
		{Int64Scalar(42), int64(42)},
		{Float64Scalar(2.5), 2.5},
		{StringScalar("hi"), "hi"},
	}
	for _, test := range tests {
		t.Run(test.scalar.String(), func(t *testing.T) {
			if got := test.scalar.ToGo(); got != test.want {
				t.Fatalf("expected %v (%T), got %v (%T)", test.want, test.want, got, got)
			}
		})
	}
}

func TestScalarToGoHugeNumbers(t *testing.T) {
	// JSON puts no bound on the magnitude of a number, so values beyond
	// int64 or float64 range must still come out as values, not panics.
	big := NewScalar(Number, []byte("123456789012345678901234567890"))
	if got := big.ToGo(); got != 1.2345678901234568e29 {
		t.Fatalf("expected 1.2345678901234568e29, got %v (%T)", got, got)
	}

	negBig := NewScalar(Number, []byte("-123456789012345678901234567890"))
	if got := negBig.ToGo(); got != -1.2345678901234568e29 {
		t.Fatalf("expected -1.2345678901234568e29, got %v (%T)", got, got)
	}

	huge := NewScalar(Number, []byte("1e400"))
	huge.TypeAndFlags |= FloatMask
	if got := huge.ToGo(); got != math.Inf(1) {
		t.Fatalf("expected +Inf, got %v (%T)", got, got)
	}

	negHuge := NewScalar(Number, []byte("-1e400"))
	negHuge.TypeAndFlags |= FloatMask
	if got := negHuge.ToGo(); got != math.Inf(-1) {
		t.Fatalf("expected -Inf, got %v (%T)", got, got)
	}
}

func TestStringScalar(t *testing.T) {
	tests := []struct {
		str       string
		unescaped bool
	}{
		{"plain", true},
		{"with \"quotes\"", false},
		{"tab\there", false},
		{"", true},
	}
	for _, test := range tests {
		t.Run(test.str, func(t *testing.T) {
			s := StringScalar(test.str)
			if s.Type() != String {
				t.Fatalf("expected a string scalar")
			}
			if s.IsUnescaped() != test.unescaped {
				t.Fatalf("expected IsUnescaped() = %t", test.unescaped)
			}
			if got := s.ToString(); got != test.str {
				t.Fatalf("expected %q, got %q", test.str, got)
			}
		})
	}
}

func TestScalarEqualsString(t *testing.T) {
	if !StringScalar("key").EqualsString("key") {
		t.Fatal(`expected "key" to equal itself`)
	}
	if StringScalar("key").EqualsString("other") {
		t.Fatal(`expected "key" not to equal "other"`)
	}
	if Int64Scalar(1).EqualsString("1") {
		t.Fatal("expected a number not to equal a string")
	}
}

func TestPunctuationStrings(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{&Comma{}, "Comma"},
		{&Colon{}, "Colon"},
		{&StartArray{}, "StartArray"},
		{&EndArray{}, "EndArray"},
		{&StartObject{}, "StartObject"},
		{&EndObject{}, "EndObject"},
		{Int64Scalar(7), "Scalar(7)"},
	}
	for _, test := range tests {
		if got := test.tok.String(); got != test.want {
			t.Errorf("expected %q, got %q", test.want, got)
		}
	}
}
