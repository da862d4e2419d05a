package lang

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Boolean values travel as text so DISPLAY prints them verbatim.
const (
	TrueText  = "TRUE"
	FalseText = "FALSE"
)

// Kind is the runtime category of a Value.
type Kind int

const (
	KindNone Kind = iota // explicit "no value" marker
	KindInt
	KindFloat
	KindChar
	KindBool
	KindString
)

var kindNames = [...]string{
	KindNone:   "NONE",
	KindInt:    "INT",
	KindFloat:  "FLOAT",
	KindChar:   "CHAR",
	KindBool:   "BOOL",
	KindString: "STRING",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a tagged union over the language's runtime values.
// Only the field selected by Kind is meaningful; Text holds BOOL and STRING.
type Value struct {
	Kind  Kind
	Int   int32
	Float float32
	Char  rune
	Text  string
}

func IntValue(i int32) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float32) Value { return Value{Kind: KindFloat, Float: f} }
func CharValue(c rune) Value     { return Value{Kind: KindChar, Char: c} }
func StringValue(s string) Value { return Value{Kind: KindString, Text: s} }

// BoolValue converts a Go bool into its textual form.
func BoolValue(b bool) Value {
	if b {
		return Value{Kind: KindBool, Text: TrueText}
	}
	return Value{Kind: KindBool, Text: FalseText}
}

// IsNone reports whether v is the uninitialized marker.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// IsNumeric reports whether v is an INT or FLOAT.
func (v Value) IsNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// IsTrue reports whether v is the boolean text TRUE.
func (v Value) IsTrue() bool { return v.Kind == KindBool && v.Text == TrueText }

func (v Value) float64() float64 {
	if v.Kind == KindFloat {
		return float64(v.Float)
	}
	return float64(v.Int)
}

// String renders v the way DISPLAY writes it.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case KindFloat:
		return FormatFloat(v.Float)
	case KindChar:
		return string(v.Char)
	case KindBool, KindString:
		return v.Text
	}
	return "null"
}

// FormatFloat renders f as the shortest text that round-trips the float32 and
// always carries a decimal point. Magnitudes outside [1e-3, 1e7) use
// scientific notation such as 1.0E7.
func FormatFloat(f float32) string {
	switch {
	case math.IsNaN(float64(f)):
		return "NaN"
	case math.IsInf(float64(f), 1):
		return "Infinity"
	case math.IsInf(float64(f), -1):
		return "-Infinity"
	}

	abs := math.Abs(float64(f))
	if f == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(float64(f), 'f', -1, 32)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(float64(f), 'E', -1, 32)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(n)
}
