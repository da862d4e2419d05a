package lang

import (
	"strconv"
	"unicode/utf8"
)

// Validate checks v against the declared type tag of variable name and
// returns v converted to that type. It has no side effects; line is only used
// for the fault it returns.
//
//	INT   integer-parsable text
//	FLOAT decimal number text (INT values widen)
//	CHAR  exactly one character
//	BOOL  the text TRUE or FALSE
func Validate(tag TokenType, name string, v Value, line int) (Value, error) {
	if v.IsNone() {
		return Value{}, faultf(InitializationFault, line, "Variable '%s' is not initialized", name)
	}

	switch tag {
	case INT:
		if v.Kind == KindInt {
			return v, nil
		}
		if v.Kind != KindFloat {
			if n, err := strconv.ParseInt(v.String(), 10, 32); err == nil {
				return IntValue(int32(n)), nil
			}
		}
		return Value{}, faultf(InitializationFault, line, "Assigned value for variable '%s' is not a valid integer", name)

	case FLOAT:
		switch v.Kind {
		case KindFloat:
			return v, nil
		case KindInt:
			return FloatValue(float32(v.Int)), nil
		}
		if text := v.String(); scanIntPattern.MatchString(text) || scanFloatPattern.MatchString(text) {
			if f, err := strconv.ParseFloat(text, 32); err == nil {
				return FloatValue(float32(f)), nil
			}
		}
		return Value{}, faultf(InitializationFault, line, "Assigned value for variable '%s' is not a valid float", name)

	case CHAR:
		if v.Kind == KindChar {
			return v, nil
		}
		if v.Kind == KindString && utf8.RuneCountInString(v.Text) == 1 {
			r, _ := utf8.DecodeRuneInString(v.Text)
			return CharValue(r), nil
		}
		return Value{}, faultf(InitializationFault, line, "Assigned value for variable '%s' does not match data type CHAR", name)

	case BOOL:
		if (v.Kind == KindBool || v.Kind == KindString) && (v.Text == TrueText || v.Text == FalseText) {
			return Value{Kind: KindBool, Text: v.Text}, nil
		}
		return Value{}, faultf(InitializationFault, line, "Assigned value for variable '%s' does not match data type BOOL", name)
	}

	return Value{}, faultf(InitializationFault, line, "Unsupported data type '%s'", tag)
}
