package sema

import (
	"fmt"
	"strconv"
	"strings"
)

// LiteralKind discriminates the value stored in a Literal.
type LiteralKind int

const (
	// LitInt is a signed integer literal.
	LitInt LiteralKind = iota

	// LitFloat is a floating-point literal.
	LitFloat

	// LitBool is a boolean literal.
	LitBool

	// LitString is a string literal.
	LitString

	// LitChar is a single character literal.
	LitChar

	// LitList is an ordered sequence literal (Vector, List).
	LitList

	// LitMap is a keyed aggregate literal (Map, struct values).
	LitMap
)

// String returns a string representation of the literal kind.
func (k LiteralKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitBool:
		return "bool"
	case LitString:
		return "string"
	case LitChar:
		return "char"
	case LitList:
		return "list"
	case LitMap:
		return "map"
	default:
		return "unknown"
	}
}

// Literal is a fully-reduced compile-time value. The dynamic type of Value
// depends on Kind:
//
//	LitInt    int64
//	LitFloat  float64
//	LitBool   bool
//	LitString string
//	LitChar   rune
//	LitList   []Literal
//	LitMap    map[string]Literal
type Literal struct {
	Kind  LiteralKind
	Value any
}

// IntLit constructs an integer literal.
func IntLit(v int64) Literal { return Literal{Kind: LitInt, Value: v} }

// FloatLit constructs a floating-point literal.
func FloatLit(v float64) Literal { return Literal{Kind: LitFloat, Value: v} }

// BoolLit constructs a boolean literal.
func BoolLit(v bool) Literal { return Literal{Kind: LitBool, Value: v} }

// StringLit constructs a string literal.
func StringLit(v string) Literal { return Literal{Kind: LitString, Value: v} }

// CharLit constructs a character literal.
func CharLit(v rune) Literal { return Literal{Kind: LitChar, Value: v} }

// EmptyList constructs an empty sequence literal.
func EmptyList() Literal { return Literal{Kind: LitList, Value: []Literal(nil)} }

// EmptyMap constructs an empty keyed-aggregate literal.
func EmptyMap() Literal { return Literal{Kind: LitMap, Value: map[string]Literal{}} }

// Int returns the literal's integer value, or 0 for non-integer literals.
func (l Literal) Int() int64 {
	v, _ := l.Value.(int64)

	return v
}

// String renders the literal in Zinc source form.
func (l Literal) String() string {
	switch l.Kind {
	case LitInt:
		return strconv.FormatInt(l.Int(), 10)

	case LitFloat:
		v, _ := l.Value.(float64)

		return strconv.FormatFloat(v, 'f', -1, 64)

	case LitBool:
		v, _ := l.Value.(bool)

		return strconv.FormatBool(v)

	case LitString:
		v, _ := l.Value.(string)

		return strconv.Quote(v)

	case LitChar:
		v, _ := l.Value.(rune)

		return strconv.QuoteRune(v)

	case LitList:
		v, _ := l.Value.([]Literal)
		if len(v) == 0 {
			return "[]"
		}

		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = e.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"

	case LitMap:
		v, _ := l.Value.(map[string]Literal)
		if len(v) == 0 {
			return "{}"
		}

		parts := make([]string, 0, len(v))
		for _, k := range sortedKeys(v) {
			parts = append(parts, k+": "+v[k].String())
		}

		return "{" + strings.Join(parts, ", ") + "}"

	default:
		return fmt.Sprintf("%v", l.Value)
	}
}

// Native converts the literal to its plain Go representation, suitable for
// expression environments and structured output.
func (l Literal) Native() any {
	switch l.Kind {
	case LitChar:
		v, _ := l.Value.(rune)

		return string(v)

	case LitList:
		v, _ := l.Value.([]Literal)
		out := make([]any, len(v))

		for i, e := range v {
			out[i] = e.Native()
		}

		return out

	case LitMap:
		v, _ := l.Value.(map[string]Literal)
		out := make(map[string]any, len(v))

		for k, e := range v {
			out[k] = e.Native()
		}

		return out

	default:
		return l.Value
	}
}

// literalFromAny converts an expression result into a Literal.
// The second return is false when the value has no literal representation.
func literalFromAny(v any) (Literal, bool) {
	switch val := v.(type) {
	case bool:
		return BoolLit(val), true

	case int:
		return IntLit(int64(val)), true

	case int64:
		return IntLit(val), true

	case float64:
		return FloatLit(val), true

	case string:
		return StringLit(val), true

	case []any:
		elems := make([]Literal, len(val))

		for i, e := range val {
			lit, ok := literalFromAny(e)
			if !ok {
				return Literal{}, false
			}

			elems[i] = lit
		}

		return Literal{Kind: LitList, Value: elems}, true

	case map[string]any:
		entries := make(map[string]Literal, len(val))

		for k, e := range val {
			lit, ok := literalFromAny(e)
			if !ok {
				return Literal{}, false
			}

			entries[k] = lit
		}

		return Literal{Kind: LitMap, Value: entries}, true

	default:
		return Literal{}, false
	}
}
