package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind discriminates the closed set of canonical value types.
type ValueKind int

const (
	// KindNull is the zero Value; it represents an absent or null field.
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindTime
	KindBool
)

// Value is a canonical field value. It is a small closed sum type: exactly
// one of the payload fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Str  string
	Num  decimal.Decimal
	Time time.Time
	Bool bool
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// String wraps a string value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Number wraps a numeric value.
func Number(d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Num: d}
}

// Time wraps a date or datetime value.
func Time(t time.Time) Value {
	return Value{Kind: KindTime, Time: t}
}

// Bool wraps a boolean value.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// IsNull reports whether the value is null/absent.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Numeric returns the value as a decimal if it is a number, or if it is a
// string that parses as one. The second return is false otherwise.
func (v Value) Numeric() (decimal.Decimal, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.Str))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// Canonical returns the canonical string form of the value: trimmed
// strings, scale-normalized numbers, RFC 3339 timestamps. Null renders
// as the empty string.
func (v Value) Canonical() string {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Str)
	case KindNumber:
		return v.Num.String()
	case KindTime:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 && v.Time.Nanosecond() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format(time.RFC3339)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// truthy values accepted by flexible boolean parsing.
var truthy = map[string]bool{"true": true, "1": true, "yes": true, "y": true}

// dateLayouts tried in order when parsing date/datetime strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse converts a raw, already-normalized value into a canonical Value
// for the given data type. Nil and empty strings become null. A value
// that cannot be coerced to the target type is returned as an error; the
// engine surfaces such records as mismatches rather than aborting a run.
func Parse(dt DataType, raw any) (Value, error) {
	if raw == nil {
		return Null(), nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return Null(), nil
	}

	switch dt {
	case TypeInteger, TypeDecimal:
		return parseNumber(raw)
	case TypeDate, TypeDatetime:
		return parseTime(raw)
	case TypeBoolean:
		return parseBool(raw)
	default:
		return String(fmt.Sprint(raw)), nil
	}
}

func parseNumber(raw any) (Value, error) {
	switch n := raw.(type) {
	case decimal.Decimal:
		return Number(n), nil
	case int:
		return Number(decimal.NewFromInt(int64(n))), nil
	case int64:
		return Number(decimal.NewFromInt(n)), nil
	case float64:
		return Number(decimal.NewFromFloat(n)), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return Null(), fmt.Errorf("not a number: %q", n)
		}
		return Number(d), nil
	default:
		return Null(), fmt.Errorf("not a number: %v", raw)
	}
}

func parseTime(raw any) (Value, error) {
	switch t := raw.(type) {
	case time.Time:
		return Time(t), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return Time(parsed), nil
			}
		}
		return Null(), fmt.Errorf("not a date: %q", t)
	default:
		return Null(), fmt.Errorf("not a date: %v", raw)
	}
}

func parseBool(raw any) (Value, error) {
	switch b := raw.(type) {
	case bool:
		return Bool(b), nil
	case string:
		return Bool(truthy[strings.ToLower(strings.TrimSpace(b))]), nil
	default:
		return Null(), fmt.Errorf("not a boolean: %v", raw)
	}
}
