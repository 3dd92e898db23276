package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"dataviz/domain/core"
)

// Kind is the storage type of a cell
type Kind string

const (
	KindNull   Kind = "null"
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
)

// Value is a single typed cell. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

// Null returns the absent value
func Null() Value { return Value{kind: KindNull} }

// String creates a string value; the empty string is stored as-is.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number creates a numeric value
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Date creates a date value
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

// Kind returns the value's kind, treating the zero Value as null
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindNull
	}
	return v.kind
}

func (v Value) IsNull() bool { return v.Kind() == KindNull }

// AsString returns the string payload when the value is a string
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric payload when the value is a number
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsDate returns the date payload when the value is a date
func (v Value) AsDate() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// Key is the canonical text form used for categorical membership and display.
// Null keys to the empty string.
func (v Value) Key() string {
	switch v.Kind() {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		if core.IsMidnight(v.date) {
			return core.FormatDate(v.date)
		}
		return v.date.Format(time.RFC3339)
	default:
		return ""
	}
}

func (v Value) String() string { return v.Key() }

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// MarshalJSON renders numbers as JSON numbers, dates and strings as strings.
// Non-finite numbers have no JSON form and render as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind() {
	case KindString, KindDate:
		return json.Marshal(v.Key())
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}
