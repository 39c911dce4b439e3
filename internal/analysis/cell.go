package analysis

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind tags the variant held by a CellValue.
type CellKind uint8

const (
	KindEmpty CellKind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindText
	KindDateTime
	KindUnknown
)

// CellValue is a single table cell as produced by a loader. The zero value is an
// empty cell.
type CellValue struct {
	Kind  CellKind
	Int   int64
	Float float64
	Bool  bool
	Text  string // text payload, or the raw representation for unknown cells
	Time  time.Time
}

func EmptyCell() CellValue { return CellValue{} }
func IntCell(v int64) CellValue { return CellValue{Kind: KindInteger, Int: v} }
func FloatCell(v float64) CellValue { return CellValue{Kind: KindFloat, Float: v} }
func BoolCell(v bool) CellValue { return CellValue{Kind: KindBoolean, Bool: v} }
func DateTimeCell(v time.Time) CellValue { return CellValue{Kind: KindDateTime, Time: v} }

// TextCell returns a text cell. Only the empty string normalizes to an empty
// cell; whitespace is text.
func TextCell(s string) CellValue {
	if s == "" {
		return CellValue{}
	}
	return CellValue{Kind: KindText, Text: s}
}

// UnknownCell wraps a value the loader could not place in any other variant.
func UnknownCell(raw string) CellValue { return CellValue{Kind: KindUnknown, Text: raw} }

// IsEmpty reports whether the cell holds no value: absent, or text equal to "".
func (c CellValue) IsEmpty() bool {
	return c.Kind == KindEmpty || (c.Kind == KindText && c.Text == "")
}

// Float64 coerces the cell to a float. Booleans count as 1 and 0, text is parsed
// leniently; datetimes and unknown cells never coerce.
func (c CellValue) Float64() (float64, bool) {
	switch c.Kind {
	case KindInteger:
		return float64(c.Int), true
	case KindFloat:
		return c.Float, true
	case KindBoolean:
		if c.Bool {
			return 1, true
		}
		return 0, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String renders the cell the way it would appear in a sheet.
func (c CellValue) String() string {
	switch c.Kind {
	case KindInteger:
		return strconv.FormatInt(c.Int, 10)
	case KindFloat:
		if math.IsInf(c.Float, 0) || math.IsNaN(c.Float) {
			return strconv.FormatFloat(c.Float, 'g', -1, 64)
		}
		return strconv.FormatFloat(c.Float, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(c.Bool)
	case KindText, KindUnknown:
		return c.Text
	case KindDateTime:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 {
			return c.Time.Format("2006-01-02")
		}
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}
