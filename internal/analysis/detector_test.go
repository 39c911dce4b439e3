package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectCellType(t *testing.T) {
	d := NewTypeDetector(0)
	tests := []struct {
		name string
		cell CellValue
		want ColumnType
	}{
		{"zero value", CellValue{}, TypeEmpty},
		{"empty", EmptyCell(), TypeEmpty},
		{"whitespace text", TextCell("   "), TypeText},
		{"raw whitespace text", CellValue{Kind: KindText, Text: "\t"}, TypeText},
		{"raw blank text", CellValue{Kind: KindText, Text: ""}, TypeEmpty},
		{"true", BoolCell(true), TypeBoolean},
		{"false", BoolCell(false), TypeBoolean},
		{"integer", IntCell(42), TypeInteger},
		{"zero integer", IntCell(0), TypeInteger},
		{"float", FloatCell(1.5), TypeFloat},
		{"text", TextCell("abc"), TypeText},
		{"numeric text stays text", TextCell("12"), TypeText},
		{"datetime", DateTimeCell(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), TypeDateTime},
		{"unknown", UnknownCell("#DIV/0!"), TypeUnknown},
		{"unrecognized kind", CellValue{Kind: CellKind(99)}, TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.DetectCellType(tt.cell))
		})
	}
}

func TestDetectColumnType(t *testing.T) {
	d := NewTypeDetector(100)
	tests := []struct {
		name   string
		values []CellValue
		want   ColumnType
	}{
		{"nil", nil, TypeEmpty},
		{"all empty", []CellValue{EmptyCell(), TextCell(""), {Kind: KindText}}, TypeEmpty},
		{"whitespace is text", []CellValue{EmptyCell(), TextCell(" ")}, TypeText},
		{"integers with gaps", []CellValue{IntCell(1), EmptyCell(), IntCell(3)}, TypeInteger},
		{"floats", []CellValue{FloatCell(1.1), FloatCell(2.2)}, TypeFloat},
		{"integer and float", []CellValue{IntCell(1), FloatCell(2.5)}, TypeMixed},
		{"integer then text", []CellValue{IntCell(1), TextCell("x")}, TypeMixed},
		{"text then integer", []CellValue{TextCell("x"), EmptyCell(), IntCell(1)}, TypeMixed},
		{"booleans", []CellValue{BoolCell(true), BoolCell(false)}, TypeBoolean},
		{"boolean and integer", []CellValue{BoolCell(true), IntCell(1)}, TypeMixed},
		{"unknown only", []CellValue{UnknownCell("?")}, TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.DetectColumnType(tt.values))
		})
	}
}

func TestDetectColumnTypeSamplingBoundary(t *testing.T) {
	const sample = 5
	d := NewTypeDetector(sample)

	col := make([]CellValue, 20)
	for i := range col {
		col[i] = IntCell(int64(i))
	}
	assert.Equal(t, TypeInteger, d.DetectColumnType(col))

	// Changes at or past the sample bound never alter the verdict.
	for i := sample; i < len(col); i++ {
		mutated := append([]CellValue(nil), col...)
		mutated[i] = TextCell("oops")
		assert.Equal(t, TypeInteger, d.DetectColumnType(mutated), "index %d", i)
	}

	// A change inside the sample can.
	mutated := append([]CellValue(nil), col...)
	mutated[sample-1] = TextCell("oops")
	assert.Equal(t, TypeMixed, d.DetectColumnType(mutated))
}

func TestDetectColumnTypeNonRepresentativeSample(t *testing.T) {
	d := NewTypeDetector(2)
	col := []CellValue{EmptyCell(), EmptyCell(), IntCell(1), TextCell("x")}
	assert.Equal(t, TypeEmpty, d.DetectColumnType(col))
}

func TestNewTypeDetectorDefaults(t *testing.T) {
	assert.Equal(t, DefaultSampleSize, NewTypeDetector(0).SampleSize())
	assert.Equal(t, DefaultSampleSize, NewTypeDetector(-3).SampleSize())
	assert.Equal(t, 7, NewTypeDetector(7).SampleSize())
}

func TestIsNumericType(t *testing.T) {
	d := NewTypeDetector(0)
	for _, typ := range []ColumnType{TypeEmpty, TypeInteger, TypeFloat, TypeText, TypeDateTime, TypeBoolean, TypeMixed, TypeUnknown} {
		want := typ == TypeInteger || typ == TypeFloat
		assert.Equal(t, want, d.IsNumericType(typ), typ.String())
	}
}

func TestColumnTypeText(t *testing.T) {
	b, err := TypeDateTime.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "DateTime", string(b))

	var typ ColumnType
	assert.NoError(t, typ.UnmarshalText([]byte("Mixed")))
	assert.Equal(t, TypeMixed, typ)
	assert.Error(t, typ.UnmarshalText([]byte("Decimal")))
	assert.Equal(t, "ColumnType(42)", ColumnType(42).String())
}

func TestTypeSet(t *testing.T) {
	var s typeSet
	assert.Equal(t, 0, s.len())
	s.add(TypeFloat)
	s.add(TypeFloat)
	assert.Equal(t, 1, s.len())
	assert.Equal(t, TypeFloat, s.only())
	s.add(TypeUnknown)
	assert.Equal(t, 2, s.len())
}
