package analysis

import "fmt"

// ColumnType is the semantic type inferred for a cell or a column.
type ColumnType uint8

const (
	TypeEmpty ColumnType = iota
	TypeInteger
	TypeFloat
	TypeText
	TypeDateTime
	TypeBoolean
	TypeMixed
	TypeUnknown
)

var columnTypeNames = [...]string{
	TypeEmpty:    "Empty",
	TypeInteger:  "Integer",
	TypeFloat:    "Float",
	TypeText:     "Text",
	TypeDateTime: "DateTime",
	TypeBoolean:  "Boolean",
	TypeMixed:    "Mixed",
	TypeUnknown:  "Unknown",
}

func (t ColumnType) String() string {
	if int(t) < len(columnTypeNames) {
		return columnTypeNames[t]
	}
	return fmt.Sprintf("ColumnType(%d)", uint8(t))
}

// IsNumeric reports whether min/max/mean apply to the type.
func (t ColumnType) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// MarshalText implements encoding.TextMarshaler so reports serialize labels.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ColumnType) UnmarshalText(b []byte) error {
	for i, name := range columnTypeNames {
		if name == string(b) {
			*t = ColumnType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown column type %q", string(b))
}

// typeSet is a set over the ColumnType enumeration.
type typeSet uint16

func (s *typeSet) add(t ColumnType) { *s |= 1 << t }

func (s typeSet) len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// only returns the single member of a one-element set.
func (s typeSet) only() ColumnType {
	for t := TypeEmpty; t <= TypeUnknown; t++ {
		if s&(1<<t) != 0 {
			return t
		}
	}
	return TypeEmpty
}
