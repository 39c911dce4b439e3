package analysis

// DefaultSampleSize is the number of leading cells inspected per column when no
// sample size is configured.
const DefaultSampleSize = 100

// TypeDetector classifies cells and columns. It holds no mutable state and may be
// shared between goroutines.
type TypeDetector struct {
	sampleSize int
}

// NewTypeDetector returns a detector that inspects at most sampleSize leading
// values per column. Non-positive sizes fall back to DefaultSampleSize.
func NewTypeDetector(sampleSize int) *TypeDetector {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &TypeDetector{sampleSize: sampleSize}
}

// SampleSize returns the configured sample bound.
func (d *TypeDetector) SampleSize() int { return d.sampleSize }

// DetectCellType maps a single cell to its semantic type.
func (d *TypeDetector) DetectCellType(v CellValue) ColumnType {
	if v.IsEmpty() {
		return TypeEmpty
	}
	// Booleans first: a boolean is never an integer even if loaders store it as 0/1.
	switch v.Kind {
	case KindBoolean:
		return TypeBoolean
	case KindInteger:
		return TypeInteger
	case KindFloat:
		return TypeFloat
	case KindText:
		return TypeText
	case KindDateTime:
		return TypeDateTime
	default:
		return TypeUnknown
	}
}

// DetectColumnType classifies a column from its first SampleSize values only.
// Empty cells are ignored; two or more distinct remaining types yield TypeMixed.
func (d *TypeDetector) DetectColumnType(values []CellValue) ColumnType {
	if len(values) == 0 {
		return TypeEmpty
	}
	sample := values[:min(d.sampleSize, len(values))]

	var seen typeSet
	for _, v := range sample {
		if t := d.DetectCellType(v); t != TypeEmpty {
			seen.add(t)
		}
	}
	switch seen.len() {
	case 0:
		return TypeEmpty
	case 1:
		return seen.only()
	default:
		return TypeMixed
	}
}

// IsNumericType reports whether t is Integer or Float.
func (d *TypeDetector) IsNumericType(t ColumnType) bool { return t.IsNumeric() }
