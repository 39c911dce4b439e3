package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidTable marks tables whose metadata prevents transposition.
var ErrInvalidTable = errors.New("invalid table")

// AnalysisError reports that a table could not be analyzed. No partial report
// accompanies it.
type AnalysisError struct {
	Source string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e == nil {
		return "analysis failed"
	}
	if e.Source != "" {
		return fmt.Sprintf("analyze %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("analyze: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
