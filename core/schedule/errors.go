package schedule

import "fmt"

// MalformedSourceError reports a raw table that cannot be parsed into a
// snapshot: a missing header row, no usable slot-numbering column, or a cell
// whose value type is not understood. The refresh attempt that hit it is
// abandoned and the previously retained snapshot stays in place.
type MalformedSourceError struct {
	Reason string
	Row    int // zero-based row in the raw table, -1 if not row-specific
}

func (e *MalformedSourceError) Error() string {
	if e.Row < 0 {
		return "malformed source: " + e.Reason
	}
	return fmt.Sprintf("malformed source: %s (row %d)", e.Reason, e.Row)
}

func malformed(row int, format string, args ...any) error {
	return &MalformedSourceError{Reason: fmt.Sprintf(format, args...), Row: row}
}
