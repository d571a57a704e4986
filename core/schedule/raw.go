package schedule

import (
	"math"
	"strconv"
	"strings"
)

// CellKind describes the value type carried by a raw table cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	// CellError marks a cell the source could not evaluate (for example a
	// spreadsheet error value). Such a cell in a position the parser reads
	// fails the whole parse.
	CellError
)

// RawCell is one cell of the published table. Struck carries the
// presentation-level strike-through flag: a struck subject reads as an
// empty slot.
type RawCell struct {
	Kind   CellKind
	Text   string
	Number float64
	Struck bool
}

// RawRow is one row of cells, left to right.
type RawRow []RawCell

// RawTable is the raw tabular source handed to Parse. Rows are lesson slots
// within a day, columns are classes.
type RawTable struct {
	Rows []RawRow
}

func cellAt(row RawRow, i int) RawCell {
	if i < 0 || i >= len(row) {
		return RawCell{}
	}
	return row[i]
}

// slotNumber reads a cell as a lesson slot number, accepting both numeric
// cells and text cells holding an integer.
func slotNumber(c RawCell) (int, bool) {
	switch c.Kind {
	case CellNumber:
		n := int(c.Number)
		if float64(n) != c.Number {
			return 0, false
		}
		return n, true
	case CellText:
		n, err := strconv.Atoi(strings.TrimSpace(c.Text))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// isBlank reports whether a cell carries no value at all.
func (c RawCell) isBlank() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// numberString renders a numeric cell as an integer designator; spreadsheet
// sources store room numbers as floats.
func numberString(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}
