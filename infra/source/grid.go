package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/akulishov/timegrid/core/schedule"
)

// gridCell is one cell of the published JSON grid. Exactly one of T and N
// is set for non-empty cells; E marks an unevaluable cell and S carries the
// strike-through flag.
type gridCell struct {
	T *string  `json:"t,omitempty"`
	N *float64 `json:"n,omitempty"`
	E bool     `json:"e,omitempty"`
	S bool     `json:"s,omitempty"`
}

type grid struct {
	Rows [][]gridCell `json:"rows"`
}

// DecodeGrid reads the published JSON grid into a raw table.
func DecodeGrid(r io.Reader) (schedule.RawTable, error) {
	var g grid
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return schedule.RawTable{}, fmt.Errorf("decode grid: %w", err)
	}
	table := schedule.RawTable{Rows: make([]schedule.RawRow, len(g.Rows))}
	for i, row := range g.Rows {
		cells := make(schedule.RawRow, len(row))
		for j, c := range row {
			cells[j] = c.toRawCell()
		}
		table.Rows[i] = cells
	}
	return table, nil
}

func (c gridCell) toRawCell() schedule.RawCell {
	switch {
	case c.E:
		return schedule.RawCell{Kind: schedule.CellError}
	case c.N != nil:
		return schedule.RawCell{Kind: schedule.CellNumber, Number: *c.N, Struck: c.S}
	case c.T != nil:
		return schedule.RawCell{Kind: schedule.CellText, Text: *c.T, Struck: c.S}
	default:
		return schedule.RawCell{}
	}
}
