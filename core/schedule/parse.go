package schedule

import "time"

// parser state while streaming table body rows.
type scanState int

const (
	awaitingDayStart scanState = iota
	inDay
)

// Parse turns a raw table into a canonical snapshot captured at the given
// time. Column resolution happens once against the header row, then body
// rows stream through a small state machine: the slot number resetting to a
// smaller value than the previous row's is the day boundary. Six days are
// consumed; trailing rows are ignored.
func Parse(table RawTable, capturedAt time.Time) (*Snapshot, error) {
	headerRow, slotCol, err := locateHeader(table)
	if err != nil {
		return nil, err
	}
	columns := classColumns(table.Rows[headerRow], slotCol)
	if len(columns) == 0 {
		return nil, malformed(headerRow, "header row has no class identifiers")
	}

	weeks := make(map[string]*ClassWeek, len(columns))
	for class := range columns {
		weeks[class] = &ClassWeek{}
	}

	day := -1
	prevSlot := 0
	state := awaitingDayStart
	for r := headerRow + 1; r < len(table.Rows); r++ {
		row := table.Rows[r]
		n, ok := slotNumber(cellAt(row, slotCol))
		if !ok {
			// Day-label and other non-slot rows carry no schedule data.
			continue
		}
		if state == awaitingDayStart || n < prevSlot {
			day++
			if day >= DaysPerWeek {
				break
			}
			state = inDay
		}
		prevSlot = n
		for class, col := range columns {
			dst := &weeks[class][day]
			if len(*dst) >= SlotsPerDay {
				continue
			}
			lesson, err := readLesson(row, r, col)
			if err != nil {
				return nil, err
			}
			*dst = append(*dst, lesson)
		}
	}
	if day < 0 {
		return nil, malformed(-1, "no slot-numbered rows below the header")
	}

	classes := make(map[string]ClassWeek, len(weeks))
	for class, week := range weeks {
		for d := range week {
			week[d] = week[d].trimTrailingEmpty()
		}
		classes[class] = *week
	}
	return &Snapshot{
		Classes:     classes,
		Fingerprint: ComputeFingerprint(classes),
		CapturedAt:  capturedAt,
	}, nil
}

// locateHeader finds the slot-numbering column and the header row above it.
// The slot column is the column of the first cell holding a plausible lesson
// number; the header row is the nearest preceding row with non-empty cells
// in other columns.
func locateHeader(table RawTable) (headerRow, slotCol int, err error) {
	slotRow := -1
	for r, row := range table.Rows {
		for c, cell := range row {
			if n, ok := slotNumber(cell); ok && n >= 1 && n <= SlotsPerDay {
				slotRow, slotCol = r, c
				break
			}
		}
		if slotRow >= 0 {
			break
		}
	}
	if slotRow < 0 {
		return 0, 0, malformed(-1, "no slot-numbering column found")
	}
	for r := slotRow - 1; r >= 0; r-- {
		if len(classColumns(table.Rows[r], slotCol)) > 0 {
			return r, slotCol, nil
		}
	}
	return 0, 0, malformed(-1, "header row with class identifiers not found")
}

// classColumns resolves the fixed class-to-column table from a header row.
// Identifiers are lower-cased and normalized once here; everything after
// works with canonical class names.
func classColumns(header RawRow, slotCol int) map[string]int {
	columns := make(map[string]int)
	for c, cell := range header {
		if c == slotCol || cell.Kind != CellText {
			continue
		}
		name := NormalizeText(cell.Text)
		if name == "" {
			continue
		}
		columns[name] = c
	}
	return columns
}

// readLesson reads the subject cell at col and the adjacent room cell.
func readLesson(row RawRow, rowIdx, col int) (Lesson, error) {
	subj := cellAt(row, col)
	if subj.Kind == CellError {
		return Lesson{}, malformed(rowIdx, "unreadable subject cell")
	}
	if subj.Struck || subj.isBlank() {
		return Lesson{}, nil
	}
	var subject string
	switch subj.Kind {
	case CellText:
		subject = NormalizeText(subj.Text)
	case CellNumber:
		subject = numberString(subj.Number)
	}
	if subject == "" {
		return Lesson{}, nil
	}

	room := cellAt(row, col+1)
	var rooms []string
	switch room.Kind {
	case CellEmpty:
		rooms = []string{RoomUnspecified}
	case CellNumber:
		rooms = []string{numberString(room.Number)}
	case CellText:
		rooms = SplitList(room.Text)
		if len(rooms) == 0 {
			rooms = []string{RoomUnspecified}
		}
	default:
		return Lesson{}, malformed(rowIdx, "room cell is neither textual nor numeric")
	}
	return Lesson{Subject: subject, Rooms: rooms}, nil
}
