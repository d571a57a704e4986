package diff

import "errors"

// ErrEmptyBatchSequence is returned when Compact is called with no batches.
// That is a programming error at the call site, not a retryable condition.
var ErrEmptyBatchSequence = errors.New("compact: empty batch sequence")

// Compact folds a time-ordered sequence of batches (oldest first) into one
// batch spanning the whole window. Reverted changes cancel out and chained
// changes collapse to their net endpoints; a class whose net change over the
// window is empty disappears from the result.
func Compact(batches []Batch) (Batch, error) {
	if len(batches) == 0 {
		return Batch{}, ErrEmptyBatchSequence
	}
	acc := clone(batches[0])
	for _, next := range batches[1:] {
		fold(&acc, next)
	}
	acc.Start = batches[0].Start
	acc.End = batches[len(batches)-1].End
	return acc, nil
}

func clone(b Batch) Batch {
	out := Batch{Start: b.Start, End: b.End}
	for d := range b.Days {
		if b.Days[d] == nil {
			continue
		}
		out.Days[d] = make(map[string]ChangeRow, len(b.Days[d]))
		for class, row := range b.Days[d] {
			out.Days[d][class] = cloneRow(row)
		}
	}
	return out
}

func cloneRow(row ChangeRow) ChangeRow {
	var out ChangeRow
	for i, c := range row {
		if c != nil {
			cc := *c
			out[i] = &cc
		}
	}
	return out
}

func fold(acc *Batch, next Batch) {
	for d := range next.Days {
		for class, incoming := range next.Days[d] {
			current, ok := acc.Days[d][class]
			if !ok {
				// class untouched so far this day: adopt the row verbatim
				if acc.Days[d] == nil {
					acc.Days[d] = make(map[string]ChangeRow)
				}
				acc.Days[d][class] = cloneRow(incoming)
				continue
			}
			var merged ChangeRow
			for slot := range incoming {
				merged[slot] = mergeCell(current[slot], incoming[slot])
			}
			if merged.IsZero() {
				delete(acc.Days[d], class)
			} else {
				acc.Days[d][class] = merged
			}
		}
	}
}

// mergeCell folds one incoming cell into the accumulated net change of a
// slot. The rules are ordered; the closed-loop test runs strictly before
// the chain test, since a chain that loops back must cancel rather than
// collapse to a same-value substitution.
func mergeCell(acc, in *ChangeCell) *ChangeCell {
	switch {
	case acc == nil && in == nil:
		return nil
	case acc == nil:
		cc := *in
		return &cc
	case in == nil:
		cc := *acc
		return &cc
	case acc.Next.Equal(in.Next) || acc.Prev.Equal(in.Next):
		// closed loop: the slot returned to a value it already had
		return nil
	case acc.Next.Equal(in.Prev):
		// transitive chain: A->B then B->C nets to A->C
		return &ChangeCell{Prev: acc.Prev, Next: in.Next}
	default:
		// unrelated overwrite supersedes the accumulated change
		cc := *in
		return &cc
	}
}
