package changelog

import (
	"testing"
	"time"

	"github.com/akulishov/timegrid/core/diff"
)

var base = time.Date(2024, 9, 2, 6, 0, 0, 0, time.UTC)

func window(i int) diff.Batch {
	return diff.Batch{
		Start: base.Add(time.Duration(i) * time.Hour),
		End:   base.Add(time.Duration(i+1) * time.Hour),
	}
}

func TestLog_AppendEvictsOldest(t *testing.T) {
	l := New(3)
	for i := 0; i < 5; i++ {
		l.Append(window(i))
	}
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
	all := l.All()
	if !all[0].Start.Equal(window(2).Start) {
		t.Errorf("oldest retained = %v, want window 2", all[0].Start)
	}
	if !all[2].End.Equal(window(4).End) {
		t.Errorf("newest retained = %v, want window 4", all[2].End)
	}
}

func TestLog_SinceReturnsSuffix(t *testing.T) {
	l := New(10)
	for i := 0; i < 4; i++ {
		l.Append(window(i))
	}
	got := l.Since(window(1).End)
	if len(got) != 2 {
		t.Fatalf("suffix length = %d, want 2", len(got))
	}
	if !got[0].Start.Equal(window(2).Start) {
		t.Errorf("suffix starts at %v, want window 2", got[0].Start)
	}
	if all := l.Since(time.Time{}); len(all) != 4 {
		t.Errorf("zero time must return everything, got %d", len(all))
	}
	if none := l.Since(window(3).End); len(none) != 0 {
		t.Errorf("future time must return nothing, got %d", len(none))
	}
}

func TestLog_DefaultCapacity(t *testing.T) {
	l := New(0)
	for i := 0; i < DefaultCapacity+5; i++ {
		l.Append(window(i))
	}
	if l.Len() != DefaultCapacity {
		t.Fatalf("len = %d, want %d", l.Len(), DefaultCapacity)
	}
}
