// Package changekpi computes change-volume indicators over a history of
// diff batches: how much the published schedule churns per refresh and
// which classes are hit hardest. Report surfaces read it on demand.
package changekpi

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/akulishov/timegrid/core/diff"
)

// ClassChurn counts the changed cells attributed to one class.
type ClassChurn struct {
	Class string `json:"class"`
	Cells int    `json:"cells"`
}

// Summary aggregates change volume over a batch history.
type Summary struct {
	Batches     int          `json:"batches"`
	TotalCells  int          `json:"total_cells"`
	MeanCells   float64      `json:"mean_cells"`
	StdDevCells float64      `json:"stddev_cells"`
	MaxCells    int          `json:"max_cells"`
	WindowStart time.Time    `json:"window_start"`
	WindowEnd   time.Time    `json:"window_end"`
	TopClasses  []ClassChurn `json:"top_classes"`
}

// topClassCount bounds the per-class ranking in a summary.
const topClassCount = 5

// Summarize folds a batch history, oldest first, into a Summary. An empty
// history yields a zero Summary.
func Summarize(history []diff.Batch) Summary {
	if len(history) == 0 {
		return Summary{}
	}
	perBatch := make([]float64, len(history))
	perClass := make(map[string]int)
	total, max := 0, 0
	for i, b := range history {
		cells := b.ChangedCells()
		perBatch[i] = float64(cells)
		total += cells
		if cells > max {
			max = cells
		}
		for d := range b.Days {
			for class, row := range b.Days[d] {
				for _, c := range row {
					if c != nil {
						perClass[class]++
					}
				}
			}
		}
	}

	s := Summary{
		Batches:     len(history),
		TotalCells:  total,
		MeanCells:   stat.Mean(perBatch, nil),
		MaxCells:    max,
		WindowStart: history[0].Start,
		WindowEnd:   history[len(history)-1].End,
		TopClasses:  rankClasses(perClass),
	}
	if len(perBatch) > 1 {
		s.StdDevCells = stat.StdDev(perBatch, nil)
	}
	return s
}

func rankClasses(perClass map[string]int) []ClassChurn {
	ranked := make([]ClassChurn, 0, len(perClass))
	for class, cells := range perClass {
		ranked = append(ranked, ClassChurn{Class: class, Cells: cells})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Cells != ranked[j].Cells {
			return ranked[i].Cells > ranked[j].Cells
		}
		return ranked[i].Class < ranked[j].Class
	})
	if len(ranked) > topClassCount {
		ranked = ranked[:topClassCount]
	}
	return ranked
}
