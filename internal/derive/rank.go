package derive

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/watchfire-io/salesboard/internal/models"
)

// Rank derives every task and orders the result for display: ROI
// descending (undefined ROI last), then priority descending, then title
// ascending in natural collation order. Byte order and then ID break the
// remaining ties, so the order never depends on the order of the input.
// The input slice is not modified.
func Rank(tasks []models.Task) []models.DerivedTask {
	ranked := make([]models.DerivedTask, len(tasks))
	for i, t := range tasks {
		ranked[i] = WithDerived(t)
	}
	r := newRanker()
	slices.SortFunc(ranked, r.compare)
	return ranked
}

// ranker holds the title collator; a collate.Collator is not safe for
// concurrent use, so each Rank call builds its own.
type ranker struct {
	titles *collate.Collator
}

func newRanker() *ranker {
	return &ranker{titles: collate.New(language.English)}
}

func (r *ranker) compare(a, b models.DerivedTask) int {
	ar, br := roiKey(a), roiKey(b)
	if ar != br {
		if ar > br {
			return -1
		}
		return 1
	}
	if pa, pb := a.Priority.Rank(), b.Priority.Rank(); pa != pb {
		return pb - pa
	}
	if c := r.titles.CompareString(a.Title, b.Title); c != 0 {
		return c
	}
	if c := strings.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func roiKey(d models.DerivedTask) float64 {
	if d.ROI == nil {
		return math.Inf(-1)
	}
	return *d.ROI
}
