//go:build fast

package matcher

import "github.com/rawblock/carcassonne-engine/pkg/models"

func init() {
	Default = batched{}
}

// batched is the `fast`-tagged backend: on each call it first collects
// the kinds with non-zero remaining multiplicity, and their counts, into
// parallel slices, so the fit loop runs over those kinds only, without
// a map lookup in the hot loop. The fit predicate
// itself is still evaluated per (kind, rotation) — there is no cheaper
// way to know whether a specific tile matches a specific cell's
// neighbors without looking at them — so this only trims iteration over
// exhausted kinds, not the comparison work itself.
type batched struct{}

func (batched) CountFitting(remaining map[models.Kind]int, rotations []int, fits FitFunc) int {
	kinds := make([]models.Kind, 0, len(remaining))
	counts := make([]int, 0, len(remaining))
	for kind, n := range remaining {
		if n > 0 {
			kinds = append(kinds, kind)
			counts = append(counts, n)
		}
	}
	total := 0
	for i, kind := range kinds {
		for _, rot := range rotations {
			if fits(kind, rot) {
				total += counts[i]
				break
			}
		}
	}
	return total
}
