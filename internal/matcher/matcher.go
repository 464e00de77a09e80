// Package matcher counts, for a candidate empty cell, how many tile
// kinds remaining in the bag can be rotated to fit there — the single-
// cell fitting count the evaluator's fill-probability curves key off of.
//
// It exists as its own package, with a default sequential Backend and a
// `fast` build-tagged alternative, on the same build-tag shape an
// anonymity-set accelerator once used
// (internal/cuda/cuda_matcher_cpu.go / cuda_matcher_nvidia.go): one
// interface, two link-time-selected implementations, callers indifferent
// to which is linked in. There is no GPU kernel to offload to here — the
// per-cell fit check is four label comparisons per rotation — so the
// `fast` backend differs only in collecting the kinds still in the bag
// into a slice before its fit loop, not in hardware acceleration.
package matcher

import "github.com/rawblock/carcassonne-engine/pkg/models"

// FitFunc reports whether kind at rotation rot fits the cell a caller
// has fixed by closure (typically internal/engine.Kernel.Fits bound to
// one position).
type FitFunc func(kind models.Kind, rot int) bool

// Backend counts how many remaining tiles (weighted by bag multiplicity)
// have at least one fitting rotation.
type Backend interface {
	CountFitting(remaining map[models.Kind]int, rotations []int, fits FitFunc) int
}

// Default is the package-level backend selected at link time: the plain
// sequential implementation unless built with `-tags fast`.
var Default Backend = sequential{}

type sequential struct{}

// CountFitting loops every kind with remaining multiplicity > 0 and, for
// each, every rotation in rotations (the caller may pass all four or a
// symmetry-deduped subset); a kind contributes its full remaining count
// the first rotation that fits.
func (sequential) CountFitting(remaining map[models.Kind]int, rotations []int, fits FitFunc) int {
	total := 0
	for kind, n := range remaining {
		if n <= 0 {
			continue
		}
		for _, rot := range rotations {
			if fits(kind, rot) {
				total += n
				break
			}
		}
	}
	return total
}

// CountFittingKinds returns the count per matching kind rather than a
// single aggregate, for a caller that needs to know which kinds
// matched, not just how many.
func CountFittingKinds(remaining map[models.Kind]int, rotations []int, fits FitFunc) map[models.Kind]int {
	out := map[models.Kind]int{}
	for kind, n := range remaining {
		if n <= 0 {
			continue
		}
		for _, rot := range rotations {
			if fits(kind, rot) {
				out[kind] = n
				break
			}
		}
	}
	return out
}
