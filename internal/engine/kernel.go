package engine

import (
	"github.com/rawblock/carcassonne-engine/internal/catalog"
	"github.com/rawblock/carcassonne-engine/internal/unionfind"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// Kernel is the region-level view of a replayed game that the evaluator
// and solver need and the public Status snapshot deliberately omits. It
// wraps the same replay state Replay and FinalPass build, read-only.
type Kernel struct {
	s *state
}

// BuildKernel replays moves and returns the Kernel view over the
// resulting state, for in-core callers (internal/evaluate,
// internal/solver) that need per-region open-side/token/size detail
// beyond what Status exposes.
func BuildKernel(moves []models.Move) (*Kernel, error) {
	s, err := buildState(moves)
	if err != nil {
		return nil, err
	}
	return &Kernel{s: s}, nil
}

// Status returns the same immutable snapshot Replay would have produced.
func (k *Kernel) Status() *models.Status { return k.s.snapshot() }

// Board exposes the placed-tile map directly (read-only by convention;
// callers must not mutate the returned instances).
func (k *Kernel) Board() map[models.Position]*models.TileInstance { return k.s.board }

// RemainingBag returns a fresh copy of the tile-kind multiset not yet
// drawn.
func (k *Kernel) RemainingBag() map[models.Kind]int {
	out := make(map[models.Kind]int, len(k.s.bag))
	for kind, n := range k.s.bag {
		out[kind] = n
	}
	return out
}

// RegionID returns the global region id for the regionIdx-th region the
// tile instance t contributes.
func (k *Kernel) RegionID(t *models.TileInstance, regionIdx int) int {
	return regionID(t, regionIdx)
}

// RegionFeature reports the feature type of a region id.
func (k *Kernel) RegionFeature(id int) models.FeatureType {
	switch k.s.merger.FeatureOf(id) {
	case unionfind.FeatureRoad:
		return models.FeatureRoad
	case unionfind.FeatureCity:
		return models.FeatureCity
	case unionfind.FeatureMonastery:
		return models.FeatureMonastery
	default:
		return models.FeatureField
	}
}

// RegionOpenSides returns the current open-side count of a region.
func (k *Kernel) RegionOpenSides(id int) int { return k.s.merger.OpenSides(id) }

// RegionClosed reports whether a region's open sides have reached zero.
func (k *Kernel) RegionClosed(id int) bool { return k.s.merger.IsClosed(id) }

// RegionDone reports whether a region has already been scored.
func (k *Kernel) RegionDone(id int) bool { return k.s.merger.IsDone(id) }

// RegionTokens returns the token ids currently seated on a region.
func (k *Kernel) RegionTokens(id int) []int { return k.s.merger.Tokens(id) }

// RegionSize returns the scoring size (distinct tiles + coats) of a region.
func (k *Kernel) RegionSize(id int) int { return k.s.merger.Size(id) + k.s.merger.COACount(id) }

// RegionFacingCities returns the deduplicated city-region roots a field
// region's recorded adjacencies currently resolve to.
func (k *Kernel) RegionFacingCities(id int) []int { return k.s.merger.FacingCities(id) }

// NumRegions returns the count of region ids ever allocated.
func (k *Kernel) NumRegions() int { return k.s.merger.NumRegions() }

// Root returns the canonical root id of a region, for deduplicating
// regions spanning multiple tiles when the caller walks region ids
// directly rather than through a tile instance.
func (k *Kernel) Root(id int) int { return k.s.merger.Find(id) }

// TileAt returns the tile instance at pos, or nil.
func (k *Kernel) TileAt(pos models.Position) *models.TileInstance { return k.s.board[pos] }

// Fits reports whether kind at rotation rot matches every placed
// neighbor around pos (the same check Replay performs on placement),
// without mutating any state. Used by the evaluator's speculative
// probing and the enumerator/solver's placement search.
func (k *Kernel) Fits(kind models.Kind, rot int, pos models.Position) bool {
	def := catalog.Lookup(kind)
	return k.s.fits(def, pos, rot)
}

// EmptyNeighbors returns the empty lattice positions adjacent to pos
// that currently hold no tile.
func (k *Kernel) EmptyNeighbors(pos models.Position) []models.Position {
	var out []models.Position
	for d := 0; d < 4; d++ {
		n := pos.Neighbor(d)
		if k.s.board[n] == nil {
			out = append(out, n)
		}
	}
	return out
}

// Ring8 exposes the fixed 8-ring traversal order for
// callers outside this package that need it (the evaluator's monastery
// neighbor-of-neighbor lookahead).
func Ring8(pos models.Position) []models.Position { return ring8(pos) }
