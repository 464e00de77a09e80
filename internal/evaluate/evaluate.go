// Package evaluate is the Heuristic Evaluator: given an
// in-progress Status it estimates each player's expected final score by
// summing, over every live region, a guaranteed component (what the
// region would score if scored right now, by the same rule FinalPass
// uses) plus a probabilistic completion bonus (the extra points a
// region gains by actually closing — city doubling, a monastery
// reaching 9) weighted by an estimated completion probability.
//
// Grounded on original_source/backend/src/game/evaluate.rs: the
// `last_n`/`last_n_for_city` breakpoint tables below are copied
// verbatim, and the block-vs-fill weighting for city cells follows
// its shape. The original's full two-ply speculative lookahead (it
// reinserts a candidate neighbor tile on the live board, re-measures,
// then removes it, recursively) is reduced here to one ply — a single
// round of "how constrained are the cells around this one" — which is
// enough to reproduce the tabulated curve's qualitative behavior
// without replaying the deep recursive board mutation.
package evaluate

import (
	"github.com/rawblock/carcassonne-engine/internal/catalog"
	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/internal/matcher"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// allRotations is the full rotation set probed when no kind is fixed
// yet (the evaluator asks "what could fit here at all", unlike the
// enumerator which checks one fixed kind).
var allRotations = []int{0, 1, 2, 3}

// roadJunctionKinds are the tile kinds original_source/evaluate.rs's
// count_fitting_roadends restricts to: the crossroads kinds (three or
// four road edges) plus MonasteryWithRoad and the two
// TripleCityWithRoad kinds, whose single road edge ends on the tile.
// Every one of them terminates a road that enters it, which is what
// closing a road's lone open end takes.
var roadJunctionKinds = map[models.Kind]bool{
	models.MonasteryWithRoad:         true,
	models.TripleRoad:                true,
	models.QuadrupleRoad:             true,
	models.CityCapWithCrossroad:      true,
	models.TripleCityWithRoad:        true,
	models.TripleCityWithRoadWithCOA: true,
}

// lastN maps a fitting-tile count to an estimated fill probability in
// [0,99] for roads, monasteries, and as the generic fallback. Exact
// breakpoints from original_source/backend/src/game/evaluate.rs
// last_n().
func lastN(n int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 40
	case n == 2:
		return 45
	case n == 3:
		return 50
	case n == 4:
		return 60
	case n <= 6:
		return 67
	case n <= 10:
		return 74
	case n <= 14:
		return 81
	case n <= 18:
		return 88
	case n <= 22:
		return 95
	default:
		return 99
	}
}

// lastNForCity is last_n()'s city-specific counterpart: cities fill in
// more readily per remaining-fitting-tile than roads do, so the curve
// sits at or above lastN at every breakpoint (equal at n=1 and from
// n=19 up). Exact breakpoints from
// original_source/backend/src/game/evaluate.rs last_n_for_city().
func lastNForCity(n int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 40
	case n == 2:
		return 48
	case n == 3:
		return 58
	case n == 4:
		return 67
	case n <= 6:
		return 75
	case n <= 10:
		return 80
	case n <= 14:
		return 85
	case n <= 18:
		return 90
	case n <= 22:
		return 95
	default:
		return 99
	}
}

// meeplePoolPenalty is indexed by how many followers a player still
// holds in pool: a full pool (7) costs nothing, and each follower out
// on the board lowers the estimate further, down to -320 with none left.
var meeplePoolPenalty = [models.TokensPerPlayer + 1]int{-320, -250, -200, -150, -110, -70, -30, 0}

// Scores is the evaluator's output: one estimate per player, larger
// favors that player.
type Scores [2]float64

// Evaluate estimates final scores for both players from the state
// replaying moves produces (evaluate(moves)). This is the
// current (non-debug) evaluator signature.
func Evaluate(moves []models.Move) (Scores, error) {
	k, err := engine.BuildKernel(moves)
	if err != nil {
		return Scores{}, err
	}
	return evaluateKernel(k), nil
}

func evaluateKernel(k *engine.Kernel) Scores {
	status := k.Status()
	var out Scores
	out[0] = float64(status.Score[0]) * 12
	out[1] = float64(status.Score[1]) * 12
	out[0] += float64(meeplePoolPenalty[len(status.TokensInPool[0])])
	out[1] += float64(meeplePoolPenalty[len(status.TokensInPool[1])])

	bag := k.RemainingBag()

	for _, region := range liveRegions(k) {
		guaranteed, bonus, prob := regionOutlook(k, bag, region)
		if guaranteed == 0 && bonus == 0 {
			continue
		}
		toks := k.RegionTokens(region.root)
		winners := plurality(toks)
		if len(winners) == 0 {
			continue
		}
		contribution := float64(guaranteed)*10 + float64(bonus)*float64(prob)/100.0
		for _, w := range winners {
			out[w] += contribution
		}
	}
	return out
}

// regionEntry collects every tile-instance/region-index pair
// contributing to one live (root) region, so the per-feature outlook
// functions can walk its members without re-deriving them.
type regionEntry struct {
	root    int
	feature models.FeatureType
	refs    []tileRegionRef
}

type tileRegionRef struct {
	tile *models.TileInstance
	idx  int
}

// liveRegions walks the board once and groups contributing tile/region
// pairs by canonical root, skipping regions already scored.
func liveRegions(k *engine.Kernel) []regionEntry {
	byRoot := map[int]*regionEntry{}
	var order []int
	for _, t := range k.Board() {
		def := catalog.Lookup(t.Kind)
		for idx := range def.Regions {
			id := k.RegionID(t, idx)
			root := k.Root(id)
			if k.RegionDone(root) {
				continue
			}
			e, ok := byRoot[root]
			if !ok {
				e = &regionEntry{root: root, feature: k.RegionFeature(root)}
				byRoot[root] = e
				order = append(order, root)
			}
			e.refs = append(e.refs, tileRegionRef{tile: t, idx: idx})
		}
	}
	out := make([]regionEntry, 0, len(order))
	for _, root := range order {
		out = append(out, *byRoot[root])
	}
	return out
}

// regionOutlook returns the guaranteed (score-right-now) points, the
// extra points available on completion, and the estimated completion
// probability in [0,100] for one region.
func regionOutlook(k *engine.Kernel, bag map[models.Kind]int, e regionEntry) (guaranteed, bonus, prob int) {
	switch e.feature {
	case models.FeatureCity:
		size := k.RegionSize(e.root)
		guaranteed = size // open-city score, no doubling
		bonus = size      // doubling on mid-game close
		if k.RegionClosed(e.root) {
			prob = 100
		} else {
			prob = regionCompletionProb(cityExitFills(k, bag, e))
		}
	case models.FeatureRoad:
		size := k.RegionSize(e.root)
		guaranteed = size
		bonus = 0
		if k.RegionClosed(e.root) {
			prob = 100
		} else {
			prob = regionCompletionProb(roadExitFills(k, bag, e))
		}
	case models.FeatureMonastery:
		open := k.RegionOpenSides(e.root)
		guaranteed = 9 - open
		bonus = open
		if open <= 0 {
			prob = 100
		} else {
			prob = regionCompletionProb(monasteryFills(k, bag, e))
		}
	case models.FeatureField:
		completed := 0
		for _, cityID := range k.RegionFacingCities(e.root) {
			if k.RegionClosed(cityID) {
				completed++
			}
		}
		guaranteed = 3 * completed
		bonus = 0
		prob = 0
	}
	return
}

// exits returns the empty lattice positions this region currently
// borders: for each tile/region-index pair, the directions whose
// edge-region list names this region index and whose neighbor cell is
// unoccupied.
func exits(k *engine.Kernel, e regionEntry) []models.Position {
	seen := map[models.Position]bool{}
	var out []models.Position
	for _, ref := range e.refs {
		def := catalog.Lookup(ref.tile.Kind)
		for d := 0; d < 4; d++ {
			list := def.EdgeRegionsAt(ref.tile.Rotation, d)
			belongs := false
			for _, idx := range list {
				if idx == ref.idx {
					belongs = true
					break
				}
			}
			if !belongs {
				continue
			}
			n := ref.tile.Position.Neighbor(d)
			if k.TileAt(n) != nil || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// roadExitFills estimates fill probability at each of a road region's
// open ends. A region with exactly one open end restricts the matcher
// to roadJunctionKinds, matching original_source's only_roadend gate;
// a region with two or more open ends uses the unrestricted count.
func roadExitFills(k *engine.Kernel, bag map[models.Kind]int, e regionEntry) []int {
	ends := exits(k, e)
	onlyRoadend := len(ends) == 1
	fills := make([]int, 0, len(ends))
	for _, pos := range ends {
		var need int
		if onlyRoadend {
			restricted := map[models.Kind]int{}
			for kind, n := range bag {
				if roadJunctionKinds[kind] {
					restricted[kind] = n
				}
			}
			need = matcher.Default.CountFitting(restricted, allRotations, fitsAt(k, pos))
		} else {
			need = matcher.Default.CountFitting(bag, allRotations, fitsAt(k, pos))
		}
		fills = append(fills, lastN(need))
	}
	return fills
}

// monasteryFills estimates fill probability for each currently-empty
// cell in a monastery's 8-ring. The original's neighbor-of-neighbor
// lookahead is approximated by weighting down the naive single-cell
// estimate to 80% when the cell itself has three or more empty
// neighbors of its own (a conservative discount: a cell surrounded by
// more empty space is less likely to be filled incidentally by the
// next few draws).
func monasteryFills(k *engine.Kernel, bag map[models.Kind]int, e regionEntry) []int {
	var tile *models.TileInstance
	for _, ref := range e.refs {
		tile = ref.tile
		break
	}
	if tile == nil {
		return nil
	}
	var fills []int
	for _, pos := range engine.Ring8(tile.Position) {
		if k.TileAt(pos) != nil {
			continue
		}
		need := matcher.Default.CountFitting(bag, allRotations, fitsAt(k, pos))
		f := lastN(need)
		emptyNeighbors := len(k.EmptyNeighbors(pos))
		if emptyNeighbors >= 3 {
			f = f * 80 / 100
		}
		fills = append(fills, f)
	}
	return fills
}

// cityExitFills estimates fill probability at each of a city region's
// open cells, applying original_source's block-vs-fill weighting: the
// block chance is the largest fitting count among the cell's empty
// neighbors, relative to that count plus the cell's own. The cell's
// city curve at its own fitting count is weighted by the chance it
// stays open, and the same curve at half that count by the block chance.
func cityExitFills(k *engine.Kernel, bag map[models.Kind]int, e regionEntry) []int {
	ends := exits(k, e)
	fills := make([]int, 0, len(ends))
	for _, pos := range ends {
		need := matcher.Default.CountFitting(bag, allRotations, fitsAt(k, pos))
		if need == 0 {
			fills = append(fills, 0)
			continue
		}
		maxBlock := 0
		for _, n := range k.EmptyNeighbors(pos) {
			c := matcher.Default.CountFitting(bag, allRotations, fitsAt(k, n))
			if c > maxBlock {
				maxBlock = c
			}
		}
		blockProb := 100 * maxBlock / (maxBlock + need)
		fillIfOpen := (100 - blockProb) * lastNForCity(need) / 100
		halfNeed := need / 2
		fillIfBlocked := blockProb * lastNForCity(halfNeed) / 100
		fills = append(fills, fillIfOpen+fillIfBlocked)
	}
	return fills
}

// fitsAt binds a Kernel and position into a matcher.FitFunc.
func fitsAt(k *engine.Kernel, pos models.Position) matcher.FitFunc {
	return func(kind models.Kind, rot int) bool {
		return k.Fits(kind, rot, pos)
	}
}

// regionCompletionProb multiplies per-cell fills into an overall
// region-completion estimate, normalized into [0,100]. A
// region with no remaining open cells (already closed) has no entries
// and is handled by the caller before this is reached.
func regionCompletionProb(fills []int) int {
	if len(fills) == 0 {
		return 0
	}
	prod := 1.0
	for _, f := range fills {
		prod *= float64(f) / 100.0
	}
	return int(prod * 100)
}

// plurality mirrors the scorer's tie-both-players rule (internal/engine
// keeps its own unexported copy; this one operates over raw token ids
// without requiring engine internals).
func plurality(toks []int) []int {
	if len(toks) == 0 {
		return nil
	}
	counts := [2]int{}
	for _, t := range toks {
		counts[models.TokenOwner(t)]++
	}
	best := counts[0]
	if counts[1] > best {
		best = counts[1]
	}
	var winners []int
	for p, c := range counts {
		if c == best {
			winners = append(winners, p)
		}
	}
	return winners
}
