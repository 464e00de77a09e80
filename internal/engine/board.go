// Package engine is the State Machine (replay), Scorer, and Legal-move
// Enumerator: the region-tracking and scoring kernel at the core of this
// system. Every public entry point is a pure function of its move-list
// input: Replay always starts from an empty board and reapplies the
// whole prefix, so there is no hidden shared state between calls.
package engine

import (
	"github.com/rawblock/carcassonne-engine/internal/catalog"
	"github.com/rawblock/carcassonne-engine/internal/unionfind"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// state is the mutable working set Replay builds and drains into a
// models.Status. It is never exposed outside this package: callers only
// ever see the immutable Status snapshot.
type state struct {
	merger *unionfind.Merger
	board  map[models.Position]*models.TileInstance

	score        [2]int
	tokensInPool [2]map[int]bool
	tokenTile    map[int]*models.TileInstance

	nextInstanceID int
	nextOrdinal    int

	lastTilePos   models.Position
	hasLastTile   bool
	pendingEvents []models.ClosureEvent

	// bag tracks remaining tile-kind multiplicities as TileMove/DiscardMove
	// consume them; exposed read-only via Kernel for the evaluator and
	// solver, which both reason about what could still be drawn.
	bag map[models.Kind]int
}

func newState() *state {
	s := &state{
		merger: unionfind.New(),
		board:  map[models.Position]*models.TileInstance{},
		tokensInPool: [2]map[int]bool{
			{}, {},
		},
		tokenTile: map[int]*models.TileInstance{},
		bag:       make(map[models.Kind]int, len(models.BagMultiplicity)),
	}
	for t := 0; t < models.TokensPerPlayer; t++ {
		s.tokensInPool[0][t] = true
		s.tokensInPool[1][t+models.TokensPerPlayer] = true
	}
	for k, n := range models.BagMultiplicity {
		s.bag[k] = n
	}
	return s
}

// drawFromBag decrements the remaining count for kind, clamped at zero so a
// malformed replay never drives the count negative.
func (s *state) drawFromBag(kind models.Kind) {
	if s.bag[kind] > 0 {
		s.bag[kind]--
	}
}

// featureOf converts a catalog/models feature type into the unionfind
// package's local enum (the merger deliberately has no import-time
// dependency on pkg/models; see internal/unionfind's doc comment).
func featureOf(f models.FeatureType) unionfind.Feature {
	switch f {
	case models.FeatureRoad:
		return unionfind.FeatureRoad
	case models.FeatureCity:
		return unionfind.FeatureCity
	case models.FeatureMonastery:
		return unionfind.FeatureMonastery
	default:
		return unionfind.FeatureField
	}
}

// neighborAt returns the tile instance at the position adjacent to pos in
// direction d, or nil if empty.
func (s *state) neighborAt(pos models.Position, d int) *models.TileInstance {
	return s.board[pos.Neighbor(d)]
}

// ring8 returns the 8 positions surrounding pos, in the fixed traversal
// order: dy from -1 to 1, dx from -1 to 1, skipping (0,0).
func ring8(pos models.Position) []models.Position {
	out := make([]models.Position, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			out = append(out, models.Position{Y: pos.Y + dy, X: pos.X + dx})
		}
	}
	return out
}

// regionID returns the global region id for the regionIdx-th region
// contributed by the tile instance t.
func regionID(t *models.TileInstance, regionIdx int) int {
	return t.RegionBase + regionIdx
}

// legalFollowerPositions recomputes, from current merger state, which
// region-within-tile indices of tile t may still receive a follower:
// every region the tile contributes whose current root carries zero
// tokens.
func (s *state) legalFollowerPositions(t *models.TileInstance) []int {
	def := catalog.Lookup(t.Kind)
	var out []int
	for idx := range def.Regions {
		id := regionID(t, idx)
		if len(s.merger.Tokens(id)) == 0 {
			out = append(out, idx)
		}
	}
	return out
}

// snapshot materializes the current working state into an immutable
// Status.
func (s *state) snapshot() *models.Status {
	st := &models.Status{
		Board:           map[models.Position]*models.TileInstance{},
		Score:           s.score,
		RegionWatermark: s.merger.NumRegions(),
		ClosureEvents:   append([]models.ClosureEvent{}, s.pendingEvents...),
		NextOrdinal:     s.nextOrdinal,
	}
	for pos, t := range s.board {
		cp := *t
		st.Board[pos] = &cp
	}
	for p := 0; p < 2; p++ {
		ids := make([]int, 0, len(s.tokensInPool[p]))
		for id := range s.tokensInPool[p] {
			ids = append(ids, id)
		}
		st.TokensInPool[p] = ids
	}
	if s.hasLastTile {
		if t, ok := s.board[s.lastTilePos]; ok {
			st.LegalFollowerPositions = s.legalFollowerPositions(t)
		}
	}
	return st
}
