package engine

import (
	"sort"

	"github.com/rawblock/carcassonne-engine/internal/catalog"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// midGamePoints computes the mid-game (non-final-pass) point value for a
// just-closed region of the given feature and size.
func midGamePoints(f models.FeatureType, size int) int {
	switch f {
	case models.FeatureCity:
		return size * 2
	case models.FeatureRoad:
		return size
	case models.FeatureMonastery:
		return 9
	default:
		return 0
	}
}

// plurality returns the distinct players holding the most tokens among
// toks; a tie awards both.
func plurality(toks []int) []int {
	counts := map[int]int{}
	for _, t := range toks {
		counts[models.TokenOwner(t)]++
	}
	best := 0
	for _, c := range counts {
		if c > best {
			best = c
		}
	}
	var winners []int
	for p, c := range counts {
		if c == best {
			winners = append(winners, p)
		}
	}
	sort.Ints(winners)
	return winners
}

// reclaimTokens returns toks to their owners' pools and clears the
// originating tile's follower metadata.
func (s *state) reclaimTokens(toks []int) {
	for _, tok := range toks {
		owner := models.TokenOwner(tok)
		s.tokensInPool[owner][tok] = true
		if t, ok := s.tokenTile[tok]; ok {
			t.TokenID = models.NoToken
			t.RegionIdx = models.NoRegion
			delete(s.tokenTile, tok)
		}
	}
}

func sortedInts(xs []int) []int {
	out := append([]int{}, xs...)
	sort.Ints(out)
	return out
}

// scoringSweep walks every region the tile at t's position contributes:
// any non-Field region, not yet done, now closed, carrying at least one
// token is scored and released.
func (s *state) scoringSweep(t *models.TileInstance) {
	def := catalog.Lookup(t.Kind)
	for idx, r := range def.Regions {
		if r.Feature == models.FeatureField {
			continue
		}
		id := regionID(t, idx)
		if s.merger.IsDone(id) || !s.merger.IsClosed(id) {
			continue
		}
		toks := sortedInts(s.merger.Tokens(id))
		if len(toks) == 0 {
			continue
		}
		points := midGamePoints(r.Feature, s.merger.Size(id)+s.merger.COACount(id))
		winners := plurality(toks)
		for _, w := range winners {
			s.score[w] += points
		}
		s.reclaimTokens(toks)
		s.merger.MarkDone(id)
		s.pendingEvents = append(s.pendingEvents, models.ClosureEvent{
			Feature:  r.Feature,
			TokenIDs: toks,
			Points:   points,
			Players:  winners,
		})
	}
}

// monasteryNeighborSweep scores any Monastery in pos's 8-ring that just
// closed, in the fixed ring8 traversal order.
func (s *state) monasteryNeighborSweep(pos models.Position) {
	for _, p := range ring8(pos) {
		other := s.board[p]
		if other == nil {
			continue
		}
		oDef := catalog.Lookup(other.Kind)
		if !oDef.HasMonastery {
			continue
		}
		id := regionID(other, oDef.MonasteryRegion)
		if s.merger.IsDone(id) || !s.merger.IsClosed(id) {
			continue
		}
		toks := sortedInts(s.merger.Tokens(id))
		if len(toks) == 0 {
			continue
		}
		points := midGamePoints(models.FeatureMonastery, s.merger.Size(id))
		winners := plurality(toks)
		for _, w := range winners {
			s.score[w] += points
		}
		s.reclaimTokens(toks)
		s.merger.MarkDone(id)
		s.pendingEvents = append(s.pendingEvents, models.ClosureEvent{
			Feature:  models.FeatureMonastery,
			TokenIDs: toks,
			Points:   points,
			Players:  winners,
		})
	}
}

// FinalPass replays moves and then runs the end-of-game scoring sweep
// over every region not yet done that carries at least one token, in
// ascending (tile instance id, region index) order for determinism.
// Each call replays the move list from scratch, so calling it twice on
// the same move list yields identical scores and identical events;
// within one call every scored region is marked done and is scored once.
func FinalPass(moves []models.Move) (*models.Status, error) {
	s, err := buildState(moves)
	if err != nil {
		return nil, err
	}
	s.pendingEvents = nil

	tiles := make([]*models.TileInstance, 0, len(s.board))
	for _, t := range s.board {
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].ID < tiles[j].ID })

	for _, t := range tiles {
		def := catalog.Lookup(t.Kind)
		for idx, r := range def.Regions {
			id := regionID(t, idx)
			if s.merger.IsDone(id) {
				continue
			}
			toks := sortedInts(s.merger.Tokens(id))
			if len(toks) == 0 {
				continue
			}
			points := finalPoints(s, r.Feature, id)
			winners := plurality(toks)
			for _, w := range winners {
				s.score[w] += points
			}
			s.reclaimTokens(toks)
			s.merger.MarkDone(id)
			s.pendingEvents = append(s.pendingEvents, models.ClosureEvent{
				Feature:  r.Feature,
				TokenIDs: toks,
				Points:   points,
				Players:  winners,
			})
		}
	}

	return s.snapshot(), nil
}

// finalPoints computes the end-of-game point value for an unscored
// region: open roads/cities score their plain size (no city doubling),
// an unclosed monastery scores one point per already-filled ring
// neighbor, and fields always score via their completed facing-city
// count regardless of mid-game/end-of-game (fields are never scored
// mid-game).
func finalPoints(s *state, f models.FeatureType, id int) int {
	switch f {
	case models.FeatureRoad, models.FeatureCity:
		return s.merger.Size(id) + s.merger.COACount(id)
	case models.FeatureMonastery:
		return 9 - s.merger.OpenSides(id)
	case models.FeatureField:
		completed := 0
		for _, cityID := range s.merger.FacingCities(id) {
			if s.merger.IsClosed(cityID) {
				completed++
			}
		}
		return 3 * completed
	default:
		return 0
	}
}
