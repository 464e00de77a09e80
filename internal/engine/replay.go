package engine

import (
	"github.com/rawblock/carcassonne-engine/internal/catalog"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// mergeDirOrder is the fixed directional processing order for edge
// merges: right, top, left, bottom.
var mergeDirOrder = [4]int{models.DirRight, models.DirTop, models.DirLeft, models.DirBottom}

// Replay deterministically applies moves from an empty board and returns
// the resulting Status, or a MovesInvalidError/InternalError. Every call
// starts fresh: there is no state carried between invocations.
func Replay(moves []models.Move) (*models.Status, error) {
	s, err := buildState(moves)
	if err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// buildState replays moves into a working state, shared by Replay and
// FinalPass (the latter runs an additional end-of-game sweep over the
// same replayed state before snapshotting).
func buildState(moves []models.Move) (*state, error) {
	s := newState()
	for _, mv := range moves {
		s.pendingEvents = nil
		switch mv.Kind {
		case models.MoveTile:
			if err := s.applyTileMove(*mv.Tile); err != nil {
				return nil, err
			}
		case models.MoveToken:
			if err := s.applyTokenMove(*mv.Token); err != nil {
				return nil, err
			}
		case models.MoveDiscard:
			s.applyDiscardMove(*mv.Discard)
		default:
			return nil, internal("unhandled move kind %d", mv.Kind)
		}
		s.nextOrdinal = mv.Ordinal() + 1
	}
	return s, nil
}

func (s *state) applyTileMove(mv models.TileMove) error {
	if !mv.Kind.Valid() {
		return invalid(mv.Ordinal, ReasonUnknownKind, "kind %v", mv.Kind)
	}
	if _, occupied := s.board[mv.Position]; occupied {
		return invalid(mv.Ordinal, ReasonPositionOccupied, "position %+v already has a tile", mv.Position)
	}

	def := catalog.Lookup(mv.Kind)
	s.drawFromBag(mv.Kind)

	type neighborMatch struct {
		dir  int
		tile *models.TileInstance
	}
	var neighbors []neighborMatch
	for _, d := range mergeDirOrder {
		n := s.neighborAt(mv.Position, d)
		if n == nil {
			continue
		}
		nDef := catalog.Lookup(n.Kind)
		want := def.EdgeAt(mv.Rotation, d)
		got := nDef.EdgeAt(n.Rotation, models.Opposite(d))
		if want != got {
			return invalid(mv.Ordinal, ReasonEdgeMismatch, "dir %d: %v placed vs %v neighbor at %+v", d, want, got, mv.Position)
		}
		neighbors = append(neighbors, neighborMatch{dir: d, tile: n})
	}

	if len(s.board) > 0 && len(neighbors) == 0 {
		return invalid(mv.Ordinal, ReasonNoNeighbor, "position %+v has no placed neighbor", mv.Position)
	}

	// Region birth.
	regionBase := s.merger.NumRegions()
	for _, r := range def.Regions {
		s.merger.NewRegion(featureOf(r.Feature), r.OpenSides, r.COA)
	}
	for _, adj := range def.FieldCityAdjacency {
		s.merger.AddFacingCity(regionBase+adj.FieldIdx, regionBase+adj.CityIdx)
	}

	inst := &models.TileInstance{
		ID:         s.nextInstanceID,
		Kind:       mv.Kind,
		Rotation:   mv.Rotation,
		Position:   mv.Position,
		RegionBase: regionBase,
		TokenID:    models.NoToken,
		RegionIdx:  models.NoRegion,
	}
	s.nextInstanceID++
	s.board[mv.Position] = inst

	// Region mergers: pair this tile's edge_regions (outer->inner from
	// its own perspective) against the neighbor's (outer->inner from the
	// neighbor's perspective) in REVERSED order — the flank touching this
	// tile's "outer" corner on one side of the edge is physically the
	// neighbor's "inner" corner on the facing side, so same-index pairing
	// would cross-wire the two field flanks. Verified against both a
	// horizontal and a vertical tile-adjacency worked example.
	for _, nb := range neighbors {
		mine := def.EdgeRegionsAt(mv.Rotation, nb.dir)
		nDef := catalog.Lookup(nb.tile.Kind)
		theirs := nDef.EdgeRegionsAt(nb.tile.Rotation, models.Opposite(nb.dir))
		if len(mine) != len(theirs) {
			return internal("edge_regions length mismatch at dir %d: %d vs %d", nb.dir, len(mine), len(theirs))
		}
		n := len(mine)
		for i := 0; i < n; i++ {
			a := regionBase + mine[i]
			b := nb.tile.RegionBase + theirs[n-1-i]
			s.merger.Unite(a, b)
		}
	}

	// Monastery side-reduction.
	ring := ring8(mv.Position)
	if def.HasMonastery {
		placed := 0
		for _, p := range ring {
			if s.board[p] != nil {
				placed++
			}
		}
		s.merger.ReduceOpenSides(regionID(inst, def.MonasteryRegion), placed)
	}
	for _, p := range ring {
		other := s.board[p]
		if other == nil || other.Position == mv.Position {
			continue
		}
		oDef := catalog.Lookup(other.Kind)
		if oDef.HasMonastery {
			s.merger.ReduceOpenSides(regionID(other, oDef.MonasteryRegion), 1)
		}
	}

	s.lastTilePos = mv.Position
	s.hasLastTile = true
	return nil
}

func (s *state) applyTokenMove(mv models.TokenMove) error {
	t, ok := s.board[mv.Position]
	if !ok {
		return invalid(mv.Ordinal, ReasonNoTileAtPosition, "%+v", mv.Position)
	}

	if mv.TokenID != models.NoToken {
		if !s.tokensInPool[mv.Player][mv.TokenID] {
			return invalid(mv.Ordinal, ReasonTokenNotAvailable, "token %d not in player %d's pool", mv.TokenID, mv.Player)
		}
		id := regionID(t, mv.RegionIdx)
		if len(s.merger.Tokens(id)) > 0 {
			return invalid(mv.Ordinal, ReasonTokenAlreadyPresent, "region %d at %+v already has a token", mv.RegionIdx, mv.Position)
		}
		delete(s.tokensInPool[mv.Player], mv.TokenID)
		s.merger.PlaceToken(id, mv.TokenID)
		t.TokenID = mv.TokenID
		t.RegionIdx = mv.RegionIdx
		s.tokenTile[mv.TokenID] = t
	}

	s.scoringSweep(t)
	s.monasteryNeighborSweep(t.Position)
	return nil
}

func (s *state) applyDiscardMove(mv models.DiscardMove) {
	// no board mutation, but the drawn tile still leaves the bag.
	s.drawFromBag(mv.Kind)
}
