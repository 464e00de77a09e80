package engine

import (
	"github.com/rawblock/carcassonne-engine/internal/catalog"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// Placement is one legal (position, rotation) pair a candidate tile kind
// may be placed at.
type Placement struct {
	Position models.Position
	Rotation int
}

// EnumeratePlacements replays moves, then returns every (position,
// rotation) pair at which kind could legally be placed next. Every
// member of this set is guaranteed to pass Replay when appended as the
// next TileMove.
func EnumeratePlacements(moves []models.Move, kind models.Kind) ([]Placement, error) {
	s, err := buildState(moves)
	if err != nil {
		return nil, err
	}
	return s.enumeratePlacements(kind), nil
}

func (s *state) enumeratePlacements(kind models.Kind) []Placement {
	def := catalog.Lookup(kind)

	candidates := map[models.Position]bool{}
	if len(s.board) == 0 {
		candidates[models.Position{Y: 0, X: 0}] = true
	} else {
		for pos := range s.board {
			for d := 0; d < 4; d++ {
				n := pos.Neighbor(d)
				if s.board[n] == nil {
					candidates[n] = true
				}
			}
		}
	}

	var out []Placement
	for pos := range candidates {
		for rot := 0; rot < 4; rot++ {
			if s.fits(def, pos, rot) {
				out = append(out, Placement{Position: pos, Rotation: rot})
			}
		}
	}
	return out
}

// fits reports whether kind at rotation rot matches every placed
// neighbor's facing edge around pos, and that at least one neighbor
// exists (unless the board is empty).
func (s *state) fits(def catalog.TileDef, pos models.Position, rot int) bool {
	hasNeighbor := false
	for d := 0; d < 4; d++ {
		n := s.board[pos.Neighbor(d)]
		if n == nil {
			continue
		}
		hasNeighbor = true
		nDef := catalog.Lookup(n.Kind)
		if def.EdgeAt(rot, d) != nDef.EdgeAt(n.Rotation, models.Opposite(d)) {
			return false
		}
	}
	return hasNeighbor || len(s.board) == 0
}

// CanonicalRotations returns the subset of {0,1,2,3} that produce
// distinct edge patterns for kind, collapsing rotationally-symmetric
// groups (Monastery/QuadrupleRoad/QuadrupleCityWithCOA collapse to
// {0}; VerticalSeparator/Connector(+COA)/Straight collapse to {0,1}).
// The solver uses this to avoid exploring redundant rotations; the
// enumerator itself still reports all four for callers that need
// literal rotation values.
func CanonicalRotations(kind models.Kind) []int {
	def := catalog.Lookup(kind)
	seen := map[[4]models.Label]bool{}
	var out []int
	for rot := 0; rot < 4; rot++ {
		pattern := rotate(def.Edges, rot)
		if seen[pattern] {
			continue
		}
		seen[pattern] = true
		out = append(out, rot)
	}
	return out
}

func rotate(edges [4]models.Label, rot int) [4]models.Label {
	var out [4]models.Label
	for d := 0; d < 4; d++ {
		out[d] = edges[(rot+d)%4]
	}
	return out
}
