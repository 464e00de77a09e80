package solver

import (
	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/internal/evaluate"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// Decision is a full turn: where/how the drawn tile goes, and what the
// acting player does with a follower afterward.
type Decision struct {
	Tile     models.TileMove
	Follower FollowerChoice
}

// Greedy picks the highest-valued (placement, follower) pair for
// player's drawn kind by speculatively replaying every legal
// combination and ranking with internal/evaluate's (scores[player] -
// scores[opponent]) margin. ok is false when kind has no
// legal placement at all — the caller is expected to submit a
// DiscardMove instead.
func Greedy(moves []models.Move, player int, kind models.Kind) (best Decision, ok bool, err error) {
	placements, err := engine.EnumeratePlacements(moves, kind)
	if err != nil {
		return Decision{}, false, err
	}
	if len(placements) == 0 {
		return Decision{}, false, nil
	}

	ord, err := nextOrdinal(moves)
	if err != nil {
		return Decision{}, false, err
	}

	bestValue := 0.0
	haveBest := false
	for _, pl := range placements {
		tileMove := models.TileMove{
			Ordinal:  ord,
			Player:   player,
			Kind:     kind,
			Rotation: pl.Rotation,
			Position: pl.Position,
		}
		choices, k, err := followerChoices(moves, player, tileMove)
		if err != nil {
			return Decision{}, false, err
		}
		withTile := appendMove(moves, models.NewTileMove(tileMove))
		for _, c := range choices {
			tokMove := tokenMoveFor(k.Status().NextOrdinal, player, pl.Position, c)
			candidate := appendMove(withTile, models.NewTokenMove(tokMove))
			scores, err := evaluate.Evaluate(candidate)
			if err != nil {
				return Decision{}, false, err
			}
			value := scores[player] - scores[other(player)]
			if !haveBest || value > bestValue {
				bestValue = value
				haveBest = true
				best = Decision{Tile: tileMove, Follower: c}
			}
		}
	}
	return best, true, nil
}
