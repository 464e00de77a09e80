// Package solver holds the two AI collaborators: Greedy, a one-ply
// heuristic picker driven by internal/evaluate, and the exhaustive
// endgame Solve, a recursive min-max search restricted to the final
// one or two draws of the bag.
//
// Grounded on original_source/backend/src/game/solver.rs: its
// next_permutation-driven recursive search over tileable/meepleable
// positions is the shape both Greedy's one-ply scan and Solve's deeper
// search follow, generalized into shared helpers (this file) so
// neither duplicates placement/follower enumeration.
package solver

import (
	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// FollowerChoice is one candidate token decision following a tile
// placement: Skip true means no follower, otherwise TokenID/RegionIdx
// name which of the tile's regions receives it.
type FollowerChoice struct {
	Skip      bool
	TokenID   int
	RegionIdx int
}

// followerChoices replays moves with tileMove appended and returns the
// skip option plus one follower placement per legal region-within-tile
// index, using the lowest-numbered token still in player's pool.
func followerChoices(moves []models.Move, player int, tileMove models.TileMove) ([]FollowerChoice, *engine.Kernel, error) {
	withTile := appendMove(moves, models.NewTileMove(tileMove))
	k, err := engine.BuildKernel(withTile)
	if err != nil {
		return nil, nil, err
	}
	status := k.Status()

	choices := []FollowerChoice{{Skip: true}}
	if len(status.TokensInPool[player]) == 0 {
		return choices, k, nil
	}
	lowestToken := status.TokensInPool[player][0]
	for _, id := range status.TokensInPool[player] {
		if id < lowestToken {
			lowestToken = id
		}
	}
	for _, idx := range status.LegalFollowerPositions {
		choices = append(choices, FollowerChoice{TokenID: lowestToken, RegionIdx: idx})
	}
	return choices, k, nil
}

// appendMove returns a fresh slice with mv appended, never mutating the
// caller's backing array (both Greedy and Solve speculate many
// alternative continuations off the same prefix).
func appendMove(moves []models.Move, mv models.Move) []models.Move {
	out := make([]models.Move, len(moves), len(moves)+1)
	copy(out, moves)
	return append(out, mv)
}

// nextOrdinal returns the ordinal the next move appended to moves must
// carry.
func nextOrdinal(moves []models.Move) (int, error) {
	k, err := engine.BuildKernel(moves)
	if err != nil {
		return 0, err
	}
	return k.Status().NextOrdinal, nil
}

// tokenMoveFor materializes a FollowerChoice into a TokenMove for the
// tile just placed at pos.
func tokenMoveFor(ordinal, player int, pos models.Position, c FollowerChoice) models.TokenMove {
	if c.Skip {
		return models.TokenMove{Ordinal: ordinal, Player: player, TokenID: models.NoToken, RegionIdx: models.NoRegion, Position: pos}
	}
	return models.TokenMove{Ordinal: ordinal, Player: player, TokenID: c.TokenID, RegionIdx: c.RegionIdx, Position: pos}
}

func other(player int) int { return 1 - player }
