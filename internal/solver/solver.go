// Exhaustive endgame search. Solve is only tractable
// (and only invoked) once the bag has one or two tiles left to draw —
// IsEndgame gates that — at which point every future draw is a known
// permutation of a tiny multiset and a full min-max search of the
// remainder of the game is affordable.
package solver

import (
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// Outcome classifies one candidate move by how it fares across every
// permutation of the remaining draws.
type Outcome int

const (
	// AlwaysLose: in every remaining-draw permutation, optimal opponent
	// play ends the game with player strictly behind.
	AlwaysLose Outcome = iota
	// Winnable: the outcome depends on draw order.
	Winnable
	// AlwaysWin: player ends strictly ahead regardless of draw order.
	AlwaysWin
)

// MoveOutcome pairs one legal (placement, follower) choice with its
// Outcome classification.
type MoveOutcome struct {
	Placement engine.Placement
	Follower  FollowerChoice
	Outcome   Outcome
}

// IsEndgame reports whether the bag holds few enough tiles (<=2) for
// Solve's exhaustive permutation search to be affordable (original_
// source/backend/src/game/solver.rs's is_last_1_or_2 gate).
func IsEndgame(bag map[models.Kind]int) bool {
	return len(expandBag(bag)) <= 2
}

// Solve classifies every legal (placement, follower) pair for player's
// drawn kind by exhaustively searching every permutation of the bag's
// remaining tiles to the end of the game. Callers must
// check IsEndgame first; Solve does not itself bound the search and
// will not terminate in reasonable time outside the endgame.
func Solve(moves []models.Move, player int, kind models.Kind) ([]MoveOutcome, error) {
	k0, err := engine.BuildKernel(moves)
	if err != nil {
		return nil, err
	}
	remaining := expandBag(k0.RemainingBag())

	placements, err := engine.EnumeratePlacements(moves, kind)
	if err != nil {
		return nil, err
	}

	ord, err := nextOrdinal(moves)
	if err != nil {
		return nil, err
	}

	perms := permutations(remaining)
	memo := map[chainhash.Hash]bool{}

	var out []MoveOutcome
	for _, pl := range placements {
		tileMove := models.TileMove{Ordinal: ord, Player: player, Kind: kind, Rotation: pl.Rotation, Position: pl.Position}
		choices, k, err := followerChoices(moves, player, tileMove)
		if err != nil {
			return nil, err
		}
		withTile := appendMove(moves, models.NewTileMove(tileMove))
		for _, c := range choices {
			tokMove := tokenMoveFor(k.Status().NextOrdinal, player, pl.Position, c)
			candidate := appendMove(withTile, models.NewTokenMove(tokMove))

			allWin, allLose := true, true
			for _, perm := range perms {
				won, err := search(candidate, player, other(player), perm, 0, memo)
				if err != nil {
					return nil, err
				}
				if won {
					allLose = false
				} else {
					allWin = false
				}
				if !allWin && !allLose {
					break // neither uniform outcome is still reachable; no need to finish the permutation set
				}
			}
			outcome := Winnable
			if allWin {
				outcome = AlwaysWin
			} else if allLose {
				outcome = AlwaysLose
			}
			out = append(out, MoveOutcome{Placement: pl, Follower: c, Outcome: outcome})
		}
	}
	return out, nil
}

// search recurses to the end of the game along one fixed permutation of
// remaining draws, alternating the acting player, and reports whether
// `perspective` ends strictly ahead under optimal play from here. A
// forced discard (no legal placement for the drawn kind) is itself one
// branch, not a dead end, since replay allows it.
func search(moves []models.Move, perspective, toMove int, draws []models.Kind, idx int, memo map[chainhash.Hash]bool) (bool, error) {
	if idx == len(draws) {
		status, err := engine.FinalPass(moves)
		if err != nil {
			return false, err
		}
		return status.Score[perspective] > status.Score[other(perspective)], nil
	}

	k, err := engine.BuildKernel(moves)
	if err != nil {
		return false, err
	}
	key := canonicalKey(k, perspective, toMove, draws, idx)
	if v, ok := memo[key]; ok {
		return v, nil
	}

	kind := draws[idx]
	placements, err := engine.EnumeratePlacements(moves, kind)
	if err != nil {
		return false, err
	}

	maximizing := toMove == perspective
	best := !maximizing // start at the worst value for whichever role we're resolving

	ord, err := nextOrdinal(moves)
	if err != nil {
		return false, err
	}

	if len(placements) == 0 {
		// Forced discard: same draw index advances, turn passes, no board change.
		discard := models.NewDiscardMove(models.DiscardMove{Ordinal: ord, Player: toMove, Kind: kind})
		best, err = search(appendMove(moves, discard), perspective, other(toMove), draws, idx+1, memo)
		if err != nil {
			return false, err
		}
		memo[key] = best
		return best, nil
	}

	for _, pl := range placements {
		tileMove := models.TileMove{Ordinal: ord, Player: toMove, Kind: kind, Rotation: pl.Rotation, Position: pl.Position}
		choices, ck, err := followerChoices(moves, toMove, tileMove)
		if err != nil {
			return false, err
		}
		withTile := appendMove(moves, models.NewTileMove(tileMove))
		for _, c := range choices {
			tokMove := tokenMoveFor(ck.Status().NextOrdinal, toMove, pl.Position, c)
			candidate := appendMove(withTile, models.NewTokenMove(tokMove))

			won, err := search(candidate, perspective, other(toMove), draws, idx+1, memo)
			if err != nil {
				return false, err
			}
			if maximizing {
				if won {
					best = true
					break // alpha-cut: maximizer already found the best possible value
				}
			} else if !won {
				best = false
				break // beta-cut: minimizer already found the worst possible value
			}
		}
		if maximizing && best {
			break
		}
		if !maximizing && !best {
			break
		}
	}

	memo[key] = best
	return best, nil
}

// canonicalKey hashes the board (tiles and seated followers), both
// scores, the perspective, the player to move, the draw index and the
// remaining draw sequence into a transposition key, so search can
// memoize positions reached by different move orders while keeping
// different remaining draw orders apart. Grounded on chainhash's use for
// content-addressing transaction data
// (internal/bitcoin/client.go); here it addresses board positions
// instead.
func canonicalKey(k *engine.Kernel, perspective, toMove int, draws []models.Kind, idx int) chainhash.Hash {
	status := k.Status()
	positions := make([]models.Position, 0, len(status.Board))
	for p := range status.Board {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})

	var buf []byte
	writeInt := func(n int) {
		buf = append(buf, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	}
	for _, p := range positions {
		t := status.Board[p]
		writeInt(p.Y)
		writeInt(p.X)
		writeInt(int(t.Kind))
		writeInt(t.Rotation)
		writeInt(t.TokenID)
		writeInt(t.RegionIdx)
	}
	writeInt(status.Score[0])
	writeInt(status.Score[1])
	writeInt(perspective)
	writeInt(toMove)
	writeInt(idx)
	for _, d := range draws[idx:] {
		writeInt(int(d))
	}
	return chainhash.HashH(buf)
}

// expandBag flattens a kind->count multiset into a stable-ordered slice
// (kinds sorted for determinism) suitable for permutation.
func expandBag(bag map[models.Kind]int) []models.Kind {
	kinds := make([]models.Kind, 0, len(bag))
	for k, n := range bag {
		if n > 0 {
			kinds = append(kinds, k)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var out []models.Kind
	for _, k := range kinds {
		for i := 0; i < bag[k]; i++ {
			out = append(out, k)
		}
	}
	return out
}

// permutations returns every distinct ordering of draws (duplicate
// kinds collapse to one ordering each, since drawing two identical
// tiles in either order is the same game). Backtracking over a sorted
// copy with a used[] mark and an equal-element skip.
func permutations(draws []models.Kind) [][]models.Kind {
	if len(draws) == 0 {
		return [][]models.Kind{{}}
	}
	var out [][]models.Kind
	used := make([]bool, len(draws))
	sorted := append([]models.Kind{}, draws...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	current := make([]models.Kind, 0, len(sorted))

	var rec func()
	rec = func() {
		if len(current) == len(sorted) {
			out = append(out, append([]models.Kind{}, current...))
			return
		}
		for i := 0; i < len(sorted); i++ {
			if used[i] {
				continue
			}
			if i > 0 && sorted[i] == sorted[i-1] && !used[i-1] {
				continue // skip duplicate branch at this level
			}
			used[i] = true
			current = append(current, sorted[i])
			rec()
			current = current[:len(current)-1]
			used[i] = false
		}
	}
	rec()
	return out
}
