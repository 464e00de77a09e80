package solver

import (
	"testing"

	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

func tileMv(ord, player int, kind models.Kind, rot int, pos models.Position) models.Move {
	return models.NewTileMove(models.TileMove{Ordinal: ord, Player: player, Kind: kind, Rotation: rot, Position: pos})
}

func tokenMv(ord, player, tokenID int, pos models.Position, regionIdx int) models.Move {
	return models.NewTokenMove(models.TokenMove{Ordinal: ord, Player: player, TokenID: tokenID, Position: pos, RegionIdx: regionIdx})
}

func skipMv(ord, player int, pos models.Position) models.Move {
	return tokenMv(ord, player, models.NoToken, pos, models.NoRegion)
}

func TestGreedy_PropagatesReplayError(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
		// StartingTile's right edge (rot 0) is Road; CityCap at rot 0
		// presents Field on its left edge toward (0,0) from (0,1) — a
		// Road/Field mismatch the replay underlying Greedy must reject.
		tileMv(2, 1, models.CityCap, 0, models.Position{Y: 0, X: 1}),
	}
	_, _, err := Greedy(moves, 1, models.Straight)
	if err == nil {
		t.Fatalf("Greedy: expected a replay error from the already-invalid move list, got nil")
	}
}

func TestGreedy_PicksALegalPlacement(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
	}
	decision, ok, err := Greedy(moves, 1, models.Straight)
	if err != nil {
		t.Fatalf("Greedy: %v", err)
	}
	if !ok {
		t.Fatalf("Greedy reported ok=false, expected a legal Straight placement next to StartingTile")
	}
	if decision.Tile.Kind != models.Straight {
		t.Errorf("decision.Tile.Kind = %v, want Straight", decision.Tile.Kind)
	}
	if decision.Tile.Player != 1 {
		t.Errorf("decision.Tile.Player = %d, want 1", decision.Tile.Player)
	}
}

func TestIsEndgame_GatesOnBagSize(t *testing.T) {
	small := map[models.Kind]int{models.Straight: 1, models.CityCap: 1}
	if !IsEndgame(small) {
		t.Errorf("IsEndgame(%v) = false, want true for a 2-tile bag", small)
	}
	big := map[models.Kind]int{models.Straight: 3}
	if IsEndgame(big) {
		t.Errorf("IsEndgame(%v) = true, want false for a 3-tile bag", big)
	}
}

func TestIsEndgame_EmptyBag(t *testing.T) {
	if !IsEndgame(nil) {
		t.Errorf("IsEndgame(nil) = false, want true for an empty bag")
	}
}

// buildNearEndgameMoves discards every bag kind down to zero except
// keepKind, left at exactly one remaining, so Solve's permutation search
// stays at one draw deep regardless of which kind the test exercises.
func buildNearEndgameMoves(keepKind models.Kind) []models.Move {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
	}
	ord := 2
	for kind, n := range models.BagMultiplicity {
		remaining := n
		if kind == models.StartingTile {
			remaining-- // one already placed above
		}
		keep := 0
		if kind == keepKind {
			keep = 1
		}
		for remaining > keep {
			moves = append(moves, models.NewDiscardMove(models.DiscardMove{Ordinal: ord, Player: ord % 2, Kind: kind}))
			ord++
			remaining--
		}
	}
	return moves
}

func TestSolve_ClassifiesEveryLegalPlacement(t *testing.T) {
	moves := buildNearEndgameMoves(models.Straight)
	outcomes, err := Solve(moves, 1, models.Straight)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(outcomes) == 0 {
		t.Fatalf("Solve returned no outcomes for a kind with legal placements")
	}
	for _, o := range outcomes {
		if o.Outcome != AlwaysLose && o.Outcome != Winnable && o.Outcome != AlwaysWin {
			t.Errorf("outcome %+v has an unrecognized Outcome value", o)
		}
	}
}

func TestIsEndgame_TrueAfterDrainingBagToOne(t *testing.T) {
	moves := buildNearEndgameMoves(models.Straight)
	k, err := engine.BuildKernel(moves)
	if err != nil {
		t.Fatalf("BuildKernel: %v", err)
	}
	if !IsEndgame(k.RemainingBag()) {
		t.Errorf("IsEndgame = false after draining the bag to one remaining tile")
	}
}

func TestExpandBag_FlattensMultiplicities(t *testing.T) {
	bag := map[models.Kind]int{models.Straight: 2, models.CityCap: 1}
	flat := expandBag(bag)
	if len(flat) != 3 {
		t.Fatalf("expandBag(%v) = %v, want 3 entries", bag, flat)
	}
	var straights, caps int
	for _, k := range flat {
		switch k {
		case models.Straight:
			straights++
		case models.CityCap:
			caps++
		}
	}
	if straights != 2 || caps != 1 {
		t.Errorf("expandBag counts = straights:%d caps:%d, want 2:1", straights, caps)
	}
}

func TestPermutations_DuplicatesCollapseToOneOrdering(t *testing.T) {
	perms := permutations([]models.Kind{models.Straight, models.Straight})
	if len(perms) != 1 {
		t.Errorf("permutations of two identical kinds = %d distinct orderings, want 1", len(perms))
	}
}

func TestPermutations_DistinctKindsProduceAllOrderings(t *testing.T) {
	perms := permutations([]models.Kind{models.Straight, models.CityCap})
	if len(perms) != 2 {
		t.Errorf("permutations of two distinct kinds = %d orderings, want 2", len(perms))
	}
}

func TestFollowerChoices_IncludesSkip(t *testing.T) {
	moves := []models.Move{}
	tileMove := models.TileMove{Ordinal: 0, Player: 0, Kind: models.StartingTile, Rotation: 0, Position: models.Position{Y: 0, X: 0}}
	choices, _, err := followerChoices(moves, 0, tileMove)
	if err != nil {
		t.Fatalf("followerChoices: %v", err)
	}
	if len(choices) == 0 || !choices[0].Skip {
		t.Fatalf("expected the first choice to be Skip, got %+v", choices)
	}
}
