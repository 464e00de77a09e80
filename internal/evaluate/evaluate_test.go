package evaluate

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

func TestEvaluate_EmptyBoard(t *testing.T) {
	scores, err := Evaluate(nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if scores[0] != 0 || scores[1] != 0 {
		t.Errorf("scores = %v, want [0 0] on an empty board", scores)
	}
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		tokenMv(1, 0, 0, models.Position{Y: 0, X: 0}, 0),
	}
	first, err := Evaluate(moves)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := Evaluate(moves)
	if err != nil {
		t.Fatalf("Evaluate (second call): %v", err)
	}
	if first != second {
		t.Errorf("Evaluate is not deterministic: %v vs %v over the same move list", first, second)
	}
}

func TestEvaluate_SeatingAFollowerChangesTheEstimate(t *testing.T) {
	base := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
	}
	seated := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		tokenMv(1, 0, 0, models.Position{Y: 0, X: 0}, 0),
	}
	baseScores, err := Evaluate(base)
	if err != nil {
		t.Fatalf("Evaluate(base): %v", err)
	}
	seatedScores, err := Evaluate(seated)
	if err != nil {
		t.Fatalf("Evaluate(seated): %v", err)
	}
	if baseScores == seatedScores {
		t.Errorf("seating a follower on an open region should change the evaluator's estimate, got identical scores %v", baseScores)
	}
}

func TestEvaluate_ClosedRegionScoresAtFullConfidence(t *testing.T) {
	// A CityCap facing the starting tile's city closes a 2-tile city
	// outright; player 0's follower on it scores the doubled value at
	// once, so the evaluator credits it through the banked score (x12).
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		tokenMv(1, 0, 0, models.Position{Y: 0, X: 0}, 0),
		tileMv(2, 1, models.CityCap, 2, models.Position{Y: -1, X: 0}),
		skipMv(3, 1, models.Position{Y: -1, X: 0}),
	}
	status, err := engine.Replay(moves)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(status.ClosureEvents) == 0 {
		t.Fatalf("expected the facing city to close, no closure events recorded")
	}

	// Scores must already reflect the now-scored, reclaimed state: no
	// token remains seated on a done region, so the guaranteed-component
	// loop in evaluateKernel must skip it without panicking.
	scores, err := Evaluate(moves)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if scores[0] < float64(status.Score[0])*12 {
		t.Errorf("scores = %v, want player 0's score to reflect the closed city's points", scores)
	}
}

func TestLastN_Monotonic(t *testing.T) {
	prev := -1
	for n := 0; n <= 25; n++ {
		got := lastN(n)
		if got < prev {
			t.Errorf("lastN(%d) = %d, not monotonically non-decreasing (prev %d)", n, got, prev)
		}
		prev = got
	}
}

func TestLastNForCity_AtOrAboveLastN(t *testing.T) {
	for n := 0; n <= 25; n++ {
		if lastNForCity(n) < lastN(n) {
			t.Errorf("lastNForCity(%d) = %d < lastN(%d) = %d, want city curve at or above road curve",
				n, lastNForCity(n), n, lastN(n))
		}
	}
}

func TestRegionCompletionProb_EmptyIsZero(t *testing.T) {
	if got := regionCompletionProb(nil); got != 0 {
		t.Errorf("regionCompletionProb(nil) = %d, want 0", got)
	}
}

func TestRegionCompletionProb_MultipliesIndependentFills(t *testing.T) {
	got := regionCompletionProb([]int{50, 50})
	if got != 25 {
		t.Errorf("regionCompletionProb([50 50]) = %d, want 25", got)
	}
}

func TestPlurality_TieAwardsBoth(t *testing.T) {
	winners := plurality([]int{0, 7})
	if len(winners) != 2 {
		t.Fatalf("plurality([0 7]) = %v, want both players on a 1-1 tie", winners)
	}
}

func TestPlurality_EmptyHasNoWinners(t *testing.T) {
	if winners := plurality(nil); winners != nil {
		t.Errorf("plurality(nil) = %v, want nil", winners)
	}
}
