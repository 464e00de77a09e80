package engine

import (
	"testing"

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

// S1 — single-road close.
func TestS1_SingleRoadClose(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
		tileMv(2, 1, models.Straight, 0, models.Position{Y: 0, X: 1}),
		tokenMv(3, 1, 7, models.Position{Y: 0, X: 1}, 0),
		tileMv(4, 0, models.CityCap, 2, models.Position{Y: 0, X: 2}),
		skipMv(5, 0, models.Position{Y: 0, X: 2}),
	}
	st, err := Replay(moves)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if st.Score[1] != 3 {
		t.Errorf("player 1 score = %d, want 3", st.Score[1])
	}
	if len(st.ClosureEvents) != 1 {
		t.Fatalf("ClosureEvents = %v, want 1 event", st.ClosureEvents)
	}
	ev := st.ClosureEvents[0]
	if ev.Feature != models.FeatureRoad || ev.Points != 3 {
		t.Errorf("event = %+v, want Road/3", ev)
	}
	if len(ev.TokenIDs) != 1 || ev.TokenIDs[0] != 7 {
		t.Errorf("event tokens = %v, want [7]", ev.TokenIDs)
	}
	if len(st.TokensInPool[1]) != models.TokensPerPlayer {
		t.Errorf("player 1 pool size = %d, want %d (token reclaimed)", len(st.TokensInPool[1]), models.TokensPerPlayer)
	}
}

func TestEdgeMismatchRejected(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
		// StartingTile's right edge (rot 0) is Road; CityCap at rot 0
		// presents Field on its left edge toward (0,0) from (0,1) — a
		// Road/Field mismatch.
		tileMv(2, 1, models.CityCap, 0, models.Position{Y: 0, X: 1}),
	}
	_, err := Replay(moves)
	if err == nil {
		t.Fatalf("expected edge mismatch error, got nil")
	}
	mvErr, ok := err.(*MovesInvalidError)
	if !ok {
		t.Fatalf("error type = %T, want *MovesInvalidError", err)
	}
	if mvErr.Reason != ReasonEdgeMismatch {
		t.Errorf("Reason = %v, want ReasonEdgeMismatch", mvErr.Reason)
	}
}

func TestPositionOccupiedRejected(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
		tileMv(2, 1, models.Monastery, 0, models.Position{Y: 0, X: 0}),
	}
	_, err := Replay(moves)
	mvErr, ok := err.(*MovesInvalidError)
	if !ok {
		t.Fatalf("error type = %T, want *MovesInvalidError", err)
	}
	if mvErr.Reason != ReasonPositionOccupied {
		t.Errorf("Reason = %v, want ReasonPositionOccupied", mvErr.Reason)
	}
}

func TestNoNeighborRejected(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
		tileMv(2, 1, models.Monastery, 0, models.Position{Y: 10, X: 10}),
	}
	_, err := Replay(moves)
	mvErr, ok := err.(*MovesInvalidError)
	if !ok {
		t.Fatalf("error type = %T, want *MovesInvalidError", err)
	}
	if mvErr.Reason != ReasonNoNeighbor {
		t.Errorf("Reason = %v, want ReasonNoNeighbor", mvErr.Reason)
	}
}

// S2 — monastery closes once its 8-ring is full, exercised
// here with Monastery tiles themselves as filler (rotation-invariant, so
// edges always match regardless of neighbor rotation).
func TestS2_MonasteryClosesOnFullRing(t *testing.T) {
	origin := models.Position{Y: 0, X: 0}
	monPos := models.Position{Y: 1, X: 0}

	moves := []models.Move{
		tileMv(0, 0, models.Monastery, 0, origin),
		skipMv(1, 0, origin),
		tileMv(2, 1, models.Monastery, 0, monPos),
		tokenMv(3, 1, 7, monPos, 0),
	}
	ord := 4
	ring := ring8(monPos)
	for _, p := range ring {
		if p == origin {
			continue
		}
		moves = append(moves, tileMv(ord, 0, models.Monastery, 0, p))
		ord++
		moves = append(moves, skipMv(ord, 0, p))
		ord++
	}

	st, err := Replay(moves)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if st.Score[1] != 9 {
		t.Errorf("player 1 score = %d, want 9", st.Score[1])
	}
	found := false
	for _, ev := range st.ClosureEvents {
		if ev.Feature == models.FeatureMonastery && ev.Points == 9 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a Monastery closure event worth 9, events = %+v", st.ClosureEvents)
	}
}

// S3 — a ring road closes on itself via same-root self-union, not a
// normal two-sided merge.
func TestS3_RingRoadSelfUnion(t *testing.T) {
	// Four Curve tiles around a 2x2 block, each rotated so the road
	// turns inward: (0,0) right+bottom, (0,1) left+bottom, (1,1)
	// left+top, (1,0) right+top. The last tile joins both ends of the
	// same road region, so its placement unites the region with itself.
	moves := []models.Move{
		tileMv(0, 0, models.Curve, 1, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
		tileMv(2, 1, models.Curve, 2, models.Position{Y: 0, X: 1}),
		skipMv(3, 1, models.Position{Y: 0, X: 1}),
		tileMv(4, 0, models.Curve, 3, models.Position{Y: 1, X: 1}),
		skipMv(5, 0, models.Position{Y: 1, X: 1}),
		tileMv(6, 1, models.Curve, 0, models.Position{Y: 1, X: 0}),
		skipMv(7, 1, models.Position{Y: 1, X: 0}),
	}
	// The ring is a legal layout, so Replay must accept every move.
	_, err := Replay(moves)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
}

func TestFinalPass_BothPoolsFullAfterward(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		tokenMv(1, 0, 0, models.Position{Y: 0, X: 0}, 0),
	}
	st, err := FinalPass(moves)
	if err != nil {
		t.Fatalf("FinalPass: %v", err)
	}
	if len(st.TokensInPool[0]) != models.TokensPerPlayer {
		t.Errorf("pool0 size = %d, want %d", len(st.TokensInPool[0]), models.TokensPerPlayer)
	}
	if len(st.TokensInPool[1]) != models.TokensPerPlayer {
		t.Errorf("pool1 size = %d, want %d", len(st.TokensInPool[1]), models.TokensPerPlayer)
	}
}

func TestFinalPass_Idempotent(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		tokenMv(1, 0, 0, models.Position{Y: 0, X: 0}, 0),
	}
	first, err := FinalPass(moves)
	if err != nil {
		t.Fatalf("FinalPass: %v", err)
	}
	second, err := FinalPass(moves)
	if err != nil {
		t.Fatalf("FinalPass (second call): %v", err)
	}
	if first.Score != second.Score {
		t.Errorf("scores differ across repeated FinalPass calls: %v vs %v", first.Score, second.Score)
	}
}

func TestEnumeratePlacements_OriginOnly(t *testing.T) {
	placements, err := EnumeratePlacements(nil, models.StartingTile)
	if err != nil {
		t.Fatalf("EnumeratePlacements: %v", err)
	}
	if len(placements) != 4 {
		t.Fatalf("expected 4 placements (one per rotation) at the empty board's origin, got %d", len(placements))
	}
	for _, p := range placements {
		if p.Position != (models.Position{Y: 0, X: 0}) {
			t.Errorf("placement %+v not at origin", p)
		}
	}
}

func TestEnumeratePlacements_IsSupersetOfLegalMoves(t *testing.T) {
	moves := []models.Move{
		tileMv(0, 0, models.StartingTile, 0, models.Position{Y: 0, X: 0}),
		skipMv(1, 0, models.Position{Y: 0, X: 0}),
	}
	placements, err := EnumeratePlacements(moves, models.Straight)
	if err != nil {
		t.Fatalf("EnumeratePlacements: %v", err)
	}
	found := false
	for _, p := range placements {
		if p.Position == (models.Position{Y: 0, X: 1}) && p.Rotation == 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected (0,1) rot0 among placements, got %+v", placements)
	}
	extended := append(append([]models.Move{}, moves...), tileMv(2, 1, models.Straight, 0, models.Position{Y: 0, X: 1}))
	if _, err := Replay(extended); err != nil {
		t.Errorf("enumerated placement failed to replay: %v", err)
	}
}

func TestCanonicalRotations_MonasteryIsSingleton(t *testing.T) {
	rots := CanonicalRotations(models.Monastery)
	if len(rots) != 1 {
		t.Errorf("Monastery canonical rotations = %v, want 1 entry", rots)
	}
}

func TestCanonicalRotations_StraightHasTwo(t *testing.T) {
	rots := CanonicalRotations(models.Straight)
	if len(rots) != 2 {
		t.Errorf("Straight canonical rotations = %v, want 2 entries", rots)
	}
}
