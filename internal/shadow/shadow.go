// Package shadow runs the production evaluator (internal/evaluate)
// alongside a frozen, simplified predecessor over the same move list
// and reports how far they diverge — never feeding back into any AI
// pick. An earlier engine generation carried two evaluator entry points
// (`evaluate(moves)` and `evaluate(moves, debug)`); the second survives
// here as a diagnostic-only comparison path, not a production branch
// internal/solver or internal/api ever calls.
//
// Adapted from internal/shadow/shadow_runner.go: same
// production-vs-shadow dual-invocation shape and divergence logging,
// run over board evaluations instead of transaction heuristics.
package shadow

import (
	"context"
	"log"
	"math"

	"github.com/google/uuid"
	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/internal/evaluate"
	"github.com/rawblock/carcassonne-engine/internal/store"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// Result captures one comparison between the production evaluator and
// the frozen legacy one over a single game's current move list.
type Result struct {
	GameID     uuid.UUID
	AtOrdinal  int
	Production evaluate.Scores
	Legacy     evaluate.Scores
	Delta      float64
}

// Runner compares internal/evaluate.Evaluate against legacyEvaluate for
// games pulled from internal/store.
type Runner struct {
	store *store.Store
}

// NewRunner builds a Runner reading move logs from st.
func NewRunner(st *store.Store) *Runner {
	return &Runner{store: st}
}

// Compare replays gameID's current move log through both evaluators and
// returns the divergence. Logs a warning when the two disagree on which
// player is ahead, the signal worth a human looking at a migration
// window.
func (r *Runner) Compare(ctx context.Context, gameID uuid.UUID) (Result, error) {
	moves, err := r.store.LoadMoves(ctx, gameID)
	if err != nil {
		return Result{}, err
	}
	prod, err := evaluate.Evaluate(moves)
	if err != nil {
		return Result{}, err
	}
	legacy := legacyEvaluate(moves)

	delta := math.Abs(prod[0]-legacy[0]) + math.Abs(prod[1]-legacy[1])
	result := Result{GameID: gameID, AtOrdinal: len(moves), Production: prod, Legacy: legacy, Delta: delta}

	prodLeader := leader(prod)
	legacyLeader := leader(legacy)
	if prodLeader != legacyLeader {
		log.Printf("[shadow] DIVERGENCE on game %s at ordinal %d: production favors player %d, legacy favors player %d (delta=%.1f)",
			gameID, result.AtOrdinal, prodLeader, legacyLeader, delta)
	}
	return result, nil
}

func leader(s evaluate.Scores) int {
	if s[1] > s[0] {
		return 1
	}
	return 0
}

// DriftReport aggregates a batch of Results into the divergence rate
// and average score delta a migration dashboard would chart.
func DriftReport(results []Result) (divergenceRate, avgDelta float64) {
	if len(results) == 0 {
		return 0, 0
	}
	var divergences int
	var sum float64
	for _, r := range results {
		sum += r.Delta
		if leader(r.Production) != leader(r.Legacy) {
			divergences++
		}
	}
	return float64(divergences) / float64(len(results)), sum / float64(len(results))
}

// legacyEvaluate is the frozen predecessor of internal/evaluate.Evaluate:
// it counts banked score exactly as the current evaluator does (x12)
// and nothing else — no meeple-pool penalty, no guaranteed points for
// open regions, and no fill-probability model. This is the
// evaluator generation `evaluate(moves, debug)`'s frozen twin refers to.
func legacyEvaluate(moves []models.Move) evaluate.Scores {
	status, err := engine.Replay(moves)
	if err != nil {
		return evaluate.Scores{}
	}
	var out evaluate.Scores
	out[0] = float64(status.Score[0]) * 12
	out[1] = float64(status.Score[1]) * 12
	return out
}
