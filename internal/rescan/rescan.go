// Package rescan is a backfill scanner: it walks persisted games that
// never got a recorded end-of-game pass (a crashed process, a client
// that disconnected before calling FinalPass) and (re)applies
// internal/engine.FinalPass to each, persisting the result.
//
// Adapted from internal/scanner/block_scanner.go: same atomic progress
// counters, same isRunning guard against overlapping sweeps, same
// async Sweep entry point — but walking a list of game ids from
// internal/store instead of a block-height range from a Bitcoin node.
package rescan

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/internal/store"
)

// Progress reports the scanner's current state for the API.
type Progress struct {
	IsRunning    bool  `json:"isRunning"`
	TotalScanned int64 `json:"totalScanned"`
	TotalApplied int64 `json:"totalApplied"`
}

// Scanner sweeps internal/store for games missing a final pass.
type Scanner struct {
	store *store.Store

	totalScanned int64
	totalApplied int64
	isRunning    atomic.Bool
}

// NewScanner builds a Scanner over st.
func NewScanner(st *store.Store) *Scanner {
	return &Scanner{store: st}
}

// GetProgress returns the current sweep progress (thread-safe).
func (s *Scanner) GetProgress() Progress {
	return Progress{
		IsRunning:    s.isRunning.Load(),
		TotalScanned: atomic.LoadInt64(&s.totalScanned),
		TotalApplied: atomic.LoadInt64(&s.totalApplied),
	}
}

// Sweep processes up to limit games missing a final pass, asynchronously.
// Ignores a call that arrives while a sweep is already running, the same
// duplicate-request guard block_scanner.go uses.
func (s *Scanner) Sweep(ctx context.Context, limit int) {
	if s.isRunning.Load() {
		log.Println("[rescan] sweep already in progress, ignoring duplicate request")
		return
	}
	s.isRunning.Store(true)
	atomic.StoreInt64(&s.totalScanned, 0)
	atomic.StoreInt64(&s.totalApplied, 0)

	go func() {
		defer s.isRunning.Store(false)

		games, err := s.store.GamesMissingFinalPass(ctx, limit)
		if err != nil {
			log.Printf("[rescan] failed to list games missing a final pass: %v", err)
			return
		}
		log.Printf("[rescan] sweeping %d game(s) missing a final pass", len(games))

		for _, gameID := range games {
			select {
			case <-ctx.Done():
				log.Println("[rescan] sweep cancelled")
				return
			default:
			}
			s.applyOne(ctx, gameID)
			atomic.AddInt64(&s.totalScanned, 1)
		}

		log.Printf("[rescan] sweep complete: %d scanned, %d final passes applied",
			atomic.LoadInt64(&s.totalScanned), atomic.LoadInt64(&s.totalApplied))
	}()
}

// applyOne replays a game's full move log, runs FinalPass, and persists
// the resulting scores plus the final_pass_at stamp.
func (s *Scanner) applyOne(ctx context.Context, gameID uuid.UUID) {
	moves, err := s.store.LoadMoves(ctx, gameID)
	if err != nil {
		log.Printf("[rescan] failed to load moves for game %s: %v", gameID, err)
		return
	}
	status, err := engine.FinalPass(moves)
	if err != nil {
		log.Printf("[rescan] final pass failed for game %s: %v", gameID, err)
		return
	}
	if err := s.store.MarkFinalPassApplied(ctx, gameID, status.Score[0], status.Score[1]); err != nil {
		log.Printf("[rescan] failed to persist final pass result for game %s: %v", gameID, err)
		return
	}
	atomic.AddInt64(&s.totalApplied, 1)
	log.Printf("[rescan] game %s final pass applied: %d-%d", gameID, status.Score[0], status.Score[1])
}
