// Package queue is a move-submission poller: it watches internal/store
// for moves appended past each game's last-broadcast ordinal, replays
// them through internal/engine, and pushes the resulting closure events
// to connected dashboards over the Hub.
//
// internal/api's handlers append and replay synchronously on the
// request path already (a submitted move must be validated before the
// caller gets a response), so this poller exists for the same reason
// the original mempool poller did: a move can also land in the store from a source
// the poller doesn't control directly (a backfill job, a second API
// instance sharing the database), and every such write still needs its
// closures broadcast. Adapted from internal/mempool/poller.go's
// ticker-driven scan loop.
package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/internal/store"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// Broadcaster is the subset of internal/api.Hub the poller needs; kept
// as an interface so this package doesn't import internal/api (the
// dependency runs collaborator -> queue, not back).
type Broadcaster interface {
	Broadcast(data []byte)
}

// ClosurePayload is the JSON shape pushed to connected dashboards for
// each scored-and-released region.
type ClosurePayload struct {
	Type    string              `json:"type"`
	GameID  uuid.UUID           `json:"gameId"`
	Closure models.ClosureEvent `json:"closure"`
}

// Poller tracks the last-broadcast ordinal per game so a tick only
// replays and announces the suffix of moves it hasn't seen yet.
type Poller struct {
	store      *store.Store
	hub        Broadcaster
	watermarks map[uuid.UUID]int
}

// NewPoller builds a Poller over store, broadcasting through hub.
func NewPoller(st *store.Store, hub Broadcaster) *Poller {
	return &Poller{store: st, hub: hub, watermarks: map[uuid.UUID]int{}}
}

// Run ticks every 2 seconds until ctx is cancelled, scanning up to 200
// games with no recorded final pass for moves past their watermarks.
func (p *Poller) Run(ctx context.Context) {
	if p.store == nil {
		log.Println("[queue] store is nil; poller will not start")
		return
	}
	log.Println("[queue] starting move-submission poller")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[queue] stopping move-submission poller")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	games, err := p.store.GamesMissingFinalPass(ctx, 200)
	if err != nil {
		log.Printf("[queue] failed to list in-progress games: %v", err)
		return
	}
	for _, gameID := range games {
		p.scanGame(ctx, gameID)
	}
}

func (p *Poller) scanGame(ctx context.Context, gameID uuid.UUID) {
	after := p.watermarks[gameID]
	all, err := p.store.LoadMoves(ctx, gameID)
	if err != nil {
		log.Printf("[queue] failed to load move log for game %s: %v", gameID, err)
		return
	}

	// Status.ClosureEvents only reports the closures the most recently
	// applied move produced (pkg/models.Status doc comment), so a new
	// move must be replayed one at a time against its own prefix to
	// attribute each closure to the move that caused it.
	last := after
	for i, mv := range all {
		if mv.Ordinal() <= after {
			continue
		}
		status, err := engine.Replay(all[:i+1])
		if err != nil {
			log.Printf("[queue] replay failed for game %s at ordinal %d: %v", gameID, mv.Ordinal(), err)
			return
		}
		for _, closure := range status.ClosureEvents {
			payload, err := json.Marshal(ClosurePayload{Type: "closure", GameID: gameID, Closure: closure})
			if err != nil {
				log.Printf("[queue] failed to marshal closure payload: %v", err)
				continue
			}
			p.hub.Broadcast(payload)
		}
		last = mv.Ordinal()
	}
	p.watermarks[gameID] = last
}
