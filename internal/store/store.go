// Package store is the persistence collaborator: one append-only row per
// accepted move, keyed by (game, ordinal), so internal/engine's pure
// Replay can always be driven from a durable move log rather than
// in-memory state.
//
// Grounded on internal/db/postgres.go: same pgxpool.Pool-wrapping shape,
// same Connect/Close/InitSchema lifecycle, same "read schema.sql off
// disk and Exec it" migration style. The games/moves/players table
// layout follows original_source/backend/src/schema.rs instead of the
// original tx_heuristics/evidence_edge tables.
package store

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// Store wraps a pgx connection pool with the move-log operations the
// queue poller and rescan scanner need.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens the pool and verifies connectivity, exactly as
// internal/db/postgres.go's Connect does.
func Connect(connStr string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}
	log.Println("store: connected to PostgreSQL")
	return &Store{pool: pool}, nil
}

// Close gracefully closes the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema loads and executes schema.sql, the same pattern
// internal/db/postgres.go's InitSchema uses.
func (s *Store) InitSchema() error {
	schemaBytes, err := os.ReadFile("internal/store/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := s.pool.Exec(context.Background(), string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %w", err)
	}
	log.Println("store: schema initialized")
	return nil
}

// CreateGame inserts a new game row for two already-registered players
// and returns its id.
func (s *Store) CreateGame(ctx context.Context, player0, player1 uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO games (id, player0_id, player1_id) VALUES ($1, $2, $3)`,
		id, player0, player1)
	return id, err
}

// AppendMove persists the next move in a game's log. The (game_id,
// ordinal) primary key rejects a second move with an ordinal already
// stored, so the same submission cannot be persisted twice.
func (s *Store) AppendMove(ctx context.Context, gameID uuid.UUID, mv models.Move) error {
	row := encodeMove(mv)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO moves (game_id, ordinal, player, move_kind, kind, rotation, pos_y, pos_x, token_id, region_idx)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, gameID, row.ordinal, row.player, row.moveKind, row.kind, row.rotation, row.posY, row.posX, row.tokenID, row.regionIdx)
	return err
}

// LoadMoves returns every persisted move for a game, in ordinal order —
// the exact sequence internal/engine.Replay expects.
func (s *Store) LoadMoves(ctx context.Context, gameID uuid.UUID) ([]models.Move, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ordinal, player, move_kind, kind, rotation, pos_y, pos_x, token_id, region_idx
		FROM moves WHERE game_id = $1 ORDER BY ordinal ASC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Move
	for rows.Next() {
		var r moveRow
		if err := rows.Scan(&r.ordinal, &r.player, &r.moveKind, &r.kind, &r.rotation, &r.posY, &r.posX, &r.tokenID, &r.regionIdx); err != nil {
			return nil, err
		}
		out = append(out, r.decode())
	}
	return out, rows.Err()
}

// MovesSince returns persisted moves with ordinal strictly greater than
// after, in ordinal order.
func (s *Store) MovesSince(ctx context.Context, gameID uuid.UUID, after int) ([]models.Move, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ordinal, player, move_kind, kind, rotation, pos_y, pos_x, token_id, region_idx
		FROM moves WHERE game_id = $1 AND ordinal > $2 ORDER BY ordinal ASC
	`, gameID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Move
	for rows.Next() {
		var r moveRow
		if err := rows.Scan(&r.ordinal, &r.player, &r.moveKind, &r.kind, &r.rotation, &r.posY, &r.posX, &r.tokenID, &r.regionIdx); err != nil {
			return nil, err
		}
		out = append(out, r.decode())
	}
	return out, rows.Err()
}

// GamesMissingFinalPass returns game ids with no recorded final_pass_at,
// for internal/rescan's backfill sweep.
func (s *Store) GamesMissingFinalPass(ctx context.Context, limit int) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM games WHERE final_pass_at IS NULL ORDER BY created_at ASC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MarkFinalPassApplied stamps a game as having had FinalPass run, and
// persists the resulting scores in the same statement so the two never
// drift apart.
func (s *Store) MarkFinalPassApplied(ctx context.Context, gameID uuid.UUID, score0, score1 int) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE games SET final_pass_at = now(), player0_score = $2, player1_score = $3 WHERE id = $1`,
		gameID, score0, score1)
	return err
}

// GetPool exposes the connection pool for callers that need raw
// access, mirroring
// internal/db/postgres.go's GetPool.
func (s *Store) GetPool() *pgxpool.Pool { return s.pool }

// ErrNoRows re-exports pgx.ErrNoRows so callers don't need to import
// pgx directly just to check it.
var ErrNoRows = pgx.ErrNoRows

type moveRow struct {
	ordinal   int
	player    int16
	moveKind  int16
	kind      *int16
	rotation  *int16
	posY      *int32
	posX      *int32
	tokenID   *int16
	regionIdx *int16
}

func encodeMove(mv models.Move) moveRow {
	r := moveRow{ordinal: mv.Ordinal(), player: int16(mv.Player()), moveKind: int16(mv.Kind)}
	switch mv.Kind {
	case models.MoveTile:
		k := int16(mv.Tile.Kind)
		rot := int16(mv.Tile.Rotation)
		y := int32(mv.Tile.Position.Y)
		x := int32(mv.Tile.Position.X)
		r.kind, r.rotation, r.posY, r.posX = &k, &rot, &y, &x
	case models.MoveToken:
		y := int32(mv.Token.Position.Y)
		x := int32(mv.Token.Position.X)
		r.posY, r.posX = &y, &x
		if mv.Token.TokenID != models.NoToken {
			tok := int16(mv.Token.TokenID)
			idx := int16(mv.Token.RegionIdx)
			r.tokenID, r.regionIdx = &tok, &idx
		}
	case models.MoveDiscard:
		k := int16(mv.Discard.Kind)
		r.kind = &k
	}
	return r
}

func (r moveRow) decode() models.Move {
	switch models.MoveKind(r.moveKind) {
	case models.MoveTile:
		return models.NewTileMove(models.TileMove{
			Ordinal:  r.ordinal,
			Player:   int(r.player),
			Kind:     models.Kind(*r.kind),
			Rotation: int(*r.rotation),
			Position: models.Position{Y: int(*r.posY), X: int(*r.posX)},
		})
	case models.MoveToken:
		tm := models.TokenMove{
			Ordinal:   r.ordinal,
			Player:    int(r.player),
			TokenID:   models.NoToken,
			RegionIdx: models.NoRegion,
			Position:  models.Position{Y: int(*r.posY), X: int(*r.posX)},
		}
		if r.tokenID != nil {
			tm.TokenID = int(*r.tokenID)
			tm.RegionIdx = int(*r.regionIdx)
		}
		return models.NewTokenMove(tm)
	default:
		return models.NewDiscardMove(models.DiscardMove{
			Ordinal: r.ordinal,
			Player:  int(r.player),
			Kind:    models.Kind(*r.kind),
		})
	}
}
