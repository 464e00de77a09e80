package models

// ClosureEvent records one scored-and-released region, in the order the
// scoring sweep detected it.
type ClosureEvent struct {
	Feature  FeatureType
	TokenIDs []int
	Points   int
	// Players receiving Points (plurality; both on a tie).
	Players []int
}

// TileInstance is a placed tile: its kind, rotation, a monotonic instance
// id, the base offset into the global region-id space, and the follower
// currently sitting on it (if any).
type TileInstance struct {
	ID         int
	Kind       Kind
	Rotation   int
	Position   Position
	RegionBase int

	TokenID   int // NoToken if none
	RegionIdx int // NoRegion if TokenID == NoToken
}

// Status is the materialized result of replaying a move list: the board,
// score, token pools, and the bookkeeping the caller needs to drive the
// next move.
type Status struct {
	Board map[Position]*TileInstance

	// Player score and the ids of the tokens still in each pool,
	// indexed by player (0/1).
	Score           [2]int
	TokensInPool    [2][]int
	RegionWatermark int

	// LegalFollowerPositions lists the region-within-tile indices the
	// last tile move may receive a follower on (plus the implicit skip).
	LegalFollowerPositions []int

	// ClosureEvents emitted since the previous token move.
	ClosureEvents []ClosureEvent

	NextOrdinal int
}
