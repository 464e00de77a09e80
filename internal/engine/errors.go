package engine

import "fmt"

// InvalidReason enumerates why a move was rejected, so callers can surface
// a structured detail rather than parsing an error string.
type InvalidReason int

const (
	ReasonPositionOccupied InvalidReason = iota
	ReasonNoNeighbor
	ReasonEdgeMismatch
	ReasonTokenAlreadyPresent
	ReasonTokenNotAvailable
	ReasonUnknownKind
	ReasonNoTileAtPosition
)

func (r InvalidReason) String() string {
	switch r {
	case ReasonPositionOccupied:
		return "position occupied"
	case ReasonNoNeighbor:
		return "no neighbor"
	case ReasonEdgeMismatch:
		return "edge mismatch"
	case ReasonTokenAlreadyPresent:
		return "token already present"
	case ReasonTokenNotAvailable:
		return "token not available"
	case ReasonUnknownKind:
		return "unknown tile kind"
	case ReasonNoTileAtPosition:
		return "no tile at position"
	default:
		return "unknown"
	}
}

// MovesInvalidError reports a move that violates game legality. It never
// mutates state: replay computes a fresh Status and only returns this
// error once it is certain the move cannot be applied.
type MovesInvalidError struct {
	Ordinal int
	Reason  InvalidReason
	Detail  string
}

func (e *MovesInvalidError) Error() string {
	return fmt.Sprintf("move %d invalid: %s: %s", e.Ordinal, e.Reason, e.Detail)
}

// InternalError marks an invariant breach inside the engine: a
// programmer error, never a legitimate caller input. Debug builds are
// expected to assert before this is ever constructed; release builds
// surface it so the collaborator can log and fail the request instead
// of crashing the process.
type InternalError struct {
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal invariant violation: %s", e.Detail)
}

func invalid(ordinal int, reason InvalidReason, format string, args ...any) error {
	return &MovesInvalidError{Ordinal: ordinal, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

func internal(format string, args ...any) error {
	return &InternalError{Detail: fmt.Sprintf(format, args...)}
}
