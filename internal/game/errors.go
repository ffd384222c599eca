// internal/game/errors.go
package game

import "errors"

// Action and lookup failures surfaced to clients. The error text is the
// wire-level code sent back in error events, so these must stay stable.
var (
	ErrBadRequest    = errors.New("BAD_REQUEST")
	ErrNotFound      = errors.New("NOT_FOUND")
	ErrForbidden     = errors.New("FORBIDDEN")
	ErrNotYourTurn   = errors.New("NOT_YOUR_TURN")
	ErrRoomFull      = errors.New("ROOM_FULL")
	ErrSelfJoin      = errors.New("SELF_JOIN")
	ErrInvalidDeck   = errors.New("INVALID_DECK")
	ErrInvalidIndex  = errors.New("INVALID_INDEX")
	ErrAlreadyActive = errors.New("ALREADY_ACTIVE")
	ErrNoActiveCard  = errors.New("NO_ACTIVE_CARD")
	ErrInternal      = errors.New("INTERNAL")
)

var knownErrors = []error{
	ErrBadRequest,
	ErrNotFound,
	ErrForbidden,
	ErrNotYourTurn,
	ErrRoomFull,
	ErrSelfJoin,
	ErrInvalidDeck,
	ErrInvalidIndex,
	ErrAlreadyActive,
	ErrNoActiveCard,
	ErrInternal,
}

// Code maps an error to its wire code. Anything outside the known set
// (deck repository failures, panics recovered by the dispatcher) collapses
// to INTERNAL so internals never leak to clients.
func Code(err error) string {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ErrInternal.Error()
}
