// internal/game/room.go
package game

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus is the matchmaking state of a room.
type RoomStatus string

const (
	RoomWaiting RoomStatus = "waiting"
	RoomInGame  RoomStatus = "in-game"
)

// Participant ties a seated player to their live session and chosen deck.
type Participant struct {
	SessionID uuid.UUID
	UserID    int64
	Username  string
	DeckID    int64
}

// Room is a matchmaking slot. A waiting room has no guest; an in-game room
// has both seats filled and, until the match ends, a MatchState keyed by its
// id in the hub.
type Room struct {
	ID        int64
	Status    RoomStatus
	Host      Participant
	Guest     *Participant
	CreatedAt time.Time
}

// PublicRoomView is the projection of a room shown on the waiting list. It
// never exposes session handles or deck contents.
type PublicRoomView struct {
	ID           int64  `json:"id"`
	HostUsername string `json:"hostUsername"`
	HostUserID   int64  `json:"hostUserId"`
	CreatedAt    string `json:"createdAt"`
}

// PublicView projects the room for the waiting list.
func (r *Room) PublicView() PublicRoomView {
	return PublicRoomView{
		ID:           r.ID,
		HostUsername: r.Host.Username,
		HostUserID:   r.Host.UserID,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// HasSession reports whether the session occupies either seat.
func (r *Room) HasSession(sessionID uuid.UUID) bool {
	if r.Host.SessionID == sessionID {
		return true
	}
	return r.Guest != nil && r.Guest.SessionID == sessionID
}
