// internal/game/hub.go
package game

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/duelyard/duelyard/internal/cache"
)

// Outbound event names.
const (
	EventRoomsList        = "roomsList"
	EventRoomCreated      = "roomCreated"
	EventRoomsListUpdated = "roomsListUpdated"
	EventGameStarted      = "gameStarted"
	EventGameStateUpdated = "gameStateUpdated"
	EventGameEnded        = "gameEnded"
	EventError            = "error"
)

// Client identifies an authenticated session acting on the hub.
type Client struct {
	SessionID uuid.UUID
	UserID    int64
	Email     string
}

// Sender delivers outbound events. The websocket session store implements
// it; tests substitute a recorder. Sends must not block, since the hub
// calls them while holding its lock.
type Sender interface {
	Send(sessionID uuid.UUID, event string, payload interface{})
	Broadcast(event string, payload interface{})
}

// MatchRole is one seat's slice of the gameStarted payload.
type MatchRole struct {
	Role   Role  `json:"role"`
	UserID int64 `json:"userId"`
	DeckID int64 `json:"deckId"`
}

// GameStartedPayload tells each participant their seat and their opponent's.
type GameStartedPayload struct {
	RoomID   int64     `json:"roomId"`
	You      MatchRole `json:"you"`
	Opponent MatchRole `json:"opponent"`
}

// GameEndedPayload is broadcast to both participants when a score reaches
// WinningScore.
type GameEndedPayload struct {
	RoomID          int64     `json:"roomId"`
	WinnerSessionID uuid.UUID `json:"winnerSessionId"`
	HostScore       int       `json:"hostScore"`
	GuestScore      int       `json:"guestScore"`
}

// Hub is the process-wide registry: rooms, match states and the monotonic
// room-id counter, all behind one mutex. It is passed by reference to the
// dispatcher rather than living in a package-level variable. The lock is
// never held across a deck-repository call; preconditions are re-checked
// after every such call returns.
type Hub struct {
	mu         sync.Mutex
	rooms      map[int64]*Room
	games      map[int64]*MatchState
	nextRoomID int64

	loader *DeckLoader
	sender Sender
	feed   *cache.Feed
	log    *logrus.Logger
	rng    *rand.Rand
}

// NewHub builds an empty registry.
func NewHub(loader *DeckLoader, sender Sender, feed *cache.Feed, log *logrus.Logger) *Hub {
	return &Hub{
		rooms:  make(map[int64]*Room),
		games:  make(map[int64]*MatchState),
		loader: loader,
		sender: sender,
		feed:   feed,
		log:    log,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// publish pushes a record onto the match-event feed without blocking the
// caller. Safe on a disabled (nil) feed.
func (h *Hub) publish(eventType string, roomID, actorUserID int64, payload map[string]interface{}) {
	record := cache.MatchEventRecord{
		EventType:   eventType,
		RoomID:      roomID,
		ActorUserID: actorUserID,
		Payload:     payload,
		Timestamp:   time.Now().Unix(),
	}
	go h.feed.Publish(record)
}

// waitingViewsLocked snapshots the waiting list ordered by room id.
// Caller holds h.mu.
func (h *Hub) waitingViewsLocked() []PublicRoomView {
	views := make([]PublicRoomView, 0)
	for _, r := range h.rooms {
		if r.Status == RoomWaiting {
			views = append(views, r.PublicView())
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// GetRooms replies to the requesting session with the current waiting list.
func (h *Hub) GetRooms(c Client) error {
	h.mu.Lock()
	views := h.waitingViewsLocked()
	h.mu.Unlock()

	h.sender.Send(c.SessionID, EventRoomsList, views)
	return nil
}

// CreateRoom loads and validates the host's deck, then registers a waiting
// room. The host receives roomCreated and everyone gets the updated list.
func (h *Hub) CreateRoom(ctx context.Context, c Client, deckID int64) error {
	loaded, err := h.loader.Load(ctx, deckID, c.UserID)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.nextRoomID++
	room := &Room{
		ID:     h.nextRoomID,
		Status: RoomWaiting,
		Host: Participant{
			SessionID: c.SessionID,
			UserID:    c.UserID,
			Username:  loaded.OwnerUsername,
			DeckID:    deckID,
		},
		CreatedAt: time.Now(),
	}
	h.rooms[room.ID] = room
	view := room.PublicView()
	views := h.waitingViewsLocked()

	h.sender.Send(c.SessionID, EventRoomCreated, view)
	h.sender.Broadcast(EventRoomsListUpdated, views)
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{
		"room": room.ID,
		"user": c.UserID,
		"deck": deckID,
	}).Info("room created")
	h.publish("room_created", room.ID, c.UserID, nil)
	return nil
}

// JoinRoom seats the guest, reloads both decks through the deck repository
// and starts the match. The room's preconditions are checked before the
// deck calls and re-checked after, since the host may disconnect while the
// repository round-trip is in flight.
func (h *Hub) JoinRoom(ctx context.Context, c Client, roomID, deckID int64) error {
	h.mu.Lock()
	room, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return ErrNotFound
	}
	if room.Status != RoomWaiting || room.Guest != nil {
		h.mu.Unlock()
		return ErrRoomFull
	}
	if room.Host.UserID == c.UserID {
		h.mu.Unlock()
		return ErrSelfJoin
	}
	hostDeckID := room.Host.DeckID
	hostUserID := room.Host.UserID
	h.mu.Unlock()

	guestDeck, err := h.loader.Load(ctx, deckID, c.UserID)
	if err != nil {
		return err
	}
	// The room only stores the host's deck id, so the cards are recovered
	// through the same repository interface.
	hostDeck, err := h.loader.Load(ctx, hostDeckID, hostUserID)
	if err != nil {
		return err
	}

	h.mu.Lock()
	room, ok = h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return ErrNotFound
	}
	if room.Status != RoomWaiting || room.Guest != nil {
		h.mu.Unlock()
		return ErrRoomFull
	}

	room.Guest = &Participant{
		SessionID: c.SessionID,
		UserID:    c.UserID,
		Username:  guestDeck.OwnerUsername,
		DeckID:    deckID,
	}
	room.Status = RoomInGame

	ms := NewMatchState(room.ID, room.Host.SessionID, c.SessionID, hostDeck.Cards, guestDeck.Cards, h.rng)
	h.games[room.ID] = ms

	hostRole := MatchRole{Role: RoleHost, UserID: room.Host.UserID, DeckID: room.Host.DeckID}
	guestRole := MatchRole{Role: RoleGuest, UserID: c.UserID, DeckID: deckID}
	h.sender.Send(room.Host.SessionID, EventGameStarted, GameStartedPayload{
		RoomID: room.ID, You: hostRole, Opponent: guestRole,
	})
	h.sender.Send(c.SessionID, EventGameStarted, GameStartedPayload{
		RoomID: room.ID, You: guestRole, Opponent: hostRole,
	})
	h.emitStateLocked(ms)
	h.sender.Broadcast(EventRoomsListUpdated, h.waitingViewsLocked())
	h.mu.Unlock()

	h.log.WithFields(logrus.Fields{
		"room":  roomID,
		"host":  hostUserID,
		"guest": c.UserID,
	}).Info("match started")
	h.publish("match_started", roomID, c.UserID, map[string]interface{}{
		"host_user_id":  hostUserID,
		"guest_user_id": c.UserID,
	})
	return nil
}

// emitStateLocked sends each participant their own projection of the match.
// Caller holds h.mu.
func (h *Hub) emitStateLocked(ms *MatchState) {
	for _, role := range []Role{RoleHost, RoleGuest} {
		h.sender.Send(ms.SessionID(role), EventGameStateUpdated, ms.ViewFor(role))
	}
}

// matchForLocked resolves the match and the actor's seat. Caller holds
// h.mu. A room id with no live match is a malformed request, not a lookup
// miss: NOT_FOUND is reserved for room/deck lookups in createRoom/joinRoom.
func (h *Hub) matchForLocked(c Client, roomID int64) (*MatchState, Role, error) {
	ms, ok := h.games[roomID]
	if !ok {
		return nil, "", ErrBadRequest
	}
	role, ok := ms.RoleOf(c.SessionID)
	if !ok {
		return nil, "", ErrForbidden
	}
	return ms, role, nil
}

// DrawCards refills the actor's hand from their deck.
func (h *Hub) DrawCards(c Client, roomID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ms, role, err := h.matchForLocked(c, roomID)
	if err != nil {
		return err
	}
	if err := ms.Draw(role); err != nil {
		return err
	}
	h.emitStateLocked(ms)
	return nil
}

// PlayCard puts the actor's hand card at cardIndex on the board.
func (h *Hub) PlayCard(c Client, roomID int64, cardIndex int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ms, role, err := h.matchForLocked(c, roomID)
	if err != nil {
		return err
	}
	if err := ms.Play(role, cardIndex); err != nil {
		return err
	}
	h.emitStateLocked(ms)
	return nil
}

// Attack resolves an attack. On a deciding knockout both players receive
// gameEnded and the match state is dropped; the room record stays until a
// disconnect sweeps it, and since it is no longer waiting it never shows up
// in listings.
func (h *Hub) Attack(c Client, roomID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ms, role, err := h.matchForLocked(c, roomID)
	if err != nil {
		return err
	}
	res, err := ms.Attack(role)
	if err != nil {
		return err
	}

	if res.Finished {
		payload := GameEndedPayload{
			RoomID:          roomID,
			WinnerSessionID: ms.SessionID(res.Winner),
			HostScore:       ms.Score(RoleHost),
			GuestScore:      ms.Score(RoleGuest),
		}
		h.sender.Send(ms.SessionID(RoleHost), EventGameEnded, payload)
		h.sender.Send(ms.SessionID(RoleGuest), EventGameEnded, payload)
		delete(h.games, roomID)

		h.log.WithFields(logrus.Fields{
			"room":   roomID,
			"winner": res.Winner,
		}).Info("match ended")
		h.publish("match_ended", roomID, c.UserID, map[string]interface{}{
			"winner":      string(res.Winner),
			"host_score":  payload.HostScore,
			"guest_score": payload.GuestScore,
		})
		return nil
	}

	h.emitStateLocked(ms)
	h.publish("attack_resolved", roomID, c.UserID, map[string]interface{}{
		"damage":      res.Damage,
		"knocked_out": res.KnockedOut,
	})
	return nil
}

// EndTurn passes the turn to the opponent.
func (h *Hub) EndTurn(c Client, roomID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ms, role, err := h.matchForLocked(c, roomID)
	if err != nil {
		return err
	}
	if err := ms.EndTurn(role); err != nil {
		return err
	}
	h.emitStateLocked(ms)
	return nil
}

// RemoveSession deletes every room the session occupies, tearing down any
// match state with it, and broadcasts the new waiting list once if anything
// changed. Called from the websocket teardown path, so it must succeed even
// when emission to other sessions fails.
func (h *Hub) RemoveSession(sessionID uuid.UUID) {
	h.mu.Lock()
	var removed []int64
	for id, room := range h.rooms {
		if room.HasSession(sessionID) {
			delete(h.rooms, id)
			delete(h.games, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		h.sender.Broadcast(EventRoomsListUpdated, h.waitingViewsLocked())
	}
	h.mu.Unlock()

	for _, id := range removed {
		h.log.WithFields(logrus.Fields{
			"room":    id,
			"session": sessionID,
		}).Info("room closed")
		h.publish("room_closed", id, 0, nil)
	}
}
