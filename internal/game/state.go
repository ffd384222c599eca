// internal/game/state.go
package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Role identifies a participant's fixed seat in the match.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Opponent returns the other seat.
func (r Role) Opponent() Role {
	if r == RoleHost {
		return RoleGuest
	}
	return RoleHost
}

const (
	// MaxHandSize caps how many cards a player may hold.
	MaxHandSize = 5
	// WinningScore is the knockout count that ends the match.
	WinningScore = 3
)

// playerSide holds one participant's mutable match state. The deck is drawn
// from the tail so shuffle order is preserved.
type playerSide struct {
	SessionID uuid.UUID
	Deck      []*GameCard
	Hand      []*GameCard
	Active    *GameCard
	Score     int
}

// MatchState is the authoritative per-room game state. It has no locking of
// its own; the Hub serializes all access. Turn ownership is stored by role
// and the session id is derived, so a future reconnection feature would not
// touch match state.
type MatchState struct {
	RoomID  int64
	sides   map[Role]*playerSide
	current Role
}

// AttackResult describes what a resolved attack did.
type AttackResult struct {
	Damage     int
	KnockedOut bool
	// Finished is true when the attacker reached WinningScore; Winner is
	// only meaningful in that case.
	Finished bool
	Winner   Role
}

// NewMatchState builds the initial state for a freshly started match: both
// decks independently Fisher-Yates shuffled, hands empty, no actives,
// scores zero, host to move.
func NewMatchState(roomID int64, hostSID, guestSID uuid.UUID, hostCards, guestCards []*GameCard, rng *rand.Rand) *MatchState {
	hostDeck := make([]*GameCard, len(hostCards))
	copy(hostDeck, hostCards)
	guestDeck := make([]*GameCard, len(guestCards))
	copy(guestDeck, guestCards)

	rng.Shuffle(len(hostDeck), func(i, j int) {
		hostDeck[i], hostDeck[j] = hostDeck[j], hostDeck[i]
	})
	rng.Shuffle(len(guestDeck), func(i, j int) {
		guestDeck[i], guestDeck[j] = guestDeck[j], guestDeck[i]
	})

	return &MatchState{
		RoomID: roomID,
		sides: map[Role]*playerSide{
			RoleHost:  {SessionID: hostSID, Deck: hostDeck, Hand: []*GameCard{}},
			RoleGuest: {SessionID: guestSID, Deck: guestDeck, Hand: []*GameCard{}},
		},
		current: RoleHost,
	}
}

// SessionID returns the session handle seated at role.
func (m *MatchState) SessionID(role Role) uuid.UUID {
	return m.sides[role].SessionID
}

// RoleOf resolves a session handle to its seat.
func (m *MatchState) RoleOf(sessionID uuid.UUID) (Role, bool) {
	for role, side := range m.sides {
		if side.SessionID == sessionID {
			return role, true
		}
	}
	return "", false
}

// CurrentRole returns whose turn it is.
func (m *MatchState) CurrentRole() Role {
	return m.current
}

// CurrentSessionID derives the session handle of the player to move.
func (m *MatchState) CurrentSessionID() uuid.UUID {
	return m.sides[m.current].SessionID
}

// Draw moves cards from the tail of the actor's deck into their hand until
// the hand holds MaxHandSize cards or the deck runs out. Drawing does not
// advance the turn and is a no-op once the hand is full.
func (m *MatchState) Draw(role Role) error {
	if role != m.current {
		return ErrNotYourTurn
	}

	side := m.sides[role]
	for len(side.Hand) < MaxHandSize && len(side.Deck) > 0 {
		last := len(side.Deck) - 1
		side.Hand = append(side.Hand, side.Deck[last])
		side.Deck = side.Deck[:last]
	}
	return nil
}

// Play moves the hand card at idx onto the board as the actor's active.
// The rest of the hand keeps its order. Does not advance the turn.
func (m *MatchState) Play(role Role, idx int) error {
	if role != m.current {
		return ErrNotYourTurn
	}

	side := m.sides[role]
	if idx < 0 || idx >= len(side.Hand) {
		return ErrInvalidIndex
	}
	if side.Active != nil {
		return ErrAlreadyActive
	}

	side.Active = side.Hand[idx]
	side.Hand = append(side.Hand[:idx], side.Hand[idx+1:]...)
	return nil
}

// Attack resolves the actor's active attacking the opponent's active. A
// knockout clears the defender's board and scores for the attacker. The
// turn always passes to the opponent, knockout or not.
func (m *MatchState) Attack(role Role) (*AttackResult, error) {
	if role != m.current {
		return nil, ErrNotYourTurn
	}

	attacker := m.sides[role]
	defender := m.sides[role.Opponent()]
	if attacker.Active == nil || defender.Active == nil {
		return nil, ErrNoActiveCard
	}

	res := &AttackResult{
		Damage: Damage(attacker.Active.Attack, attacker.Active.Type, defender.Active.Type),
	}
	defender.Active.HP -= res.Damage
	if defender.Active.HP <= 0 {
		defender.Active = nil
		attacker.Score++
		res.KnockedOut = true
		if attacker.Score >= WinningScore {
			res.Finished = true
			res.Winner = role
		}
	}

	m.current = role.Opponent()
	return res, nil
}

// EndTurn hands the turn to the opponent with no other state change.
func (m *MatchState) EndTurn(role Role) error {
	if role != m.current {
		return ErrNotYourTurn
	}
	m.current = role.Opponent()
	return nil
}

// Score returns the knockout count of the given seat.
func (m *MatchState) Score(role Role) int {
	return m.sides[role].Score
}
