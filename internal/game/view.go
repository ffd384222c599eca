// internal/game/view.go
package game

import "github.com/google/uuid"

// GameStateView is the per-recipient projection of a MatchState. It is
// built structurally from the recipient's seat, so the opponent's hand and
// deck contents can never end up in an outbound message. The opponent's
// active card is public and included in full.
type GameStateView struct {
	RoomID                 int64       `json:"roomId"`
	Hand                   []*GameCard `json:"hand"`
	Active                 *GameCard   `json:"active"`
	DeckCount              int         `json:"deckCount"`
	Score                  int         `json:"score"`
	OpponentActive         *GameCard   `json:"opponentActive"`
	OpponentDeckCount      int         `json:"opponentDeckCount"`
	OpponentScore          int         `json:"opponentScore"`
	CurrentPlayerSessionID uuid.UUID   `json:"currentPlayerSessionId"`
}

// cloneCard copies a card so the view owns its own value. The live card
// keeps mutating (HP) after projection while the write pump marshals the
// snapshot from another goroutine.
func cloneCard(c *GameCard) *GameCard {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

// ViewFor projects the state for the player seated at role. The returned
// view holds card copies, never pointers into the live match state.
func (m *MatchState) ViewFor(role Role) *GameStateView {
	mine := m.sides[role]
	theirs := m.sides[role.Opponent()]

	hand := make([]*GameCard, len(mine.Hand))
	for i, c := range mine.Hand {
		hand[i] = cloneCard(c)
	}

	return &GameStateView{
		RoomID:                 m.RoomID,
		Hand:                   hand,
		Active:                 cloneCard(mine.Active),
		DeckCount:              len(mine.Deck),
		Score:                  mine.Score,
		OpponentActive:         cloneCard(theirs.Active),
		OpponentDeckCount:      len(theirs.Deck),
		OpponentScore:          theirs.Score,
		CurrentPlayerSessionID: m.CurrentSessionID(),
	}
}
