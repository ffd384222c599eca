// internal/game/card.go
package game

import "github.com/duelyard/duelyard/internal/models"

// GameCard is an in-memory snapshot of a catalog card taken at match start.
// HP is mutable damage-tracking state; Attack and Type never change for the
// lifetime of the match.
type GameCard struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	HP     int    `json:"hp"`
	Attack int    `json:"attack"`
	Type   Type   `json:"type"`
}

func cardFromModel(c models.Card) *GameCard {
	return &GameCard{
		ID:     c.ID,
		Name:   c.Name,
		HP:     c.HP,
		Attack: c.Attack,
		Type:   Type(c.Type),
	}
}
