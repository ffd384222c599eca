// internal/database/card.go
package database

import (
	"context"

	"github.com/duelyard/duelyard/internal/models"
)

// ListCards returns the whole card catalog ordered by id.
func ListCards(ctx context.Context) ([]models.Card, error) {
	q := `SELECT id, name, hp, attack, type FROM cards ORDER BY id`
	rows, err := DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.HP, &c.Attack, &c.Type); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
