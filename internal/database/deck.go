// internal/database/deck.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duelyard/duelyard/internal/models"
)

// CreateDeck inserts a deck and its card list in one transaction. Card order
// is preserved through the position column.
func CreateDeck(ctx context.Context, userID int64, name string, cardIDs []int64) (*models.Deck, error) {
	deck := &models.Deck{UserID: userID, Name: name}

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `INSERT INTO decks (user_id, name) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRow(ctx, q, userID, name).Scan(&deck.ID); err != nil {
			return err
		}
		for pos, cardID := range cardIDs {
			_, err := tx.Exec(ctx,
				`INSERT INTO deck_cards (deck_id, card_id, position) VALUES ($1, $2, $3)`,
				deck.ID, cardID, pos)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert deck: %w", err)
	}
	return deck, nil
}

// ListDecksByUser returns the user's decks ordered by id.
func ListDecksByUser(ctx context.Context, userID int64) ([]models.Deck, error) {
	q := `SELECT id, user_id, name FROM decks WHERE user_id=$1 ORDER BY id`
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// GetDeckWithCards fetches a deck, its owner's username and its cards in
// position order. The found flag is false when no such deck exists.
func GetDeckWithCards(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error) {
	var out models.DeckWithCards
	q := `
	SELECT d.id, d.user_id, d.name, u.username
	FROM decks d
	JOIN users u ON u.id = d.user_id
	WHERE d.id=$1
	`
	err := DB.QueryRow(ctx, q, deckID).Scan(
		&out.Deck.ID, &out.Deck.UserID, &out.Deck.Name, &out.OwnerUsername,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	cq := `
	SELECT c.id, c.name, c.hp, c.attack, c.type
	FROM deck_cards dc
	JOIN cards c ON c.id = dc.card_id
	WHERE dc.deck_id=$1
	ORDER BY dc.position
	`
	rows, err := DB.Query(ctx, cq, deckID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.HP, &c.Attack, &c.Type); err != nil {
			return nil, false, err
		}
		out.Cards = append(out.Cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

// DeleteDeck removes a deck owned by userID. The bool reports whether a row
// was actually deleted.
func DeleteDeck(ctx context.Context, deckID, userID int64) (bool, error) {
	var deleted bool
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM deck_cards WHERE deck_id IN (SELECT id FROM decks WHERE id=$1 AND user_id=$2)`,
			deckID, userID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM decks WHERE id=$1 AND user_id=$2`, deckID, userID)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	return deleted, err
}
