// internal/game/deck_loader.go
package game

import (
	"context"
	"fmt"

	"github.com/duelyard/duelyard/internal/models"
)

// DeckSize is the exact number of cards every playable deck holds.
const DeckSize = 10

// DeckSource is the external deck repository the loader reads from. The
// found flag is false when the deck does not exist; err is reserved for
// repository failures.
type DeckSource interface {
	DeckWithCards(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error)
}

// DeckSourceFunc adapts a plain function to the DeckSource interface.
type DeckSourceFunc func(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error)

func (f DeckSourceFunc) DeckWithCards(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error) {
	return f(ctx, deckID)
}

// LoadedDeck is a deck ready to enter a match: owner info plus game-card
// snapshots in repository order.
type LoadedDeck struct {
	DeckID        int64
	OwnerID       int64
	OwnerUsername string
	Cards         []*GameCard
}

// DeckLoader validates and converts repository decks into game decks.
type DeckLoader struct {
	src DeckSource
}

func NewDeckLoader(src DeckSource) *DeckLoader {
	return &DeckLoader{src: src}
}

// Load fetches deckID and checks it is playable by forUserID: the deck must
// exist, be owned by forUserID and hold exactly DeckSize cards. Storage is
// never mutated.
func (l *DeckLoader) Load(ctx context.Context, deckID, forUserID int64) (*LoadedDeck, error) {
	dw, found, err := l.src.DeckWithCards(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("deck repository: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("deck %d: %w", deckID, ErrNotFound)
	}
	if dw.Deck.UserID != forUserID {
		return nil, fmt.Errorf("deck %d owned by user %d: %w", deckID, dw.Deck.UserID, ErrForbidden)
	}
	if len(dw.Cards) != DeckSize {
		return nil, fmt.Errorf("deck %d has %d cards: %w", deckID, len(dw.Cards), ErrInvalidDeck)
	}

	cards := make([]*GameCard, 0, DeckSize)
	for _, c := range dw.Cards {
		cards = append(cards, cardFromModel(c))
	}
	return &LoadedDeck{
		DeckID:        dw.Deck.ID,
		OwnerID:       dw.Deck.UserID,
		OwnerUsername: dw.OwnerUsername,
		Cards:         cards,
	}, nil
}
