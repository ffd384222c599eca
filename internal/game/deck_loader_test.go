// internal/game/deck_loader_test.go
package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duelyard/duelyard/internal/models"
)

func stubDeck(deckID, ownerID int64, owner string, count int) *models.DeckWithCards {
	dw := &models.DeckWithCards{
		Deck:          models.Deck{ID: deckID, UserID: ownerID, Name: "stub"},
		OwnerUsername: owner,
	}
	for i := 0; i < count; i++ {
		dw.Cards = append(dw.Cards, models.Card{
			ID: int64(i + 1), Name: fmt.Sprintf("card-%d", i+1),
			HP: 50, Attack: 20, Type: "fire",
		})
	}
	return dw
}

func TestLoadDeckSuccess(t *testing.T) {
	loader := NewDeckLoader(DeckSourceFunc(func(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error) {
		return stubDeck(deckID, 1, "alice", DeckSize), true, nil
	}))

	loaded, err := loader.Load(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(7), loaded.DeckID)
	assert.Equal(t, "alice", loaded.OwnerUsername)
	require.Len(t, loaded.Cards, DeckSize)
	// Repository order is preserved.
	for i, c := range loaded.Cards {
		assert.Equal(t, int64(i+1), c.ID)
		assert.Equal(t, TypeFire, c.Type)
	}
}

func TestLoadDeckNotFound(t *testing.T) {
	loader := NewDeckLoader(DeckSourceFunc(func(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error) {
		return nil, false, nil
	}))

	_, err := loader.Load(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDeckForbidden(t *testing.T) {
	loader := NewDeckLoader(DeckSourceFunc(func(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error) {
		return stubDeck(deckID, 2, "bob", DeckSize), true, nil
	}))

	_, err := loader.Load(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLoadDeckWrongSize(t *testing.T) {
	loader := NewDeckLoader(DeckSourceFunc(func(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error) {
		return stubDeck(deckID, 1, "alice", DeckSize-1), true, nil
	}))

	_, err := loader.Load(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrInvalidDeck)
}

func TestLoadDeckRepositoryFailure(t *testing.T) {
	loader := NewDeckLoader(DeckSourceFunc(func(ctx context.Context, deckID int64) (*models.DeckWithCards, bool, error) {
		return nil, false, errors.New("connection refused")
	}))

	_, err := loader.Load(context.Background(), 7, 1)
	require.Error(t, err)
	// Repository failures surface to clients as INTERNAL, nothing more.
	assert.Equal(t, "INTERNAL", Code(err))
}
