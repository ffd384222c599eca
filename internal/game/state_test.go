// internal/game/state_test.go
package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeck(prefix string, typ Type, hp, attack int) []*GameCard {
	cards := make([]*GameCard, DeckSize)
	for i := range cards {
		cards[i] = &GameCard{
			ID:     int64(i + 1),
			Name:   fmt.Sprintf("%s-%d", prefix, i+1),
			HP:     hp,
			Attack: attack,
			Type:   typ,
		}
	}
	return cards
}

func newTestMatch(t *testing.T) (*MatchState, uuid.UUID, uuid.UUID) {
	t.Helper()
	hostSID := uuid.New()
	guestSID := uuid.New()
	ms := NewMatchState(1,
		hostSID, guestSID,
		testDeck("ember", TypeFire, 10, 60),
		testDeck("sprout", TypeGrass, 60, 10),
		rand.New(rand.NewSource(1)),
	)
	return ms, hostSID, guestSID
}

// checkConservation asserts that deck + hand + active + knockouts against
// the side always accounts for the full starting deck.
func checkConservation(t *testing.T, ms *MatchState) {
	t.Helper()
	for role, s := range ms.sides {
		total := len(s.Deck) + len(s.Hand)
		if s.Active != nil {
			total++
		}
		knockouts := ms.sides[role.Opponent()].Score
		assert.Equal(t, DeckSize, total+knockouts, "card conservation for %s", role)
		assert.LessOrEqual(t, len(s.Hand), MaxHandSize)
		assert.GreaterOrEqual(t, s.Score, 0)
		assert.LessOrEqual(t, s.Score, WinningScore)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	host := testDeck("ember", TypeFire, 10, 60)
	ms := NewMatchState(1, uuid.New(), uuid.New(), host, testDeck("sprout", TypeGrass, 60, 10), rand.New(rand.NewSource(7)))

	wantIDs := map[int64]int{}
	for _, c := range host {
		wantIDs[c.ID]++
	}
	gotIDs := map[int64]int{}
	for _, c := range ms.sides[RoleHost].Deck {
		gotIDs[c.ID]++
	}
	assert.Equal(t, wantIDs, gotIDs)
	// The input slice itself must not be reordered.
	for i, c := range host {
		assert.Equal(t, int64(i+1), c.ID)
	}
}

func TestInitialState(t *testing.T) {
	ms, hostSID, _ := newTestMatch(t)

	assert.Equal(t, RoleHost, ms.CurrentRole())
	assert.Equal(t, hostSID, ms.CurrentSessionID())
	for _, s := range ms.sides {
		assert.Len(t, s.Deck, DeckSize)
		assert.Empty(t, s.Hand)
		assert.Nil(t, s.Active)
		assert.Zero(t, s.Score)
	}
	checkConservation(t, ms)
}

func TestDrawFillsHandFromDeckTail(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	tail := make([]*GameCard, MaxHandSize)
	deck := ms.sides[RoleHost].Deck
	copy(tail, deck[len(deck)-MaxHandSize:])

	require.NoError(t, ms.Draw(RoleHost))

	side := ms.sides[RoleHost]
	assert.Len(t, side.Hand, MaxHandSize)
	assert.Len(t, side.Deck, DeckSize-MaxHandSize)
	// Cards leave the deck from the tail.
	for i, c := range side.Hand {
		assert.Same(t, tail[len(tail)-1-i], c)
	}
	// Drawing does not advance the turn.
	assert.Equal(t, RoleHost, ms.CurrentRole())
	checkConservation(t, ms)
}

func TestDrawIsIdempotentOnceFull(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	require.NoError(t, ms.Draw(RoleHost))

	before := make([]*GameCard, len(ms.sides[RoleHost].Hand))
	copy(before, ms.sides[RoleHost].Hand)

	require.NoError(t, ms.Draw(RoleHost))
	assert.Equal(t, before, ms.sides[RoleHost].Hand)
	assert.Len(t, ms.sides[RoleHost].Deck, DeckSize-MaxHandSize)
}

func TestDrawOutOfTurn(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	assert.ErrorIs(t, ms.Draw(RoleGuest), ErrNotYourTurn)
	assert.Empty(t, ms.sides[RoleGuest].Hand)
}

func TestPlayPreservesHandOrder(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	require.NoError(t, ms.Draw(RoleHost))

	hand := ms.sides[RoleHost].Hand
	played := hand[2]
	rest := []*GameCard{hand[0], hand[1], hand[3], hand[4]}

	require.NoError(t, ms.Play(RoleHost, 2))

	side := ms.sides[RoleHost]
	assert.Same(t, played, side.Active)
	assert.Equal(t, rest, side.Hand)
	assert.Equal(t, RoleHost, ms.CurrentRole())
	checkConservation(t, ms)
}

func TestPlayValidation(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	require.NoError(t, ms.Draw(RoleHost))

	assert.ErrorIs(t, ms.Play(RoleGuest, 0), ErrNotYourTurn)
	assert.ErrorIs(t, ms.Play(RoleHost, -1), ErrInvalidIndex)
	assert.ErrorIs(t, ms.Play(RoleHost, MaxHandSize), ErrInvalidIndex)

	require.NoError(t, ms.Play(RoleHost, 0))
	assert.ErrorIs(t, ms.Play(RoleHost, 0), ErrAlreadyActive)
}

// setActives skips the draw/play dance and puts chosen cards on both boards.
func setActives(ms *MatchState, host, guest *GameCard) {
	ms.sides[RoleHost].Active = host
	ms.sides[RoleGuest].Active = guest
}

func TestAttackRequiresBothActives(t *testing.T) {
	ms, _, _ := newTestMatch(t)

	_, err := ms.Attack(RoleHost)
	assert.ErrorIs(t, err, ErrNoActiveCard)

	ms.sides[RoleHost].Active = &GameCard{ID: 100, HP: 10, Attack: 10, Type: TypeFire}
	_, err = ms.Attack(RoleHost)
	assert.ErrorIs(t, err, ErrNoActiveCard)
}

func TestAttackWithTypeAdvantage(t *testing.T) {
	ms, _, guestSID := newTestMatch(t)
	// Conservation bookkeeping: actives come out of each side's deck.
	ms.sides[RoleHost].Active = ms.sides[RoleHost].Deck[9]
	ms.sides[RoleHost].Deck = ms.sides[RoleHost].Deck[:9]
	ms.sides[RoleGuest].Active = ms.sides[RoleGuest].Deck[9]
	ms.sides[RoleGuest].Deck = ms.sides[RoleGuest].Deck[:9]

	res, err := ms.Attack(RoleHost)
	require.NoError(t, err)

	// Fire attack=60 against grass hp=60: doubled, knocked out in one hit.
	assert.Equal(t, 120, res.Damage)
	assert.True(t, res.KnockedOut)
	assert.False(t, res.Finished)
	assert.Nil(t, ms.sides[RoleGuest].Active)
	assert.Equal(t, 1, ms.sides[RoleHost].Score)
	// The turn passes even on a knockout.
	assert.Equal(t, RoleGuest, ms.CurrentRole())
	assert.Equal(t, guestSID, ms.CurrentSessionID())
	checkConservation(t, ms)
}

func TestAttackChipDamage(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	setActives(ms,
		&GameCard{ID: 100, HP: 10, Attack: 10, Type: TypeGrass},
		&GameCard{ID: 200, HP: 60, Attack: 10, Type: TypeFire},
	)

	res, err := ms.Attack(RoleHost)
	require.NoError(t, err)

	// Grass attacking fire is a weak matchup: floor(10 * 0.5) = 5.
	assert.Equal(t, 5, res.Damage)
	assert.False(t, res.KnockedOut)
	assert.Equal(t, 55, ms.sides[RoleGuest].Active.HP)
	assert.Zero(t, ms.sides[RoleHost].Score)
	assert.Equal(t, RoleGuest, ms.CurrentRole())
}

func TestAttackFinishesAtWinningScore(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	ms.sides[RoleHost].Score = WinningScore - 1
	setActives(ms,
		&GameCard{ID: 100, HP: 10, Attack: 60, Type: TypeFire},
		&GameCard{ID: 200, HP: 30, Attack: 10, Type: TypeGrass},
	)

	res, err := ms.Attack(RoleHost)
	require.NoError(t, err)

	assert.True(t, res.Finished)
	assert.Equal(t, RoleHost, res.Winner)
	assert.Equal(t, WinningScore, ms.Score(RoleHost))
	assert.Zero(t, ms.Score(RoleGuest))
}

func TestEndTurnRoundTrip(t *testing.T) {
	ms, hostSID, guestSID := newTestMatch(t)

	assert.ErrorIs(t, ms.EndTurn(RoleGuest), ErrNotYourTurn)

	require.NoError(t, ms.EndTurn(RoleHost))
	assert.Equal(t, guestSID, ms.CurrentSessionID())

	require.NoError(t, ms.EndTurn(RoleGuest))
	assert.Equal(t, hostSID, ms.CurrentSessionID())
}

func TestEmptyHandedPlayerStillGetsTheTurn(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	// Guest with nothing left: empty deck, empty hand, no active.
	ms.sides[RoleGuest].Deck = nil
	require.NoError(t, ms.EndTurn(RoleHost))

	require.NoError(t, ms.Draw(RoleGuest))
	assert.Empty(t, ms.sides[RoleGuest].Hand)

	_, err := ms.Attack(RoleGuest)
	assert.ErrorIs(t, err, ErrNoActiveCard)

	require.NoError(t, ms.EndTurn(RoleGuest))
	assert.Equal(t, RoleHost, ms.CurrentRole())
}

func TestRoleOf(t *testing.T) {
	ms, hostSID, guestSID := newTestMatch(t)

	role, ok := ms.RoleOf(hostSID)
	require.True(t, ok)
	assert.Equal(t, RoleHost, role)

	role, ok = ms.RoleOf(guestSID)
	require.True(t, ok)
	assert.Equal(t, RoleGuest, role)

	_, ok = ms.RoleOf(uuid.New())
	assert.False(t, ok)
}
