// internal/game/view_test.go
package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewForIsAsymmetric(t *testing.T) {
	ms, hostSID, _ := newTestMatch(t)
	require.NoError(t, ms.Draw(RoleHost))
	require.NoError(t, ms.Play(RoleHost, 0))

	hostView := ms.ViewFor(RoleHost)
	assert.Len(t, hostView.Hand, 4)
	assert.NotNil(t, hostView.Active)
	assert.Equal(t, 5, hostView.DeckCount)
	assert.Nil(t, hostView.OpponentActive)
	assert.Equal(t, 10, hostView.OpponentDeckCount)
	assert.Equal(t, hostSID, hostView.CurrentPlayerSessionID)

	guestView := ms.ViewFor(RoleGuest)
	assert.Empty(t, guestView.Hand)
	assert.Equal(t, 10, guestView.DeckCount)
	// The host's hand is absent from the guest's view; the host's deck shows
	// up only as a count.
	assert.Equal(t, 5, guestView.OpponentDeckCount)
	assert.NotNil(t, guestView.OpponentActive)
	assert.Equal(t, hostSID, guestView.CurrentPlayerSessionID)
}

// A projected view is a snapshot: later mutations of the live match state
// must not show through cards already handed to the write pump.
func TestViewIsDetachedFromLiveState(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	setActives(ms,
		&GameCard{ID: 100, HP: 60, Attack: 10, Type: TypeGrass},
		&GameCard{ID: 200, HP: 60, Attack: 10, Type: TypeFire},
	)
	require.NoError(t, ms.Draw(RoleHost))

	hostView := ms.ViewFor(RoleHost)
	guestView := ms.ViewFor(RoleGuest)
	handCardID := hostView.Hand[0].ID

	// Guest's active takes damage after the views were captured.
	_, err := ms.Attack(RoleHost)
	require.NoError(t, err)
	ms.sides[RoleHost].Hand[0].HP = -99

	assert.Equal(t, 60, hostView.Active.HP)
	assert.Equal(t, 60, hostView.OpponentActive.HP)
	assert.Equal(t, 60, guestView.Active.HP)
	assert.Equal(t, handCardID, hostView.Hand[0].ID)
	assert.NotEqual(t, -99, hostView.Hand[0].HP)
}

// The serialized view must never contain the opponent's hand or deck
// contents, only counts.
func TestViewSerializesNoOpponentCards(t *testing.T) {
	ms, _, _ := newTestMatch(t)
	require.NoError(t, ms.Draw(RoleHost))

	data, err := json.Marshal(ms.ViewFor(RoleGuest))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	wantKeys := []string{
		"roomId", "hand", "active", "deckCount", "score",
		"opponentActive", "opponentDeckCount", "opponentScore",
		"currentPlayerSessionId",
	}
	assert.Len(t, decoded, len(wantKeys))
	for _, k := range wantKeys {
		assert.Contains(t, decoded, k)
	}
	// The host drew five fire cards; none of their names may leak into the
	// guest's payload.
	assert.NotContains(t, string(data), "ember")
}
