package matchmaking

import (
	"context"
	"testing"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairedFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, defaultConfig())
	f.register(t, "alice", "", domain.StatusWaiting)
	f.register(t, "bob", "", domain.StatusWaiting)
	_, err := f.uc.ManualMatch(context.Background(), "alice", "bob")
	require.NoError(t, err)
	return f
}

func TestVerifyConfirmsBothSides(t *testing.T) {
	ctx := context.Background()
	f := pairedFixture(t)

	p, err := f.uc.Verify(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, p.Verified)

	for _, id := range []string{"alice", "bob"} {
		got := f.get(t, id)
		assert.True(t, got.Verified, id)
		assert.True(t, got.Matched, id)
		assert.Equal(t, domain.StatusMatched, got.Status, id)
		require.NotNil(t, got.VerifiedAt, id)
		assert.True(t, got.VerifiedAt.Equal(testNow), id)
	}

	match, err := f.store.Matches().GetByUsers(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, match.Completed)
	assert.Equal(t, domain.MatchStatusMatched, match.Status)
	require.NotNil(t, match.CompletedAt)

	assert.Contains(t, f.publisher.typesFor("bob"), domain.EventVerified)

	_, err = f.uc.Verify(ctx, "alice", "bob")
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
	_, err = f.uc.Verify(ctx, "bob", "alice")
	assert.ErrorIs(t, err, domain.ErrAlreadyVerified)
}

func TestVerifyRuleOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown participant", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		_, err := f.uc.Verify(ctx, "ghost", "x")
		assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
	})

	t.Run("no partner", func(t *testing.T) {
		f := newFixture(t, defaultConfig())
		f.register(t, "alice", "", domain.StatusWaiting)
		_, err := f.uc.Verify(ctx, "alice", "bob")
		assert.ErrorIs(t, err, domain.ErrNoPartner)
		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})

	t.Run("wrong code", func(t *testing.T) {
		f := pairedFixture(t)
		_, err := f.uc.Verify(ctx, "alice", "BOB")
		assert.ErrorIs(t, err, domain.ErrInvalidCode)
		_, err = f.uc.Verify(ctx, "alice", " bob")
		assert.ErrorIs(t, err, domain.ErrInvalidCode)

		// another registered participant's id is still the wrong code
		f.register(t, "carol", "", domain.StatusWaiting)
		_, err = f.uc.Verify(ctx, "alice", "carol")
		assert.ErrorIs(t, err, domain.ErrInvalidCode)
		assert.False(t, f.get(t, "alice").Verified)
		assert.False(t, f.get(t, "bob").Verified)
		assert.False(t, f.get(t, "carol").Verified)
	})

	t.Run("partner points elsewhere", func(t *testing.T) {
		f := pairedFixture(t)
		carol := f.register(t, "carol", "", domain.StatusWaiting)
		alice := "alice"
		carol.PartnerID = &alice
		carol.Status = domain.StatusPendingVerification
		require.NoError(t, f.store.Participants().Update(ctx, carol))

		_, err := f.uc.Verify(ctx, "carol", "alice")
		assert.ErrorIs(t, err, domain.ErrAsymmetricPair)
		assert.False(t, f.get(t, "carol").Verified)
		assert.False(t, f.get(t, "alice").Verified)
		assert.False(t, f.get(t, "bob").Verified)
	})

	t.Run("partner missing", func(t *testing.T) {
		f := pairedFixture(t)
		require.NoError(t, f.store.Participants().Delete(ctx, "bob"))
		_, err := f.uc.Verify(ctx, "alice", "bob")
		assert.ErrorIs(t, err, domain.ErrPartnerNotFound)
		assert.False(t, f.get(t, "alice").Verified)
	})
}

func TestVerifyWithoutMatchRecord(t *testing.T) {
	ctx := context.Background()
	f := pairedFixture(t)
	match, err := f.store.Matches().GetByUsers(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, f.store.Matches().Delete(ctx, match.ID))

	_, err = f.uc.Verify(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, f.get(t, "alice").Verified)
}
