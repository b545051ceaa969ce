package notes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeen(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService()

	require.NoError(t, svc.Log(ctx, "#x", "bob", "good morning"))
	clock.Advance(time.Hour)
	require.NoError(t, svc.Log(ctx, "#x", "bob", "good night"))

	t.Run("first returns the earliest line", func(t *testing.T) {
		msg, err := svc.Seen(ctx, "#x", "bob", true)
		require.NoError(t, err)
		assert.Equal(t, "good morning", msg.Text)
	})

	t.Run("last returns the latest line", func(t *testing.T) {
		msg, err := svc.Seen(ctx, "#x", "bob", false)
		require.NoError(t, err)
		assert.Equal(t, "good night", msg.Text)
	})

	t.Run("unknown user was never seen", func(t *testing.T) {
		_, err := svc.Seen(ctx, "#x", "ghost", false)
		assert.ErrorIs(t, err, ErrNeverSeen)
	})

	t.Run("channel-scoped", func(t *testing.T) {
		_, err := svc.Seen(ctx, "#y", "bob", false)
		assert.ErrorIs(t, err, ErrNeverSeen)
	})

	t.Run("self lookup is its own error", func(t *testing.T) {
		_, err := svc.Seen(ctx, "#x", "notesbot", false)
		assert.ErrorIs(t, err, ErrSelfLookup)

		_, err = svc.Seen(ctx, "#x", "NotesBot", false)
		assert.ErrorIs(t, err, ErrSelfLookup)
	})
}

func TestSeenTotals(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService()

	// Two lines in May, three in June; "now" is mid-June.
	clock.now = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Log(ctx, "#x", "bob", "may one"))
	require.NoError(t, svc.Log(ctx, "#x", "bob", "may two"))

	clock.now = time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Log(ctx, "#x", "bob", "june one"))
	require.NoError(t, svc.Log(ctx, "#x", "bob", "june two"))
	require.NoError(t, svc.Log(ctx, "#x", "bob", "june three"))
	clock.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	totals, err := svc.Totals(ctx, "#x", "bob")
	require.NoError(t, err)
	assert.Equal(t, 5, totals.Total)
	assert.Equal(t, 3, totals.ThisMonth)
	assert.LessOrEqual(t, totals.ThisMonth, totals.Total)

	t.Run("never seen", func(t *testing.T) {
		_, err := svc.Totals(ctx, "#x", "ghost")
		assert.ErrorIs(t, err, ErrNeverSeen)
	})

	t.Run("self lookup", func(t *testing.T) {
		_, err := svc.Totals(ctx, "#x", "notesbot")
		assert.ErrorIs(t, err, ErrSelfLookup)
	})
}
