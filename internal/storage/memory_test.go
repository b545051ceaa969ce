package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/notes-bot/internal/models"
)

func TestMemoryPopTells(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	require.NoError(t, s.CreateTell(ctx, &models.Tell{Recipient: "bob", Sender: "alice", Text: "one", Time: now}))
	require.NoError(t, s.CreateTell(ctx, &models.Tell{Recipient: "carol", Sender: "alice", Text: "other", Time: now}))
	require.NoError(t, s.CreateTell(ctx, &models.Tell{Recipient: "bob", Sender: "dan", Text: "two", Time: now}))

	tells, err := s.PopTells(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, tells, 2)
	assert.Equal(t, "one", tells[0].Text)
	assert.Equal(t, "two", tells[1].Text)

	// Pop is fetch+delete in one step.
	again, err := s.PopTells(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, again)

	has, err := s.HasTells(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestMemoryOutboundIgnoresTopics(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	require.NoError(t, s.CreateTell(ctx, &models.Tell{Recipient: "bob", Sender: "eve", Text: "plain", Time: now}))
	require.NoError(t, s.CreateTell(ctx, &models.Tell{Recipient: "bob", Sender: "eve", Text: "topical", Time: now, Topic: "ops"}))

	outbound, err := s.OutboundTells(ctx, "eve")
	require.NoError(t, err)
	require.Len(t, outbound, 1)
	assert.Equal(t, "plain", outbound[0].Text)

	purged, err := s.PurgeOutbound(ctx, "eve", "")
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	// The topic-tagged tell is still there for its recipient.
	tells, err := s.PopTells(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, tells, 1)
	assert.Equal(t, "topical", tells[0].Text)
}

func TestMemoryPopDueAlerts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	require.NoError(t, s.CreateAlert(ctx, &models.Alert{User: "carol", Time: now.Add(-time.Minute), Text: "past"}))
	require.NoError(t, s.CreateAlert(ctx, &models.Alert{User: "carol", Time: now, Text: "exact"}))
	require.NoError(t, s.CreateAlert(ctx, &models.Alert{User: "carol", Time: now.Add(time.Minute), Text: "future"}))

	due, err := s.PopDueAlerts(ctx, "carol", now)
	require.NoError(t, err)
	require.Len(t, due, 2)

	remaining, err := s.AlertsByUser(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "future", remaining[0].Text)
}

func TestMemoryQuoteOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	require.NoError(t, s.CreateQuote(ctx, &models.Quote{User: "bob", Channel: "#x", Time: "2021-03-01", Text: "newest"}))
	require.NoError(t, s.CreateQuote(ctx, &models.Quote{User: "bob", Channel: "#x", Time: "2021-01-01", Text: "oldest"}))

	quote, err := s.QuoteAt(ctx, "#x", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, "oldest", quote.Text)

	quote, err = s.QuoteAt(ctx, "#x", "", 2)
	require.NoError(t, err)
	assert.Equal(t, "newest", quote.Text)

	_, err = s.QuoteAt(ctx, "#x", "bob", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRandomMessages(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()
	now := time.Now()

	for _, user := range []string{"bob", "carol", "notesbot"} {
		require.NoError(t, s.LogMessage(ctx, &models.Message{ID: user, User: user, Channel: "#x", Time: now, Text: "hi from " + user}))
	}

	t.Run("channel-wide sample excludes the bot", func(t *testing.T) {
		msgs, err := s.RandomMessages(ctx, "#x", "", "notesbot", 10)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		for _, msg := range msgs {
			assert.NotEqual(t, "notesbot", msg.User)
		}
	})

	t.Run("user sample honors the limit", func(t *testing.T) {
		msgs, err := s.RandomMessages(ctx, "#x", "bob", "notesbot", 1)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "bob", msgs[0].User)
	})
}
