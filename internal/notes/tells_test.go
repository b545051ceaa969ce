package notes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTellDelivery(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	t.Run("delivers each tell exactly once", func(t *testing.T) {
		require.NoError(t, svc.SendTell(ctx, "alice", "bob", "hi"))

		tells, err := svc.DeliverTells(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, tells, 1)
		assert.Equal(t, "alice", tells[0].Sender)
		assert.Equal(t, "hi", tells[0].Text)

		again, err := svc.DeliverTells(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		require.NoError(t, svc.SendTell(ctx, "alice", "carol", "first"))
		require.NoError(t, svc.SendTell(ctx, "dan", "carol", "second"))

		tells, err := svc.DeliverTells(ctx, "carol")
		require.NoError(t, err)
		require.Len(t, tells, 2)
		assert.Equal(t, "first", tells[0].Text)
		assert.Equal(t, "second", tells[1].Text)
	})

	t.Run("does not touch other recipients", func(t *testing.T) {
		require.NoError(t, svc.SendTell(ctx, "alice", "erin", "for erin"))

		_, err := svc.DeliverTells(ctx, "frank")
		require.NoError(t, err)

		has, err := svc.HasTells(ctx, "erin")
		require.NoError(t, err)
		assert.True(t, has)
	})
}

func TestMassSendTell(t *testing.T) {
	ctx := context.Background()

	t.Run("one tell per distinct recipient with shared timestamp", func(t *testing.T) {
		svc, _ := newTestService()
		err := svc.MassSendTell(ctx, "alice", []string{"bob", "carol", "bob"}, "meeting at noon")
		require.NoError(t, err)

		bobTells, err := svc.DeliverTells(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, bobTells, 1)

		carolTells, err := svc.DeliverTells(ctx, "carol")
		require.NoError(t, err)
		require.Len(t, carolTells, 1)

		assert.Equal(t, bobTells[0].Time, carolTells[0].Time)
	})

	t.Run("missing recipients or text is a usage error", func(t *testing.T) {
		svc, _ := newTestService()

		err := svc.MassSendTell(ctx, "alice", nil, "text")
		var usage *UsageError
		require.ErrorAs(t, err, &usage)

		err = svc.MassSendTell(ctx, "alice", []string{"bob"}, "")
		require.ErrorAs(t, err, &usage)

		// No store access happened: bob has nothing waiting.
		has, err := svc.HasTells(ctx, "bob")
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestOutboundTells(t *testing.T) {
	ctx := context.Background()

	t.Run("count summarizes distinct recipients", func(t *testing.T) {
		svc, _ := newTestService()
		require.NoError(t, svc.SendTell(ctx, "eve", "bob", "one"))
		require.NoError(t, svc.SendTell(ctx, "eve", "bob", "two"))
		require.NoError(t, svc.SendTell(ctx, "eve", "carol", "three"))

		summary, err := svc.CountOutbound(ctx, "eve")
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Count)
		assert.Equal(t, []string{"bob", "carol"}, summary.Recipients)
	})

	t.Run("purge removes everything pending", func(t *testing.T) {
		svc, _ := newTestService()
		require.NoError(t, svc.SendTell(ctx, "eve", "bob", "one"))
		require.NoError(t, svc.SendTell(ctx, "eve", "carol", "two"))

		purged, err := svc.PurgeOutbound(ctx, "eve", "")
		require.NoError(t, err)
		assert.Equal(t, 2, purged)

		_, err = svc.OutboundTells(ctx, "eve")
		assert.ErrorIs(t, err, ErrNoTells)
	})

	t.Run("purge can be scoped to one recipient", func(t *testing.T) {
		svc, _ := newTestService()
		require.NoError(t, svc.SendTell(ctx, "eve", "bob", "one"))
		require.NoError(t, svc.SendTell(ctx, "eve", "carol", "two"))

		purged, err := svc.PurgeOutbound(ctx, "eve", "bob")
		require.NoError(t, err)
		assert.Equal(t, 1, purged)

		summary, err := svc.CountOutbound(ctx, "eve")
		require.NoError(t, err)
		assert.Equal(t, []string{"carol"}, summary.Recipients)
	})

	t.Run("empty outbound is not found", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.CountOutbound(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNoTells)

		_, err = svc.PurgeOutbound(ctx, "nobody", "")
		assert.ErrorIs(t, err, ErrNoTells)
	})
}
