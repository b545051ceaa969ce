package notes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoSingleton(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.AddMemo(ctx, "#y", "dan", "likes tea"))

	t.Run("second add for the same pair fails", func(t *testing.T) {
		err := svc.AddMemo(ctx, "#y", "dan", "likes coffee")
		assert.ErrorIs(t, err, ErrMemoExists)
	})

	t.Run("same user in another channel is fine", func(t *testing.T) {
		assert.NoError(t, svc.AddMemo(ctx, "#z", "dan", "likes coffee"))
	})

	t.Run("add succeeds again after delete", func(t *testing.T) {
		text, err := svc.DeleteMemo(ctx, "#y", "dan")
		require.NoError(t, err)
		assert.Equal(t, "likes tea", text)

		assert.NoError(t, svc.AddMemo(ctx, "#y", "dan", "likes cocoa"))
	})
}

func TestMemoAppend(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	t.Run("append joins with a single space", func(t *testing.T) {
		require.NoError(t, svc.AddMemo(ctx, "#y", "dan", "likes tea"))
		require.NoError(t, svc.AppendMemo(ctx, "#y", "dan", "and coffee"))

		memo, err := svc.GetMemo(ctx, "#y", "dan")
		require.NoError(t, err)
		assert.Equal(t, "likes tea and coffee", memo.Text)
	})

	t.Run("append to a missing memo is not found", func(t *testing.T) {
		err := svc.AppendMemo(ctx, "#y", "ghost", "boo")
		assert.ErrorIs(t, err, ErrMemoNotFound)
	})
}

func TestMemoNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.GetMemo(ctx, "#y", "ghost")
	assert.ErrorIs(t, err, ErrMemoNotFound)

	_, err = svc.DeleteMemo(ctx, "#y", "ghost")
	assert.ErrorIs(t, err, ErrMemoNotFound)
}

func TestCountMemos(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.AddMemo(ctx, "#y", "dan", "a"))
	require.NoError(t, svc.AddMemo(ctx, "#y", "erin", "b"))
	require.NoError(t, svc.AddMemo(ctx, "#z", "dan", "c"))

	count, err := svc.CountMemos(ctx, "#y")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAllowed(t *testing.T) {
	t.Run("off denies everything", func(t *testing.T) {
		assert.False(t, Allowed(AccessOff, "bob"))
		assert.False(t, Allowed(AccessOff, ""))
	})

	t.Run("all allows everything", func(t *testing.T) {
		assert.True(t, Allowed(AccessAll, "any text at all!"))
	})

	t.Run("restricted allows clean names and empty targets", func(t *testing.T) {
		assert.True(t, Allowed("restricted", "bob_42"))
		assert.True(t, Allowed("restricted", ""))
		assert.False(t, Allowed("restricted", "bob smith"))
		assert.False(t, Allowed("restricted", "bob!"))
	})
}
