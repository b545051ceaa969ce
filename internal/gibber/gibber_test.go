package gibber

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/xaenox/notes-bot/internal/storage"
)

func TestSayErrors(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()

	t.Run("self lookup is refused before anything else", func(t *testing.T) {
		svc := New("", "gpt-4o-mini", "notesbot", store, zap.NewNop())
		_, err := svc.Say(ctx, "#x", "NotesBot", false)
		assert.ErrorIs(t, err, ErrSelfLookup)
	})

	t.Run("missing api key degrades to unavailable", func(t *testing.T) {
		svc := New("", "gpt-4o-mini", "notesbot", store, zap.NewNop())
		_, err := svc.Say(ctx, "#x", "bob", false)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
