package notes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/notes-bot/internal/models"
	"github.com/xaenox/notes-bot/internal/storage"
)

// Service is the deferred-notification and persistent-annotation engine.
// All state lives in the store; the service owns the rules around it.
type Service struct {
	store  storage.Storage
	logger *zap.Logger
	nick   string
	now    func() time.Time
}

// NewService wires the engine to its record store. nick is the bot's own
// chat identity, needed to refuse self-lookups.
func NewService(store storage.Storage, nick string, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		nick:   nick,
		now:    time.Now,
	}
}

// Nick returns the bot's own chat identity.
func (s *Service) Nick() string {
	return s.nick
}

// Log appends one chat line to the message log.
func (s *Service) Log(ctx context.Context, channel, user, text string) error {
	return s.store.LogMessage(ctx, &models.Message{
		ID:      uuid.New().String(),
		User:    user,
		Channel: channel,
		Time:    s.now(),
		Text:    text,
	})
}
