package notes

import (
	"context"
	"strings"
	"time"

	"github.com/xaenox/notes-bot/internal/models"
	"github.com/xaenox/notes-bot/internal/storage"
)

// Seen returns the earliest (first=true) or latest message the user said in
// the channel. Looking up the bot's own nick is a distinguished error, not
// a "never seen" case.
func (s *Service) Seen(ctx context.Context, channel, user string, first bool) (*models.Message, error) {
	if strings.EqualFold(user, s.nick) {
		return nil, ErrSelfLookup
	}

	var msg *models.Message
	var err error
	if first {
		msg, err = s.store.FirstMessage(ctx, channel, user)
	} else {
		msg, err = s.store.LastMessage(ctx, channel, user)
	}
	if err == storage.ErrNotFound {
		return nil, ErrNeverSeen
	}
	return msg, err
}

// SeenTotals holds the all-time and current-calendar-month message counts
// for a (user, channel) pair.
type SeenTotals struct {
	Total     int
	ThisMonth int
}

// Totals counts the user's messages in the channel, all-time and since the
// start of the current calendar month. The month boundary is computed from
// "now", not from the oldest record.
func (s *Service) Totals(ctx context.Context, channel, user string) (*SeenTotals, error) {
	if strings.EqualFold(user, s.nick) {
		return nil, ErrSelfLookup
	}

	total, err := s.store.CountMessages(ctx, channel, user)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNeverSeen
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	thisMonth, err := s.store.CountMessagesSince(ctx, channel, user, monthStart)
	if err != nil {
		return nil, err
	}
	return &SeenTotals{Total: total, ThisMonth: thisMonth}, nil
}
