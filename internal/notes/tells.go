package notes

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/xaenox/notes-bot/internal/models"
)

// SendTell stores a message for delivery the next time recipient is
// observed speaking. Recipients are chat identities, not registered
// accounts, so no existence check is made.
func (s *Service) SendTell(ctx context.Context, sender, recipient, text string) error {
	return s.store.CreateTell(ctx, &models.Tell{
		Recipient: recipient,
		Sender:    sender,
		Text:      text,
		Time:      s.now(),
	})
}

// MassSendTell stores one tell per distinct recipient, all sharing the same
// timestamp. Argument-shape conflicts are the caller's to reject; an empty
// recipient set or empty text is a usage error here.
func (s *Service) MassSendTell(ctx context.Context, sender string, recipients []string, text string) error {
	if len(recipients) == 0 || text == "" {
		return Usagef("masstell needs both recipients and a message")
	}

	seen := make(map[string]bool, len(recipients))
	distinct := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		distinct = append(distinct, r)
	}
	sort.Strings(distinct)

	now := s.now()
	tells := make([]*models.Tell, 0, len(distinct))
	for _, r := range distinct {
		tells = append(tells, &models.Tell{
			Recipient: r,
			Sender:    sender,
			Text:      text,
			Time:      now,
		})
	}
	return s.store.CreateTells(ctx, tells)
}

// DeliverTells atomically fetches and purges every tell addressed to
// recipient, in insertion order. Each tell is yielded exactly once; an
// immediate second call returns nothing.
func (s *Service) DeliverTells(ctx context.Context, recipient string) ([]*models.Tell, error) {
	tells, err := s.store.PopTells(ctx, recipient)
	if err != nil {
		return nil, err
	}
	if len(tells) > 0 {
		s.logger.Info("delivered tells",
			zap.String("recipient", recipient),
			zap.Int("count", len(tells)))
	}
	return tells, nil
}

// HasTells reports whether any tells are waiting for recipient, without
// consuming them.
func (s *Service) HasTells(ctx context.Context, recipient string) (bool, error) {
	return s.store.HasTells(ctx, recipient)
}

// OutboundSummary describes a sender's undelivered ordinary tells.
type OutboundSummary struct {
	Count      int
	Recipients []string
}

// OutboundTells lists the sender's pending topic-less tells; ErrNoTells if
// there are none.
func (s *Service) OutboundTells(ctx context.Context, sender string) ([]*models.Tell, error) {
	tells, err := s.store.OutboundTells(ctx, sender)
	if err != nil {
		return nil, err
	}
	if len(tells) == 0 {
		return nil, ErrNoTells
	}
	return tells, nil
}

// CountOutbound summarizes the sender's pending tells by count and distinct
// recipient.
func (s *Service) CountOutbound(ctx context.Context, sender string) (*OutboundSummary, error) {
	tells, err := s.OutboundTells(ctx, sender)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var recipients []string
	for _, tell := range tells {
		if !seen[tell.Recipient] {
			seen[tell.Recipient] = true
			recipients = append(recipients, tell.Recipient)
		}
	}
	sort.Strings(recipients)
	return &OutboundSummary{Count: len(tells), Recipients: recipients}, nil
}

// PurgeOutbound deletes the sender's pending tells, optionally scoped to a
// single recipient (empty means all), and reports how many were removed.
// ErrNoTells if nothing was pending in the first place.
func (s *Service) PurgeOutbound(ctx context.Context, sender, recipient string) (int, error) {
	if _, err := s.OutboundTells(ctx, sender); err != nil {
		return 0, err
	}
	return s.store.PurgeOutbound(ctx, sender, recipient)
}
