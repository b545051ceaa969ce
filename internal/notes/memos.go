package notes

import (
	"context"

	"github.com/xaenox/notes-bot/internal/models"
	"github.com/xaenox/notes-bot/internal/storage"
)

// GetMemo retrieves the user's memo in the channel.
func (s *Service) GetMemo(ctx context.Context, channel, user string) (*models.Memo, error) {
	memo, err := s.store.GetMemo(ctx, channel, user)
	if err == storage.ErrNotFound {
		return nil, ErrMemoNotFound
	}
	return memo, err
}

// AddMemo stores a memo for the user. Each user holds at most one memo per
// channel; an existing one must be deleted explicitly first, never
// overwritten by accident.
func (s *Service) AddMemo(ctx context.Context, channel, user, text string) error {
	if _, err := s.store.GetMemo(ctx, channel, user); err == nil {
		return ErrMemoExists
	} else if err != storage.ErrNotFound {
		return err
	}

	return s.store.CreateMemo(ctx, &models.Memo{
		User:    user,
		Channel: channel,
		Text:    text,
	})
}

// DeleteMemo removes the user's memo and returns the deleted text as a
// receipt.
func (s *Service) DeleteMemo(ctx context.Context, channel, user string) (string, error) {
	memo, err := s.store.GetMemo(ctx, channel, user)
	if err == storage.ErrNotFound {
		return "", ErrMemoNotFound
	}
	if err != nil {
		return "", err
	}
	if err := s.store.DeleteMemo(ctx, channel, user); err != nil {
		return "", err
	}
	return memo.Text, nil
}

// AppendMemo adds text to the end of an existing memo, joined by a single
// space.
func (s *Service) AppendMemo(ctx context.Context, channel, user, text string) error {
	memo, err := s.store.GetMemo(ctx, channel, user)
	if err == storage.ErrNotFound {
		return ErrMemoNotFound
	}
	if err != nil {
		return err
	}

	memo.Text += " " + text
	return s.store.UpdateMemo(ctx, memo)
}

// CountMemos returns the number of memos stored in the channel.
func (s *Service) CountMemos(ctx context.Context, channel string) (int, error) {
	return s.store.CountMemos(ctx, channel)
}
