package notes

import (
	"context"
	"math/rand"
	"time"

	"github.com/xaenox/notes-bot/internal/models"
	"github.com/xaenox/notes-bot/internal/storage"
)

const quoteDay = "2006-01-02"

// AddQuote stores an utterance at day granularity. A second quote with the
// same (user, channel, text) triple is rejected.
func (s *Service) AddQuote(ctx context.Context, channel, user, text string, date time.Time) error {
	if _, err := s.store.FindQuote(ctx, channel, user, text); err == nil {
		return ErrQuoteExists
	} else if err != storage.ErrNotFound {
		return err
	}

	if date.IsZero() {
		date = s.now()
	}
	return s.store.CreateQuote(ctx, &models.Quote{
		User:    user,
		Channel: channel,
		Time:    date.Format(quoteDay),
		Text:    text,
	})
}

// QuoteResult carries a retrieved quote with its position among the matches
// at the time of the lookup.
type QuoteResult struct {
	Quote *models.Quote
	Index int
	Total int
}

// GetQuote retrieves a quote for the channel, optionally narrowed to one
// user. index 0 picks uniformly at random; an explicit index must fall in
// [1, count]. The bound check and the offset lookup share one count
// snapshot; a concurrent insert between them is an accepted race.
func (s *Service) GetQuote(ctx context.Context, channel, user string, index int) (*QuoteResult, error) {
	if index < 0 {
		return nil, &IndexError{Index: index}
	}

	count, err := s.store.CountQuotes(ctx, channel, user)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrQuoteNotFound
	}

	if index == 0 {
		index = rand.Intn(count) + 1
	} else if index > count {
		return nil, &IndexError{Index: index, Count: count}
	}

	quote, err := s.store.QuoteAt(ctx, channel, user, index)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Quote: quote, Index: index, Total: count}, nil
}

// DeleteQuote removes the index-th of the user's quotes and returns the
// deleted record as a receipt, so the caller gets a final copy of the text
// and date. Any index in [1, count] is deletable.
func (s *Service) DeleteQuote(ctx context.Context, channel, user string, index int) (*models.Quote, error) {
	count, err := s.store.CountQuotes(ctx, channel, user)
	if err != nil {
		return nil, err
	}
	if index < 1 || index > count {
		return nil, &IndexError{Index: index, Count: count}
	}

	quote, err := s.store.QuoteAt(ctx, channel, user, index)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	if err := s.store.DeleteQuote(ctx, quote.ID); err != nil {
		return nil, err
	}
	return quote, nil
}
