package storage

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/xaenox/notes-bot/internal/models"
)

// MemoryStorage keeps every record in process memory. It is the canonical
// store for tests and for running without a database.
type MemoryStorage struct {
	mu       sync.RWMutex
	nextID   int64
	messages []*models.Message
	tells    []*models.Tell
	quotes   []*models.Quote
	memos    []*models.Memo
	alerts   []*models.Alert
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) id() int64 {
	s.nextID++
	return s.nextID
}

// Message methods

func (s *MemoryStorage) LogMessage(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *msg
	s.messages = append(s.messages, &stored)
	return nil
}

func (s *MemoryStorage) FirstMessage(ctx context.Context, channel, user string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, msg := range s.messages {
		if msg.Channel == channel && msg.User == user {
			found := *msg
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) LastMessage(ctx context.Context, channel, user string) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Channel == channel && s.messages[i].User == user {
			found := *s.messages[i]
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) CountMessages(ctx context.Context, channel, user string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, msg := range s.messages {
		if msg.Channel == channel && msg.User == user {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) CountMessagesSince(ctx context.Context, channel, user string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, msg := range s.messages {
		if msg.Channel == channel && msg.User == user && msg.Time.After(since) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) RandomMessages(ctx context.Context, channel, user, exclude string, limit int) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Message
	for _, msg := range s.messages {
		if msg.Channel != channel {
			continue
		}
		if user != "" && msg.User != user {
			continue
		}
		if user == "" && msg.User == exclude {
			continue
		}
		found := *msg
		matched = append(matched, &found)
	}

	rand.Shuffle(len(matched), func(i, j int) {
		matched[i], matched[j] = matched[j], matched[i]
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Tell methods

func (s *MemoryStorage) CreateTell(ctx context.Context, tell *models.Tell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *tell
	stored.ID = s.id()
	s.tells = append(s.tells, &stored)
	return nil
}

func (s *MemoryStorage) CreateTells(ctx context.Context, tells []*models.Tell) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tell := range tells {
		stored := *tell
		stored.ID = s.id()
		s.tells = append(s.tells, &stored)
	}
	return nil
}

func (s *MemoryStorage) HasTells(ctx context.Context, recipient string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tell := range s.tells {
		if tell.Recipient == recipient {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStorage) PopTells(ctx context.Context, recipient string) ([]*models.Tell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var popped []*models.Tell
	var kept []*models.Tell
	for _, tell := range s.tells {
		if tell.Recipient == recipient {
			popped = append(popped, tell)
		} else {
			kept = append(kept, tell)
		}
	}
	s.tells = kept
	return popped, nil
}

func (s *MemoryStorage) OutboundTells(ctx context.Context, sender string) ([]*models.Tell, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var outbound []*models.Tell
	for _, tell := range s.tells {
		if tell.Sender == sender && tell.Topic == "" {
			found := *tell
			outbound = append(outbound, &found)
		}
	}
	return outbound, nil
}

func (s *MemoryStorage) PurgeOutbound(ctx context.Context, sender, recipient string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	var kept []*models.Tell
	for _, tell := range s.tells {
		match := tell.Sender == sender && tell.Topic == "" &&
			(recipient == "" || tell.Recipient == recipient)
		if match {
			purged++
		} else {
			kept = append(kept, tell)
		}
	}
	s.tells = kept
	return purged, nil
}

// Quote methods

func (s *MemoryStorage) CreateQuote(ctx context.Context, quote *models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *quote
	stored.ID = s.id()
	s.quotes = append(s.quotes, &stored)
	return nil
}

func (s *MemoryStorage) FindQuote(ctx context.Context, channel, user, text string) (*models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, quote := range s.quotes {
		if quote.Channel == channel && quote.User == user && quote.Text == text {
			found := *quote
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) CountQuotes(ctx context.Context, channel, user string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, quote := range s.quotes {
		if quote.Channel == channel && (user == "" || quote.User == user) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStorage) matchQuotes(channel, user string) []*models.Quote {
	var matched []*models.Quote
	for _, quote := range s.quotes {
		if quote.Channel == channel && (user == "" || quote.User == user) {
			matched = append(matched, quote)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Time < matched[j].Time
	})
	return matched
}

func (s *MemoryStorage) QuoteAt(ctx context.Context, channel, user string, index int) (*models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchQuotes(channel, user)
	if index < 1 || index > len(matched) {
		return nil, ErrNotFound
	}
	found := *matched[index-1]
	return &found, nil
}

func (s *MemoryStorage) RandomQuotes(ctx context.Context, channel, user string, limit int) ([]*models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchQuotes(channel, user)
	sampled := make([]*models.Quote, len(matched))
	for i, quote := range matched {
		found := *quote
		sampled[i] = &found
	}
	rand.Shuffle(len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})
	if len(sampled) > limit {
		sampled = sampled[:limit]
	}
	return sampled, nil
}

func (s *MemoryStorage) DeleteQuote(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, quote := range s.quotes {
		if quote.ID == id {
			s.quotes = append(s.quotes[:i], s.quotes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Memo methods

func (s *MemoryStorage) GetMemo(ctx context.Context, channel, user string) (*models.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, memo := range s.memos {
		if memo.Channel == channel && memo.User == user {
			found := *memo
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) CreateMemo(ctx context.Context, memo *models.Memo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *memo
	stored.ID = s.id()
	s.memos = append(s.memos, &stored)
	return nil
}

func (s *MemoryStorage) UpdateMemo(ctx context.Context, memo *models.Memo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.memos {
		if existing.Channel == memo.Channel && existing.User == memo.User {
			stored := *memo
			stored.ID = existing.ID
			s.memos[i] = &stored
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStorage) DeleteMemo(ctx context.Context, channel, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, memo := range s.memos {
		if memo.Channel == channel && memo.User == user {
			s.memos = append(s.memos[:i], s.memos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStorage) CountMemos(ctx context.Context, channel string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, memo := range s.memos {
		if memo.Channel == channel {
			count++
		}
	}
	return count, nil
}

// Alert methods

func (s *MemoryStorage) CreateAlert(ctx context.Context, alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *alert
	stored.ID = s.id()
	s.alerts = append(s.alerts, &stored)
	return nil
}

func (s *MemoryStorage) AlertsByUser(ctx context.Context, user string) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Alert
	for _, alert := range s.alerts {
		if alert.User == user {
			found := *alert
			matched = append(matched, &found)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Time.Before(matched[j].Time)
	})
	return matched, nil
}

func (s *MemoryStorage) PopDueAlerts(ctx context.Context, user string, now time.Time) ([]*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var popped []*models.Alert
	var kept []*models.Alert
	for _, alert := range s.alerts {
		if alert.User == user && !alert.Time.After(now) {
			popped = append(popped, alert)
		} else {
			kept = append(kept, alert)
		}
	}
	s.alerts = kept
	return popped, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
