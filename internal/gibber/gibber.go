package gibber

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/notes-bot/internal/storage"
)

// Generation errors, rendered distinctly by the transport layer.
var (
	ErrSelfLookup  = errors.New("cannot imitate self")
	ErrNoSuchUser  = errors.New("no logged messages for user")
	ErrSmallSample = errors.New("sample too small to imitate")
	ErrUnavailable = errors.New("generation unavailable")
)

const (
	cacheCapacity = 32
	sampleLimit   = 400
	minSample     = 10
)

// Service generates short in-style messages from sampled channel history.
// Sampled corpora are cached per (channel, user, source) so repeat requests
// do not re-read the log.
type Service struct {
	store  storage.Storage
	client *openai.Client
	model  string
	nick   string
	logger *zap.Logger

	mu    sync.Mutex
	cache *corpusCache
}

// New builds the generator. An empty apiKey leaves the service in place but
// permanently unavailable, so channels with gibber enabled degrade to a
// polite failure instead of a crash.
func New(apiKey, model, nick string, store storage.Storage, logger *zap.Logger) *Service {
	s := &Service{
		store:  store,
		model:  model,
		nick:   nick,
		logger: logger,
		cache:  newCorpusCache(cacheCapacity),
	}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

// Say produces one short message in the style of the sampled lines: the
// channel log (optionally one user's lines), or the channel's quotes when
// quotes is set.
func (s *Service) Say(ctx context.Context, channel, user string, quotes bool) (string, error) {
	if !quotes && strings.EqualFold(user, s.nick) {
		return "", ErrSelfLookup
	}
	if s.client == nil {
		return "", ErrUnavailable
	}

	if !quotes && user != "" {
		count, err := s.store.CountMessages(ctx, channel, user)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return "", ErrNoSuchUser
		}
	}

	lines, err := s.corpus(ctx, corpusKey{Channel: channel, User: user, Quotes: quotes})
	if err != nil {
		return "", err
	}
	if len(lines) < minSample {
		return "", ErrSmallSample
	}

	return s.generate(ctx, user, lines)
}

func (s *Service) corpus(ctx context.Context, key corpusKey) ([]string, error) {
	s.mu.Lock()
	lines, ok := s.cache.get(key)
	s.mu.Unlock()
	if ok {
		return lines, nil
	}

	if key.Quotes {
		sampled, err := s.store.RandomQuotes(ctx, key.Channel, key.User, sampleLimit)
		if err != nil {
			return nil, err
		}
		for _, quote := range sampled {
			lines = append(lines, quote.Text)
		}
	} else {
		sampled, err := s.store.RandomMessages(ctx, key.Channel, key.User, s.nick, sampleLimit)
		if err != nil {
			return nil, err
		}
		for _, msg := range sampled {
			lines = append(lines, msg.Text)
		}
	}

	s.mu.Lock()
	s.cache.put(key, lines)
	s.mu.Unlock()
	return lines, nil
}

func (s *Service) generate(ctx context.Context, user string, lines []string) (string, error) {
	voice := "the channel"
	if user != "" {
		voice = user
	}
	prompt := fmt.Sprintf(`Below is a sample of chat lines from %s.
Write exactly one new short chat message (under 400 characters) in the same
voice and style. Reply with only the message, nothing else.

%s`, voice, strings.Join(lines, "\n"))

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   120,
			Temperature: 0.9,
		},
	)
	if err != nil {
		s.logger.Error("Failed to get completion", zap.Error(err))
		return "", ErrUnavailable
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrSmallSample
	}
	return text, nil
}
