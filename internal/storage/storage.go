package storage

import (
	"context"
	"errors"
	"time"

	"github.com/xaenox/notes-bot/internal/models"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// Storage is the persistent record store backing the notes engine.
// Implementations: MemoryStorage, SQLiteStorage, PostgresStorage.
//
// The Pop* and Purge* methods fetch and delete in a single atomic step, so
// two consecutive calls can never yield the same row twice.
type Storage interface {
	// Message log
	LogMessage(ctx context.Context, msg *models.Message) error
	FirstMessage(ctx context.Context, channel, user string) (*models.Message, error)
	LastMessage(ctx context.Context, channel, user string) (*models.Message, error)
	CountMessages(ctx context.Context, channel, user string) (int, error)
	CountMessagesSince(ctx context.Context, channel, user string, since time.Time) (int, error)
	// RandomMessages samples up to limit lines from the channel log. An empty
	// user matches every speaker except exclude (the bot's own nick).
	RandomMessages(ctx context.Context, channel, user, exclude string, limit int) ([]*models.Message, error)

	// Tells
	CreateTell(ctx context.Context, tell *models.Tell) error
	CreateTells(ctx context.Context, tells []*models.Tell) error
	HasTells(ctx context.Context, recipient string) (bool, error)
	// PopTells returns and deletes every tell addressed to recipient,
	// in insertion order.
	PopTells(ctx context.Context, recipient string) ([]*models.Tell, error)
	// OutboundTells lists the sender's undelivered ordinary (topic-less)
	// tells in insertion order.
	OutboundTells(ctx context.Context, sender string) ([]*models.Tell, error)
	// PurgeOutbound deletes the sender's topic-less tells, optionally scoped
	// to one recipient (empty recipient means all), and reports how many.
	PurgeOutbound(ctx context.Context, sender, recipient string) (int, error)

	// Quotes
	CreateQuote(ctx context.Context, quote *models.Quote) error
	FindQuote(ctx context.Context, channel, user, text string) (*models.Quote, error)
	// CountQuotes with an empty user counts the whole channel.
	CountQuotes(ctx context.Context, channel, user string) (int, error)
	// QuoteAt returns the index-th quote (1-based) ordered by time.
	QuoteAt(ctx context.Context, channel, user string, index int) (*models.Quote, error)
	// RandomQuotes samples up to limit quotes from the channel, optionally
	// narrowed to one user.
	RandomQuotes(ctx context.Context, channel, user string, limit int) ([]*models.Quote, error)
	DeleteQuote(ctx context.Context, id int64) error

	// Memos
	GetMemo(ctx context.Context, channel, user string) (*models.Memo, error)
	CreateMemo(ctx context.Context, memo *models.Memo) error
	UpdateMemo(ctx context.Context, memo *models.Memo) error
	DeleteMemo(ctx context.Context, channel, user string) error
	CountMemos(ctx context.Context, channel string) (int, error)

	// Alerts
	CreateAlert(ctx context.Context, alert *models.Alert) error
	// AlertsByUser lists the user's pending alerts ordered by ascending time.
	AlertsByUser(ctx context.Context, user string) ([]*models.Alert, error)
	// PopDueAlerts returns and deletes every alert for user with time <= now.
	PopDueAlerts(ctx context.Context, user string, now time.Time) ([]*models.Alert, error)

	Close() error
}
