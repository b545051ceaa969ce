package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xaenox/notes-bot/internal/models"
)

// SQLiteStorage is the file-backed store for single-host deployments.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (and if needed creates) the database at dbPath.
// If dbPath is empty, defaults to "./data/notes.db".
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		dbPath = "./data/notes.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("error creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		nick TEXT NOT NULL,
		channel TEXT NOT NULL,
		time TIMESTAMP NOT NULL,
		text TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_channel_nick ON messages (channel, nick, time);

	CREATE TABLE IF NOT EXISTS tells (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recipient TEXT NOT NULL,
		sender TEXT NOT NULL,
		text TEXT NOT NULL,
		time TIMESTAMP NOT NULL,
		topic TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_tells_recipient ON tells (recipient);
	CREATE INDEX IF NOT EXISTS idx_tells_sender ON tells (sender);

	CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nick TEXT NOT NULL,
		channel TEXT NOT NULL,
		time TEXT NOT NULL,
		text TEXT NOT NULL,
		UNIQUE (nick, channel, text)
	);

	CREATE TABLE IF NOT EXISTS memos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nick TEXT NOT NULL,
		channel TEXT NOT NULL,
		text TEXT NOT NULL,
		UNIQUE (nick, channel)
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nick TEXT NOT NULL,
		time TIMESTAMP NOT NULL,
		text TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_nick_time ON alerts (nick, time);`

	_, err := s.db.Exec(schema)
	return err
}

// Message methods

func (s *SQLiteStorage) LogMessage(ctx context.Context, msg *models.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, nick, channel, time, text) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.User, msg.Channel, msg.Time, msg.Text)
	if err != nil {
		return fmt.Errorf("error logging message: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) messageAtExtreme(ctx context.Context, channel, user, order string) (*models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, nick, channel, time, text
		FROM messages
		WHERE channel = ? AND nick = ?
		ORDER BY time %s
		LIMIT 1`, order)

	msg := &models.Message{}
	err := s.db.QueryRowContext(ctx, query, channel, user).Scan(
		&msg.ID, &msg.User, &msg.Channel, &msg.Time, &msg.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying message: %w", err)
	}
	return msg, nil
}

func (s *SQLiteStorage) FirstMessage(ctx context.Context, channel, user string) (*models.Message, error) {
	return s.messageAtExtreme(ctx, channel, user, "ASC")
}

func (s *SQLiteStorage) LastMessage(ctx context.Context, channel, user string) (*models.Message, error) {
	return s.messageAtExtreme(ctx, channel, user, "DESC")
}

func (s *SQLiteStorage) CountMessages(ctx context.Context, channel, user string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE channel = ? AND nick = ?`,
		channel, user).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) CountMessagesSince(ctx context.Context, channel, user string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE channel = ? AND nick = ? AND time > ?`,
		channel, user, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) RandomMessages(ctx context.Context, channel, user, exclude string, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, nick, channel, time, text
		FROM messages
		WHERE channel = ?
		  AND (? = '' OR nick = ?)
		  AND (? <> '' OR nick <> ?)
		ORDER BY RANDOM()
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, channel, user, user, user, exclude, limit)
	if err != nil {
		return nil, fmt.Errorf("error sampling messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.User, &msg.Channel, &msg.Time, &msg.Text); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Tell methods

func (s *SQLiteStorage) CreateTell(ctx context.Context, tell *models.Tell) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tells (recipient, sender, text, time, topic) VALUES (?, ?, ?, ?, ?)`,
		tell.Recipient, tell.Sender, tell.Text, tell.Time, tell.Topic)
	if err != nil {
		return fmt.Errorf("error creating tell: %w", err)
	}
	tell.ID, _ = result.LastInsertId()
	return nil
}

func (s *SQLiteStorage) CreateTells(ctx context.Context, tells []*models.Tell) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, tell := range tells {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO tells (recipient, sender, text, time, topic) VALUES (?, ?, ?, ?, ?)`,
			tell.Recipient, tell.Sender, tell.Text, tell.Time, tell.Topic)
		if err != nil {
			return fmt.Errorf("error creating tell: %w", err)
		}
		tell.ID, _ = result.LastInsertId()
	}
	return tx.Commit()
}

func (s *SQLiteStorage) HasTells(ctx context.Context, recipient string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tells WHERE recipient = ?)`, recipient).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking tells: %w", err)
	}
	return exists, nil
}

func (s *SQLiteStorage) PopTells(ctx context.Context, recipient string) ([]*models.Tell, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, recipient, sender, text, time, topic FROM tells WHERE recipient = ? ORDER BY id`,
		recipient)
	if err != nil {
		return nil, fmt.Errorf("error querying tells: %w", err)
	}
	tells, err := scanTells(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tells WHERE recipient = ?`, recipient); err != nil {
		return nil, fmt.Errorf("error purging tells: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing: %w", err)
	}
	return tells, nil
}

func (s *SQLiteStorage) OutboundTells(ctx context.Context, sender string) ([]*models.Tell, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipient, sender, text, time, topic FROM tells WHERE sender = ? AND topic = '' ORDER BY id`,
		sender)
	if err != nil {
		return nil, fmt.Errorf("error querying outbound tells: %w", err)
	}
	defer rows.Close()

	return scanTells(rows)
}

func (s *SQLiteStorage) PurgeOutbound(ctx context.Context, sender, recipient string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tells WHERE sender = ? AND topic = '' AND (? = '' OR recipient = ?)`,
		sender, recipient, recipient)
	if err != nil {
		return 0, fmt.Errorf("error purging tells: %w", err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}
	return int(purged), nil
}

// Quote methods

func (s *SQLiteStorage) CreateQuote(ctx context.Context, quote *models.Quote) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO quotes (nick, channel, time, text) VALUES (?, ?, ?, ?)`,
		quote.User, quote.Channel, quote.Time, quote.Text)
	if err != nil {
		return fmt.Errorf("error creating quote: %w", err)
	}
	quote.ID, _ = result.LastInsertId()
	return nil
}

func (s *SQLiteStorage) FindQuote(ctx context.Context, channel, user, text string) (*models.Quote, error) {
	quote := &models.Quote{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nick, channel, time, text FROM quotes WHERE channel = ? AND nick = ? AND text = ?`,
		channel, user, text).Scan(&quote.ID, &quote.User, &quote.Channel, &quote.Time, &quote.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying quote: %w", err)
	}
	return quote, nil
}

func (s *SQLiteStorage) CountQuotes(ctx context.Context, channel, user string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quotes WHERE channel = ? AND (? = '' OR nick = ?)`,
		channel, user, user).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting quotes: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) QuoteAt(ctx context.Context, channel, user string, index int) (*models.Quote, error) {
	quote := &models.Quote{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, nick, channel, time, text
		FROM quotes
		WHERE channel = ? AND (? = '' OR nick = ?)
		ORDER BY time, id
		LIMIT 1 OFFSET ?`,
		channel, user, user, index-1).Scan(&quote.ID, &quote.User, &quote.Channel, &quote.Time, &quote.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying quote: %w", err)
	}
	return quote, nil
}

func (s *SQLiteStorage) RandomQuotes(ctx context.Context, channel, user string, limit int) ([]*models.Quote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nick, channel, time, text
		FROM quotes
		WHERE channel = ? AND (? = '' OR nick = ?)
		ORDER BY RANDOM()
		LIMIT ?`,
		channel, user, user, limit)
	if err != nil {
		return nil, fmt.Errorf("error sampling quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		quote := &models.Quote{}
		if err := rows.Scan(&quote.ID, &quote.User, &quote.Channel, &quote.Time, &quote.Text); err != nil {
			return nil, fmt.Errorf("error scanning quote: %w", err)
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

func (s *SQLiteStorage) DeleteQuote(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting quote: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// Memo methods

func (s *SQLiteStorage) GetMemo(ctx context.Context, channel, user string) (*models.Memo, error) {
	memo := &models.Memo{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, nick, channel, text FROM memos WHERE channel = ? AND nick = ?`,
		channel, user).Scan(&memo.ID, &memo.User, &memo.Channel, &memo.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying memo: %w", err)
	}
	return memo, nil
}

func (s *SQLiteStorage) CreateMemo(ctx context.Context, memo *models.Memo) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO memos (nick, channel, text) VALUES (?, ?, ?)`,
		memo.User, memo.Channel, memo.Text)
	if err != nil {
		return fmt.Errorf("error creating memo: %w", err)
	}
	memo.ID, _ = result.LastInsertId()
	return nil
}

func (s *SQLiteStorage) UpdateMemo(ctx context.Context, memo *models.Memo) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE memos SET text = ? WHERE channel = ? AND nick = ?`,
		memo.Text, memo.Channel, memo.User)
	if err != nil {
		return fmt.Errorf("error updating memo: %w", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteMemo(ctx context.Context, channel, user string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM memos WHERE channel = ? AND nick = ?`, channel, user)
	if err != nil {
		return fmt.Errorf("error deleting memo: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) CountMemos(ctx context.Context, channel string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memos WHERE channel = ?`, channel).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting memos: %w", err)
	}
	return count, nil
}

// Alert methods

func (s *SQLiteStorage) CreateAlert(ctx context.Context, alert *models.Alert) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (nick, time, text) VALUES (?, ?, ?)`,
		alert.User, alert.Time, alert.Text)
	if err != nil {
		return fmt.Errorf("error creating alert: %w", err)
	}
	alert.ID, _ = result.LastInsertId()
	return nil
}

func (s *SQLiteStorage) AlertsByUser(ctx context.Context, user string) ([]*models.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, nick, time, text FROM alerts WHERE nick = ? ORDER BY time`, user)
	if err != nil {
		return nil, fmt.Errorf("error querying alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func (s *SQLiteStorage) PopDueAlerts(ctx context.Context, user string, now time.Time) ([]*models.Alert, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, nick, time, text FROM alerts WHERE nick = ? AND time <= ?`, user, now)
	if err != nil {
		return nil, fmt.Errorf("error querying alerts: %w", err)
	}
	alerts, err := scanAlerts(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM alerts WHERE nick = ? AND time <= ?`, user, now); err != nil {
		return nil, fmt.Errorf("error purging alerts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing: %w", err)
	}
	return alerts, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
