package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "github.com/lib/pq"

	"github.com/xaenox/notes-bot/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db}
	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

// Message methods

func (s *PostgresStorage) LogMessage(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, nick, channel, time, text)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.db.ExecContext(ctx, query, msg.ID, msg.User, msg.Channel, msg.Time, msg.Text); err != nil {
		return fmt.Errorf("error logging message: %w", err)
	}
	return nil
}

func (s *PostgresStorage) messageAtExtreme(ctx context.Context, channel, user, order string) (*models.Message, error) {
	query := fmt.Sprintf(`
		SELECT id, nick, channel, time, text
		FROM messages
		WHERE channel = $1 AND nick = $2
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

func (s *PostgresStorage) FirstMessage(ctx context.Context, channel, user string) (*models.Message, error) {
	return s.messageAtExtreme(ctx, channel, user, "ASC")
}

func (s *PostgresStorage) LastMessage(ctx context.Context, channel, user string) (*models.Message, error) {
	return s.messageAtExtreme(ctx, channel, user, "DESC")
}

func (s *PostgresStorage) CountMessages(ctx context.Context, channel, user string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE channel = $1 AND nick = $2`,
		channel, user).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) CountMessagesSince(ctx context.Context, channel, user string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE channel = $1 AND nick = $2 AND time > $3`,
		channel, user, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) RandomMessages(ctx context.Context, channel, user, exclude string, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, nick, channel, time, text
		FROM messages
		WHERE channel = $1
		  AND ($2 = '' OR nick = $2)
		  AND ($2 <> '' OR nick <> $3)
		ORDER BY RANDOM()
		LIMIT $4`

	rows, err := s.db.QueryContext(ctx, query, channel, user, exclude, limit)
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

func (s *PostgresStorage) CreateTell(ctx context.Context, tell *models.Tell) error {
	query := `
		INSERT INTO tells (recipient, sender, text, time, topic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		tell.Recipient, tell.Sender, tell.Text, tell.Time, tell.Topic).Scan(&tell.ID)
	if err != nil {
		return fmt.Errorf("error creating tell: %w", err)
	}
	return nil
}

func (s *PostgresStorage) CreateTells(ctx context.Context, tells []*models.Tell) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tells (recipient, sender, text, time, topic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	for _, tell := range tells {
		if err := tx.QueryRowContext(ctx, query,
			tell.Recipient, tell.Sender, tell.Text, tell.Time, tell.Topic).Scan(&tell.ID); err != nil {
			return fmt.Errorf("error creating tell: %w", err)
		}
	}
	return tx.Commit()
}

func (s *PostgresStorage) HasTells(ctx context.Context, recipient string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tells WHERE recipient = $1)`, recipient).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking tells: %w", err)
	}
	return exists, nil
}

func (s *PostgresStorage) PopTells(ctx context.Context, recipient string) ([]*models.Tell, error) {
	query := `
		DELETE FROM tells
		WHERE recipient = $1
		RETURNING id, recipient, sender, text, time, topic`

	rows, err := s.db.QueryContext(ctx, query, recipient)
	if err != nil {
		return nil, fmt.Errorf("error popping tells: %w", err)
	}
	defer rows.Close()

	tells, err := scanTells(rows)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tells, func(i, j int) bool { return tells[i].ID < tells[j].ID })
	return tells, nil
}

func (s *PostgresStorage) OutboundTells(ctx context.Context, sender string) ([]*models.Tell, error) {
	query := `
		SELECT id, recipient, sender, text, time, topic
		FROM tells
		WHERE sender = $1 AND topic = ''
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, sender)
	if err != nil {
		return nil, fmt.Errorf("error querying outbound tells: %w", err)
	}
	defer rows.Close()

	return scanTells(rows)
}

func (s *PostgresStorage) PurgeOutbound(ctx context.Context, sender, recipient string) (int, error) {
	query := `
		DELETE FROM tells
		WHERE sender = $1 AND topic = '' AND ($2 = '' OR recipient = $2)`

	result, err := s.db.ExecContext(ctx, query, sender, recipient)
	if err != nil {
		return 0, fmt.Errorf("error purging tells: %w", err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}
	return int(purged), nil
}

func scanTells(rows *sql.Rows) ([]*models.Tell, error) {
	var tells []*models.Tell
	for rows.Next() {
		tell := &models.Tell{}
		if err := rows.Scan(&tell.ID, &tell.Recipient, &tell.Sender, &tell.Text, &tell.Time, &tell.Topic); err != nil {
			return nil, fmt.Errorf("error scanning tell: %w", err)
		}
		tells = append(tells, tell)
	}
	return tells, rows.Err()
}

// Quote methods

func (s *PostgresStorage) CreateQuote(ctx context.Context, quote *models.Quote) error {
	query := `
		INSERT INTO quotes (nick, channel, time, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		quote.User, quote.Channel, quote.Time, quote.Text).Scan(&quote.ID)
	if err != nil {
		return fmt.Errorf("error creating quote: %w", err)
	}
	return nil
}

func (s *PostgresStorage) FindQuote(ctx context.Context, channel, user, text string) (*models.Quote, error) {
	query := `
		SELECT id, nick, channel, time, text
		FROM quotes
		WHERE channel = $1 AND nick = $2 AND text = $3`

	quote := &models.Quote{}
	err := s.db.QueryRowContext(ctx, query, channel, user, text).Scan(
		&quote.ID, &quote.User, &quote.Channel, &quote.Time, &quote.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying quote: %w", err)
	}
	return quote, nil
}

func (s *PostgresStorage) CountQuotes(ctx context.Context, channel, user string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quotes WHERE channel = $1 AND ($2 = '' OR nick = $2)`,
		channel, user).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting quotes: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) QuoteAt(ctx context.Context, channel, user string, index int) (*models.Quote, error) {
	query := `
		SELECT id, nick, channel, time, text
		FROM quotes
		WHERE channel = $1 AND ($2 = '' OR nick = $2)
		ORDER BY time, id
		LIMIT 1 OFFSET $3`

	quote := &models.Quote{}
	err := s.db.QueryRowContext(ctx, query, channel, user, index-1).Scan(
		&quote.ID, &quote.User, &quote.Channel, &quote.Time, &quote.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying quote: %w", err)
	}
	return quote, nil
}

func (s *PostgresStorage) RandomQuotes(ctx context.Context, channel, user string, limit int) ([]*models.Quote, error) {
	query := `
		SELECT id, nick, channel, time, text
		FROM quotes
		WHERE channel = $1 AND ($2 = '' OR nick = $2)
		ORDER BY RANDOM()
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, channel, user, limit)
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

func (s *PostgresStorage) DeleteQuote(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, id)
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

func (s *PostgresStorage) GetMemo(ctx context.Context, channel, user string) (*models.Memo, error) {
	query := `
		SELECT id, nick, channel, text
		FROM memos
		WHERE channel = $1 AND nick = $2`

	memo := &models.Memo{}
	err := s.db.QueryRowContext(ctx, query, channel, user).Scan(
		&memo.ID, &memo.User, &memo.Channel, &memo.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying memo: %w", err)
	}
	return memo, nil
}

func (s *PostgresStorage) CreateMemo(ctx context.Context, memo *models.Memo) error {
	query := `
		INSERT INTO memos (nick, channel, text)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query, memo.User, memo.Channel, memo.Text).Scan(&memo.ID)
	if err != nil {
		return fmt.Errorf("error creating memo: %w", err)
	}
	return nil
}

func (s *PostgresStorage) UpdateMemo(ctx context.Context, memo *models.Memo) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE memos SET text = $1 WHERE channel = $2 AND nick = $3`,
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

func (s *PostgresStorage) DeleteMemo(ctx context.Context, channel, user string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM memos WHERE channel = $1 AND nick = $2`, channel, user)
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

func (s *PostgresStorage) CountMemos(ctx context.Context, channel string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memos WHERE channel = $1`, channel).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting memos: %w", err)
	}
	return count, nil
}

// Alert methods

func (s *PostgresStorage) CreateAlert(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (nick, time, text)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query, alert.User, alert.Time, alert.Text).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("error creating alert: %w", err)
	}
	return nil
}

func (s *PostgresStorage) AlertsByUser(ctx context.Context, user string) ([]*models.Alert, error) {
	query := `
		SELECT id, nick, time, text
		FROM alerts
		WHERE nick = $1
		ORDER BY time`

	rows, err := s.db.QueryContext(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("error querying alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func (s *PostgresStorage) PopDueAlerts(ctx context.Context, user string, now time.Time) ([]*models.Alert, error) {
	query := `
		DELETE FROM alerts
		WHERE nick = $1 AND time <= $2
		RETURNING id, nick, time, text`

	rows, err := s.db.QueryContext(ctx, query, user, now)
	if err != nil {
		return nil, fmt.Errorf("error popping alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func scanAlerts(rows *sql.Rows) ([]*models.Alert, error) {
	var alerts []*models.Alert
	for rows.Next() {
		alert := &models.Alert{}
		if err := rows.Scan(&alert.ID, &alert.User, &alert.Time, &alert.Text); err != nil {
			return nil, fmt.Errorf("error scanning alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
