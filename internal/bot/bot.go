package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xaenox/notes-bot/internal/command"
	"github.com/xaenox/notes-bot/internal/gibber"
	"github.com/xaenox/notes-bot/internal/notes"
	"github.com/xaenox/notes-bot/pkg/config"
)

// peekPattern matches a bare "?name" line, treated as an implicit memo
// lookup.
var peekPattern = regexp.MustCompile(`^\?(\S+)\s*$`)

// crossChannel lists the commands that accept a leading "#channel" argument
// overriding the channel they operate on.
var crossChannel = map[string]bool{
	"quote":  true,
	"memo":   true,
	"seen":   true,
	"gibber": true,
}

// gated lists the commands whose target user must pass the access gate
// before dispatch.
var gated = map[string]bool{
	"quote": true,
	"memo":  true,
	"rem":   true,
}

type Bot struct {
	api        *tgbotapi.BotAPI
	cfg        *config.Config
	notes      *notes.Service
	gibber     *gibber.Service
	dispatcher *command.Dispatcher
	logger     *zap.Logger
}

func New(cfg *config.Config, notesSvc *notes.Service, gibberSvc *gibber.Service, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		api:    api,
		cfg:    cfg,
		notes:  notesSvc,
		gibber: gibberSvc,
		logger: logger,
	}
	b.dispatcher = b.buildDispatcher()
	return b, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	// Inbound lines are handled to completion one at a time. The delivery
	// monitors piggyback on this path, so no separate timers are needed.
	for update := range updates {
		if update.Message == nil {
			continue
		}
		b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	user := senderNick(message)
	channel := channelKey(message.Chat)
	channelCfg := b.cfg.Channel(channel)
	private := message.Chat.IsPrivate()

	text := message.Text
	if message.Caption != "" {
		text = message.Caption
	}

	if channelCfg.KeepLogs && text != "" {
		if err := b.notes.Log(ctx, channel, user, text); err != nil {
			b.logger.Error("Failed to log message",
				zap.Error(err),
				zap.String("user", user),
				zap.String("channel", channel))
		}
	}

	// Delivery monitors run on every inbound line from the speaker.
	b.deliverTells(ctx, message, user)
	if private {
		b.deliverAlerts(ctx, message, user)
	}

	if message.IsCommand() {
		b.handleCommand(ctx, message, user, channel, private)
		return
	}

	if m := peekPattern.FindStringSubmatch(text); m != nil {
		b.peekMemo(ctx, message, channel, channelCfg, strings.ToLower(m[1]))
	}
}

func (b *Bot) deliverTells(ctx context.Context, message *tgbotapi.Message, user string) {
	tells, err := b.notes.DeliverTells(ctx, user)
	if err != nil {
		b.logger.Error("Failed to deliver tells", zap.Error(err), zap.String("user", user))
		return
	}
	if len(tells) == 0 {
		return
	}

	b.sendMessage(message.Chat.ID, renderTellNotice(user, len(tells)))
	for _, tell := range tells {
		b.sendMessage(message.Chat.ID, renderTell(tell))
	}
}

func (b *Bot) deliverAlerts(ctx context.Context, message *tgbotapi.Message, user string) {
	alerts, err := b.notes.DeliverAlerts(ctx, user)
	if err != nil {
		b.logger.Error("Failed to deliver alerts", zap.Error(err), zap.String("user", user))
		return
	}
	for _, alert := range alerts {
		b.sendMessage(message.Chat.ID, renderAlert(alert))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message, user, channel string, private bool) {
	name := message.Command()
	switch name {
	case "start":
		b.sendMessage(message.Chat.ID, welcomeText)
		return
	case "help":
		b.sendMessage(message.Chat.ID, helpText)
		return
	}

	if !b.dispatcher.Known(name) {
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
		return
	}

	req := &command.Request{
		User:    user,
		Channel: channel,
		Private: private,
		Args:    strings.Fields(message.CommandArguments()),
	}
	if crossChannel[name] {
		req.TakeChannel()
	}

	// The access gate runs once here, before dispatch, so subcommands never
	// re-check it.
	if gated[name] {
		channelCfg := b.cfg.Channel(req.Channel)
		if !notes.Allowed(channelCfg.Memos, gateTarget(req.Args)) {
			b.reply(message, renderError(notes.ErrDenied))
			return
		}
	}

	reply, err := b.dispatcher.Dispatch(ctx, name, req)
	if err != nil {
		reply = renderError(err)
	}
	b.reply(message, reply)
}

func (b *Bot) peekMemo(ctx context.Context, message *tgbotapi.Message, channel string, channelCfg config.ChannelConfig, target string) {
	if !notes.Allowed(channelCfg.Memos, target) {
		return
	}
	memo, err := b.notes.GetMemo(ctx, channel, target)
	if err != nil {
		// A bare peek stays silent on missing memos; it is a convenience
		// trigger, not a command.
		return
	}
	b.sendMessage(message.Chat.ID, renderMemo(memo))
}

// gateTarget finds the prospective target user among raw arguments: the
// first token that is not a mode, a day-granularity date, or an index.
func gateTarget(args []string) string {
	modes := map[string]bool{
		"add": true, "del": true, "append": true, "count": true,
	}
	for i, arg := range args {
		if i == 0 && modes[arg] {
			continue
		}
		if command.IsDay(arg) || command.IsInt(arg) {
			continue
		}
		return strings.ToLower(arg)
	}
	return ""
}

func (b *Bot) reply(message *tgbotapi.Message, text string) {
	if text == "" {
		return
	}
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

// senderNick is the speaker's chat identity, lowercased so tells and memos
// match regardless of how the name was typed.
func senderNick(message *tgbotapi.Message) string {
	if message.From == nil {
		return ""
	}
	if message.From.UserName != "" {
		return strings.ToLower(message.From.UserName)
	}
	return strings.ToLower(message.From.FirstName)
}

// channelKey names the channel a message arrived on. Private chats use the
// speaker's own nick; group chats use "#" plus the chat's username or
// title.
func channelKey(chat *tgbotapi.Chat) string {
	if chat.IsPrivate() {
		return strings.ToLower(chat.UserName)
	}
	if chat.UserName != "" {
		return "#" + strings.ToLower(chat.UserName)
	}
	return "#" + strings.ToLower(chat.Title)
}
