package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/notes-bot/internal/command"
	"github.com/xaenox/notes-bot/internal/notes"
)

const welcomeText = `Hi! I remember things for you and your channels.

I can carry messages to people who are away, keep quotes and memos, set
reminders, and tell you when someone was last around.
Use /help for the full command list.`

const helpText = `Available commands:
/tell <user> <message> - deliver a message when the user is next around
/masstell <a,b,c> <message> - same message to several users
/showtells - check for waiting messages
/outbound [echo|purge [user]] - inspect or drop your undelivered tells
/seen [-f] [-t] [-d] <user> - when a user was first/last around
/quote [add|del] ... - store and retrieve quotes
/memo [add|del|append|count] ... - one persistent note per user
/rem <user> <message> - shorthand for memo add
/alert <set|echo> ... - reminders for your future self
/gibber [quotes] [user] - a made-up line in someone's style

A bare ?name looks up that user's memo.
Quote, memo, seen and gibber accept a leading #channel.`

// buildDispatcher wires every command's mode table. Built once at startup;
// the empty mode key is the default handler.
func (b *Bot) buildDispatcher() *command.Dispatcher {
	d := command.NewDispatcher()

	d.Register("tell", map[string]command.Handler{
		"": b.handleTell,
	})
	d.Register("masstell", map[string]command.Handler{
		"": b.handleMasstell,
	})
	d.Register("showtells", map[string]command.Handler{
		"": b.handleShowtells,
	})
	d.Register("st", map[string]command.Handler{
		"": b.handleShowtells,
	})
	d.Register("outbound", map[string]command.Handler{
		"":      b.handleOutboundCount,
		"echo":  b.handleOutboundEcho,
		"purge": b.handleOutboundPurge,
	})
	d.Register("seen", map[string]command.Handler{
		"": b.handleSeen,
	})
	d.Register("quote", map[string]command.Handler{
		"":    b.handleQuoteGet,
		"add": b.handleQuoteAdd,
		"del": b.handleQuoteDel,
	})
	d.Register("memo", map[string]command.Handler{
		"":       b.handleMemoGet,
		"add":    b.handleMemoAdd,
		"del":    b.handleMemoDel,
		"append": b.handleMemoAppend,
		"count":  b.handleMemoCount,
	})
	d.Register("rem", map[string]command.Handler{
		"": b.handleRem,
	})
	d.Register("alert", map[string]command.Handler{
		"echo": b.handleAlertEcho,
		"set":  b.handleAlertSet,
	})
	d.Register("gibber", map[string]command.Handler{
		"":       b.handleGibber,
		"quotes": b.handleGibberQuotes,
	})

	return d
}

// Tells

func (b *Bot) handleTell(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseTell(req.Args)
	if err != nil {
		return "", err
	}
	if err := b.notes.SendTell(ctx, req.User, args.Recipient, args.Message); err != nil {
		return "", err
	}
	return fmt.Sprintf("I'll pass that on when %s is around.", args.Recipient), nil
}

func (b *Bot) handleMasstell(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseMasstell(req.Args)
	if err != nil {
		return "", err
	}
	if err := b.notes.MassSendTell(ctx, req.User, args.Recipients, args.Text); err != nil {
		return "", err
	}
	return "I'll pass that on when they're around.", nil
}

func (b *Bot) handleShowtells(ctx context.Context, req *command.Request) (string, error) {
	has, err := b.notes.HasTells(ctx, req.User)
	if err != nil {
		return "", err
	}
	if !has {
		return "You have no new messages.", nil
	}
	// Waiting tells are flushed by the delivery monitor on this same line,
	// so there is nothing extra to say here.
	return "", nil
}

func (b *Bot) handleOutboundCount(ctx context.Context, req *command.Request) (string, error) {
	summary, err := b.notes.CountOutbound(ctx, req.User)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("You have %d undelivered messages, addressed to: %s.",
		summary.Count, strings.Join(summary.Recipients, ", ")), nil
}

func (b *Bot) handleOutboundEcho(ctx context.Context, req *command.Request) (string, error) {
	tells, err := b.notes.OutboundTells(ctx, req.User)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(tells))
	for _, tell := range tells {
		lines = append(lines, renderOutbound(tell))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) handleOutboundPurge(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseOutboundPurge(req.Args)
	if err != nil {
		return "", err
	}
	purged, err := b.notes.PurgeOutbound(ctx, req.User, args.Recipient)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Purged %d undelivered messages.", purged), nil
}

// Seen

func (b *Bot) handleSeen(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseSeen(req.Args)
	if err != nil {
		return "", err
	}

	if args.Total {
		totals, err := b.notes.Totals(ctx, req.Channel, args.User)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s has said %d things here, %d of them this month.",
			args.User, totals.Total, totals.ThisMonth), nil
	}

	msg, err := b.notes.Seen(ctx, req.Channel, args.User, args.First)
	if err != nil {
		return "", err
	}
	return renderSeen(msg, args.First, args.Date), nil
}

// Quotes

func (b *Bot) handleQuoteGet(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseQuoteGet(req.Args)
	if err != nil {
		return "", err
	}
	result, err := b.notes.GetQuote(ctx, req.Channel, args.User, args.Index)
	if err != nil {
		return "", err
	}
	return renderQuote(result), nil
}

func (b *Bot) handleQuoteAdd(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseQuoteAdd(req.Args)
	if err != nil {
		return "", err
	}
	if err := b.notes.AddQuote(ctx, req.Channel, args.User, args.Message, args.Date); err != nil {
		return "", err
	}
	return "Quote saved.", nil
}

func (b *Bot) handleQuoteDel(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseQuoteDel(req.Args)
	if err != nil {
		return "", err
	}
	quote, err := b.notes.DeleteQuote(ctx, req.Channel, args.User, args.Index)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted quote from %s: %s", quote.Time, quote.Text), nil
}

// Memos

func (b *Bot) handleMemoGet(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseMemo(req.Args, false, "memo <user>")
	if err != nil {
		return "", err
	}
	memo, err := b.notes.GetMemo(ctx, req.Channel, args.User)
	if err != nil {
		return "", err
	}
	return renderMemo(memo), nil
}

func (b *Bot) handleMemoAdd(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseMemo(req.Args, true, "memo add <user> <message>")
	if err != nil {
		return "", err
	}
	if err := b.notes.AddMemo(ctx, req.Channel, args.User, args.Message); err != nil {
		return "", err
	}
	return "Memo saved.", nil
}

func (b *Bot) handleMemoDel(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseMemo(req.Args, false, "memo del <user>")
	if err != nil {
		return "", err
	}
	text, err := b.notes.DeleteMemo(ctx, req.Channel, args.User)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted memo: %s", text), nil
}

func (b *Bot) handleMemoAppend(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseMemo(req.Args, true, "memo append <user> <message>")
	if err != nil {
		return "", err
	}
	if err := b.notes.AppendMemo(ctx, req.Channel, args.User, args.Message); err != nil {
		return "", err
	}
	return "Memo appended.", nil
}

func (b *Bot) handleMemoCount(ctx context.Context, req *command.Request) (string, error) {
	count, err := b.notes.CountMemos(ctx, req.Channel)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("There are %d memos stored in this channel.", count), nil
}

func (b *Bot) handleRem(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseMemo(req.Args, true, "rem <user> <message>")
	if err != nil {
		return "", err
	}
	if err := b.notes.AddMemo(ctx, req.Channel, args.User, args.Message); err != nil {
		return "", err
	}
	return "Memo saved.", nil
}

// Alerts

func (b *Bot) handleAlertEcho(ctx context.Context, req *command.Request) (string, error) {
	list, err := b.notes.EchoAlerts(ctx, req.User)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(list.Alerts)+1)
	for _, alert := range list.Alerts {
		lines = append(lines, renderPendingAlert(alert))
	}
	if list.More > 0 {
		lines = append(lines, fmt.Sprintf("...and %d more.", list.More))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) handleAlertSet(ctx context.Context, req *command.Request) (string, error) {
	args, err := command.ParseAlertSet(req.Args)
	if err != nil {
		return "", err
	}
	if err := b.notes.SetAlert(ctx, req.User, args.At, args.Span, args.Message); err != nil {
		return "", err
	}
	return "Alert set.", nil
}

// Gibber

func (b *Bot) handleGibber(ctx context.Context, req *command.Request) (string, error) {
	return b.gibberSay(ctx, req, false)
}

func (b *Bot) handleGibberQuotes(ctx context.Context, req *command.Request) (string, error) {
	return b.gibberSay(ctx, req, true)
}

func (b *Bot) gibberSay(ctx context.Context, req *command.Request, quotes bool) (string, error) {
	if !b.cfg.Channel(req.Channel).Gibber {
		return "", notes.ErrDenied
	}
	args, err := command.ParseGibber(req.Args)
	if err != nil {
		return "", err
	}
	return b.gibber.Say(ctx, req.Channel, args.User, quotes)
}
