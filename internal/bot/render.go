package bot

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/xaenox/notes-bot/internal/gibber"
	"github.com/xaenox/notes-bot/internal/models"
	"github.com/xaenox/notes-bot/internal/notes"
)

// Reply rendering. Every engine error maps to a user-facing line here; the
// event loop never dies on one.

func renderTellNotice(user string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%s: you have a new message.", user)
	}
	return fmt.Sprintf("%s: you have %d new messages.", user, count)
}

func renderTell(tell *models.Tell) string {
	return fmt.Sprintf("%s said %s: %s", tell.Sender, humanize.Time(tell.Time), tell.Text)
}

func renderOutbound(tell *models.Tell) string {
	return fmt.Sprintf("To %s, %s: %s", tell.Recipient, humanize.Time(tell.Time), tell.Text)
}

func renderAlert(alert *models.Alert) string {
	return fmt.Sprintf("Reminder: %s", alert.Text)
}

func renderPendingAlert(alert *models.Alert) string {
	return fmt.Sprintf("%s: %s", humanize.Time(alert.Time), alert.Text)
}

func renderSeen(msg *models.Message, first, date bool) string {
	when := humanize.Time(msg.Time)
	if date {
		when = "on " + msg.Time.Format("2006-01-02")
	}
	verb := "last"
	if first {
		verb = "first"
	}
	return fmt.Sprintf("%s was %s seen %s, saying: %s", msg.User, verb, when, msg.Text)
}

func renderQuote(result *notes.QuoteResult) string {
	return fmt.Sprintf("[%d/%d] %s, %s: %s",
		result.Index, result.Total, result.Quote.User, result.Quote.Time, result.Quote.Text)
}

func renderMemo(memo *models.Memo) string {
	return fmt.Sprintf("%s: %s", memo.User, memo.Text)
}

func renderError(err error) string {
	var usage *notes.UsageError
	if errors.As(err, &usage) {
		return "Usage: " + usage.Hint
	}
	var index *notes.IndexError
	if errors.As(err, &index) {
		if index.Count > 0 {
			return fmt.Sprintf("Index %d is out of range; there are %d quotes.", index.Index, index.Count)
		}
		return fmt.Sprintf("Index %d is out of range.", index.Index)
	}

	switch {
	case errors.Is(err, notes.ErrDenied):
		return "That's disabled here."
	case errors.Is(err, notes.ErrNoTells):
		return "You have no undelivered messages."
	case errors.Is(err, notes.ErrQuoteNotFound):
		return "I have no quotes like that."
	case errors.Is(err, notes.ErrQuoteExists):
		return "I already have that quote."
	case errors.Is(err, notes.ErrMemoNotFound):
		return "There's no memo for that user here."
	case errors.Is(err, notes.ErrMemoExists):
		return "That user already has a memo here. Delete it first if you want a new one."
	case errors.Is(err, notes.ErrNoAlerts):
		return "You have no pending alerts."
	case errors.Is(err, notes.ErrNeverSeen):
		return "I've never seen that user here."
	case errors.Is(err, notes.ErrSelfLookup):
		return "I'm right here, you know."
	case errors.Is(err, notes.ErrPastDate):
		return "That time has already passed."
	case errors.Is(err, gibber.ErrSelfLookup):
		return "I'm quite enough of me already."
	case errors.Is(err, gibber.ErrNoSuchUser):
		return "I have no lines from that user here."
	case errors.Is(err, gibber.ErrSmallSample):
		return "I don't have enough material for that."
	case errors.Is(err, gibber.ErrUnavailable):
		return "I can't come up with anything right now."
	}
	return "Something went wrong. Please try again."
}
