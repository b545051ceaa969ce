package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/xaenox/notes-bot/internal/notes"
)

// Argument parsing for each command. Parsers validate shape only — no store
// access — and report malformed or conflicting invocations as usage errors.

const dayFormat = "2006-01-02"

// IsDay reports whether a token is a day-granularity date.
func IsDay(token string) bool {
	_, err := time.Parse(dayFormat, token)
	return err == nil
}

// IsInt reports whether a token is a plain integer.
func IsInt(token string) bool {
	_, err := strconv.Atoi(token)
	return err == nil
}

// TakeChannel peels a leading "#channel" token off the request arguments
// and makes it the request channel. Commands that support cross-channel
// access call this before parsing the rest.
func (r *Request) TakeChannel() {
	if len(r.Args) > 0 && strings.HasPrefix(r.Args[0], "#") && len(r.Args[0]) > 1 {
		r.Channel = r.Args[0]
		r.Args = r.Args[1:]
	}
}

type TellArgs struct {
	Recipient string
	Message   string
}

func ParseTell(args []string) (*TellArgs, error) {
	if len(args) < 2 {
		return nil, notes.Usagef("tell <user> <message>")
	}
	return &TellArgs{
		Recipient: strings.ToLower(args[0]),
		Message:   strings.Join(args[1:], " "),
	}, nil
}

type MasstellArgs struct {
	Recipients []string
	Text       string
}

// ParseMasstell accepts two shapes: a comma-separated recipient list
// followed by the message ("a,b,c text"), or space-separated recipients
// split from the message by "--" ("a b c -- text"). Mixing both shapes is
// a conflict; supplying neither recipients nor text is a missing-argument
// error. Both are rejected before any store access.
func ParseMasstell(args []string) (*MasstellArgs, error) {
	sep := -1
	for i, arg := range args {
		if arg == "--" {
			sep = i
			break
		}
	}
	commaList := len(args) > 0 && strings.Contains(args[0], ",")

	if commaList && sep >= 0 {
		return nil, notes.Usagef("masstell takes either a comma list or a -- separator, not both")
	}

	var recipients []string
	var text string
	switch {
	case sep >= 0:
		for _, name := range args[:sep] {
			recipients = append(recipients, strings.ToLower(name))
		}
		text = strings.Join(args[sep+1:], " ")
	case commaList:
		for _, name := range strings.Split(args[0], ",") {
			if name = strings.TrimSpace(name); name != "" {
				recipients = append(recipients, strings.ToLower(name))
			}
		}
		text = strings.Join(args[1:], " ")
	}

	if len(recipients) == 0 || text == "" {
		return nil, notes.Usagef("masstell <a,b,c> <message> or masstell <a> <b> -- <message>")
	}
	return &MasstellArgs{Recipients: recipients, Text: text}, nil
}

type SeenArgs struct {
	User  string
	First bool
	Total bool
	Date  bool
}

func ParseSeen(args []string) (*SeenArgs, error) {
	parsed := &SeenArgs{}
	for _, arg := range args {
		switch arg {
		case "-f", "--first":
			parsed.First = true
		case "-t", "--total":
			parsed.Total = true
		case "-d", "--date":
			parsed.Date = true
		default:
			if parsed.User != "" {
				return nil, notes.Usagef("seen [-f] [-t] [-d] <user>")
			}
			parsed.User = strings.ToLower(arg)
		}
	}
	if parsed.User == "" {
		return nil, notes.Usagef("seen [-f] [-t] [-d] <user>")
	}
	return parsed, nil
}

type QuoteGetArgs struct {
	User  string
	Index int
}

func ParseQuoteGet(args []string) (*QuoteGetArgs, error) {
	parsed := &QuoteGetArgs{}
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
			parsed.Index = n
			args = args[:len(args)-1]
		}
	}
	switch len(args) {
	case 0:
	case 1:
		parsed.User = strings.ToLower(args[0])
	default:
		return nil, notes.Usagef("quote [user] [index]")
	}
	if parsed.Index < 0 {
		return nil, notes.Usagef("quote index must be positive")
	}
	return parsed, nil
}

type QuoteAddArgs struct {
	Date    time.Time
	User    string
	Message string
}

func ParseQuoteAdd(args []string) (*QuoteAddArgs, error) {
	parsed := &QuoteAddArgs{}
	if len(args) > 0 {
		if date, err := time.Parse(dayFormat, args[0]); err == nil {
			parsed.Date = date
			args = args[1:]
		}
	}
	if len(args) < 2 {
		return nil, notes.Usagef("quote add [date] <user> <message>")
	}
	parsed.User = strings.ToLower(args[0])
	parsed.Message = strings.Join(args[1:], " ")
	return parsed, nil
}

type QuoteDelArgs struct {
	User  string
	Index int
}

func ParseQuoteDel(args []string) (*QuoteDelArgs, error) {
	if len(args) != 2 {
		return nil, notes.Usagef("quote del <user> <index>")
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, notes.Usagef("quote del <user> <index>")
	}
	return &QuoteDelArgs{User: strings.ToLower(args[0]), Index: index}, nil
}

type MemoArgs struct {
	User    string
	Message string
}

// ParseMemo validates memo-style arguments: a target user, plus a message
// when withMessage is set.
func ParseMemo(args []string, withMessage bool, usage string) (*MemoArgs, error) {
	if withMessage {
		if len(args) < 2 {
			return nil, notes.Usagef("%s", usage)
		}
		return &MemoArgs{
			User:    strings.ToLower(args[0]),
			Message: strings.Join(args[1:], " "),
		}, nil
	}
	if len(args) != 1 {
		return nil, notes.Usagef("%s", usage)
	}
	return &MemoArgs{User: strings.ToLower(args[0])}, nil
}

type AlertSetArgs struct {
	At      time.Time
	Span    string
	Message string
}

// ParseAlertSet reads a delivery time (an absolute YYYY-MM-DD date or a
// duration span like 1d2h30m) followed by the reminder text.
func ParseAlertSet(args []string) (*AlertSetArgs, error) {
	if len(args) < 2 {
		return nil, notes.Usagef("alert set <date|span> <message>")
	}
	parsed := &AlertSetArgs{Message: strings.Join(args[1:], " ")}
	if date, err := time.Parse(dayFormat, args[0]); err == nil {
		parsed.At = date
	} else {
		parsed.Span = args[0]
	}
	return parsed, nil
}

type OutboundPurgeArgs struct {
	Recipient string
}

func ParseOutboundPurge(args []string) (*OutboundPurgeArgs, error) {
	switch len(args) {
	case 0:
		return &OutboundPurgeArgs{}, nil
	case 1:
		return &OutboundPurgeArgs{Recipient: strings.ToLower(args[0])}, nil
	default:
		return nil, notes.Usagef("outbound purge [recipient]")
	}
}

type GibberArgs struct {
	User string
}

func ParseGibber(args []string) (*GibberArgs, error) {
	switch len(args) {
	case 0:
		return &GibberArgs{}, nil
	case 1:
		return &GibberArgs{User: strings.ToLower(args[0])}, nil
	default:
		return nil, notes.Usagef("gibber [quotes] [user]")
	}
}
