package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/notes-bot/internal/notes"
)

func TestTakeChannel(t *testing.T) {
	req := &Request{Channel: "#here", Args: []string{"#there", "bob"}}
	req.TakeChannel()
	assert.Equal(t, "#there", req.Channel)
	assert.Equal(t, []string{"bob"}, req.Args)

	req = &Request{Channel: "#here", Args: []string{"bob"}}
	req.TakeChannel()
	assert.Equal(t, "#here", req.Channel)
}

func TestParseTell(t *testing.T) {
	args, err := ParseTell([]string{"Bob", "see", "you", "later"})
	require.NoError(t, err)
	assert.Equal(t, "bob", args.Recipient)
	assert.Equal(t, "see you later", args.Message)

	_, err = ParseTell([]string{"bob"})
	var usage *notes.UsageError
	assert.ErrorAs(t, err, &usage)
}

func TestParseMasstell(t *testing.T) {
	t.Run("comma list shape", func(t *testing.T) {
		args, err := ParseMasstell([]string{"a,b,c", "meeting", "at", "noon"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, args.Recipients)
		assert.Equal(t, "meeting at noon", args.Text)
	})

	t.Run("separator shape", func(t *testing.T) {
		args, err := ParseMasstell([]string{"a", "b", "--", "meeting", "at", "noon"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, args.Recipients)
		assert.Equal(t, "meeting at noon", args.Text)
	})

	t.Run("both shapes at once conflict", func(t *testing.T) {
		_, err := ParseMasstell([]string{"a,b", "c", "--", "text"})
		var usage *notes.UsageError
		assert.ErrorAs(t, err, &usage)
	})

	t.Run("neither recipients nor text", func(t *testing.T) {
		var usage *notes.UsageError
		_, err := ParseMasstell([]string{"just", "some", "words"})
		assert.ErrorAs(t, err, &usage)

		_, err = ParseMasstell([]string{"a,b"})
		assert.ErrorAs(t, err, &usage)

		_, err = ParseMasstell(nil)
		assert.ErrorAs(t, err, &usage)
	})
}

func TestParseSeen(t *testing.T) {
	args, err := ParseSeen([]string{"-f", "-d", "Bob"})
	require.NoError(t, err)
	assert.True(t, args.First)
	assert.True(t, args.Date)
	assert.False(t, args.Total)
	assert.Equal(t, "bob", args.User)

	var usage *notes.UsageError
	_, err = ParseSeen(nil)
	assert.ErrorAs(t, err, &usage)

	_, err = ParseSeen([]string{"bob", "carol"})
	assert.ErrorAs(t, err, &usage)
}

func TestParseQuote(t *testing.T) {
	t.Run("get shapes", func(t *testing.T) {
		args, err := ParseQuoteGet(nil)
		require.NoError(t, err)
		assert.Equal(t, "", args.User)
		assert.Equal(t, 0, args.Index)

		args, err = ParseQuoteGet([]string{"bob", "3"})
		require.NoError(t, err)
		assert.Equal(t, "bob", args.User)
		assert.Equal(t, 3, args.Index)

		args, err = ParseQuoteGet([]string{"7"})
		require.NoError(t, err)
		assert.Equal(t, "", args.User)
		assert.Equal(t, 7, args.Index)
	})

	t.Run("add with optional date", func(t *testing.T) {
		args, err := ParseQuoteAdd([]string{"2020-03-14", "bob", "pi", "day"})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC), args.Date)
		assert.Equal(t, "bob", args.User)
		assert.Equal(t, "pi day", args.Message)

		args, err = ParseQuoteAdd([]string{"bob", "hello"})
		require.NoError(t, err)
		assert.True(t, args.Date.IsZero())
	})

	t.Run("del needs user and index", func(t *testing.T) {
		args, err := ParseQuoteDel([]string{"bob", "2"})
		require.NoError(t, err)
		assert.Equal(t, 2, args.Index)

		var usage *notes.UsageError
		_, err = ParseQuoteDel([]string{"bob"})
		assert.ErrorAs(t, err, &usage)

		_, err = ParseQuoteDel([]string{"bob", "two"})
		assert.ErrorAs(t, err, &usage)
	})
}

func TestParseAlertSet(t *testing.T) {
	t.Run("absolute date", func(t *testing.T) {
		args, err := ParseAlertSet([]string{"2030-01-01", "happy", "new", "year"})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), args.At)
		assert.Empty(t, args.Span)
		assert.Equal(t, "happy new year", args.Message)
	})

	t.Run("span", func(t *testing.T) {
		args, err := ParseAlertSet([]string{"1d2h", "check", "oven"})
		require.NoError(t, err)
		assert.True(t, args.At.IsZero())
		assert.Equal(t, "1d2h", args.Span)
	})

	t.Run("missing message", func(t *testing.T) {
		var usage *notes.UsageError
		_, err := ParseAlertSet([]string{"1d"})
		assert.ErrorAs(t, err, &usage)
	})
}
