package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/notes-bot/internal/notes"
)

func echoHandler(label string) Handler {
	return func(ctx context.Context, req *Request) (string, error) {
		return label, nil
	}
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher()
	d.Register("memo", map[string]Handler{
		"":    echoHandler("get"),
		"add": echoHandler("add"),
		"del": echoHandler("del"),
	})
	d.Register("alert", map[string]Handler{
		"set":  echoHandler("set"),
		"echo": echoHandler("echo"),
	})

	t.Run("routes explicit modes and strips the mode token", func(t *testing.T) {
		req := &Request{Args: []string{"add", "bob", "hi"}}
		reply, err := d.Dispatch(ctx, "memo", req)
		require.NoError(t, err)
		assert.Equal(t, "add", reply)
		assert.Equal(t, "add", req.Mode)
		assert.Equal(t, []string{"bob", "hi"}, req.Args)
	})

	t.Run("falls back to the default handler", func(t *testing.T) {
		req := &Request{Args: []string{"bob"}}
		reply, err := d.Dispatch(ctx, "memo", req)
		require.NoError(t, err)
		assert.Equal(t, "get", reply)
		assert.Equal(t, []string{"bob"}, req.Args)
	})

	t.Run("missing mode without a default is a usage error", func(t *testing.T) {
		req := &Request{Args: []string{"tomorrow", "dentist"}}
		_, err := d.Dispatch(ctx, "alert", req)
		var usage *notes.UsageError
		assert.ErrorAs(t, err, &usage)
	})

	t.Run("unknown command is a usage error", func(t *testing.T) {
		_, err := d.Dispatch(ctx, "nope", &Request{})
		var usage *notes.UsageError
		assert.ErrorAs(t, err, &usage)
	})
}
