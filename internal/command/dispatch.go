package command

import (
	"context"
	"fmt"

	"github.com/xaenox/notes-bot/internal/notes"
)

// Request is one command invocation as seen by a handler. Channel may have
// been overridden by a cross-channel argument before dispatch.
type Request struct {
	User    string
	Channel string
	Private bool
	Mode    string
	Args    []string
}

// Handler services one subcommand and returns the reply text.
type Handler func(ctx context.Context, req *Request) (string, error)

// Command is a registered command: a table of mode handlers plus an
// optional default registered under the empty mode.
type Command struct {
	Name     string
	Handlers map[string]Handler
}

// Dispatcher routes invocations to mode handlers. The table is built once
// at startup; lookup is by literal mode token, falling back to the default
// handler when the first argument names no mode.
type Dispatcher struct {
	commands map[string]*Command
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{commands: make(map[string]*Command)}
}

// Register installs a command's mode table. The empty-string key designates
// the default handler.
func (d *Dispatcher) Register(name string, handlers map[string]Handler) {
	d.commands[name] = &Command{Name: name, Handlers: handlers}
}

// Known reports whether a command name is registered.
func (d *Dispatcher) Known(name string) bool {
	_, ok := d.commands[name]
	return ok
}

// Dispatch resolves the mode from the request's first argument and invokes
// the matching handler. A first argument that names no mode is left in
// place for the default handler to parse; a command without a default then
// fails with a usage error rather than a panic.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, req *Request) (string, error) {
	cmd, ok := d.commands[name]
	if !ok {
		return "", notes.Usagef("unknown command %q", name)
	}

	mode := ""
	args := req.Args
	if len(args) > 0 {
		if _, ok := cmd.Handlers[args[0]]; ok && args[0] != "" {
			mode, args = args[0], args[1:]
		}
	}

	handler, ok := cmd.Handlers[mode]
	if !ok {
		return "", notes.Usagef("%s needs one of %s", name, modeList(cmd))
	}

	req.Mode = mode
	req.Args = args
	return handler(ctx, req)
}

func modeList(cmd *Command) string {
	list := ""
	for mode := range cmd.Handlers {
		if mode == "" {
			continue
		}
		if list != "" {
			list += ", "
		}
		list += mode
	}
	if list == "" {
		return fmt.Sprintf("(no modes registered for %s)", cmd.Name)
	}
	return list
}
