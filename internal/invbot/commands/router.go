// Package commands provides the generic prefixed-command dispatcher.
//
// Natural-language inventory messages never reach this package; it only
// handles explicitly prefixed commands such as "!help". Anything else is
// reported as not-a-command so the caller can stay silent.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Command represents a parsed prefixed command.
type Command struct {
	Name    string
	Args    []string
	RawText string
}

// ErrNotACommand is returned by Parse when the message does not start with
// the command prefix. Callers should use errors.Is to distinguish this
// expected case from real errors.
var ErrNotACommand = errors.New("not a command (missing prefix)")

// ErrUnknownCommand is returned by Route for a prefixed message naming no
// registered command. The bot stays silent on these, matching the behavior
// of unrecognized natural-language chat.
var ErrUnknownCommand = errors.New("unknown command")

// Handler handles one command and returns the reply text.
type Handler func(ctx context.Context, cmd *Command) (string, error)

// Router routes prefixed commands to handlers.
type Router struct {
	handlers map[string]Handler
	prefix   string
}

// NewRouter creates a router for the given prefix (e.g. "!").
func NewRouter(prefix string) *Router {
	return &Router{
		handlers: make(map[string]Handler),
		prefix:   prefix,
	}
}

// Register registers a command handler under its name.
func (r *Router) Register(command string, handler Handler) {
	r.handlers[command] = handler
}

// Parse parses a message into a command.
func (r *Router) Parse(text string) (*Command, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, r.prefix) {
		return nil, ErrNotACommand
	}

	text = strings.TrimSpace(strings.TrimPrefix(text, r.prefix))
	parts := strings.Fields(text)
	if len(parts) == 0 {
		// A bare prefix carries no command; treat it as ordinary chat.
		return nil, ErrNotACommand
	}

	return &Command{
		Name:    strings.ToLower(parts[0]),
		Args:    parts[1:],
		RawText: text,
	}, nil
}

// Route parses and dispatches a command to its handler.
func (r *Router) Route(ctx context.Context, text string) (string, error) {
	cmd, err := r.Parse(text)
	if err != nil {
		return "", err
	}

	handler, ok := r.handlers[cmd.Name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
	}
	return handler(ctx, cmd)
}

// GetArg returns an argument by index.
func (c *Command) GetArg(index int) (string, bool) {
	if index < 0 || index >= len(c.Args) {
		return "", false
	}
	return c.Args[index], true
}
