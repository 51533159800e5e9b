package bot

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/PvUtrix/shked-sub003/internal/logger"
)

// ReplyInternalError is sent whenever a handler fails.
const ReplyInternalError = "Произошла ошибка, попробуйте позже."

// Handler produces the reply for one command.
type Handler interface {
	Handle(ctx context.Context, cmd Command) (string, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, cmd Command) (string, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, cmd Command) (string, error) {
	return f(ctx, cmd)
}

type entry struct {
	name        string
	description string
	handler     Handler
}

// Router dispatches commands by name.
type Router struct {
	handlers map[string]entry
	fallback Handler
	log      *zap.SugaredLogger
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]entry),
		log:      logger.Named("bot"),
	}
}

// Register adds a command. Registering the same name twice replaces the handler.
func (r *Router) Register(name, description string, h Handler) {
	name = strings.ToLower(strings.TrimPrefix(name, "/"))
	r.handlers[name] = entry{name: name, description: description, handler: h}
}

// SetFallback sets the handler for free text.
func (r *Router) SetFallback(h Handler) {
	r.fallback = h
}

// Commands lists registered commands sorted by name as "/name - description".
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("/%s - %s", name, r.handlers[name].description))
	}
	return lines
}

// Route runs the matching handler and always returns a reply. Errors and
// panics are logged and replaced by ReplyInternalError.
func (r *Router) Route(ctx context.Context, cmd Command) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorw("command handler panicked",
				"panic", rec,
				"command", cmd.Name,
				"platform", cmd.Platform,
				"external_id", cmd.ExternalID,
			)
			reply = ReplyInternalError
		}
	}()

	var h Handler
	switch {
	case cmd.IsCommand:
		e, ok := r.handlers[cmd.Name]
		if !ok {
			return fmt.Sprintf(replyUnknownCommand, html.EscapeString(cmd.Name))
		}
		h = e.handler
	case r.fallback != nil:
		h = r.fallback
	default:
		return fmt.Sprintf(replyUnknownCommand, html.EscapeString(cmd.Text))
	}

	out, err := h.Handle(ctx, cmd)
	if err != nil {
		r.log.Errorw("command handler failed",
			"error", err,
			"command", cmd.Name,
			"platform", cmd.Platform,
			"external_id", cmd.ExternalID,
		)
		return ReplyInternalError
	}
	return out
}
