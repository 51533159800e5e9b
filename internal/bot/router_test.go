package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRouterRoute(t *testing.T) {
	r := NewRouter()
	r.Register("echo", "repeat args", HandlerFunc(func(ctx context.Context, cmd Command) (string, error) {
		return strings.Join(cmd.Args, " "), nil
	}))
	r.Register("/fail", "always fails", HandlerFunc(func(ctx context.Context, cmd Command) (string, error) {
		return "", errors.New("db is down")
	}))
	r.Register("boom", "panics", HandlerFunc(func(ctx context.Context, cmd Command) (string, error) {
		panic("nil map")
	}))

	t.Run("dispatch", func(t *testing.T) {
		if got := r.Route(context.Background(), Parse("/echo a b")); got != "a b" {
			t.Errorf("expected %q, got %q", "a b", got)
		}
	})

	t.Run("handler_error", func(t *testing.T) {
		if got := r.Route(context.Background(), Parse("/fail")); got != ReplyInternalError {
			t.Errorf("expected internal error reply, got %q", got)
		}
	})

	t.Run("handler_panic", func(t *testing.T) {
		if got := r.Route(context.Background(), Parse("/boom")); got != ReplyInternalError {
			t.Errorf("expected internal error reply, got %q", got)
		}
	})

	t.Run("unknown_command", func(t *testing.T) {
		got := r.Route(context.Background(), Parse("/weather"))
		if !strings.Contains(got, "weather") || !strings.Contains(got, "/help") {
			t.Errorf("expected unknown command reply pointing to /help, got %q", got)
		}
	})

	t.Run("free_text_without_fallback", func(t *testing.T) {
		got := r.Route(context.Background(), Parse("как дела"))
		if !strings.Contains(got, "/help") {
			t.Errorf("expected reply pointing to /help, got %q", got)
		}
	})

	t.Run("user_text_is_escaped", func(t *testing.T) {
		for _, text := range []string{"/<script>", "<b>жирный"} {
			got := r.Route(context.Background(), Parse(text))
			if strings.Contains(got, "<") {
				t.Errorf("expected escaped reply for %q, got %q", text, got)
			}
			if !strings.Contains(got, "&lt;") {
				t.Errorf("expected entity in reply for %q, got %q", text, got)
			}
		}
	})

	t.Run("fallback", func(t *testing.T) {
		r.SetFallback(HandlerFunc(func(ctx context.Context, cmd Command) (string, error) {
			return "fallback:" + cmd.Text, nil
		}))
		if got := r.Route(context.Background(), Parse("как дела")); got != "fallback:как дела" {
			t.Errorf("expected fallback reply, got %q", got)
		}
	})
}

func TestRouterCommands(t *testing.T) {
	r := NewRouter()
	noop := HandlerFunc(func(ctx context.Context, cmd Command) (string, error) { return "", nil })
	r.Register("status", "статус", noop)
	r.Register("help", "помощь", noop)
	r.Register("help", "список команд", noop)

	got := r.Commands()
	want := []string{"/help - список команд", "/status - статус"}
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
