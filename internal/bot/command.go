// Package bot turns inbound messenger text into reply text.
package bot

import (
	"strings"

	"github.com/PvUtrix/shked-sub003/internal/models"
)

// Command is one parsed inbound message. It is never persisted.
type Command struct {
	Platform   models.Platform
	ExternalID int64
	ChatID     int64
	Text       string
	Name       string
	Args       []string
	IsCommand  bool
}

// Parse splits text into a command name and arguments. "/link@ShkedBot ABC123"
// yields name "link" and args ["ABC123"]. Text without a leading slash is
// returned as free text with IsCommand false.
func Parse(text string) Command {
	text = strings.TrimSpace(text)
	cmd := Command{Text: text}
	if !strings.HasPrefix(text, "/") {
		return cmd
	}

	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return cmd
	}

	cmd.Name = strings.ToLower(name)
	cmd.Args = fields[1:]
	cmd.IsCommand = true
	return cmd
}

// Arg returns the i-th argument or "" when absent.
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}
