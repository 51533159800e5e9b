package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/services"
	"github.com/PvUtrix/shked-sub003/internal/validator"
)

// moscow is the default display zone of the schedule.
var moscow = time.FixedZone("MSK", 3*60*60)

// Deps are the collaborators the built-in commands read from.
type Deps struct {
	Links    services.LinkServicer
	Registry services.MessengerServicer
	Schedule services.ScheduleServicer
	Users    services.UserServicer

	// Location is the zone "today" is computed in. Defaults to Moscow time.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

type commands struct {
	Deps
	router *Router
}

// RegisterAllCommands installs the built-in commands and free-text fallback on r.
func RegisterAllCommands(r *Router, deps Deps) {
	if deps.Location == nil {
		deps.Location = moscow
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	c := &commands{Deps: deps, router: r}

	r.Register("start", "начало работы и привязка аккаунта", HandlerFunc(c.start))
	r.Register("help", "список команд", HandlerFunc(c.help))
	r.Register("link", "привязать аккаунт по коду: /link КОД", HandlerFunc(c.link))
	r.Register("unlink", "отвязать аккаунт", HandlerFunc(c.unlink))
	r.Register("status", "статус привязки", HandlerFunc(c.status))
	r.Register("notify", "уведомления: /notify on | off", HandlerFunc(c.notify))
	if deps.Schedule != nil {
		r.Register("schedule", "расписание: /schedule [today|tomorrow]", HandlerFunc(c.schedule))
		r.Register("homework", "домашние задания на неделю", HandlerFunc(c.homework))
	}
	r.SetFallback(HandlerFunc(c.freeText))
}

func (c *commands) start(ctx context.Context, cmd Command) (string, error) {
	// Deep links arrive as "/start <token>".
	if token := cmd.Arg(0); validator.IsLinkToken(token) {
		return c.redeem(cmd, token)
	}

	account, err := c.Registry.FindByExternalID(cmd.Platform, cmd.ExternalID)
	if err != nil || !account.IsLinked() {
		return replyStart, nil
	}
	return fmt.Sprintf(replyStartLinked, html.EscapeString(c.ownerName(account))), nil
}

func (c *commands) help(ctx context.Context, cmd Command) (string, error) {
	return replyHelpHeader + "\n" + strings.Join(c.router.Commands(), "\n"), nil
}

func (c *commands) link(ctx context.Context, cmd Command) (string, error) {
	token := cmd.Arg(0)
	if token == "" {
		return replyLinkUsage, nil
	}
	return c.redeem(cmd, token)
}

// redeem answers every link failure with its own text. Only unexpected
// errors reach the router.
func (c *commands) redeem(cmd Command, token string) (string, error) {
	if !validator.IsLinkToken(token) {
		return replyLinkNotFound, nil
	}

	account, err := c.Links.Redeem(cmd.Platform, cmd.ExternalID, token)
	switch {
	case err == nil:
		return fmt.Sprintf(replyLinkSuccess, html.EscapeString(c.ownerName(account))), nil
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return replyLinkNotFound, nil
	case errors.Is(err, apperrors.ErrTokenExpired):
		return replyLinkExpired, nil
	case errors.Is(err, apperrors.ErrTokenAlreadyUsed):
		return replyLinkAlreadyUsed, nil
	case errors.Is(err, apperrors.ErrAccountAlreadyLinked):
		return replyLinkAccountLinked, nil
	case errors.Is(err, apperrors.ErrWebAccountAlreadyLinked):
		return replyLinkWebAccountLinked, nil
	case errors.Is(err, apperrors.ErrAccountNotSeen):
		return replyLinkAccountNotSeen, nil
	default:
		return "", err
	}
}

func (c *commands) unlink(ctx context.Context, cmd Command) (string, error) {
	err := c.Registry.Unlink(cmd.Platform, cmd.ExternalID)
	switch {
	case err == nil:
		return replyUnlinkSuccess, nil
	case errors.Is(err, apperrors.ErrNotLinked):
		return replyNotLinked, nil
	default:
		return "", err
	}
}

func (c *commands) status(ctx context.Context, cmd Command) (string, error) {
	account, err := c.linkedAccount(cmd)
	if err != nil {
		return notLinkedReply(err)
	}

	notifications := "выключены"
	if account.NotificationsEnabled {
		notifications = "включены"
	}
	return fmt.Sprintf(replyStatusLinked, html.EscapeString(c.ownerName(account)), notifications, account.MessageCount), nil
}

func (c *commands) notify(ctx context.Context, cmd Command) (string, error) {
	var enabled bool
	switch strings.ToLower(cmd.Arg(0)) {
	case "on", "вкл":
		enabled = true
	case "off", "выкл":
		enabled = false
	default:
		return replyNotifyUsage, nil
	}

	if _, err := c.linkedAccount(cmd); err != nil {
		return notLinkedReply(err)
	}
	if err := c.Registry.SetNotifications(cmd.Platform, cmd.ExternalID, enabled); err != nil {
		return "", err
	}
	if enabled {
		return replyNotifyOn, nil
	}
	return replyNotifyOff, nil
}

func (c *commands) schedule(ctx context.Context, cmd Command) (string, error) {
	day := c.Now().In(c.Location)
	label := "сегодня"
	switch strings.ToLower(cmd.Arg(0)) {
	case "", "today", "сегодня":
	case "tomorrow", "завтра":
		day = day.AddDate(0, 0, 1)
		label = "завтра"
	default:
		return replyScheduleUsage, nil
	}

	account, err := c.linkedAccount(cmd)
	if err != nil {
		return notLinkedReply(err)
	}

	lessons, err := c.Schedule.LessonsForDay(*account.OwnerID, day)
	if errors.Is(err, apperrors.ErrGroupNotFound) {
		return replyNoGroup, nil
	}
	if err != nil {
		return "", err
	}
	if len(lessons) == 0 {
		return fmt.Sprintf(replyNoLessons, label), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, replyLessonsHeader, label)
	for _, l := range lessons {
		fmt.Fprintf(&b, "\n%s–%s <b>%s</b>",
			l.StartsAt.In(c.Location).Format("15:04"),
			l.EndsAt.In(c.Location).Format("15:04"),
			html.EscapeString(l.Subject))
		if l.Room != "" {
			fmt.Fprintf(&b, ", ауд. %s", html.EscapeString(l.Room))
		}
		if l.Teacher != "" {
			fmt.Fprintf(&b, " (%s)", html.EscapeString(l.Teacher))
		}
	}
	return b.String(), nil
}

func (c *commands) homework(ctx context.Context, cmd Command) (string, error) {
	account, err := c.linkedAccount(cmd)
	if err != nil {
		return notLinkedReply(err)
	}

	items, err := c.Schedule.UpcomingHomework(*account.OwnerID, c.Now(), 7*24*time.Hour)
	if errors.Is(err, apperrors.ErrGroupNotFound) {
		return replyNoGroup, nil
	}
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return replyNoHomework, nil
	}

	var b strings.Builder
	b.WriteString(replyHomeworkHead)
	for _, hw := range items {
		fmt.Fprintf(&b, "\nдо %s <b>%s</b>: %s",
			hw.DueAt.In(c.Location).Format("02.01 15:04"),
			html.EscapeString(hw.Subject),
			html.EscapeString(hw.Title))
	}
	return b.String(), nil
}

var greetings = map[string]bool{
	"привет":       true,
	"здравствуйте": true,
	"начать":       true,
	"старт":        true,
	"hello":        true,
	"hi":           true,
	"start":        true,
}

// freeText handles messages that are not commands.
func (c *commands) freeText(ctx context.Context, cmd Command) (string, error) {
	text := strings.TrimSpace(cmd.Text)
	if validator.IsBareLinkToken(text) {
		return c.redeem(cmd, text)
	}
	if greetings[strings.ToLower(strings.Trim(text, "!.) "))] {
		return c.start(ctx, cmd)
	}
	return c.help(ctx, cmd)
}

func (c *commands) linkedAccount(cmd Command) (*models.MessengerAccount, error) {
	account, err := c.Registry.FindByExternalID(cmd.Platform, cmd.ExternalID)
	if err != nil {
		return nil, err
	}
	if !account.IsLinked() {
		return nil, apperrors.ErrNotLinked
	}
	return account, nil
}

func (c *commands) ownerName(account *models.MessengerAccount) string {
	if account == nil || account.OwnerID == nil || c.Users == nil {
		return "Шкед"
	}
	user, err := c.Users.GetUserByID(*account.OwnerID)
	if err != nil {
		return "Шкед"
	}
	return user.FullName()
}

func notLinkedReply(err error) (string, error) {
	if errors.Is(err, apperrors.ErrNotLinked) || errors.Is(err, apperrors.ErrAccountNotSeen) {
		return replyNotLinked, nil
	}
	return "", err
}
