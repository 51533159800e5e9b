package services

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/logger"
	"github.com/PvUtrix/shked-sub003/internal/messenger"
	"github.com/PvUtrix/shked-sub003/internal/models"
)

// NotificationOptions bounds a broadcast fan-out.
type NotificationOptions struct {
	Concurrency      int
	RecipientTimeout time.Duration
	BatchTimeout     time.Duration
}

// DefaultNotificationOptions mirrors the configuration defaults.
var DefaultNotificationOptions = NotificationOptions{
	Concurrency:      8,
	RecipientTimeout: 10 * time.Second,
	BatchTimeout:     5 * time.Minute,
}

// notificationService delivers messages to linked messenger accounts.
type notificationService struct {
	registry MessengerServicer
	users    UserServicer
	senders  map[models.Platform]messenger.Sender
	opts     NotificationOptions
}

// NewNotificationService creates a new NotificationServicer. Zero option
// fields take their DefaultNotificationOptions value.
func NewNotificationService(registry MessengerServicer, users UserServicer, senders []messenger.Sender, opts NotificationOptions) NotificationServicer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultNotificationOptions.Concurrency
	}
	if opts.RecipientTimeout <= 0 {
		opts.RecipientTimeout = DefaultNotificationOptions.RecipientTimeout
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = DefaultNotificationOptions.BatchTimeout
	}

	byPlatform := make(map[models.Platform]messenger.Sender, len(senders))
	for _, sender := range senders {
		if sender != nil {
			byPlatform[sender.Platform()] = sender
		}
	}

	return &notificationService{
		registry: registry,
		users:    users,
		senders:  byPlatform,
		opts:     opts,
	}
}

// SendToUser delivers text to every linked account of a web user.
// It reports true if at least one account received it.
func (s *notificationService) SendToUser(ctx context.Context, userID, text string) bool {
	recipients, err := s.registry.ListRecipients(RecipientFilter{UserID: userID})
	if err != nil {
		logger.Get().Errorw("failed to resolve notification recipients", "error", err, "user_id", userID)
		return false
	}
	return s.deliver(ctx, recipients, text).Sent > 0
}

// SendToExternal delivers text straight to a known messenger account, linked or not.
func (s *notificationService) SendToExternal(ctx context.Context, platform models.Platform, externalID int64, text string) bool {
	account, err := s.registry.FindByExternalID(platform, externalID)
	if err != nil {
		logger.Get().Warnw("notification target not found", "error", err, "platform", platform, "external_id", externalID)
		return false
	}
	return s.deliver(ctx, []models.MessengerAccount{*account}, text).Sent == 1
}

// BroadcastAll delivers text to every recipient, optionally only those whose owner has role.
func (s *notificationService) BroadcastAll(ctx context.Context, text string, role models.Role) DeliveryResult {
	recipients, err := s.registry.ListRecipients(RecipientFilter{Role: role})
	if err != nil {
		logger.Get().Errorw("failed to resolve broadcast recipients", "error", err, "role", role)
		return DeliveryResult{}
	}

	result := s.deliver(ctx, recipients, text)
	logger.Get().Infow("broadcast finished",
		"role", role,
		"sent", result.Sent,
		"failed", result.Failed,
		"total", result.Total,
	)
	return result
}

// BroadcastGroup delivers text to the members of a group given by id or name.
func (s *notificationService) BroadcastGroup(ctx context.Context, group, text string) (DeliveryResult, error) {
	g, err := s.users.GetGroup(group)
	if err != nil {
		return DeliveryResult{}, err
	}

	recipients, err := s.registry.ListRecipients(RecipientFilter{GroupID: g.ID})
	if err != nil {
		return DeliveryResult{}, err
	}

	result := s.deliver(ctx, recipients, text)
	logger.Get().Infow("group broadcast finished",
		"group", g.Name,
		"sent", result.Sent,
		"failed", result.Failed,
		"total", result.Total,
	)
	return result, nil
}

// deliver fans text out to recipients. A failing recipient only bumps the
// failure count; every recipient is attempted or counted as failed.
func (s *notificationService) deliver(ctx context.Context, recipients []models.MessengerAccount, text string) DeliveryResult {
	batchCtx, cancel := context.WithTimeout(ctx, s.opts.BatchTimeout)
	defer cancel()

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	for _, recipient := range recipients {
		g.Go(func() error {
			if err := s.sendOne(batchCtx, recipient, text); err != nil {
				failed.Add(1)
				logger.Get().Warnw("notification delivery failed",
					"error", err,
					"platform", recipient.Platform,
					"external_id", recipient.ExternalID,
				)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return DeliveryResult{
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
		Total:  len(recipients),
	}
}

func (s *notificationService) sendOne(ctx context.Context, recipient models.MessengerAccount, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sender, ok := s.senders[recipient.Platform]
	if !ok {
		return apperrors.WithMessage(apperrors.ErrDeliveryFailed, "no sender for platform "+string(recipient.Platform))
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.opts.RecipientTimeout)
	defer cancel()
	return sender.SendMessage(sendCtx, recipient.ChatID, text)
}
