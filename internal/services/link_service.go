package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/logger"
	"github.com/PvUtrix/shked-sub003/internal/models"
)

// linkService joins a web session's token to a messenger account.
type linkService struct {
	db       *gorm.DB
	tokens   TokenServicer
	registry MessengerServicer
	now      func() time.Time
}

// NewLinkService creates a new LinkServicer.
func NewLinkService(db *gorm.DB, tokens TokenServicer, registry MessengerServicer) LinkServicer {
	return &linkService{
		db:       db,
		tokens:   tokens,
		registry: registry,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// IssueToken creates a link token for the authenticated web user
func (s *linkService) IssueToken(userID string) (*models.LinkToken, error) {
	return s.tokens.Issue(userID)
}

// Status validates a token without consuming it and reports the user's links.
func (s *linkService) Status(userID, token string) (*LinkStatus, error) {
	accounts, err := s.registry.ListByWebAccount(userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []models.MessengerAccount{}
	}
	return &LinkStatus{
		Valid:    s.tokens.Validate(userID, token),
		Linked:   len(accounts) > 0,
		Accounts: accounts,
	}, nil
}

// Redeem links the messenger account to the token's owner. Everything runs in
// one transaction so a rejected link leaves the token unspent.
func (s *linkService) Redeem(platform models.Platform, externalID int64, token string) (*models.MessengerAccount, error) {
	var linked *models.MessengerAccount

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := s.now()
		registry := &messengerService{db: tx}

		lt, err := lookupToken(tx, token, now)
		if err != nil {
			return err
		}

		account, err := registry.FindByExternalID(platform, externalID)
		if err != nil {
			return err
		}
		if account.IsLinked() {
			return apperrors.ErrAccountAlreadyLinked
		}

		if _, err := registry.FindByWebAccount(lt.UserID, platform); err == nil {
			return apperrors.ErrWebAccountAlreadyLinked
		} else if !errors.Is(err, apperrors.ErrNotLinked) {
			return err
		}

		if !consumeToken(tx, lt.UserID, lt.Token, now) {
			return apperrors.ErrTokenAlreadyUsed
		}

		linked, err = registry.LinkAccount(platform, externalID, lt.UserID)
		return err
	})
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			err = apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		logger.Get().Infow("messenger link rejected",
			"platform", platform,
			"external_id", externalID,
			"reason", err.Error(),
		)
		return nil, err
	}

	logger.Get().Infow("messenger account linked",
		"platform", platform,
		"external_id", externalID,
		"user_id", *linked.OwnerID,
	)
	return linked, nil
}
