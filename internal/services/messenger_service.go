package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/pagination"
)

// messengerService handles the registry of messenger accounts.
type messengerService struct {
	db *gorm.DB
}

// NewMessengerService creates a new MessengerServicer.
func NewMessengerService(db *gorm.DB) MessengerServicer {
	return &messengerService{db: db}
}

// UpsertProfile creates the account on first contact or refreshes its
// profile fields. The owner column is never part of the update set.
func (s *messengerService) UpsertProfile(platform models.Platform, externalID, chatID int64, profile Profile) error {
	if !platform.Valid() {
		return apperrors.ErrUnsupportedPlatform
	}

	account := &models.MessengerAccount{
		Platform:             platform,
		ExternalID:           externalID,
		ChatID:               chatID,
		FirstName:            profile.FirstName,
		LastName:             profile.LastName,
		Username:             profile.Username,
		IsActive:             true,
		NotificationsEnabled: true,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"chat_id", "first_name", "last_name", "username", "is_active", "updated_at", "deleted_at",
		}),
	}).Create(account).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RecordActivity updates the last message timestamp and increments message count
func (s *messengerService) RecordActivity(platform models.Platform, externalID int64) error {
	result := s.db.Model(&models.MessengerAccount{}).
		Where("platform = ? AND external_id = ?", platform, externalID).
		Updates(map[string]interface{}{
			"last_message_at": time.Now().UTC(),
			"message_count":   gorm.Expr("message_count + 1"),
		})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return nil
}

// FindByExternalID retrieves the account a platform user talks to the bot from
func (s *messengerService) FindByExternalID(platform models.Platform, externalID int64) (*models.MessengerAccount, error) {
	var account models.MessengerAccount
	if err := s.db.Where("platform = ? AND external_id = ?", platform, externalID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotSeen
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// FindByWebAccount retrieves the account of the given platform linked to a web user
func (s *messengerService) FindByWebAccount(userID string, platform models.Platform) (*models.MessengerAccount, error) {
	var account models.MessengerAccount
	if err := s.db.Where("owner_id = ? AND platform = ?", userID, platform).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotLinked
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// ListByWebAccount returns every messenger account linked to a web user
func (s *messengerService) ListByWebAccount(userID string) ([]models.MessengerAccount, error) {
	var accounts []models.MessengerAccount
	if err := s.db.Where("owner_id = ?", userID).Order("platform ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// LinkAccount sets the owner of a seen, unlinked account. The owner_id IS NULL
// guard makes the transition happen at most once.
func (s *messengerService) LinkAccount(platform models.Platform, externalID int64, userID string) (*models.MessengerAccount, error) {
	if userID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user id is required")
	}

	now := time.Now().UTC()
	result := s.db.Model(&models.MessengerAccount{}).
		Where("platform = ? AND external_id = ? AND owner_id IS NULL", platform, externalID).
		Updates(map[string]interface{}{
			"owner_id":  userID,
			"linked_at": now,
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	account, err := s.FindByExternalID(platform, externalID)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrAccountAlreadyLinked
	}
	return account, nil
}

// Unlink returns a linked account to the unlinked state
func (s *messengerService) Unlink(platform models.Platform, externalID int64) error {
	result := s.db.Model(&models.MessengerAccount{}).
		Where("platform = ? AND external_id = ? AND owner_id IS NOT NULL", platform, externalID).
		Updates(map[string]interface{}{
			"owner_id":  nil,
			"linked_at": nil,
		})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotLinked
	}
	return nil
}

// UnlinkByWebAccount detaches the web user's account on the given platform
func (s *messengerService) UnlinkByWebAccount(userID string, platform models.Platform) error {
	result := s.db.Model(&models.MessengerAccount{}).
		Where("owner_id = ? AND platform = ?", userID, platform).
		Updates(map[string]interface{}{
			"owner_id":  nil,
			"linked_at": nil,
		})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotLinked
	}
	return nil
}

// SetNotifications toggles broadcast delivery for an account
func (s *messengerService) SetNotifications(platform models.Platform, externalID int64, enabled bool) error {
	result := s.db.Model(&models.MessengerAccount{}).
		Where("platform = ? AND external_id = ?", platform, externalID).
		Update("notifications_enabled", enabled)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAccountNotSeen
	}
	return nil
}

// ListRecipients returns linked, active, opted-in accounts whose owner matches the filter.
func (s *messengerService) ListRecipients(filter RecipientFilter) ([]models.MessengerAccount, error) {
	query := s.db.Model(&models.MessengerAccount{}).
		Select("messenger_accounts.*").
		Joins("JOIN users ON users.id = messenger_accounts.owner_id AND users.deleted_at IS NULL").
		Where("messenger_accounts.owner_id IS NOT NULL").
		Where("messenger_accounts.is_active = ? AND messenger_accounts.notifications_enabled = ?", true, true).
		Where("users.is_active = ?", true)

	if filter.Role != "" {
		query = query.Where("users.role = ?", filter.Role)
	}
	if filter.GroupID != "" {
		query = query.Where("users.group_id = ?", filter.GroupID)
	}
	if filter.UserID != "" {
		query = query.Where("messenger_accounts.owner_id = ?", filter.UserID)
	}

	var accounts []models.MessengerAccount
	if err := query.Order("messenger_accounts.created_at ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// ListAccounts returns a page of all known messenger accounts, newest first
func (s *messengerService) ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.MessengerAccount], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.MessengerAccount{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.MessengerAccount
	if err := s.db.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(accounts, page.Page, page.PageSize, total)
	return &resp, nil
}
