package services

import (
	"context"
	"time"

	"github.com/PvUtrix/shked-sub003/internal/models"
	"github.com/PvUtrix/shked-sub003/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	RecordLogin(userID string) error
	GetGroup(identifier string) (*models.Group, error)
}

// TokenServicer defines the contract for short-lived link tokens.
type TokenServicer interface {
	Issue(userID string) (*models.LinkToken, error)
	Validate(userID, token string) bool
	Consume(userID, token string) bool
	Lookup(token string) (*models.LinkToken, error)
	PurgeExpired(before time.Time) (int64, error)
}

// Profile holds the display fields a messenger reports for its user.
type Profile struct {
	FirstName string
	LastName  string
	Username  string
}

// RecipientFilter narrows the set of linked accounts a notification goes to.
// Zero fields do not filter.
type RecipientFilter struct {
	Role    models.Role
	GroupID string
	UserID  string
}

// MessengerServicer defines the contract for the messenger account registry.
type MessengerServicer interface {
	UpsertProfile(platform models.Platform, externalID, chatID int64, profile Profile) error
	RecordActivity(platform models.Platform, externalID int64) error
	FindByExternalID(platform models.Platform, externalID int64) (*models.MessengerAccount, error)
	FindByWebAccount(userID string, platform models.Platform) (*models.MessengerAccount, error)
	ListByWebAccount(userID string) ([]models.MessengerAccount, error)
	LinkAccount(platform models.Platform, externalID int64, userID string) (*models.MessengerAccount, error)
	Unlink(platform models.Platform, externalID int64) error
	UnlinkByWebAccount(userID string, platform models.Platform) error
	SetNotifications(platform models.Platform, externalID int64, enabled bool) error
	ListRecipients(filter RecipientFilter) ([]models.MessengerAccount, error)
	ListAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.MessengerAccount], error)
}

// LinkStatus reports a web user's token and link state.
type LinkStatus struct {
	Valid    bool                      `json:"valid"`
	Linked   bool                      `json:"linked"`
	Accounts []models.MessengerAccount `json:"accounts"`
}

// LinkServicer defines the contract for linking messenger accounts to web accounts.
type LinkServicer interface {
	IssueToken(userID string) (*models.LinkToken, error)
	Status(userID, token string) (*LinkStatus, error)
	Redeem(platform models.Platform, externalID int64, token string) (*models.MessengerAccount, error)
}

// ScheduleServicer defines the read-only schedule lookups the bot offers.
type ScheduleServicer interface {
	LessonsForDay(userID string, day time.Time) ([]models.Lesson, error)
	UpcomingHomework(userID string, from time.Time, within time.Duration) ([]models.Homework, error)
}

// DeliveryResult counts the outcome of a fan-out. Sent + Failed == Total.
type DeliveryResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// NotificationServicer defines the contract for delivering notifications.
type NotificationServicer interface {
	SendToUser(ctx context.Context, userID, text string) bool
	SendToExternal(ctx context.Context, platform models.Platform, externalID int64, text string) bool
	BroadcastAll(ctx context.Context, text string, role models.Role) DeliveryResult
	BroadcastGroup(ctx context.Context, group, text string) (DeliveryResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
