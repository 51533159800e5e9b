package models

import "time"

// Platform identifies a messenger integration.
type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformMax      Platform = "max"
)

// Platforms lists every supported messenger.
var Platforms = []Platform{PlatformTelegram, PlatformMax}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTelegram, PlatformMax:
		return true
	}
	return false
}

// LinkState is the lifecycle position of a messenger account.
// An account that was never seen has no record at all.
type LinkState string

const (
	LinkStateSeenUnlinked LinkState = "seen_unlinked"
	LinkStateLinked       LinkState = "linked"
)

// MessengerAccount represents a messenger identity that has talked to the bot.
// OwnerID is nil until the identity is linked to a web account.
type MessengerAccount struct {
	Base
	Platform             Platform   `gorm:"size:16;not null;uniqueIndex:idx_messenger_platform_external;uniqueIndex:idx_messenger_owner_platform" json:"platform"`
	ExternalID           int64      `gorm:"not null;uniqueIndex:idx_messenger_platform_external" json:"external_id"`
	ChatID               int64      `gorm:"not null" json:"chat_id"`
	FirstName            string     `json:"first_name,omitempty"`
	LastName             string     `json:"last_name,omitempty"`
	Username             string     `json:"username,omitempty"`
	OwnerID              *string    `gorm:"type:uuid;uniqueIndex:idx_messenger_owner_platform" json:"owner_id,omitempty"`
	IsActive             bool       `gorm:"not null;default:true" json:"is_active"`
	NotificationsEnabled bool       `gorm:"not null;default:true" json:"notifications_enabled"`
	LinkedAt             *time.Time `json:"linked_at,omitempty"`
	LastMessageAt        *time.Time `json:"last_message_at,omitempty"`
	MessageCount         int64      `gorm:"not null;default:0" json:"message_count"`
}

// IsLinked reports whether the account has a real owner.
func (a *MessengerAccount) IsLinked() bool {
	return a.OwnerID != nil && *a.OwnerID != ""
}

// LinkState returns the account's position in the link lifecycle.
func (a *MessengerAccount) LinkState() LinkState {
	if a.IsLinked() {
		return LinkStateLinked
	}
	return LinkStateSeenUnlinked
}

// DisplayName returns the best available human name for the account.
func (a *MessengerAccount) DisplayName() string {
	switch {
	case a.Username != "":
		return "@" + a.Username
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	default:
		return a.FirstName
	}
}
