package models

import "time"

// LinkPurposeMessenger scopes a token to "link a messenger to this account".
const LinkPurposeMessenger = "messenger_link"

// LinkToken is a short-lived credential that binds a messenger identity to a web account.
type LinkToken struct {
	Base
	UserID     string     `gorm:"type:uuid;not null;index:idx_link_tokens_user_purpose" json:"user_id"`
	Purpose    string     `gorm:"size:32;not null;index:idx_link_tokens_user_purpose" json:"purpose"`
	Token      string     `gorm:"size:16;uniqueIndex;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// IsConsumed reports whether the token was already redeemed.
func (t *LinkToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t *LinkToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
