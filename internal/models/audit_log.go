package models

// Audited actions.
const (
	AuditRegister         = "REGISTER"
	AuditIssueLinkToken   = "ISSUE_LINK_TOKEN"
	AuditUnlinkMessenger  = "UNLINK_MESSENGER"
	AuditSendNotification = "SEND_NOTIFICATION"
)

// AuditLog records who issued link tokens, unlinked accounts or sent notifications.
// Changes holds a JSON object, empty when the action has no details.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string `gorm:"size:64;not null" json:"action"`
	ResourceType string `gorm:"size:64;not null" json:"resource_type"`
	ResourceID   string `json:"resource_id,omitempty"`
	IPAddress    string `gorm:"size:64" json:"ip_address,omitempty"`
	Changes      string `json:"changes,omitempty"`
}
