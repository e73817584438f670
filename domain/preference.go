package domain

import (
	"context"
	"time"
)

// Preference is the per-recipient notification settings row. One row per
// recipient, created lazily with defaults on first access.
type Preference struct {
	ID                 int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Recipient          string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"recipient"`
	HomeworkSubmitted  bool      `gorm:"not null;default:true" json:"homework_submitted"`
	HomeworkReviewed   bool      `gorm:"not null;default:true" json:"homework_reviewed"`
	ChatMessages       bool      `gorm:"not null;default:true" json:"chat_messages"`
	SubscriptionAlerts bool      `gorm:"not null;default:true" json:"subscription_alerts"`
	AccountUpdates     bool      `gorm:"not null;default:true" json:"account_updates"`
	SystemAlerts       bool      `gorm:"not null;default:true" json:"system_alerts"`
	PreferWhatsapp     bool      `gorm:"not null;default:true" json:"prefer_whatsapp"`
	PreferEmail        bool      `gorm:"not null;default:false" json:"prefer_email"`
	QuietHoursEnabled  bool      `gorm:"not null;default:false" json:"quiet_hours_enabled"`
	QuietHoursStart    *string   `gorm:"type:varchar(5)" json:"quiet_hours_start,omitempty"`
	QuietHoursEnd      *string   `gorm:"type:varchar(5)" json:"quiet_hours_end,omitempty"`
	BatchNotifications bool      `gorm:"not null;default:false" json:"batch_notifications"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Preference) TableName() string { return "notification_preferences" }

// Preference toggle buckets. Eleven categories fold into six switches.
const (
	BucketHomeworkSubmitted  = "homework_submitted"
	BucketHomeworkReviewed   = "homework_reviewed"
	BucketChatMessages       = "chat_messages"
	BucketSubscriptionAlerts = "subscription_alerts"
	BucketAccountUpdates     = "account_updates"
	BucketSystemAlerts       = "system_alerts"
)

var categoryBuckets = map[Category]string{
	CategoryHomeworkSubmitted:     BucketHomeworkSubmitted,
	CategoryHomeworkReviewed:      BucketHomeworkReviewed,
	CategoryChatMessage:           BucketChatMessages,
	CategoryChatSupportStarted:    BucketChatMessages,
	CategoryChatSupportEnded:      BucketChatMessages,
	CategorySubscriptionActivated: BucketSubscriptionAlerts,
	CategorySubscriptionExpiring:  BucketSubscriptionAlerts,
	CategoryPaymentConfirmed:      BucketSubscriptionAlerts,
	CategoryAccountUpdated:        BucketAccountUpdates,
	CategoryRegistrationComplete:  BucketAccountUpdates,
	CategorySystemAlert:           BucketSystemAlerts,
}

// BucketFor maps a category to its preference toggle. Unknown categories
// return ok=false; the engine lets those through rather than guessing.
func BucketFor(c Category) (string, bool) {
	b, ok := categoryBuckets[c]
	return b, ok
}

// Enabled reports whether the given bucket's toggle is on.
func (p *Preference) Enabled(bucket string) bool {
	switch bucket {
	case BucketHomeworkSubmitted:
		return p.HomeworkSubmitted
	case BucketHomeworkReviewed:
		return p.HomeworkReviewed
	case BucketChatMessages:
		return p.ChatMessages
	case BucketSubscriptionAlerts:
		return p.SubscriptionAlerts
	case BucketAccountUpdates:
		return p.AccountUpdates
	case BucketSystemAlerts:
		return p.SystemAlerts
	}
	return true
}

// DefaultPreference is the row shape lazily persisted on first access:
// everything enabled, WhatsApp preferred, quiet hours off.
func DefaultPreference(recipient string) *Preference {
	return &Preference{
		Recipient:          recipient,
		HomeworkSubmitted:  true,
		HomeworkReviewed:   true,
		ChatMessages:       true,
		SubscriptionAlerts: true,
		AccountUpdates:     true,
		SystemAlerts:       true,
		PreferWhatsapp:     true,
		PreferEmail:        false,
	}
}

type PreferenceRepo interface {
	GetOrCreate(ctx context.Context, recipient string) (*Preference, error)
	Update(ctx context.Context, recipient string, fields map[string]interface{}) (*Preference, error)
}

type PreferenceUseCase interface {
	GetPreferences(ctx context.Context, recipient string) (*Preference, error)
	// UpdatePreferences applies only allow-listed field names; anything
	// else in the payload is dropped silently.
	UpdatePreferences(ctx context.Context, recipient string, fields map[string]interface{}) (*Preference, error)
	// ShouldSendNow reports whether the recipient is outside their quiet
	// hours window right now.
	ShouldSendNow(ctx context.Context, recipient string, now time.Time) (bool, error)
}
