package domain

import (
	"context"
	"strings"
	"time"
)

// Category is the domain event kind a notification represents.
type Category string

const (
	CategoryHomeworkSubmitted     Category = "homework_submitted"
	CategoryHomeworkReviewed      Category = "homework_reviewed"
	CategoryChatMessage           Category = "chat_message"
	CategoryChatSupportStarted    Category = "chat_support_started"
	CategoryChatSupportEnded      Category = "chat_support_ended"
	CategoryRegistrationComplete  Category = "registration_complete"
	CategorySubscriptionActivated Category = "subscription_activated"
	CategorySubscriptionExpiring  Category = "subscription_expiring"
	CategoryPaymentConfirmed      Category = "payment_confirmed"
	CategoryAccountUpdated        Category = "account_updated"
	CategorySystemAlert           Category = "system_alert"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryHomeworkSubmitted, CategoryHomeworkReviewed, CategoryChatMessage,
		CategoryChatSupportStarted, CategoryChatSupportEnded, CategoryRegistrationComplete,
		CategorySubscriptionActivated, CategorySubscriptionExpiring, CategoryPaymentConfirmed,
		CategoryAccountUpdated, CategorySystemAlert:
		return true
	}
	return false
}

// ParseCategory matches case-insensitively. Unknown names return ok=false;
// callers treat that as "no filter" rather than an error.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", false
	}
	return c, true
}

// Channel is the delivery medium resolved for a notification at creation time.
type Channel string

const (
	ChannelWhatsapp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
	ChannelInApp    Channel = "in_app"
	ChannelBoth     Channel = "both"
)

func (ch Channel) String() string { return string(ch) }

func (ch Channel) IsValid() bool {
	switch ch {
	case ChannelWhatsapp, ChannelEmail, ChannelInApp, ChannelBoth:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) String() string { return string(p) }

// Role says who the notification is addressed to. Informational only.
type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

type Notification struct {
	ID            int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Recipient     string     `gorm:"type:varchar(20);not null;index" json:"recipient" valid:"required~Recipient is required"`
	RecipientRole Role       `gorm:"type:varchar(10);not null;default:'user'" json:"recipient_role"`
	Category      Category   `gorm:"type:varchar(30);not null" json:"category" valid:"required~Category is required"`
	Priority      Priority   `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	Channel       Channel    `gorm:"type:varchar(10);not null" json:"channel"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title" valid:"required~Title is required"`
	Message       string     `gorm:"type:text;not null" json:"message" valid:"required~Message is required"`
	Data          *string    `gorm:"type:text" json:"data,omitempty"`
	RelatedType   *string    `gorm:"type:varchar(30)" json:"related_type,omitempty"`
	RelatedID     *string    `gorm:"type:varchar(50)" json:"related_id,omitempty"`
	IsRead        bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	IsSent        bool       `gorm:"not null;default:false" json:"is_sent"`
	SendAttempts  int        `gorm:"not null;default:0" json:"send_attempts"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// NotificationStats is the aggregate shape behind GET /notification/stats.
type NotificationStats struct {
	Total      int64              `json:"total"`
	Unread     int64              `json:"unread"`
	ByCategory map[Category]int64 `json:"by_category"`
}

// ListFilter narrows List queries. A nil Category means no category filter.
type ListFilter struct {
	Limit      int
	Offset     int
	UnreadOnly bool
	Category   *Category
}

// CreateRequest carries everything a caller supplies for one notification.
// Data stays an opaque map here; the engine serializes it before persisting.
type CreateRequest struct {
	Recipient     string                 `json:"recipient" valid:"required~Recipient is required"`
	RecipientRole Role                   `json:"recipient_role"`
	Category      Category               `json:"category" valid:"required~Category is required"`
	Priority      Priority               `json:"priority"`
	Channel       Channel                `json:"channel"`
	Title         string                 `json:"title" valid:"required~Title is required"`
	Message       string                 `json:"message" valid:"required~Message is required"`
	Data          map[string]interface{} `json:"data,omitempty"`
	RelatedType   *string                `json:"related_type,omitempty"`
	RelatedID     *string                `json:"related_id,omitempty"`
}

type NotificationRepo interface {
	Insert(ctx context.Context, n *Notification) error
	List(ctx context.Context, recipient string, filter ListFilter) (*[]Notification, error)
	UnreadCount(ctx context.Context, recipient string) (int64, error)
	MarkRead(ctx context.Context, id int) (bool, error)
	MarkAllRead(ctx context.Context, recipient string) error
	Delete(ctx context.Context, id int) (bool, error)
	DeleteAll(ctx context.Context, recipient string) error
	Stats(ctx context.Context, recipient string) (*NotificationStats, error)
}

type NotificationUseCase interface {
	// Create returns (nil, nil) when the recipient has the category's
	// bucket disabled: suppressed by preference, not an error.
	Create(ctx context.Context, req *CreateRequest) (*Notification, error)
	List(ctx context.Context, recipient string, filter ListFilter) (*[]Notification, error)
	UnreadCount(ctx context.Context, recipient string) (int64, error)
	MarkAsRead(ctx context.Context, id int) (bool, error)
	MarkAllAsRead(ctx context.Context, recipient string) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	ClearAll(ctx context.Context, recipient string) (bool, error)
	Stats(ctx context.Context, recipient string) (*NotificationStats, error)
}
