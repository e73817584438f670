package usecase

import (
	"context"
	"edubot/config"
	"edubot/domain"
	"time"

	"github.com/bytedance/sonic"
)

type notificationUC struct {
	notificationRepo domain.NotificationRepo
	preferenceRepo   domain.PreferenceRepo
	TimeOut          time.Duration
}

func NewNotificationUseCase(repo domain.NotificationRepo, prefRepo domain.PreferenceRepo, timeOut time.Duration) domain.NotificationUseCase {
	return &notificationUC{
		notificationRepo: repo,
		preferenceRepo:   prefRepo,
		TimeOut:          timeOut,
	}
}

// Create persists one notification for req.Recipient. When the recipient
// has the category's preference bucket turned off it returns (nil, nil):
// nothing is inserted and nothing is reported back, the event just goes
// quiet for that recipient.
func (nUC *notificationUC) Create(ctx context.Context, req *domain.CreateRequest) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, nUC.TimeOut)
	defer cancel()

	log := config.GetLogrusInstance()

	pref, err := nUC.preferenceRepo.GetOrCreate(ctx, req.Recipient)
	if err != nil {
		log.Errorf("create notification: preferences for %s: %v", req.Recipient, err)
		return nil, err
	}

	if bucket, ok := domain.BucketFor(req.Category); ok && !pref.Enabled(bucket) {
		return nil, nil
	}

	role := req.RecipientRole
	if role == "" {
		role = domain.RoleUser
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	requested := req.Channel
	if !requested.IsValid() {
		requested = domain.ChannelInApp
	}

	var data *string
	if len(req.Data) > 0 {
		raw, err := sonic.Marshal(req.Data)
		if err != nil {
			log.Errorf("create notification: serialize data for %s: %v", req.Recipient, err)
			return nil, err
		}
		s := string(raw)
		data = &s
	}

	notification := domain.Notification{
		Recipient:     req.Recipient,
		RecipientRole: role,
		Category:      req.Category,
		Priority:      priority,
		Channel:       ResolveChannel(pref, requested),
		Title:         req.Title,
		Message:       req.Message,
		Data:          data,
		RelatedType:   req.RelatedType,
		RelatedID:     req.RelatedID,
	}

	if err := nUC.notificationRepo.Insert(ctx, &notification); err != nil {
		log.Errorf("create notification for %s: %v", req.Recipient, err)
		return nil, err
	}

	return &notification, nil
}

func (nUC *notificationUC) List(ctx context.Context, recipient string, filter domain.ListFilter) (*[]domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, nUC.TimeOut)
	defer cancel()

	notifications, err := nUC.notificationRepo.List(ctx, recipient, filter)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (nUC *notificationUC) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, nUC.TimeOut)
	defer cancel()

	count, err := nUC.notificationRepo.UnreadCount(ctx, recipient)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (nUC *notificationUC) MarkAsRead(ctx context.Context, id int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, nUC.TimeOut)
	defer cancel()

	found, err := nUC.notificationRepo.MarkRead(ctx, id)
	if err != nil {
		return false, err
	}
	return found, nil
}

// MarkAllAsRead reports true even when zero rows matched. Only MarkAsRead
// distinguishes a missing id.
func (nUC *notificationUC) MarkAllAsRead(ctx context.Context, recipient string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, nUC.TimeOut)
	defer cancel()

	if err := nUC.notificationRepo.MarkAllRead(ctx, recipient); err != nil {
		return false, err
	}
	return true, nil
}

func (nUC *notificationUC) Delete(ctx context.Context, id int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, nUC.TimeOut)
	defer cancel()

	found, err := nUC.notificationRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	return found, nil
}

func (nUC *notificationUC) ClearAll(ctx context.Context, recipient string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, nUC.TimeOut)
	defer cancel()

	if err := nUC.notificationRepo.DeleteAll(ctx, recipient); err != nil {
		return false, err
	}
	return true, nil
}

func (nUC *notificationUC) Stats(ctx context.Context, recipient string) (*domain.NotificationStats, error) {
	ctx, cancel := context.WithTimeout(ctx, nUC.TimeOut)
	defer cancel()

	stats, err := nUC.notificationRepo.Stats(ctx, recipient)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
