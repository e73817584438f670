package usecase

import (
	"context"
	"edubot/domain"
	"errors"
	"testing"
	"time"
)

type fakeNotificationRepo struct {
	insertFn      func(ctx context.Context, n *domain.Notification) error
	listFn        func(ctx context.Context, recipient string, filter domain.ListFilter) (*[]domain.Notification, error)
	unreadCountFn func(ctx context.Context, recipient string) (int64, error)
	markReadFn    func(ctx context.Context, id int) (bool, error)
	markAllReadFn func(ctx context.Context, recipient string) error
	deleteFn      func(ctx context.Context, id int) (bool, error)
	deleteAllFn   func(ctx context.Context, recipient string) error
	statsFn       func(ctx context.Context, recipient string) (*domain.NotificationStats, error)
}

func (f *fakeNotificationRepo) Insert(ctx context.Context, n *domain.Notification) error {
	if f.insertFn == nil {
		return nil
	}
	return f.insertFn(ctx, n)
}

func (f *fakeNotificationRepo) List(ctx context.Context, recipient string, filter domain.ListFilter) (*[]domain.Notification, error) {
	if f.listFn == nil {
		return &[]domain.Notification{}, nil
	}
	return f.listFn(ctx, recipient, filter)
}

func (f *fakeNotificationRepo) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	if f.unreadCountFn == nil {
		return 0, nil
	}
	return f.unreadCountFn(ctx, recipient)
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id int) (bool, error) {
	if f.markReadFn == nil {
		return true, nil
	}
	return f.markReadFn(ctx, id)
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, recipient string) error {
	if f.markAllReadFn == nil {
		return nil
	}
	return f.markAllReadFn(ctx, recipient)
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id int) (bool, error) {
	if f.deleteFn == nil {
		return true, nil
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeNotificationRepo) DeleteAll(ctx context.Context, recipient string) error {
	if f.deleteAllFn == nil {
		return nil
	}
	return f.deleteAllFn(ctx, recipient)
}

func (f *fakeNotificationRepo) Stats(ctx context.Context, recipient string) (*domain.NotificationStats, error) {
	if f.statsFn == nil {
		return &domain.NotificationStats{}, nil
	}
	return f.statsFn(ctx, recipient)
}

type fakePreferenceRepo struct {
	getOrCreateFn func(ctx context.Context, recipient string) (*domain.Preference, error)
	updateFn      func(ctx context.Context, recipient string, fields map[string]interface{}) (*domain.Preference, error)
}

func (f *fakePreferenceRepo) GetOrCreate(ctx context.Context, recipient string) (*domain.Preference, error) {
	if f.getOrCreateFn == nil {
		return domain.DefaultPreference(recipient), nil
	}
	return f.getOrCreateFn(ctx, recipient)
}

func (f *fakePreferenceRepo) Update(ctx context.Context, recipient string, fields map[string]interface{}) (*domain.Preference, error) {
	if f.updateFn == nil {
		return domain.DefaultPreference(recipient), nil
	}
	return f.updateFn(ctx, recipient, fields)
}

const testTimeout = 2 * time.Second

func TestCreatePersistsWithResolvedChannel(t *testing.T) {
	t.Parallel()

	var inserted *domain.Notification
	repo := &fakeNotificationRepo{
		insertFn: func(ctx context.Context, n *domain.Notification) error {
			n.ID = 7
			n.CreatedAt = time.Now()
			inserted = n
			return nil
		},
	}

	// Default preferences: WhatsApp preferred. The event asked for in_app;
	// the recipient's preference wins.
	uc := NewNotificationUseCase(repo, &fakePreferenceRepo{}, testTimeout)

	notification, err := uc.Create(context.Background(), &domain.CreateRequest{
		Recipient: "15551230001",
		Category:  domain.CategoryHomeworkReviewed,
		Title:     "Homework Reviewed",
		Message:   "Your homework has been reviewed.",
		Channel:   domain.ChannelInApp,
		Data:      map[string]interface{}{"grade": "A"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if notification == nil {
		t.Fatal("Create() returned nil, want a record")
	}
	if inserted == nil {
		t.Fatal("Insert was never called")
	}

	if notification.Channel != domain.ChannelWhatsapp {
		t.Fatalf("channel = %s, want whatsapp (preference override)", notification.Channel)
	}
	if notification.Priority != domain.PriorityNormal {
		t.Fatalf("priority = %s, want normal default", notification.Priority)
	}
	if notification.RecipientRole != domain.RoleUser {
		t.Fatalf("role = %s, want user default", notification.RecipientRole)
	}
	if notification.ID != 7 {
		t.Fatalf("id = %d, want 7 from store", notification.ID)
	}
	if notification.Data == nil || *notification.Data != `{"grade":"A"}` {
		t.Fatalf("data = %v, want serialized payload", notification.Data)
	}
}

func TestCreateSuppressedByDisabledBucket(t *testing.T) {
	t.Parallel()

	// Every category must be suppressible through its bucket.
	disabled := map[domain.Category]func(p *domain.Preference){
		domain.CategoryHomeworkSubmitted:     func(p *domain.Preference) { p.HomeworkSubmitted = false },
		domain.CategoryHomeworkReviewed:      func(p *domain.Preference) { p.HomeworkReviewed = false },
		domain.CategoryChatMessage:           func(p *domain.Preference) { p.ChatMessages = false },
		domain.CategoryChatSupportStarted:    func(p *domain.Preference) { p.ChatMessages = false },
		domain.CategoryChatSupportEnded:      func(p *domain.Preference) { p.ChatMessages = false },
		domain.CategorySubscriptionActivated: func(p *domain.Preference) { p.SubscriptionAlerts = false },
		domain.CategorySubscriptionExpiring:  func(p *domain.Preference) { p.SubscriptionAlerts = false },
		domain.CategoryPaymentConfirmed:      func(p *domain.Preference) { p.SubscriptionAlerts = false },
		domain.CategoryAccountUpdated:        func(p *domain.Preference) { p.AccountUpdates = false },
		domain.CategoryRegistrationComplete:  func(p *domain.Preference) { p.AccountUpdates = false },
		domain.CategorySystemAlert:           func(p *domain.Preference) { p.SystemAlerts = false },
	}

	for category, turnOff := range disabled {
		category, turnOff := category, turnOff
		t.Run(category.String(), func(t *testing.T) {
			t.Parallel()

			repo := &fakeNotificationRepo{
				insertFn: func(ctx context.Context, n *domain.Notification) error {
					t.Fatal("Insert called for a suppressed notification")
					return nil
				},
			}
			prefRepo := &fakePreferenceRepo{
				getOrCreateFn: func(ctx context.Context, recipient string) (*domain.Preference, error) {
					pref := domain.DefaultPreference(recipient)
					turnOff(pref)
					return pref, nil
				},
			}

			uc := NewNotificationUseCase(repo, prefRepo, testTimeout)

			notification, err := uc.Create(context.Background(), &domain.CreateRequest{
				Recipient: "15551230002",
				Category:  category,
				Title:     "t",
				Message:   "m",
				Channel:   domain.ChannelWhatsapp,
			})
			if err != nil {
				t.Fatalf("Create() error = %v, want silent suppression", err)
			}
			if notification != nil {
				t.Fatalf("Create() = %+v, want nil (suppressed)", notification)
			}
		})
	}
}

func TestCreateStorageErrorReturnsNoRecord(t *testing.T) {
	t.Parallel()

	storageErr := errors.New("connection refused")
	repo := &fakeNotificationRepo{
		insertFn: func(ctx context.Context, n *domain.Notification) error {
			return storageErr
		},
	}

	uc := NewNotificationUseCase(repo, &fakePreferenceRepo{}, testTimeout)

	notification, err := uc.Create(context.Background(), &domain.CreateRequest{
		Recipient: "15551230003",
		Category:  domain.CategoryChatMessage,
		Title:     "t",
		Message:   "m",
		Channel:   domain.ChannelWhatsapp,
	})
	if !errors.Is(err, storageErr) {
		t.Fatalf("Create() error = %v, want storage error", err)
	}
	if notification != nil {
		t.Fatal("Create() returned a record despite storage failure")
	}
}

func TestMarkAsReadNotFound(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{
		markReadFn: func(ctx context.Context, id int) (bool, error) {
			return false, nil
		},
	}

	uc := NewNotificationUseCase(repo, &fakePreferenceRepo{}, testTimeout)

	found, err := uc.MarkAsRead(context.Background(), 404)
	if err != nil {
		t.Fatalf("MarkAsRead() error = %v", err)
	}
	if found {
		t.Fatal("MarkAsRead() = true for unknown id, want false")
	}
}

func TestMarkAllAsReadZeroRowsStillTrue(t *testing.T) {
	t.Parallel()

	// Zero matched rows is not a failure; only MarkAsRead reports not-found.
	repo := &fakeNotificationRepo{
		markAllReadFn: func(ctx context.Context, recipient string) error {
			return nil
		},
	}

	uc := NewNotificationUseCase(repo, &fakePreferenceRepo{}, testTimeout)

	ok, err := uc.MarkAllAsRead(context.Background(), "15551230004")
	if err != nil {
		t.Fatalf("MarkAllAsRead() error = %v", err)
	}
	if !ok {
		t.Fatal("MarkAllAsRead() = false, want true even with zero unread rows")
	}
}

func TestStatsPassthrough(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{
		statsFn: func(ctx context.Context, recipient string) (*domain.NotificationStats, error) {
			return &domain.NotificationStats{
				Total:  3,
				Unread: 2,
				ByCategory: map[domain.Category]int64{
					domain.CategoryHomeworkSubmitted: 2,
					domain.CategoryChatMessage:       1,
				},
			}, nil
		},
	}

	uc := NewNotificationUseCase(repo, &fakePreferenceRepo{}, testTimeout)

	stats, err := uc.Stats(context.Background(), "15551230005")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 3 || stats.Unread != 2 {
		t.Fatalf("stats = %+v, want total 3 unread 2", stats)
	}

	var sum int64
	for _, count := range stats.ByCategory {
		sum += count
	}
	if sum != stats.Total {
		t.Fatalf("byCategory sums to %d, want %d", sum, stats.Total)
	}
}

func TestUpdatePreferencesPassesFieldsThrough(t *testing.T) {
	t.Parallel()

	var gotFields map[string]interface{}
	prefRepo := &fakePreferenceRepo{
		updateFn: func(ctx context.Context, recipient string, fields map[string]interface{}) (*domain.Preference, error) {
			gotFields = fields
			pref := domain.DefaultPreference(recipient)
			pref.PreferEmail = true
			return pref, nil
		},
	}

	uc := NewPreferenceUseCase(prefRepo, testTimeout)

	pref, err := uc.UpdatePreferences(context.Background(), "15551230006", map[string]interface{}{
		"prefer_email": true,
		"bogus_field":  "ignored by the store",
	})
	if err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}
	if !pref.PreferEmail {
		t.Fatal("preference update not reflected")
	}
	if _, ok := gotFields["prefer_email"]; !ok {
		t.Fatal("prefer_email field not forwarded to store")
	}
}

func TestShouldSendNowUsesStoredPreferences(t *testing.T) {
	t.Parallel()

	prefRepo := &fakePreferenceRepo{
		getOrCreateFn: func(ctx context.Context, recipient string) (*domain.Preference, error) {
			pref := domain.DefaultPreference(recipient)
			pref.QuietHoursEnabled = true
			pref.QuietHoursStart = strPtr("22:00")
			pref.QuietHoursEnd = strPtr("08:00")
			return pref, nil
		},
	}

	uc := NewPreferenceUseCase(prefRepo, testTimeout)

	night := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	ok, err := uc.ShouldSendNow(context.Background(), "15551230007", night)
	if err != nil {
		t.Fatalf("ShouldSendNow() error = %v", err)
	}
	if ok {
		t.Fatal("ShouldSendNow() = true at 23:30 inside 22:00-08:00 window")
	}
}
