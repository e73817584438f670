package usecase

import (
	"context"
	"edubot/config"
	"edubot/domain"
	"fmt"
	"sort"
)

// Preview budgets for message bodies quoted inside notification text.
const (
	chatPreviewLimit  = 100
	adminPreviewLimit = 80
)

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

type homeworkSubmittedTrigger struct{}

func (homeworkSubmittedTrigger) Name() string                   { return "homework_submitted" }
func (homeworkSubmittedTrigger) Category() domain.Category      { return domain.CategoryHomeworkSubmitted }
func (homeworkSubmittedTrigger) Priority() domain.Priority      { return domain.PriorityNormal }
func (homeworkSubmittedTrigger) DefaultChannel() domain.Channel { return domain.ChannelWhatsapp }
func (homeworkSubmittedTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Homework Received"
	message := fmt.Sprintf("Hi %s!\n\nWe received your %s homework.\nOur tutors will review it and get back to you soon.",
		data.Str("student_name"), data.Str("subject"))
	return title, message
}

type homeworkSubmittedAdminTrigger struct{}

func (homeworkSubmittedAdminTrigger) Name() string { return "homework_submitted_admin" }
func (homeworkSubmittedAdminTrigger) Category() domain.Category {
	return domain.CategoryHomeworkSubmitted
}
func (homeworkSubmittedAdminTrigger) Priority() domain.Priority { return domain.PriorityNormal }
func (homeworkSubmittedAdminTrigger) DefaultChannel() domain.Channel {
	return domain.ChannelInApp
}
func (homeworkSubmittedAdminTrigger) Render(data domain.TriggerData) (string, string) {
	title := "New Homework Submission"
	message := fmt.Sprintf("Student %s submitted %s homework.\nNote: %s",
		data.Str("student_phone"), data.Str("subject"),
		truncate(data.Str("note"), adminPreviewLimit))
	return title, message
}

type homeworkReviewedTrigger struct{}

func (homeworkReviewedTrigger) Name() string                   { return "homework_reviewed" }
func (homeworkReviewedTrigger) Category() domain.Category      { return domain.CategoryHomeworkReviewed }
func (homeworkReviewedTrigger) Priority() domain.Priority      { return domain.PriorityHigh }
func (homeworkReviewedTrigger) DefaultChannel() domain.Channel { return domain.ChannelWhatsapp }
func (homeworkReviewedTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Homework Reviewed"
	message := fmt.Sprintf("Hi %s!\n\nYour %s homework has been reviewed.\nGrade: %s\nFeedback: %s",
		data.Str("student_name"), data.Str("subject"), data.Str("grade"), data.Str("feedback"))
	return title, message
}

type chatMessageTrigger struct{}

func (chatMessageTrigger) Name() string                   { return "chat_message" }
func (chatMessageTrigger) Category() domain.Category      { return domain.CategoryChatMessage }
func (chatMessageTrigger) Priority() domain.Priority      { return domain.PriorityNormal }
func (chatMessageTrigger) DefaultChannel() domain.Channel { return domain.ChannelWhatsapp }
func (chatMessageTrigger) Render(data domain.TriggerData) (string, string) {
	title := "New Message"
	message := fmt.Sprintf("%s sent you a message:\n\n%s",
		data.Str("sender_name"), truncate(data.Str("content"), chatPreviewLimit))
	return title, message
}

type chatMessageAdminTrigger struct{}

func (chatMessageAdminTrigger) Name() string                   { return "chat_message_admin" }
func (chatMessageAdminTrigger) Category() domain.Category      { return domain.CategoryChatMessage }
func (chatMessageAdminTrigger) Priority() domain.Priority      { return domain.PriorityNormal }
func (chatMessageAdminTrigger) DefaultChannel() domain.Channel { return domain.ChannelInApp }
func (chatMessageAdminTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Support Message"
	message := fmt.Sprintf("User %s wrote:\n%s",
		data.Str("user_phone"), truncate(data.Str("content"), adminPreviewLimit))
	return title, message
}

type chatSupportStartedTrigger struct{}

func (chatSupportStartedTrigger) Name() string              { return "chat_support_started" }
func (chatSupportStartedTrigger) Category() domain.Category { return domain.CategoryChatSupportStarted }
func (chatSupportStartedTrigger) Priority() domain.Priority { return domain.PriorityNormal }
func (chatSupportStartedTrigger) DefaultChannel() domain.Channel {
	return domain.ChannelWhatsapp
}
func (chatSupportStartedTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Support Chat Started"
	message := fmt.Sprintf("Hi %s!\n\nYou are now connected with our support team.\nAn agent will be with you shortly.",
		data.Str("user_name"))
	return title, message
}

type chatSupportEndedTrigger struct{}

func (chatSupportEndedTrigger) Name() string                   { return "chat_support_ended" }
func (chatSupportEndedTrigger) Category() domain.Category      { return domain.CategoryChatSupportEnded }
func (chatSupportEndedTrigger) Priority() domain.Priority      { return domain.PriorityLow }
func (chatSupportEndedTrigger) DefaultChannel() domain.Channel { return domain.ChannelWhatsapp }
func (chatSupportEndedTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Support Chat Ended"
	message := fmt.Sprintf("Hi %s!\n\nYour support chat has ended.\nThanks for reaching out, feel free to contact us again any time.",
		data.Str("user_name"))
	return title, message
}

type registrationCompleteTrigger struct{}

func (registrationCompleteTrigger) Name() string { return "registration_complete" }
func (registrationCompleteTrigger) Category() domain.Category {
	return domain.CategoryRegistrationComplete
}
func (registrationCompleteTrigger) Priority() domain.Priority { return domain.PriorityNormal }
func (registrationCompleteTrigger) DefaultChannel() domain.Channel {
	return domain.ChannelWhatsapp
}
func (registrationCompleteTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Welcome to EduBot!"
	message := fmt.Sprintf("Hi %s!\n\nYour registration is complete.\nSend us a photo of your homework any time and a tutor will help you out.",
		data.Str("user_name"))
	return title, message
}

type registrationAdminTrigger struct{}

func (registrationAdminTrigger) Name() string { return "registration_admin" }
func (registrationAdminTrigger) Category() domain.Category {
	return domain.CategoryRegistrationComplete
}
func (registrationAdminTrigger) Priority() domain.Priority      { return domain.PriorityLow }
func (registrationAdminTrigger) DefaultChannel() domain.Channel { return domain.ChannelInApp }
func (registrationAdminTrigger) Render(data domain.TriggerData) (string, string) {
	title := "New Registration"
	message := fmt.Sprintf("New user registered: %s (%s)",
		data.Str("user_name"), data.Str("user_phone"))
	return title, message
}

type subscriptionActivatedTrigger struct{}

func (subscriptionActivatedTrigger) Name() string { return "subscription_activated" }
func (subscriptionActivatedTrigger) Category() domain.Category {
	return domain.CategorySubscriptionActivated
}
func (subscriptionActivatedTrigger) Priority() domain.Priority { return domain.PriorityNormal }
func (subscriptionActivatedTrigger) DefaultChannel() domain.Channel {
	return domain.ChannelWhatsapp
}
func (subscriptionActivatedTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Subscription Active"
	message := fmt.Sprintf("Hi %s!\n\nYour %s subscription is now active until %s.\nEnjoy unlimited homework help!",
		data.Str("user_name"), data.Str("plan"), data.Str("expires_at"))
	return title, message
}

type subscriptionExpiringTrigger struct{}

func (subscriptionExpiringTrigger) Name() string { return "subscription_expiring" }
func (subscriptionExpiringTrigger) Category() domain.Category {
	return domain.CategorySubscriptionExpiring
}
func (subscriptionExpiringTrigger) Priority() domain.Priority { return domain.PriorityHigh }
func (subscriptionExpiringTrigger) DefaultChannel() domain.Channel {
	return domain.ChannelWhatsapp
}
func (subscriptionExpiringTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Subscription Expiring Soon"
	message := fmt.Sprintf("Hi %s!\n\nYour %s subscription expires in %d days, on %s.\nRenew now so your homework help is not interrupted.",
		data.Str("user_name"), data.Str("plan"), int(data.Num("days_left")), data.Str("expires_at"))
	return title, message
}

type paymentConfirmedTrigger struct{}

func (paymentConfirmedTrigger) Name() string                   { return "payment_confirmed" }
func (paymentConfirmedTrigger) Category() domain.Category      { return domain.CategoryPaymentConfirmed }
func (paymentConfirmedTrigger) Priority() domain.Priority      { return domain.PriorityNormal }
func (paymentConfirmedTrigger) DefaultChannel() domain.Channel { return domain.ChannelWhatsapp }
func (paymentConfirmedTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Payment Confirmed"
	message := fmt.Sprintf("Hi %s!\n\nWe received your payment of %s.\nTransaction: %s\nThank you!",
		data.Str("user_name"), data.Str("amount"), data.Str("transaction_id"))
	return title, message
}

type paymentReceivedAdminTrigger struct{}

func (paymentReceivedAdminTrigger) Name() string { return "payment_received_admin" }
func (paymentReceivedAdminTrigger) Category() domain.Category {
	return domain.CategoryPaymentConfirmed
}
func (paymentReceivedAdminTrigger) Priority() domain.Priority      { return domain.PriorityNormal }
func (paymentReceivedAdminTrigger) DefaultChannel() domain.Channel { return domain.ChannelInApp }
func (paymentReceivedAdminTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Payment Received"
	message := fmt.Sprintf("Payment of %s received from %s.\nTransaction: %s",
		data.Str("amount"), data.Str("user_phone"), data.Str("transaction_id"))
	return title, message
}

type accountUpdatedTrigger struct{}

func (accountUpdatedTrigger) Name() string                   { return "account_updated" }
func (accountUpdatedTrigger) Category() domain.Category      { return domain.CategoryAccountUpdated }
func (accountUpdatedTrigger) Priority() domain.Priority      { return domain.PriorityLow }
func (accountUpdatedTrigger) DefaultChannel() domain.Channel { return domain.ChannelWhatsapp }
func (accountUpdatedTrigger) Render(data domain.TriggerData) (string, string) {
	title := "Account Updated"
	message := fmt.Sprintf("Hi %s!\n\nYour account details were updated: %s.\nIf this wasn't you, please contact support.",
		data.Str("user_name"), data.Str("changes"))
	return title, message
}

type systemAlertTrigger struct{}

func (systemAlertTrigger) Name() string                   { return "system_alert" }
func (systemAlertTrigger) Category() domain.Category      { return domain.CategorySystemAlert }
func (systemAlertTrigger) Priority() domain.Priority      { return domain.PriorityNormal }
func (systemAlertTrigger) DefaultChannel() domain.Channel { return domain.ChannelInApp }
func (systemAlertTrigger) Render(data domain.TriggerData) (string, string) {
	title := fmt.Sprintf("System Alert: %s", data.Str("alert"))
	message := data.Str("details")
	return title, message
}

// Alert severity maps onto notification priority for system alerts only.
func (systemAlertTrigger) PriorityFor(data domain.TriggerData) domain.Priority {
	switch data.Str("severity") {
	case "critical":
		return domain.PriorityUrgent
	case "warning":
		return domain.PriorityHigh
	case "info":
		return domain.PriorityLow
	}
	return domain.PriorityNormal
}

type dynamicPriority interface {
	PriorityFor(data domain.TriggerData) domain.Priority
}

func defaultCatalog() map[string]domain.Trigger {
	triggers := []domain.Trigger{
		homeworkSubmittedTrigger{},
		homeworkSubmittedAdminTrigger{},
		homeworkReviewedTrigger{},
		chatMessageTrigger{},
		chatMessageAdminTrigger{},
		chatSupportStartedTrigger{},
		chatSupportEndedTrigger{},
		registrationCompleteTrigger{},
		registrationAdminTrigger{},
		subscriptionActivatedTrigger{},
		subscriptionExpiringTrigger{},
		paymentConfirmedTrigger{},
		paymentReceivedAdminTrigger{},
		accountUpdatedTrigger{},
		systemAlertTrigger{},
	}

	catalog := make(map[string]domain.Trigger, len(triggers))
	for _, t := range triggers {
		catalog[t.Name()] = t
	}
	return catalog
}

type triggerUC struct {
	engine  domain.NotificationUseCase
	catalog map[string]domain.Trigger
}

func NewTriggerUseCase(engine domain.NotificationUseCase) domain.TriggerUseCase {
	return &triggerUC{
		engine:  engine,
		catalog: defaultCatalog(),
	}
}

// Fire never lets a broken trigger break the workflow that raised the
// event: panics are recovered, errors are logged and swallowed.
func (tUC *triggerUC) Fire(ctx context.Context, name string, req *domain.FireRequest) (created bool) {
	log := config.GetLogrusInstance()

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("trigger %s panicked: %v", name, r)
			created = false
		}
	}()

	t, ok := tUC.catalog[name]
	if !ok {
		log.Warnf("unknown notification trigger: %s", name)
		return false
	}

	priority := t.Priority()
	if dp, ok := t.(dynamicPriority); ok {
		priority = dp.PriorityFor(req.Data)
	}

	title, message := t.Render(req.Data)

	notification, err := tUC.engine.Create(ctx, &domain.CreateRequest{
		Recipient:     req.Recipient,
		RecipientRole: req.Role,
		Category:      t.Category(),
		Priority:      priority,
		Channel:       t.DefaultChannel(),
		Title:         title,
		Message:       message,
		Data:          req.Data,
		RelatedType:   req.RelatedType,
		RelatedID:     req.RelatedID,
	})
	if err != nil {
		log.Errorf("trigger %s for %s failed: %v", name, req.Recipient, err)
		return false
	}

	return notification != nil
}

func (tUC *triggerUC) Names() []string {
	names := make([]string, 0, len(tUC.catalog))
	for name := range tUC.catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
