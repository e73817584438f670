package repository

import (
	"context"
	"edubot/config"
	"edubot/domain"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type dispatcherRepository struct {
	db          *gorm.DB
	meowClient  *whatsmeow.Client
	dialer      *gomail.Dialer
	emailSender string
}

func NewDispatcherRepository(db *gorm.DB, meow *whatsmeow.Client, dialer *gomail.Dialer, emailSender string) domain.DispatcherRepo {
	return &dispatcherRepository{
		db:          db,
		meowClient:  meow,
		dialer:      dialer,
		emailSender: emailSender,
	}
}

// DispatchPending sweeps unsent notifications and pushes them out on their
// recorded channel. One bad notification never stops the sweep; failures
// are collected into the final error after the whole batch ran.
func (dr *dispatcherRepository) DispatchPending(ctx context.Context, limit int) (*domain.DispatchReport, error) {
	var pending []domain.Notification

	err := dr.db.WithContext(ctx).
		Where("is_sent = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("could not fetch pending notifications: %v", err)
	}

	report := &domain.DispatchReport{Scanned: len(pending)}
	var finalErr error

	for i := range pending {
		n := &pending[i]

		if err := dr.db.WithContext(ctx).Model(n).
			Update("send_attempts", gorm.Expr("send_attempts + 1")).Error; err != nil {
			finalErr = fmt.Errorf("failed to record attempt for notification %d: %w", n.ID, err)
			report.Failed++
			continue
		}

		sent, err := dr.send(ctx, n)
		if err != nil {
			finalErr = fmt.Errorf("failed to dispatch notification %d: %w", n.ID, err)
			report.Failed++
			continue
		}
		if !sent {
			report.Skipped++
			continue
		}

		now := time.Now()
		err = dr.db.WithContext(ctx).Model(n).
			Updates(map[string]interface{}{"is_sent": true, "sent_at": now}).Error
		if err != nil {
			finalErr = fmt.Errorf("failed to mark notification %d sent: %w", n.ID, err)
			report.Failed++
			continue
		}

		report.Sent++
	}

	return report, finalErr
}

// send pushes one notification. The bool reports whether anything went out:
// false with a nil error means the notification had nowhere to go (email
// channel without an address) and stays pending.
func (dr *dispatcherRepository) send(ctx context.Context, n *domain.Notification) (bool, error) {
	switch n.Channel {
	case domain.ChannelWhatsapp:
		return true, dr.sendWA(ctx, n)
	case domain.ChannelEmail:
		return dr.sendEmail(n)
	case domain.ChannelBoth:
		if err := dr.sendWA(ctx, n); err != nil {
			return false, err
		}
		emailed, err := dr.sendEmail(n)
		if err != nil {
			return false, err
		}
		if !emailed {
			// WhatsApp went out, so the row counts as sent. Holding it
			// pending would resend WhatsApp every sweep waiting for an
			// address the payload never carried.
			config.GetLogrusInstance().Warnf("notification %d: channel both but no email address, delivered WhatsApp only", n.ID)
		}
		return true, nil
	case domain.ChannelInApp:
		// In-app delivery is the row itself; listing it is delivery.
		return true, nil
	}
	return false, fmt.Errorf("unknown channel %q", n.Channel)
}

func (dr *dispatcherRepository) sendWA(ctx context.Context, n *domain.Notification) error {
	jid := types.NewJID(n.Recipient, types.DefaultUserServer)

	text := fmt.Sprintf("*%s*\n\n%s", n.Title, n.Message)
	conversationMessage := &waE2E.Message{
		Conversation: &text,
	}

	if _, err := dr.meowClient.SendMessage(ctx, jid, conversationMessage); err != nil {
		return fmt.Errorf("failed to send Whatsapp text to %s: %w", n.Recipient, err)
	}
	return nil
}

func (dr *dispatcherRepository) sendEmail(n *domain.Notification) (bool, error) {
	address := emailAddressFor(n)
	if address == "" {
		return false, nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", dr.emailSender)
	m.SetHeader("To", address)
	m.SetHeader("Subject", n.Title)
	m.SetBody("text/plain", n.Message)

	if err := dr.dialer.DialAndSend(m); err != nil {
		return false, fmt.Errorf("failed to send email to %s: %w", address, err)
	}
	return true, nil
}

// The recipient key is a phone number, so an email address only exists when
// the event payload carried one.
func emailAddressFor(n *domain.Notification) string {
	if n.Data == nil {
		return ""
	}

	var payload map[string]interface{}
	if err := sonic.Unmarshal([]byte(*n.Data), &payload); err != nil {
		return ""
	}

	if address, ok := payload["email"].(string); ok {
		return address
	}
	return ""
}
