package repository

import (
	"context"
	"edubot/domain"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Column allow-list for preference updates. Anything not in here is dropped
// silently instead of rejected.
var preferenceColumns = map[string]string{
	"homework_submitted":  "homework_submitted",
	"homework_reviewed":   "homework_reviewed",
	"chat_messages":       "chat_messages",
	"subscription_alerts": "subscription_alerts",
	"account_updates":     "account_updates",
	"system_alerts":       "system_alerts",
	"prefer_whatsapp":     "prefer_whatsapp",
	"prefer_email":        "prefer_email",
	"quiet_hours_enabled": "quiet_hours_enabled",
	"quiet_hours_start":   "quiet_hours_start",
	"quiet_hours_end":     "quiet_hours_end",
	"batch_notifications": "batch_notifications",
}

// preferenceSetClause builds the SET fragment for a preference update,
// keeping only allow-listed columns and dropping everything else. Keys are
// sorted so the clause is stable. Placeholder numbering starts at $3 because
// $1 and $2 are the recipient and updated_at.
func preferenceSetClause(fields map[string]interface{}) (string, []interface{}) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := preferenceColumns[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	clause := ""
	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		args = append(args, fields[name])
		clause += fmt.Sprintf(", %s = $%d", preferenceColumns[name], len(args)+2)
	}
	return clause, args
}

const preferenceSelect = `
	SELECT id, recipient, homework_submitted, homework_reviewed, chat_messages, subscription_alerts, account_updates, system_alerts, prefer_whatsapp, prefer_email, quiet_hours_enabled, quiet_hours_start, quiet_hours_end, batch_notifications, created_at, updated_at
	FROM notification_preferences
	WHERE recipient = $1;
`

type preferenceRepository struct {
	db *pgxpool.Pool
}

func NewPreferenceRepository(database *pgxpool.Pool) domain.PreferenceRepo {
	return &preferenceRepository{
		db: database,
	}
}

// GetOrCreate never reports "not found": a missing row is created with the
// defaults and returned. Callers must expect this read to write.
func (pr *preferenceRepository) GetOrCreate(ctx context.Context, recipient string) (*domain.Preference, error) {
	pref, err := pr.find(ctx, recipient)
	if err == nil {
		return pref, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("could not get preferences: %v", err)
	}

	insertQuery := `
		INSERT INTO notification_preferences (recipient, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (recipient) DO NOTHING;
	`

	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertQuery, recipient, time.Now()); err != nil {
		return nil, fmt.Errorf("could not create default preferences: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("could not commit default preferences: %v", err)
	}

	pref, err = pr.find(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("could not get preferences after create: %v", err)
	}

	return pref, nil
}

func (pr *preferenceRepository) Update(ctx context.Context, recipient string, fields map[string]interface{}) (*domain.Preference, error) {
	ensureQuery := `
		INSERT INTO notification_preferences (recipient, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (recipient) DO NOTHING;
	`

	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	if _, err := tx.Exec(ctx, ensureQuery, recipient, now); err != nil {
		return nil, fmt.Errorf("could not ensure preference row: %v", err)
	}

	setClause, extra := preferenceSetClause(fields)
	args := append([]interface{}{recipient, now}, extra...)

	updateQuery := fmt.Sprintf(`
		UPDATE notification_preferences
		SET updated_at = $2%s
		WHERE recipient = $1;
	`, setClause)

	if _, err := tx.Exec(ctx, updateQuery, args...); err != nil {
		return nil, fmt.Errorf("could not update preferences: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("could not commit preference update: %v", err)
	}

	pref, err := pr.find(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("could not get preferences after update: %v", err)
	}

	return pref, nil
}

func (pr *preferenceRepository) find(ctx context.Context, recipient string) (*domain.Preference, error) {
	var p domain.Preference
	err := pr.db.QueryRow(ctx, preferenceSelect, recipient).Scan(
		&p.ID, &p.Recipient,
		&p.HomeworkSubmitted, &p.HomeworkReviewed, &p.ChatMessages,
		&p.SubscriptionAlerts, &p.AccountUpdates, &p.SystemAlerts,
		&p.PreferWhatsapp, &p.PreferEmail,
		&p.QuietHoursEnabled, &p.QuietHoursStart, &p.QuietHoursEnd,
		&p.BatchNotifications, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
