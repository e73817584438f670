package repository

import (
	"context"
	"edubot/domain"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type notificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(database *pgxpool.Pool) domain.NotificationRepo {
	return &notificationRepository{
		db: database,
	}
}

func (nr *notificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	insertQuery := `
		INSERT INTO notifications (recipient, recipient_role, category, priority, channel, title, message, data, related_type, related_id, is_read, is_sent, send_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, FALSE, 0, $11)
		RETURNING id;
	`

	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	var id int
	err = tx.QueryRow(ctx, insertQuery,
		n.Recipient, n.RecipientRole, n.Category, n.Priority, n.Channel,
		n.Title, n.Message, n.Data, n.RelatedType, n.RelatedID, now,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not insert notification: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit notification insert: %v", err)
	}

	n.ID = id
	n.IsRead = false
	n.IsSent = false
	n.SendAttempts = 0
	n.CreatedAt = now

	return nil
}

func (nr *notificationRepository) List(ctx context.Context, recipient string, filter domain.ListFilter) (*[]domain.Notification, error) {
	query := `
		SELECT id, recipient, recipient_role, category, priority, channel, title, message, data, related_type, related_id, is_read, read_at, is_sent, send_attempts, sent_at, created_at
		FROM notifications
		WHERE recipient = $1
	`
	args := []interface{}{recipient}

	if filter.UnreadOnly {
		query += ` AND is_read = FALSE`
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	query += ` ORDER BY created_at DESC, id DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := nr.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list notifications: %v", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID, &n.Recipient, &n.RecipientRole, &n.Category, &n.Priority, &n.Channel,
			&n.Title, &n.Message, &n.Data, &n.RelatedType, &n.RelatedID,
			&n.IsRead, &n.ReadAt, &n.IsSent, &n.SendAttempts, &n.SentAt, &n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("could not scan notification: %v", err)
		}
		notifications = append(notifications, n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %v", err)
	}

	return &notifications, nil
}

func (nr *notificationRepository) UnreadCount(ctx context.Context, recipient string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE recipient = $1 AND is_read = FALSE;
	`

	var count int64
	if err := nr.db.QueryRow(ctx, query, recipient).Scan(&count); err != nil {
		return 0, fmt.Errorf("could not count unread notifications: %v", err)
	}

	return count, nil
}

// MarkRead flips is_read once. An already-read row is a no-op success and
// read_at keeps its first value.
func (nr *notificationRepository) MarkRead(ctx context.Context, id int) (bool, error) {
	existsQuery := `SELECT is_read FROM notifications WHERE id = $1;`
	updateQuery := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE id = $2 AND is_read = FALSE;
	`

	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	var isRead bool
	err = tx.QueryRow(ctx, existsQuery, id).Scan(&isRead)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("could not get notification: %v", err)
	}

	if !isRead {
		if _, err := tx.Exec(ctx, updateQuery, time.Now(), id); err != nil {
			return false, fmt.Errorf("could not mark notification as read: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("could not commit mark-read: %v", err)
	}

	return true, nil
}

func (nr *notificationRepository) MarkAllRead(ctx context.Context, recipient string) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE recipient = $2 AND is_read = FALSE;
	`

	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, time.Now(), recipient); err != nil {
		return fmt.Errorf("could not mark all notifications as read: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit mark-all-read: %v", err)
	}

	return nil
}

func (nr *notificationRepository) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM notifications WHERE id = $1;`

	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("could not delete notification: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("could not commit delete: %v", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (nr *notificationRepository) DeleteAll(ctx context.Context, recipient string) error {
	query := `DELETE FROM notifications WHERE recipient = $1;`

	tx, err := nr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, recipient); err != nil {
		return fmt.Errorf("could not clear notifications: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit clear: %v", err)
	}

	return nil
}

func (nr *notificationRepository) Stats(ctx context.Context, recipient string) (*domain.NotificationStats, error) {
	totalsQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_read = FALSE)
		FROM notifications
		WHERE recipient = $1;
	`
	byCategoryQuery := `
		SELECT category, COUNT(*)
		FROM notifications
		WHERE recipient = $1
		GROUP BY category;
	`

	stats := domain.NotificationStats{
		ByCategory: make(map[domain.Category]int64),
	}

	err := nr.db.QueryRow(ctx, totalsQuery, recipient).Scan(&stats.Total, &stats.Unread)
	if err != nil {
		return nil, fmt.Errorf("could not count notifications: %v", err)
	}

	rows, err := nr.db.Query(ctx, byCategoryQuery, recipient)
	if err != nil {
		return nil, fmt.Errorf("could not count notifications by category: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category domain.Category
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("could not scan category count: %v", err)
		}
		stats.ByCategory[category] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %v", err)
	}

	return &stats, nil
}
