package config

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	pgPool *pgxpool.Pool
	gormDB *gorm.DB
)

func GetDatabaseURL() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))
	return dsn
}

func BootDB(ctx context.Context) (*pgxpool.Pool, error) {
	if pgPool != nil {
		return pgPool, nil
	}

	pool, err := pgxpool.New(ctx, GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		return nil, err
	}

	pgPool = pool
	return pgPool, nil
}

// BootGorm opens the gorm handle the dispatcher repository uses. Same
// database as the pgx pool.
func BootGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	db, err := gorm.Open(postgres.Open(GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	gormDB = db
	return gormDB, nil
}

// Migrate creates the notification tables if they do not exist. Idempotent,
// safe to run on every boot.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
	CREATE TABLE IF NOT EXISTS notifications (
	id SERIAL PRIMARY KEY,
	recipient VARCHAR(20) NOT NULL,
	recipient_role VARCHAR(10) NOT NULL DEFAULT 'user',
	category VARCHAR(30) NOT NULL,
	priority VARCHAR(10) NOT NULL DEFAULT 'normal',
	channel VARCHAR(10) NOT NULL,
	title VARCHAR(255) NOT NULL,
	message TEXT NOT NULL,
	data TEXT,
	related_type VARCHAR(30),
	related_id VARCHAR(50),
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	read_at TIMESTAMPTZ,
	is_sent BOOLEAN NOT NULL DEFAULT FALSE,
	send_attempts INT NOT NULL DEFAULT 0,
	sent_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient, created_at DESC);

	CREATE TABLE IF NOT EXISTS notification_preferences (
	id SERIAL PRIMARY KEY,
	recipient VARCHAR(20) NOT NULL UNIQUE,
	homework_submitted BOOLEAN NOT NULL DEFAULT TRUE,
	homework_reviewed BOOLEAN NOT NULL DEFAULT TRUE,
	chat_messages BOOLEAN NOT NULL DEFAULT TRUE,
	subscription_alerts BOOLEAN NOT NULL DEFAULT TRUE,
	account_updates BOOLEAN NOT NULL DEFAULT TRUE,
	system_alerts BOOLEAN NOT NULL DEFAULT TRUE,
	prefer_whatsapp BOOLEAN NOT NULL DEFAULT TRUE,
	prefer_email BOOLEAN NOT NULL DEFAULT FALSE,
	quiet_hours_enabled BOOLEAN NOT NULL DEFAULT FALSE,
	quiet_hours_start VARCHAR(5),
	quiet_hours_end VARCHAR(5),
	batch_notifications BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err := pool.Exec(ctx, query)
	if err != nil {
		fmt.Printf("Error executing migration query: %v\n", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
