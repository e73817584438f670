package domain

import "context"

// DispatchReport summarizes one sweep over unsent notifications.
type DispatchReport struct {
	Scanned int `json:"scanned"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// DispatcherRepo owns the delivery side of the isSent/sendAttempts/sentAt
// lifecycle. The engine only records the intended channel; this sweep
// actually pushes WhatsApp and email messages out.
type DispatcherRepo interface {
	DispatchPending(ctx context.Context, limit int) (*DispatchReport, error)
}

type DispatcherUseCase interface {
	DispatchPending(ctx context.Context, limit int) (*DispatchReport, error)
}
