package usecase

import (
	"context"
	"edubot/domain"
	"time"
)

const defaultDispatchLimit = 100

type dispatcherUC struct {
	dispatcherRepo domain.DispatcherRepo
	TimeOut        time.Duration
}

func NewDispatcherUseCase(repo domain.DispatcherRepo, timeOut time.Duration) domain.DispatcherUseCase {
	return &dispatcherUC{
		dispatcherRepo: repo,
		TimeOut:        timeOut,
	}
}

func (dUC *dispatcherUC) DispatchPending(ctx context.Context, limit int) (*domain.DispatchReport, error) {
	ctx, cancel := context.WithTimeout(ctx, dUC.TimeOut)
	defer cancel()

	if limit <= 0 {
		limit = defaultDispatchLimit
	}

	report, err := dUC.dispatcherRepo.DispatchPending(ctx, limit)
	if err != nil {
		return report, err
	}
	return report, nil
}
