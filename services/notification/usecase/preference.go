package usecase

import (
	"context"
	"edubot/domain"
	"time"
)

type preferenceUC struct {
	preferenceRepo domain.PreferenceRepo
	TimeOut        time.Duration
}

func NewPreferenceUseCase(repo domain.PreferenceRepo, timeOut time.Duration) domain.PreferenceUseCase {
	return &preferenceUC{
		preferenceRepo: repo,
		TimeOut:        timeOut,
	}
}

func (pUC *preferenceUC) GetPreferences(ctx context.Context, recipient string) (*domain.Preference, error) {
	ctx, cancel := context.WithTimeout(ctx, pUC.TimeOut)
	defer cancel()

	pref, err := pUC.preferenceRepo.GetOrCreate(ctx, recipient)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (pUC *preferenceUC) UpdatePreferences(ctx context.Context, recipient string, fields map[string]interface{}) (*domain.Preference, error) {
	ctx, cancel := context.WithTimeout(ctx, pUC.TimeOut)
	defer cancel()

	pref, err := pUC.preferenceRepo.Update(ctx, recipient, fields)
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (pUC *preferenceUC) ShouldSendNow(ctx context.Context, recipient string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, pUC.TimeOut)
	defer cancel()

	pref, err := pUC.preferenceRepo.GetOrCreate(ctx, recipient)
	if err != nil {
		return false, err
	}
	return ShouldSend(pref, now), nil
}
