package peapprovalmock

import (
	"context"
	"time"

	"pass-iae-backend/internal/domain/notification"
	domain "pass-iae-backend/internal/domain/peapproval"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled getters behave as an empty table.
type Repo struct {
	CreateFn             func(ctx context.Context, a *domain.PoleEmploiApproval) error
	GetByNumberFn        func(ctx context.Context, number string) (*domain.PoleEmploiApproval, error)
	FindForUserFn        func(ctx context.Context, nir, poleEmploiID string, birthDate *time.Time) ([]domain.PoleEmploiApproval, error)
	ListNotifiableFn     func(ctx context.Context, today time.Time, limit int) ([]domain.PoleEmploiApproval, error)
	UpdateNotificationFn func(ctx context.Context, id uint64, st notification.State) error
}

func (m *Repo) Create(ctx context.Context, a *domain.PoleEmploiApproval) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByNumber(ctx context.Context, number string) (*domain.PoleEmploiApproval, error) {
	if m.GetByNumberFn != nil {
		return m.GetByNumberFn(ctx, number)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) FindForUser(ctx context.Context, nir, poleEmploiID string, birthDate *time.Time) ([]domain.PoleEmploiApproval, error) {
	if m.FindForUserFn != nil {
		return m.FindForUserFn(ctx, nir, poleEmploiID, birthDate)
	}
	return nil, nil
}

func (m *Repo) ListNotifiable(ctx context.Context, today time.Time, limit int) ([]domain.PoleEmploiApproval, error) {
	if m.ListNotifiableFn != nil {
		return m.ListNotifiableFn(ctx, today, limit)
	}
	return nil, nil
}

func (m *Repo) UpdateNotification(ctx context.Context, id uint64, st notification.State) error {
	if m.UpdateNotificationFn != nil {
		return m.UpdateNotificationFn(ctx, id, st)
	}
	return nil
}
