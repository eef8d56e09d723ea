package approvalmock

import (
	"context"
	"time"

	domain "pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/notification"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled getters behave as an empty table.
type Repo struct {
	CreateFn             func(ctx context.Context, a *domain.Approval) error
	SaveFn               func(ctx context.Context, a *domain.Approval) error
	DeleteFn             func(ctx context.Context, a *domain.Approval) error
	GetByIDFn            func(ctx context.Context, id uint64) (*domain.Approval, error)
	GetByNumberFn        func(ctx context.Context, number string) (*domain.Approval, error)
	HasValidForUserFn    func(ctx context.Context, userID uint64, today time.Time) (bool, error)
	LastForUserFn        func(ctx context.Context, userID uint64) (*domain.Approval, error)
	NextNumberFn         func(ctx context.Context, prefix string) (string, error)
	ListNotifiableFn     func(ctx context.Context, today time.Time, limit int) ([]domain.Approval, error)
	UpdateNotificationFn func(ctx context.Context, id uint64, st notification.State) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Approval) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Approval) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, a *domain.Approval) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Approval, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByNumber(ctx context.Context, number string) (*domain.Approval, error) {
	if m.GetByNumberFn != nil {
		return m.GetByNumberFn(ctx, number)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) HasValidForUser(ctx context.Context, userID uint64, today time.Time) (bool, error) {
	if m.HasValidForUserFn != nil {
		return m.HasValidForUserFn(ctx, userID, today)
	}
	return false, nil
}

func (m *Repo) LastForUser(ctx context.Context, userID uint64) (*domain.Approval, error) {
	if m.LastForUserFn != nil {
		return m.LastForUserFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) NextNumber(ctx context.Context, prefix string) (string, error) {
	if m.NextNumberFn != nil {
		return m.NextNumberFn(ctx, prefix)
	}
	return domain.NextNumber(prefix, "")
}

func (m *Repo) ListNotifiable(ctx context.Context, today time.Time, limit int) ([]domain.Approval, error) {
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
