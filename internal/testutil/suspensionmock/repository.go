package suspensionmock

import (
	"context"
	"time"

	domain "pass-iae-backend/internal/domain/suspension"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled getters behave as an empty table.
type Repo struct {
	CreateFn                    func(ctx context.Context, s *domain.Suspension) error
	SaveFn                      func(ctx context.Context, s *domain.Suspension) error
	DeleteFn                    func(ctx context.Context, s *domain.Suspension) error
	GetByPublicIDFn             func(ctx context.Context, publicID string) (*domain.Suspension, error)
	ListForApprovalFn           func(ctx context.Context, approvalID uint64) ([]domain.Suspension, error)
	LastInProgressForApprovalFn func(ctx context.Context, approvalID uint64, today time.Time) (*domain.Suspension, error)
}

func (m *Repo) Create(ctx context.Context, s *domain.Suspension) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, s *domain.Suspension) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, s *domain.Suspension) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetByPublicID(ctx context.Context, publicID string) (*domain.Suspension, error) {
	if m.GetByPublicIDFn != nil {
		return m.GetByPublicIDFn(ctx, publicID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListForApproval(ctx context.Context, approvalID uint64) ([]domain.Suspension, error) {
	if m.ListForApprovalFn != nil {
		return m.ListForApprovalFn(ctx, approvalID)
	}
	return nil, nil
}

func (m *Repo) LastInProgressForApproval(ctx context.Context, approvalID uint64, today time.Time) (*domain.Suspension, error) {
	if m.LastInProgressForApprovalFn != nil {
		return m.LastInProgressForApprovalFn(ctx, approvalID, today)
	}
	return nil, domain.ErrNotFound
}
