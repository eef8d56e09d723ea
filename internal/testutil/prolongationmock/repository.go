package prolongationmock

import (
	"context"

	domain "pass-iae-backend/internal/domain/prolongation"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled getters behave as an empty table.
type Repo struct {
	CreateFn          func(ctx context.Context, p *domain.Prolongation) error
	SaveFn            func(ctx context.Context, p *domain.Prolongation) error
	DeleteFn          func(ctx context.Context, p *domain.Prolongation) error
	GetByPublicIDFn   func(ctx context.Context, publicID string) (*domain.Prolongation, error)
	ListForApprovalFn func(ctx context.Context, approvalID uint64) ([]domain.Prolongation, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Prolongation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, p *domain.Prolongation) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, p *domain.Prolongation) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPublicID(ctx context.Context, publicID string) (*domain.Prolongation, error) {
	if m.GetByPublicIDFn != nil {
		return m.GetByPublicIDFn(ctx, publicID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListForApproval(ctx context.Context, approvalID uint64) ([]domain.Prolongation, error) {
	if m.ListForApprovalFn != nil {
		return m.ListForApprovalFn(ctx, approvalID)
	}
	return nil, nil
}
