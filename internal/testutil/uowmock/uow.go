package uowmock

import (
	"context"

	"pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

// UoW is a function-backed mock that satisfies uow.UnitOfWork. The default
// behavior runs the callback directly against Repos, resolving the approval
// through Repos.Approvals: tests exercise the transactional flows without a
// database, at the cost of no rollback semantics.
type UoW struct {
	Repos uow.Repos

	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinApprovalTxFn func(ctx context.Context, number string, fn func(r uow.Repos, a *approval.Approval) error) error
}

func New(repos uow.Repos) *UoW { return &UoW{Repos: repos} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(m.Repos)
}

func (m *UoW) WithinApprovalTx(ctx context.Context, number string, fn func(r uow.Repos, a *approval.Approval) error) error {
	if m.WithinApprovalTxFn != nil {
		return m.WithinApprovalTxFn(ctx, number, fn)
	}
	a, err := m.Repos.Approvals.GetByNumber(ctx, number)
	if err != nil {
		return err
	}
	return fn(m.Repos, a)
}
