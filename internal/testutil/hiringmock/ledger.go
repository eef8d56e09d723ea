package hiringmock

import (
	"context"

	domain "pass-iae-backend/internal/domain/hiring"
)

var _ domain.Ledger = (*Ledger)(nil)

// Ledger is a function-backed mock that satisfies domain.Ledger.
// Unfilled getters behave as an empty table.
type Ledger struct {
	LastAcceptedForUserFn     func(ctx context.Context, userID uint64) (*domain.JobApplication, error)
	LastAcceptedForApprovalFn func(ctx context.Context, approvalID uint64) (*domain.JobApplication, error)
	ListForApprovalFn         func(ctx context.Context, approvalID uint64) ([]domain.JobApplication, error)
}

func (m *Ledger) LastAcceptedForUser(ctx context.Context, userID uint64) (*domain.JobApplication, error) {
	if m.LastAcceptedForUserFn != nil {
		return m.LastAcceptedForUserFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *Ledger) LastAcceptedForApproval(ctx context.Context, approvalID uint64) (*domain.JobApplication, error) {
	if m.LastAcceptedForApprovalFn != nil {
		return m.LastAcceptedForApprovalFn(ctx, approvalID)
	}
	return nil, domain.ErrNotFound
}

func (m *Ledger) ListForApproval(ctx context.Context, approvalID uint64) ([]domain.JobApplication, error) {
	if m.ListForApprovalFn != nil {
		return m.ListForApprovalFn(ctx, approvalID)
	}
	return nil, nil
}
