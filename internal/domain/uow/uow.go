package uow

import (
	"context"

	"pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/enterprise"
	"pass-iae-backend/internal/domain/hiring"
	"pass-iae-backend/internal/domain/peapproval"
	"pass-iae-backend/internal/domain/prescriber"
	"pass-iae-backend/internal/domain/prolongation"
	"pass-iae-backend/internal/domain/suspension"
	"pass-iae-backend/internal/domain/user"
)

// Repos bundles every repository bound to the same transaction.
type Repos struct {
	Approvals     approval.Repository
	Suspensions   suspension.Repository
	Prolongations prolongation.Repository
	PEApprovals   peapproval.Repository

	Users           user.Directory
	JobApplications hiring.Ledger
	Enterprises     enterprise.Directory
	Prescribers     prescriber.Directory
}

type UnitOfWork interface {
	// WithinTx runs fn in a transaction; repos passed to fn are bound to it.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinApprovalTx locks the approval row up-front, then runs fn. The
	// approval is the unit of contention for its suspensions/prolongations.
	WithinApprovalTx(ctx context.Context, number string, fn func(r Repos, a *approval.Approval) error) error
}
