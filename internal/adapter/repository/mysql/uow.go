package mysql

import (
	"context"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// GormUoW implements uow.UnitOfWork on top of a gorm transaction. Every
// repository handed to the callback shares the same *gorm.DB, so row locks
// taken by one are held for all of them until commit.
type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Approvals:     NewApprovalRepository(tx),
		Suspensions:   NewSuspensionRepository(tx),
		Prolongations: NewProlongationRepository(tx),
		PEApprovals:   NewPEApprovalRepository(tx),

		Users:           NewUserDirectory(tx),
		JobApplications: NewJobApplicationLedger(tx),
		Enterprises:     NewEnterpriseDirectory(tx),
		Prescribers:     NewPrescriberDirectory(tx),
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinApprovalTx(ctx context.Context, number string, fn func(r uow.Repos, a *approvalDomain.Approval) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := reposFor(tx)
		a, err := repos.Approvals.(*ApprovalRepository).getByNumberForUpdate(ctx, number)
		if err != nil {
			return err
		}
		return fn(repos, a)
	})
}
