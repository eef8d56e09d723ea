package mysql

import (
	"context"
	"errors"

	hiringDomain "pass-iae-backend/internal/domain/hiring"

	"gorm.io/gorm"
)

type JobApplicationLedger struct{ db *gorm.DB }

func NewJobApplicationLedger(db *gorm.DB) *JobApplicationLedger {
	return &JobApplicationLedger{db: db}
}

func (r *JobApplicationLedger) LastAcceptedForUser(ctx context.Context, userID uint64) (*hiringDomain.JobApplication, error) {
	var out hiringDomain.JobApplication
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, hiringDomain.StateAccepted).
		Order("created_at DESC, id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, hiringDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *JobApplicationLedger) LastAcceptedForApproval(ctx context.Context, approvalID uint64) (*hiringDomain.JobApplication, error) {
	var out hiringDomain.JobApplication
	res := r.db.WithContext(ctx).
		Where("approval_id = ? AND state = ?", approvalID, hiringDomain.StateAccepted).
		Order("created_at DESC, id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, hiringDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *JobApplicationLedger) ListForApproval(ctx context.Context, approvalID uint64) ([]hiringDomain.JobApplication, error) {
	var out []hiringDomain.JobApplication
	err := r.db.WithContext(ctx).
		Where("approval_id = ?", approvalID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
