package mysql

import (
	"context"
	"errors"
	"time"

	suspensionDomain "pass-iae-backend/internal/domain/suspension"

	"gorm.io/gorm"
)

type SuspensionRepository struct{ db *gorm.DB }

func NewSuspensionRepository(db *gorm.DB) *SuspensionRepository {
	return &SuspensionRepository{db: db}
}

func (r *SuspensionRepository) Create(ctx context.Context, s *suspensionDomain.Suspension) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SuspensionRepository) Save(ctx context.Context, s *suspensionDomain.Suspension) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SuspensionRepository) Delete(ctx context.Context, s *suspensionDomain.Suspension) error {
	return r.db.WithContext(ctx).Delete(s).Error
}

func (r *SuspensionRepository) GetByPublicID(ctx context.Context, publicID string) (*suspensionDomain.Suspension, error) {
	var out suspensionDomain.Suspension
	res := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, suspensionDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *SuspensionRepository) ListForApproval(ctx context.Context, approvalID uint64) ([]suspensionDomain.Suspension, error) {
	var out []suspensionDomain.Suspension
	err := r.db.WithContext(ctx).
		Where("approval_id = ?", approvalID).
		Order("start_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *SuspensionRepository) LastInProgressForApproval(ctx context.Context, approvalID uint64, today time.Time) (*suspensionDomain.Suspension, error) {
	var out suspensionDomain.Suspension
	res := r.db.WithContext(ctx).
		Where("approval_id = ? AND start_at <= ? AND end_at >= ?", approvalID, today, today).
		Order("start_at DESC, id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, suspensionDomain.ErrNotFound
	}
	return &out, res.Error
}
