package mysql

import (
	"context"
	"errors"

	prolongationDomain "pass-iae-backend/internal/domain/prolongation"

	"gorm.io/gorm"
)

type ProlongationRepository struct{ db *gorm.DB }

func NewProlongationRepository(db *gorm.DB) *ProlongationRepository {
	return &ProlongationRepository{db: db}
}

func (r *ProlongationRepository) Create(ctx context.Context, p *prolongationDomain.Prolongation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProlongationRepository) Save(ctx context.Context, p *prolongationDomain.Prolongation) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProlongationRepository) Delete(ctx context.Context, p *prolongationDomain.Prolongation) error {
	return r.db.WithContext(ctx).Delete(p).Error
}

func (r *ProlongationRepository) GetByPublicID(ctx context.Context, publicID string) (*prolongationDomain.Prolongation, error) {
	var out prolongationDomain.Prolongation
	res := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, prolongationDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ProlongationRepository) ListForApproval(ctx context.Context, approvalID uint64) ([]prolongationDomain.Prolongation, error) {
	var out []prolongationDomain.Prolongation
	err := r.db.WithContext(ctx).
		Where("approval_id = ?", approvalID).
		Order("start_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
