package mysql

import (
	"context"
	"errors"
	"time"

	enterpriseDomain "pass-iae-backend/internal/domain/enterprise"
	prescriberDomain "pass-iae-backend/internal/domain/prescriber"
	userDomain "pass-iae-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Read-mostly directories consumed by the approval engine. The full user,
// enterprise and prescriber workflows live outside this service.

type UserDirectory struct{ db *gorm.DB }

func NewUserDirectory(db *gorm.DB) *UserDirectory { return &UserDirectory{db: db} }

func (r *UserDirectory) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, userDomain.ErrNotFound
	}
	return &out, res.Error
}

// SaveObfuscatedNIR is last-write-wins: the token derives from the same
// deterministic inputs, so racing sweeps are harmless.
func (r *UserDirectory) SaveObfuscatedNIR(ctx context.Context, userID uint64, token string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDomain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"pe_obfuscated_nir":                token,
			"pe_last_certification_attempt_at": at,
		}).Error
}

type EnterpriseDirectory struct{ db *gorm.DB }

func NewEnterpriseDirectory(db *gorm.DB) *EnterpriseDirectory { return &EnterpriseDirectory{db: db} }

func (r *EnterpriseDirectory) GetByID(ctx context.Context, id uint64) (*enterpriseDomain.Enterprise, error) {
	var out enterpriseDomain.Enterprise
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, enterpriseDomain.ErrNotFound
	}
	return &out, res.Error
}

type PrescriberDirectory struct{ db *gorm.DB }

func NewPrescriberDirectory(db *gorm.DB) *PrescriberDirectory { return &PrescriberDirectory{db: db} }

func (r *PrescriberDirectory) GetByID(ctx context.Context, id uint64) (*prescriberDomain.Organization, error) {
	var out prescriberDomain.Organization
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, prescriberDomain.ErrNotFound
	}
	return &out, res.Error
}
