package mysql

import (
	"context"
	"errors"
	"time"

	"pass-iae-backend/internal/domain/notification"
	peapprovalDomain "pass-iae-backend/internal/domain/peapproval"

	"gorm.io/gorm"
)

type PEApprovalRepository struct{ db *gorm.DB }

func NewPEApprovalRepository(db *gorm.DB) *PEApprovalRepository {
	return &PEApprovalRepository{db: db}
}

func (r *PEApprovalRepository) Create(ctx context.Context, a *peapprovalDomain.PoleEmploiApproval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *PEApprovalRepository) GetByNumber(ctx context.Context, number string) (*peapprovalDomain.PoleEmploiApproval, error) {
	var out peapprovalDomain.PoleEmploiApproval
	res := r.db.WithContext(ctx).Where("number = ?", number).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, peapprovalDomain.ErrNotFound
	}
	return &out, res.Error
}

// FindForUser matches on the NIR when available, falling back to the
// pole-emploi identifier + birthdate pair. No criteria, no results.
func (r *PEApprovalRepository) FindForUser(ctx context.Context, nir, poleEmploiID string, birthDate *time.Time) ([]peapprovalDomain.PoleEmploiApproval, error) {
	q := r.db.WithContext(ctx)
	var cond *gorm.DB
	if nir != "" {
		cond = q.Where("nir = ?", nir)
	}
	if poleEmploiID != "" && birthDate != nil {
		pair := q.Session(&gorm.Session{NewDB: true}).
			Where("pole_emploi_id = ? AND birthdate = ?", poleEmploiID, birthDate)
		if cond == nil {
			cond = pair
		} else {
			cond = cond.Or(pair)
		}
	}
	if cond == nil {
		return nil, nil
	}
	var out []peapprovalDomain.PoleEmploiApproval
	err := q.Where(cond).Order("start_at DESC").Find(&out).Error
	return out, err
}

// ListNotifiable mirrors ApprovalRepository.ListNotifiable for the legacy
// records: the identity lives on the row itself and no job application is
// required.
func (r *PEApprovalRepository) ListNotifiable(ctx context.Context, today time.Time, limit int) ([]peapprovalDomain.PoleEmploiApproval, error) {
	var out []peapprovalDomain.PoleEmploiApproval
	err := r.db.WithContext(ctx).
		Where("pe_notification_status IN ?", []notification.Status{
			notification.StatusPending,
			notification.StatusShouldRetry,
		}).
		Where("start_at <= ?", today).
		Where("first_name <> '' AND last_name <> '' AND nir <> '' AND birthdate IS NOT NULL").
		Order("pe_notification_time IS NULL DESC, pe_notification_time ASC, id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *PEApprovalRepository) UpdateNotification(ctx context.Context, id uint64, st notification.State) error {
	return r.db.WithContext(ctx).
		Model(&peapprovalDomain.PoleEmploiApproval{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"pe_notification_status":    st.Status,
			"pe_notification_time":      st.Time,
			"pe_notification_endpoint":  st.Endpoint,
			"pe_notification_exit_code": st.ExitCode,
		}).Error
}
