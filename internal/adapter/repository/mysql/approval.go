package mysql

import (
	"context"
	"errors"
	"time"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	hiringDomain "pass-iae-backend/internal/domain/hiring"
	"pass-iae-backend/internal/domain/notification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApprovalRepository) Save(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApprovalRepository) Delete(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Delete(a).Error
}

func (r *ApprovalRepository) GetByID(ctx context.Context, id uint64) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ApprovalRepository) GetByNumber(ctx context.Context, number string) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).Where("number = ?", number).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	return &out, res.Error
}

// getByNumberForUpdate locks the approval row for the enclosing transaction.
func (r *ApprovalRepository) getByNumberForUpdate(ctx context.Context, number string) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("number = ?", number).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ApprovalRepository) HasValidForUser(ctx context.Context, userID uint64, today time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&approvalDomain.Approval{}).
		Where("user_id = ?", userID).
		Where("(start_at <= ? AND end_at >= ?) OR start_at >= ?", today, today, today).
		Count(&count).Error
	return count > 0, err
}

func (r *ApprovalRepository) LastForUser(ctx context.Context, userID uint64) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_at DESC, id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	return &out, res.Error
}

// NextNumber serializes concurrent number issuance by locking the table's
// first row until the end of the enclosing transaction, acting as a poor
// man's semaphore, then re-reading the highest issued number.
func (r *ApprovalRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	var sentinel approvalDomain.Approval
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id").
		Limit(1).
		Find(&sentinel).Error
	if err != nil {
		return "", err
	}

	var last approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&last)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return approvalDomain.NextNumber(prefix, "")
		}
		return "", res.Error
	}
	return approvalDomain.NextNumber(prefix, last.Number)
}

func (r *ApprovalRepository) ListNotifiable(ctx context.Context, today time.Time, limit int) ([]approvalDomain.Approval, error) {
	var out []approvalDomain.Approval
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = approvals.user_id").
		Where("approvals.pe_notification_status IN ?", []notification.Status{
			notification.StatusPending,
			notification.StatusShouldRetry,
		}).
		Where("approvals.start_at <= ?", today).
		Where("users.first_name <> '' AND users.last_name <> '' AND users.nir <> '' AND users.birthdate IS NOT NULL").
		Where("EXISTS (SELECT 1 FROM job_applications WHERE job_applications.approval_id = approvals.id AND job_applications.state = ?)",
			hiringDomain.StateAccepted).
		Order("approvals.pe_notification_time IS NULL DESC, approvals.pe_notification_time ASC, approvals.id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *ApprovalRepository) UpdateNotification(ctx context.Context, id uint64, st notification.State) error {
	return r.db.WithContext(ctx).
		Model(&approvalDomain.Approval{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"pe_notification_status":    st.Status,
			"pe_notification_time":      st.Time,
			"pe_notification_endpoint":  st.Endpoint,
			"pe_notification_exit_code": st.ExitCode,
		}).Error
}
