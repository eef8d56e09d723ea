// Package peapproval stores the historical approvals imported from the
// legacy employment-agency system. They share the validity-interval and
// notification behavior with regular approvals by composition, but cannot
// be suspended or prolonged.
package peapproval

import (
	"context"
	"errors"
	"time"

	"pass-iae-backend/internal/domain/enterprise"
	"pass-iae-backend/internal/domain/interval"
	"pass-iae-backend/internal/domain/notification"
)

var ErrNotFound = errors.New("legacy approval not found")

type PoleEmploiApproval struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Number layout differs from platform-issued numbers: 5-digit agency
	// code + 2-digit year + 5-digit decision number, optional 3-char suffix.
	Number string `gorm:"column:number;size:15;not null;uniqueIndex" json:"number"`

	PoleEmploiID string     `gorm:"column:pole_emploi_id;size:8;index:pe_id_and_birthdate_idx" json:"-"`
	FirstName    string     `gorm:"column:first_name;size:150" json:"first_name"`
	LastName     string     `gorm:"column:last_name;size:150" json:"last_name"`
	BirthName    string     `gorm:"column:birth_name;size:150" json:"-"`
	BirthDate    *time.Time `gorm:"column:birthdate;type:date;index:pe_id_and_birthdate_idx" json:"birthdate,omitempty"`
	NIR          string     `gorm:"column:nir;size:15;index" json:"-"`

	SiaeSiret string          `gorm:"column:siae_siret;type:char(14)" json:"siae_siret"`
	SiaeKind  enterprise.Kind `gorm:"column:siae_kind;size:6" json:"siae_kind"`

	StartAt time.Time `gorm:"column:start_at;type:date;not null;index" json:"start_at"`
	EndAt   time.Time `gorm:"column:end_at;type:date;not null;index" json:"end_at"`

	Notification notification.State `gorm:"embedded;embeddedPrefix:pe_notification_" json:"notification"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PoleEmploiApproval) TableName() string { return "pole_emploi_approvals" }

func (a *PoleEmploiApproval) Span() interval.Span {
	return interval.Span{StartAt: a.StartAt, EndAt: a.EndAt}
}

func (a *PoleEmploiApproval) IsValid(today time.Time) bool {
	return a.Span().InProgress(today) || !interval.DateOf(today).After(a.StartAt)
}

func (a *PoleEmploiApproval) IsInProgress(today time.Time) bool {
	return a.Span().InProgress(today)
}

// HasCompleteIdentity mirrors the check made on beneficiaries before calling
// the remote identity search.
func (a *PoleEmploiApproval) HasCompleteIdentity() bool {
	return a.FirstName != "" && a.LastName != "" && a.NIR != "" && a.BirthDate != nil
}

type Repository interface {
	Create(ctx context.Context, a *PoleEmploiApproval) error
	GetByNumber(ctx context.Context, number string) (*PoleEmploiApproval, error)
	// FindForUser matches legacy approvals on NIR first, then on the
	// pole-emploi identifier + birthdate pair, most recent first.
	FindForUser(ctx context.Context, nir, poleEmploiID string, birthDate *time.Time) ([]PoleEmploiApproval, error)
	// ListNotifiable returns up to limit legacy approvals awaiting
	// notification: started, identity complete, status pending or retryable.
	// Never-attempted records come first, then oldest attempts.
	ListNotifiable(ctx context.Context, today time.Time, limit int) ([]PoleEmploiApproval, error)
	UpdateNotification(ctx context.Context, id uint64, st notification.State) error
}
