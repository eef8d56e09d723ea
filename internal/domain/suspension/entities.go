// Package suspension models the declared pauses within an approval's
// validity window. A suspension extends the approval's usable lifespan by
// the paused duration.
package suspension

import (
	"context"
	"errors"
	"time"

	"pass-iae-backend/internal/domain/enterprise"
	"pass-iae-backend/internal/domain/interval"
)

var (
	ErrNotFound = errors.New("suspension not found")
	// ErrCannotSuspend: the approval is not in progress, or is already
	// suspended.
	ErrCannotSuspend = errors.New("approval cannot be suspended")
)

const (
	// MaxDurationMonths bounds a single suspension.
	MaxDurationMonths = 36
	// MaxRetroactivityDays bounds how far in the past a suspension may start,
	// counted back from the referent date.
	MaxRetroactivityDays = 365
)

// Reason for a suspension. All persisted values remain valid forever so that
// historical records keep displaying properly; only a subset is offered for
// new suspensions.
type Reason string

const (
	ReasonSuspendedContract         Reason = "CONTRACT_SUSPENDED"
	ReasonBrokenContract            Reason = "CONTRACT_BROKEN"
	ReasonFinishedContract          Reason = "FINISHED_CONTRACT"
	ReasonApprovalBetweenCTAMembers Reason = "APPROVAL_BETWEEN_CTA_MEMBERS"
	// ReasonContratPasserelle is only offered to ACI and EI enterprises.
	ReasonContratPasserelle Reason = "CONTRAT_PASSERELLE"

	// Legacy reasons, no longer offered.
	ReasonSickness        Reason = "SICKNESS"
	ReasonMaternity       Reason = "MATERNITY"
	ReasonIncarceration   Reason = "INCARCERATION"
	ReasonTrialOutsideIAE Reason = "TRIAL_OUTSIDE_IAE"
	ReasonDetoxification  Reason = "DETOXIFICATION"
	ReasonForceMajeure    Reason = "FORCE_MAJEURE"
)

// ReasonsAllowingUnsuspend: accepting a new hire lifts the suspension only
// for these reasons.
var ReasonsAllowingUnsuspend = map[Reason]bool{
	ReasonBrokenContract:            true,
	ReasonFinishedContract:          true,
	ReasonApprovalBetweenCTAMembers: true,
	ReasonContratPasserelle:         true,
	ReasonSuspendedContract:         true,
}

// DisplayedReasons returns the reasons offered to an enterprise of the given
// kind when declaring a new suspension.
func DisplayedReasons(kind enterprise.Kind) []Reason {
	reasons := []Reason{
		ReasonSuspendedContract,
		ReasonBrokenContract,
		ReasonFinishedContract,
		ReasonApprovalBetweenCTAMembers,
	}
	if kind == enterprise.KindACI || kind == enterprise.KindEI {
		reasons = append(reasons, ReasonContratPasserelle)
	}
	return reasons
}

type Suspension struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PublicID   string    `gorm:"column:public_id;type:char(32);uniqueIndex" json:"id"`
	ApprovalID uint64    `gorm:"column:approval_id;not null;index" json:"-"`
	StartAt    time.Time `gorm:"column:start_at;type:date;not null;index" json:"start_at"`
	EndAt      time.Time `gorm:"column:end_at;type:date;not null;index" json:"end_at"`
	// EnterpriseID of the declaring enterprise; nil if it was removed later.
	EnterpriseID      *uint64 `gorm:"column:enterprise_id" json:"enterprise_id,omitempty"`
	Reason            Reason  `gorm:"column:reason;size:30;default:CONTRACT_SUSPENDED" json:"reason"`
	ReasonExplanation string  `gorm:"column:reason_explanation;type:text" json:"reason_explanation,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CreatedBy *uint64   `gorm:"column:created_by" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	UpdatedBy *uint64   `gorm:"column:updated_by" json:"-"`
}

func (Suspension) TableName() string { return "suspensions" }

func (s *Suspension) Span() interval.Span {
	return interval.Span{StartAt: s.StartAt, EndAt: s.EndAt}
}

func (s *Suspension) Duration() time.Duration { return s.Span().Duration() }

func (s *Suspension) IsInProgress(today time.Time) bool {
	return s.Span().InProgress(today)
}

// MaxEndAt is the latest allowed end for a suspension starting at startAt.
func MaxEndAt(startAt time.Time) time.Time {
	return interval.AddDays(interval.AddMonths(startAt, MaxDurationMonths), -1)
}

type Repository interface {
	Create(ctx context.Context, s *Suspension) error
	Save(ctx context.Context, s *Suspension) error
	Delete(ctx context.Context, s *Suspension) error

	GetByPublicID(ctx context.Context, publicID string) (*Suspension, error)
	// ListForApproval returns all suspensions of the approval ordered by
	// ascending start date.
	ListForApproval(ctx context.Context, approvalID uint64) ([]Suspension, error)
	// LastInProgressForApproval returns the latest-starting suspension
	// covering today, or ErrNotFound.
	LastInProgressForApproval(ctx context.Context, approvalID uint64, today time.Time) (*Suspension, error)
}
