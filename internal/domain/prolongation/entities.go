// Package prolongation models the extensions appended after an approval's
// end date, for a closed set of justified reasons.
package prolongation

import (
	"context"
	"errors"
	"time"

	"pass-iae-backend/internal/domain/interval"
)

var (
	ErrNotFound = errors.New("prolongation not found")
	// ErrCannotProlong: the approval is not the beneficiary's most recent
	// one, today falls outside its prolongation window, or a suspension is
	// currently in progress.
	ErrCannotProlong = errors.New("approval cannot be prolonged")
)

// Reason for a prolongation. Persisted values.
type Reason string

const (
	ReasonSeniorCDI              Reason = "SENIOR_CDI"
	ReasonCompleteTraining       Reason = "COMPLETE_TRAINING"
	ReasonRQTH                   Reason = "RQTH"
	ReasonSenior                 Reason = "SENIOR"
	ReasonParticularDifficulties Reason = "PARTICULAR_DIFFICULTIES"
	ReasonHealthContext          Reason = "HEALTH_CONTEXT"
)

// MaxDuration is the default cap for reasons without a specific one.
var MaxDuration = interval.Years(10)

// MaxCumulativeDurations caps the total prolongated time per reason. The
// 0.25 day per year keeps leap years from eroding the caps.
var MaxCumulativeDurations = map[Reason]time.Duration{
	ReasonSeniorCDI:              interval.Years(10),
	ReasonCompleteTraining:       interval.Years(2),
	ReasonRQTH:                   interval.Years(3),
	ReasonSenior:                 interval.Years(5),
	ReasonParticularDifficulties: interval.Years(3),
	ReasonHealthContext:          interval.Days(365),
}

// reasonsWithCumulativeCap are the only reasons whose cap is enforced across
// all of the approval's prolongations rather than per request.
var reasonsWithCumulativeCap = map[Reason]bool{
	ReasonCompleteTraining:       true,
	ReasonParticularDifficulties: true,
}

// ReasonsRequiringReportFile also unlock the contact fields (phone
// interview, contact email/phone); every other reason forbids them.
var ReasonsRequiringReportFile = map[Reason]bool{
	ReasonRQTH:                   true,
	ReasonSenior:                 true,
	ReasonParticularDifficulties: true,
}

// ReasonsNotNeedingPrescriberOpinion may be declared without a validating
// prescriber.
var ReasonsNotNeedingPrescriberOpinion = map[Reason]bool{
	ReasonSeniorCDI:        true,
	ReasonCompleteTraining: true,
}

type Prolongation struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PublicID          string    `gorm:"column:public_id;type:char(32);uniqueIndex" json:"id"`
	ApprovalID        uint64    `gorm:"column:approval_id;not null;index" json:"-"`
	StartAt           time.Time `gorm:"column:start_at;type:date;not null;index" json:"start_at"`
	EndAt             time.Time `gorm:"column:end_at;type:date;not null;index" json:"end_at"`
	Reason            Reason    `gorm:"column:reason;size:30;default:COMPLETE_TRAINING" json:"reason"`
	ReasonExplanation string    `gorm:"column:reason_explanation;type:text" json:"reason_explanation,omitempty"`

	DeclaredBy             *uint64 `gorm:"column:declared_by" json:"-"`
	DeclaredByEnterpriseID *uint64 `gorm:"column:declared_by_enterprise_id" json:"enterprise_id,omitempty"`
	// ValidatedBy is the authorized prescriber who approved the prolongation
	// beforehand; nil for reasons that do not need a prescriber opinion.
	ValidatedBy              *uint64 `gorm:"column:validated_by" json:"-"`
	PrescriberOrganizationID *uint64 `gorm:"column:prescriber_organization_id" json:"-"`

	ReportFileKey string `gorm:"column:report_file_key;size:255" json:"-"`

	RequirePhoneInterview bool   `gorm:"column:require_phone_interview" json:"require_phone_interview"`
	ContactEmail          string `gorm:"column:contact_email;size:254" json:"contact_email,omitempty"`
	ContactPhone          string `gorm:"column:contact_phone;size:20" json:"contact_phone,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CreatedBy *uint64   `gorm:"column:created_by" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	UpdatedBy *uint64   `gorm:"column:updated_by" json:"-"`
}

func (Prolongation) TableName() string { return "prolongations" }

func (p *Prolongation) Span() interval.Span {
	return interval.Span{StartAt: p.StartAt, EndAt: p.EndAt}
}

func (p *Prolongation) Duration() time.Duration { return p.Span().Duration() }

func (p *Prolongation) IsInProgress(today time.Time) bool {
	return p.Span().InProgress(today)
}

// OverlapsHalfOpen tests [StartAt, EndAt) overlap: a prolongation may start
// exactly where the previous one ends.
func (p *Prolongation) OverlapsHalfOpen(o *Prolongation) bool {
	return !o.StartAt.After(p.EndAt) && o.EndAt.After(p.StartAt)
}

// MaxEndAt is the latest allowed end for a prolongation starting at startAt
// with the given reason. PARTICULAR_DIFFICULTIES is granted 12 months per
// request (its 3-year cap is cumulative, see Validate).
func MaxEndAt(startAt time.Time, reason Reason) time.Time {
	if reason == ReasonParticularDifficulties {
		return interval.AddDays(interval.AddMonths(startAt, 12), -1)
	}
	maxDuration := MaxDuration
	if d, ok := MaxCumulativeDurations[reason]; ok {
		maxDuration = d
	}
	return interval.AddDays(interval.DateOf(startAt.Add(maxDuration)), -1)
}

// StartAtFor returns the only valid start for a new prolongation: exactly
// where the approval currently ends.
func StartAtFor(approvalEndAt time.Time) time.Time {
	return approvalEndAt
}

type Repository interface {
	Create(ctx context.Context, p *Prolongation) error
	Save(ctx context.Context, p *Prolongation) error
	Delete(ctx context.Context, p *Prolongation) error

	GetByPublicID(ctx context.Context, publicID string) (*Prolongation, error)
	// ListForApproval returns all prolongations of the approval ordered by
	// ascending start date.
	ListForApproval(ctx context.Context, approvalID uint64) ([]Prolongation, error)
}
