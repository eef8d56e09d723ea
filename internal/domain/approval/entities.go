// Package approval holds the PASS IAE root record and its derived state
// machine. The status is never stored: it is recomputed from interval
// relationships on every read.
package approval

import (
	"errors"
	"time"

	"pass-iae-backend/internal/domain/interval"
	"pass-iae-backend/internal/domain/notification"
)

var (
	ErrNotFound = errors.New("approval not found")
	// ErrAlreadyValidForUser: at most one currently-valid-or-future approval
	// per beneficiary. Enforced at write time since "valid" is time-dependent.
	ErrAlreadyValidForUser = errors.New("a valid or future approval already exists for this user")
	ErrCannotPostpone      = errors.New("approval has already started, start date cannot be postponed")
	ErrCannotDelete        = errors.New("approval cannot be deleted")
)

const (
	// DefaultDurationYears is the validity granted at issuance.
	DefaultDurationYears = 2
	// WaitingPeriodYears after expiry, during which a new approval can only
	// be obtained through an authorized prescriber.
	WaitingPeriodYears = 2

	// Prolongations are only allowed from 12 months after the approval's
	// start until 3 months after its end.
	openToProlongationMonthsAfterStart = 12
	openToProlongationMonthsAfterEnd   = 3
)

// Origin of the approval record.
type Origin string

const (
	OriginDefault    Origin = "default"
	OriginPEApproval Origin = "pe_approval"
	OriginAIStock    Origin = "ai_stock"
	OriginAdmin      Origin = "admin"
)

// Status is derived, in this priority order, from the validity window and
// the in-progress suspensions.
type Status string

const (
	StatusExpired   Status = "EXPIRED"
	StatusSuspended Status = "SUSPENDED"
	StatusValid     Status = "VALID"
	StatusFuture    Status = "FUTURE"
)

type Approval struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Number is the 12-char credential identifier: a 5-char issuer prefix
	// followed by a 7-digit serial. Immutable once assigned.
	Number  string    `gorm:"column:number;type:char(12);not null;uniqueIndex" json:"number"`
	UserID  uint64    `gorm:"column:user_id;not null;index" json:"user_id"`
	StartAt time.Time `gorm:"column:start_at;type:date;not null;index" json:"start_at"`
	EndAt   time.Time `gorm:"column:end_at;type:date;not null;index" json:"end_at"`
	Origin  Origin    `gorm:"column:origin;size:30;default:default" json:"origin"`

	EligibilityDiagnosisID *uint64 `gorm:"column:eligibility_diagnosis_id" json:"eligibility_diagnosis_id,omitempty"`

	Notification notification.State `gorm:"embedded;embeddedPrefix:pe_notification_" json:"notification"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CreatedBy *uint64   `gorm:"column:created_by" json:"-"`
}

func (Approval) TableName() string { return "approvals" }

func (a *Approval) Span() interval.Span {
	return interval.Span{StartAt: a.StartAt, EndAt: a.EndAt}
}

func (a *Approval) Duration() time.Duration { return a.Span().Duration() }

// IsValid: an approval that has not started yet is still valid; only a
// past-end-date approval is invalid.
func (a *Approval) IsValid(today time.Time) bool {
	return a.Span().InProgress(today) || !interval.DateOf(today).After(a.StartAt)
}

func (a *Approval) IsInProgress(today time.Time) bool {
	return a.Span().InProgress(today)
}

// IsSuspended reports whether any linked suspension is currently in progress.
func (a *Approval) IsSuspended(today time.Time, suspensions []interval.Span) bool {
	for _, s := range suspensions {
		if s.InProgress(today) {
			return true
		}
	}
	return false
}

func (a *Approval) Status(today time.Time, suspensions []interval.Span) Status {
	if !a.IsValid(today) {
		return StatusExpired
	}
	if a.IsSuspended(today, suspensions) {
		return StatusSuspended
	}
	if a.IsInProgress(today) {
		return StatusValid
	}
	// Most approvals are created before their start date, so the default
	// valid state is FUTURE.
	return StatusFuture
}

// Remainder is the approval's own remaining time minus the remaining time of
// all its suspensions: future suspended periods do not count as usable time.
func (a *Approval) Remainder(today time.Time, suspensions []interval.Span) time.Duration {
	result := a.Span().Remaining(today)
	for _, s := range suspensions {
		result -= s.Remaining(today)
	}
	return result
}

// RemainderAsDate projects the remainder onto a calendar date from today, as
// if the approval were activated now.
func (a *Approval) RemainderAsDate(today time.Time, suspensions []interval.Span) time.Time {
	days := int(a.Remainder(today, suspensions) / interval.Day)
	return interval.AddDays(interval.DateOf(today), days)
}

func (a *Approval) WaitingPeriodEnd() time.Time {
	return interval.AddYears(a.EndAt, WaitingPeriodYears)
}

func (a *Approval) IsInWaitingPeriod(today time.Time) bool {
	today = interval.DateOf(today)
	return a.EndAt.Before(today) && !today.After(a.WaitingPeriodEnd())
}

func (a *Approval) WaitingPeriodHasElapsed(today time.Time) bool {
	return interval.DateOf(today).After(a.WaitingPeriodEnd())
}

// CanPostponeStartDate: only approvals that have not started yet.
func (a *Approval) CanPostponeStartDate(today time.Time) bool {
	return a.StartAt.After(interval.DateOf(today))
}

func (a *Approval) CanBeSuspended(today time.Time, suspensions []interval.Span) bool {
	return a.IsInProgress(today) && !a.IsSuspended(today, suspensions)
}

// IsOpenToProlongation bounds the window during which a prolongation may be
// declared.
func (a *Approval) IsOpenToProlongation(today time.Time) bool {
	today = interval.DateOf(today)
	lower := interval.AddMonths(a.StartAt, openToProlongationMonthsAfterStart)
	upper := interval.AddMonths(a.EndAt, openToProlongationMonthsAfterEnd)
	return !today.Before(lower) && !today.After(upper)
}

// DefaultEndDate computes start + 2 years - 1 day. Years are added with
// month-end clamping: shifting the old end by a delta instead would misbehave
// across leap years.
func DefaultEndDate(startAt time.Time) time.Time {
	return interval.AddDays(interval.AddYears(startAt, DefaultDurationYears), -1)
}
