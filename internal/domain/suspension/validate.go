package suspension

import (
	"errors"
	"fmt"
	"time"

	"pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/interval"
	"pass-iae-backend/internal/domain/validation"
)

// ErrNoMinStartDate is returned by NextMinStartAt when the retroactivity
// limitation is disabled and neither a prior suspension nor a hire date
// provides a lower bound. Callers must decide what that means for them
// instead of relying on a silent zero value.
var ErrNoMinStartDate = errors.New("no minimum start date can be computed")

// MinStartInput feeds NextMinStartAt. LastOldSuspensionEndAt is the end date
// of the approval's most recent past suspension, excluding the candidate
// itself on update.
type MinStartInput struct {
	LastHireStartAt        *time.Time
	LastOldSuspensionEndAt *time.Time
	ReferentDate           time.Time
	WithRetroactivityLimit bool
}

// NextMinStartAt returns the earliest date a suspension may start.
//
// The base candidate is the beneficiary's most recent accepted hire date. A
// prior past suspension overrides it: suspensions must chain, a new one
// cannot be inserted retroactively before an older one. With the
// retroactivity limitation on, the result is clamped to no earlier than
// ReferentDate - 365 days.
func NextMinStartAt(in MinStartInput) (time.Time, error) {
	var startAt *time.Time
	if in.LastHireStartAt != nil {
		d := interval.DateOf(*in.LastHireStartAt)
		startAt = &d
	}
	if in.LastOldSuspensionEndAt != nil {
		d := interval.AddDays(interval.DateOf(*in.LastOldSuspensionEndAt), 1)
		startAt = &d
	}

	if in.WithRetroactivityLimit {
		threshold := interval.AddDays(interval.DateOf(in.ReferentDate), -MaxRetroactivityDays)
		if startAt == nil || startAt.Before(threshold) {
			return threshold, nil
		}
	}

	if startAt == nil {
		return time.Time{}, ErrNoMinStartDate
	}
	return *startAt, nil
}

// ValidationContext gathers everything Validate needs so it stays a pure
// function. Others must exclude the candidate itself on update.
type ValidationContext struct {
	Approval        *approval.Approval
	Others          []Suspension
	LastHireStartAt *time.Time
	Today           time.Time
	// ReferentDate anchors the retroactivity threshold: the candidate's
	// creation date on update, today on insert.
	ReferentDate time.Time
}

// Validate applies the suspension rules in order; the first failing rule
// wins and maps to a single field.
func (vc ValidationContext) Validate(s *Suspension) error {
	if s.Reason == ReasonForceMajeure && s.ReasonExplanation == "" {
		return validation.NewError("reason_explanation", "an explanation is required for force majeure")
	}

	if s.EndAt.IsZero() {
		return validation.NewError("end_at", "the end date is required")
	}

	// No minimum duration: a suspension may last a single day.
	if s.EndAt.Before(s.StartAt) {
		return validation.NewError("end_at", "the end date must be on or after the start date")
	}

	if s.StartAt.After(interval.DateOf(vc.Today)) {
		return validation.NewError("start_at", "a suspension cannot start in the future")
	}

	if maxEndAt := MaxEndAt(s.StartAt); s.EndAt.After(maxEndAt) {
		return validation.NewError("end_at", fmt.Sprintf(
			"the total duration cannot exceed %d months, latest end date: %s",
			MaxDurationMonths, maxEndAt.Format("2006-01-02")))
	}

	if s.StartAt.Before(vc.Approval.StartAt) || s.StartAt.After(vc.Approval.EndAt) {
		return validation.NewError("start_at", fmt.Sprintf(
			"the suspension cannot start outside of the approval window %s - %s",
			vc.Approval.StartAt.Format("2006-01-02"), vc.Approval.EndAt.Format("2006-01-02")))
	}

	minStartAt, err := NextMinStartAt(MinStartInput{
		LastHireStartAt:        vc.LastHireStartAt,
		LastOldSuspensionEndAt: vc.lastOldSuspensionEndAt(),
		ReferentDate:           vc.ReferentDate,
	})
	switch {
	case errors.Is(err, ErrNoMinStartDate):
		// No lower bound at all: nothing to enforce.
	case err != nil:
		return err
	case s.StartAt.Before(minStartAt):
		return validation.NewError("start_at", fmt.Sprintf(
			"the earliest start date is %s", minStartAt.Format("2006-01-02")))
	}

	// Re-checked at write time under the same transaction; the storage-level
	// exclusion index is the last line of defense against races.
	if overlap := vc.overlapping(s); overlap != nil {
		return validation.NewError("start_at", fmt.Sprintf(
			"the period overlaps an existing suspension of this approval %s - %s",
			overlap.StartAt.Format("2006-01-02"), overlap.EndAt.Format("2006-01-02")))
	}

	return nil
}

func (vc ValidationContext) lastOldSuspensionEndAt() *time.Time {
	today := interval.DateOf(vc.Today)
	var last *Suspension
	for i := range vc.Others {
		o := &vc.Others[i]
		if !o.EndAt.Before(today) {
			continue
		}
		if last == nil || o.StartAt.After(last.StartAt) {
			last = o
		}
	}
	if last == nil {
		return nil
	}
	end := last.EndAt
	return &end
}

func (vc ValidationContext) overlapping(s *Suspension) *Suspension {
	for i := range vc.Others {
		o := &vc.Others[i]
		if o.Span().Overlaps(s.Span()) {
			return o
		}
	}
	return nil
}
