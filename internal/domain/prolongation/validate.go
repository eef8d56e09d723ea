package prolongation

import (
	"fmt"
	"time"

	"pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/enterprise"
	"pass-iae-backend/internal/domain/interval"
	"pass-iae-backend/internal/domain/validation"
)

// ValidationContext gathers everything Validate needs so it stays a pure
// function. Existing must exclude the candidate itself on update.
type ValidationContext struct {
	Approval *approval.Approval
	Existing []Prolongation
	// DeclaringEnterpriseKind is the kind of the declaring enterprise, empty
	// when unknown.
	DeclaringEnterpriseKind enterprise.Kind
	// ValidatorIsAuthorizedPrescriber reflects the ValidatedBy user, when set.
	ValidatorIsAuthorizedPrescriber bool
	// IsUpdate relaxes the start-date rule so admin corrections of existing
	// records are not blocked.
	IsUpdate bool
}

// Validate applies the prolongation rules in order; the first failing rule
// wins.
func (vc ValidationContext) Validate(p *Prolongation) error {
	if p.EndAt.IsZero() {
		return validation.NewError("end_at", "the end date is required")
	}

	// Minimum duration is one day.
	if !p.EndAt.After(p.StartAt) {
		return validation.NewError("end_at", "the duration must be at least one day")
	}

	if maxEndAt := MaxEndAt(p.StartAt, p.Reason); p.EndAt.After(maxEndAt) {
		return validation.NewError("end_at", fmt.Sprintf(
			"the duration is too long for reason %q, latest end date: %s",
			p.Reason, maxEndAt.Format("2006-01-02")))
	}

	if p.Reason == ReasonParticularDifficulties {
		if vc.DeclaringEnterpriseKind != enterprise.KindAI && vc.DeclaringEnterpriseKind != enterprise.KindACI {
			return validation.NewError("reason", fmt.Sprintf(
				"reason %q is reserved to AI and ACI enterprises", p.Reason))
		}
	}

	if p.ValidatedBy == nil {
		if !ReasonsNotNeedingPrescriberOpinion[p.Reason] {
			return validation.NewError("validated_by", fmt.Sprintf(
				"reason %q requires the prior opinion of an authorized prescriber", p.Reason))
		}
	} else if !vc.ValidatorIsAuthorizedPrescriber {
		return validation.NewError("validated_by", "this user is not an authorized prescriber")
	}

	// Only on insert: a prolongation always begins exactly where the
	// approval ends.
	if !vc.IsUpdate && !p.StartAt.Equal(StartAtFor(vc.Approval.EndAt)) {
		return validation.NewError("start_at", fmt.Sprintf(
			"the start date must match the approval's end date %s",
			vc.Approval.EndAt.Format("2006-01-02")))
	}

	if overlap := vc.overlapping(p); overlap != nil {
		return validation.NewError("start_at", fmt.Sprintf(
			"the period overlaps an existing prolongation of this approval %s - %s",
			overlap.StartAt.Format("2006-01-02"), overlap.EndAt.Format("2006-01-02")))
	}

	if vc.exceedsCumulativeCap(p) {
		return validation.NewError("end_at", fmt.Sprintf(
			"prolongations for reason %q cannot exceed %d days in total",
			p.Reason, MaxCumulativeDurations[p.Reason]/interval.Day))
	}

	if ReasonsRequiringReportFile[p.Reason] {
		if p.RequirePhoneInterview && (p.ContactEmail == "" || p.ContactPhone == "") {
			return validation.NewError("contact_email", "a contact email and phone number are required for this reason")
		}
	} else if p.RequirePhoneInterview || p.ContactEmail != "" || p.ContactPhone != "" {
		return validation.NewError("contact_email", "contact fields cannot be set for this reason")
	}

	return nil
}

// CumulativeDuration sums the durations of the given prolongations having
// the reason.
func CumulativeDuration(prolongations []Prolongation, reason Reason) time.Duration {
	var total time.Duration
	for i := range prolongations {
		if prolongations[i].Reason == reason {
			total += prolongations[i].Duration()
		}
	}
	return total
}

func (vc ValidationContext) exceedsCumulativeCap(p *Prolongation) bool {
	if !reasonsWithCumulativeCap[p.Reason] {
		return false
	}
	total := CumulativeDuration(vc.Existing, p.Reason) + p.Duration()
	return total > MaxCumulativeDurations[p.Reason]
}

func (vc ValidationContext) overlapping(p *Prolongation) *Prolongation {
	for i := range vc.Existing {
		if p.OverlapsHalfOpen(&vc.Existing[i]) {
			return &vc.Existing[i]
		}
	}
	return nil
}
