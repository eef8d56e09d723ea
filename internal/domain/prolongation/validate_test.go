package prolongation

import (
	"testing"

	"pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/interval"
	"pass-iae-backend/internal/domain/validation"
)

func testContext() ValidationContext {
	return ValidationContext{
		Approval: &approval.Approval{
			StartAt: interval.Date(2026, 1, 1),
			EndAt:   interval.Date(2027, 12, 31),
		},
		DeclaringEnterpriseKind:         "ETTI",
		ValidatorIsAuthorizedPrescriber: true,
	}
}

func candidate(reason Reason, days int) *Prolongation {
	start := interval.Date(2027, 12, 31)
	return &Prolongation{
		StartAt: start,
		EndAt:   interval.AddDays(start, days),
		Reason:  reason,
	}
}

// withValidator attaches a validating prescriber, mandatory for the reasons
// outside ReasonsNotNeedingPrescriberOpinion.
func withValidator(p *Prolongation) *Prolongation {
	validator := uint64(42)
	p.ValidatedBy = &validator
	return p
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	ve, ok := validation.AsError(err)
	if !ok {
		t.Fatalf("expected a validation error, got %v", err)
	}
	return ve.Field
}

func TestValidate(t *testing.T) {
	t.Run("valid prolongation", func(t *testing.T) {
		vc := testContext()
		if err := vc.Validate(candidate(ReasonCompleteTraining, 180)); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})

	t.Run("end date required", func(t *testing.T) {
		vc := testContext()
		p := &Prolongation{StartAt: interval.Date(2027, 12, 31), Reason: ReasonCompleteTraining}
		if got := fieldOf(t, vc.Validate(p)); got != "end_at" {
			t.Fatalf("field %q", got)
		}
	})

	t.Run("minimum one day", func(t *testing.T) {
		vc := testContext()
		if got := fieldOf(t, vc.Validate(candidate(ReasonCompleteTraining, 0))); got != "end_at" {
			t.Fatalf("field %q", got)
		}
	})

	t.Run("per-reason duration cap", func(t *testing.T) {
		vc := testContext()
		// HEALTH_CONTEXT is capped at 365 days.
		if got := fieldOf(t, vc.Validate(withValidator(candidate(ReasonHealthContext, 365)))); got != "end_at" {
			t.Fatalf("field %q", got)
		}
		if err := vc.Validate(withValidator(candidate(ReasonHealthContext, 364))); err != nil {
			t.Fatalf("cap boundary should pass: %v", err)
		}
	})

	t.Run("particular difficulties capped at 12 months per request", func(t *testing.T) {
		vc := testContext()
		vc.DeclaringEnterpriseKind = "ACI"
		start := interval.Date(2027, 12, 31)
		p := withValidator(&Prolongation{
			StartAt: start,
			EndAt:   interval.AddMonths(start, 12), // one day past the cap
			Reason:  ReasonParticularDifficulties,
		})
		if got := fieldOf(t, vc.Validate(p)); got != "end_at" {
			t.Fatalf("field %q", got)
		}
		p.EndAt = interval.AddDays(interval.AddMonths(start, 12), -1)
		if err := vc.Validate(p); err != nil {
			t.Fatalf("12-month boundary should pass: %v", err)
		}
	})

	t.Run("particular difficulties reserved to AI and ACI", func(t *testing.T) {
		vc := testContext()
		vc.DeclaringEnterpriseKind = "ETTI"
		if got := fieldOf(t, vc.Validate(withValidator(candidate(ReasonParticularDifficulties, 90)))); got != "reason" {
			t.Fatalf("field %q", got)
		}
		vc.DeclaringEnterpriseKind = "AI"
		if err := vc.Validate(withValidator(candidate(ReasonParticularDifficulties, 90))); err != nil {
			t.Fatalf("AI should be allowed: %v", err)
		}
	})

	t.Run("prescriber opinion required per reason", func(t *testing.T) {
		vc := testContext()
		if got := fieldOf(t, vc.Validate(candidate(ReasonSenior, 90))); got != "validated_by" {
			t.Fatalf("field %q", got)
		}
		// SENIOR_CDI and COMPLETE_TRAINING are declared without one.
		if err := vc.Validate(candidate(ReasonSeniorCDI, 90)); err != nil {
			t.Fatalf("SENIOR_CDI needs no opinion: %v", err)
		}
	})

	t.Run("validator must be an authorized prescriber", func(t *testing.T) {
		vc := testContext()
		vc.ValidatorIsAuthorizedPrescriber = false
		p := candidate(ReasonRQTH, 90)
		validator := uint64(42)
		p.ValidatedBy = &validator
		if got := fieldOf(t, vc.Validate(p)); got != "validated_by" {
			t.Fatalf("field %q", got)
		}
	})

	t.Run("must start where the approval ends", func(t *testing.T) {
		vc := testContext()
		p := candidate(ReasonCompleteTraining, 90)
		p.StartAt = interval.Date(2028, 1, 1)
		if got := fieldOf(t, vc.Validate(p)); got != "start_at" {
			t.Fatalf("field %q", got)
		}
		// Admin corrections of existing records are exempt.
		vc.IsUpdate = true
		if err := vc.Validate(p); err != nil {
			t.Fatalf("update should be exempt: %v", err)
		}
	})

	t.Run("half-open overlap allows chaining", func(t *testing.T) {
		vc := testContext()
		vc.Approval.EndAt = interval.Date(2028, 6, 30)
		vc.Existing = []Prolongation{{
			StartAt: interval.Date(2027, 12, 31),
			EndAt:   interval.Date(2028, 6, 30),
			Reason:  ReasonRQTH,
		}}
		next := &Prolongation{
			StartAt: interval.Date(2028, 6, 30),
			EndAt:   interval.Date(2028, 9, 30),
			Reason:  ReasonCompleteTraining,
		}
		if err := vc.Validate(next); err != nil {
			t.Fatalf("chaining on the shared day should pass: %v", err)
		}
		next.StartAt = interval.Date(2028, 6, 29)
		vc.IsUpdate = true // bypass the start-date rule to reach the overlap one
		if got := fieldOf(t, vc.Validate(next)); got != "start_at" {
			t.Fatalf("field %q", got)
		}
	})

	t.Run("cumulative cap on COMPLETE_TRAINING", func(t *testing.T) {
		vc := testContext()
		start := interval.Date(2027, 12, 31)
		vc.Existing = []Prolongation{{
			StartAt: interval.AddDays(start, -700),
			EndAt:   start,
			Reason:  ReasonCompleteTraining,
		}}
		// 700 days spent out of a 730.5-day cap: 40 more is too much.
		if got := fieldOf(t, vc.Validate(candidate(ReasonCompleteTraining, 40))); got != "end_at" {
			t.Fatalf("field %q", got)
		}
		if err := vc.Validate(candidate(ReasonCompleteTraining, 30)); err != nil {
			t.Fatalf("under the cumulative cap: %v", err)
		}
	})

	t.Run("cumulative cap only counts the same reason", func(t *testing.T) {
		vc := testContext()
		start := interval.Date(2027, 12, 31)
		vc.Existing = []Prolongation{{
			StartAt: interval.AddDays(start, -700),
			EndAt:   start,
			Reason:  ReasonRQTH,
		}}
		if err := vc.Validate(candidate(ReasonCompleteTraining, 180)); err != nil {
			t.Fatalf("other reasons must not count: %v", err)
		}
	})

	t.Run("contact fields required when interviewing", func(t *testing.T) {
		vc := testContext()
		p := withValidator(candidate(ReasonRQTH, 90))
		p.RequirePhoneInterview = true
		if got := fieldOf(t, vc.Validate(p)); got != "contact_email" {
			t.Fatalf("field %q", got)
		}
		p.ContactEmail = "referent@example.com"
		p.ContactPhone = "0612345678"
		if err := vc.Validate(p); err != nil {
			t.Fatalf("complete contact info should pass: %v", err)
		}
	})

	t.Run("contact fields forbidden otherwise", func(t *testing.T) {
		vc := testContext()
		p := candidate(ReasonCompleteTraining, 90)
		p.ContactEmail = "referent@example.com"
		if got := fieldOf(t, vc.Validate(p)); got != "contact_email" {
			t.Fatalf("field %q", got)
		}
	})
}

func TestMaxEndAt(t *testing.T) {
	start := interval.Date(2027, 12, 31)

	// SENIOR: 5 of the 365.25-day years.
	if got := MaxEndAt(start, ReasonSenior); !got.Equal(interval.AddDays(interval.DateOf(start.Add(interval.Years(5))), -1)) {
		t.Errorf("SENIOR: got %v", got)
	}
	// PARTICULAR_DIFFICULTIES: 12 calendar months despite the 3-year
	// cumulative cap.
	if got := MaxEndAt(start, ReasonParticularDifficulties); !got.Equal(interval.Date(2028, 12, 30)) {
		t.Errorf("PARTICULAR_DIFFICULTIES: got %v", got)
	}
}

func TestCumulativeDuration(t *testing.T) {
	start := interval.Date(2027, 12, 31)
	ps := []Prolongation{
		{StartAt: start, EndAt: interval.AddDays(start, 100), Reason: ReasonCompleteTraining},
		{StartAt: interval.AddDays(start, 100), EndAt: interval.AddDays(start, 150), Reason: ReasonCompleteTraining},
		{StartAt: interval.AddDays(start, 150), EndAt: interval.AddDays(start, 200), Reason: ReasonRQTH},
	}
	if got := CumulativeDuration(ps, ReasonCompleteTraining); got != 150*interval.Day {
		t.Errorf("got %v", got)
	}
}
