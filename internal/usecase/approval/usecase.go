package approval

import (
	"context"
	"errors"
	"time"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/hiring"
	"pass-iae-backend/internal/domain/interval"
	peapprovalDomain "pass-iae-backend/internal/domain/peapproval"
	suspensionDomain "pass-iae-backend/internal/domain/suspension"
	"pass-iae-backend/internal/domain/uow"
	userDomain "pass-iae-backend/internal/domain/user"
)

type Usecase struct {
	repo         approvalDomain.Repository
	suspensions  suspensionDomain.Repository
	uow          uow.UnitOfWork
	issuerPrefix string

	// Now is the clock; tests pin it.
	Now func() time.Time
}

// NewUsecase: pass the read-path repos and a UoW for the write flows.
func NewUsecase(repo approvalDomain.Repository, suspensions suspensionDomain.Repository, tx uow.UnitOfWork, issuerPrefix string) *Usecase {
	return &Usecase{
		repo:         repo,
		suspensions:  suspensions,
		uow:          tx,
		issuerPrefix: issuerPrefix,
		Now:          time.Now,
	}
}

type CreateInput struct {
	UserID  uint64    `json:"user_id"`
	StartAt time.Time `json:"start_at"`
	// EndAt is optional; when zero the default validity is granted.
	EndAt time.Time `json:"end_at"`
	// Number is optional; when empty the next one under the issuer prefix is
	// assigned inside the issuance transaction.
	Number                 string  `json:"number"`
	EligibilityDiagnosisID *uint64 `json:"eligibility_diagnosis_id"`
	CreatedBy              *uint64 `json:"-"`
}

type ApprovalDTO struct {
	Number               string    `json:"number"`
	NumberWithSpaces     string    `json:"number_with_spaces"`
	UserID               uint64    `json:"user_id"`
	StartAt              time.Time `json:"start_at"`
	EndAt                time.Time `json:"end_at"`
	Origin               string    `json:"origin"`
	Status               string    `json:"status"`
	RemainderDays        int       `json:"remainder_days"`
	RemainderAsDate      time.Time `json:"remainder_as_date"`
	IsInWaitingPeriod    bool      `json:"is_in_waiting_period"`
	CanBeSuspended       bool      `json:"can_be_suspended"`
	IsOpenToProlongation bool      `json:"is_open_to_prolongation"`
	CreatedAt            time.Time `json:"created_at"`
}

// Create issues a new approval. The whole flow runs in one transaction so the
// one-valid-approval-per-user rule and number issuance cannot race.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*ApprovalDTO, error) {
	startAt := interval.DateOf(in.StartAt)
	endAt := interval.DateOf(in.EndAt)
	if in.EndAt.IsZero() {
		endAt = approvalDomain.DefaultEndDate(startAt)
	}

	a := &approvalDomain.Approval{
		Number:                 in.Number,
		UserID:                 in.UserID,
		StartAt:                startAt,
		EndAt:                  endAt,
		Origin:                 approvalDomain.OriginDefault,
		EligibilityDiagnosisID: in.EligibilityDiagnosisID,
		CreatedBy:              in.CreatedBy,
	}
	if in.Number != "" && !approvalDomain.IsIssuedByPlatform(in.Number, u.issuerPrefix) {
		a.Origin = approvalDomain.OriginPEApproval
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ok, err := r.Approvals.HasValidForUser(ctx, in.UserID, u.Now())
		if err != nil {
			return err
		}
		if ok {
			return approvalDomain.ErrAlreadyValidForUser
		}
		if a.Number == "" {
			legacy, err := u.reusableLegacyApproval(ctx, r, in.UserID)
			if err != nil {
				return err
			}
			if legacy != nil {
				a.Number = legacy.Number
				a.StartAt = legacy.StartAt
				a.EndAt = legacy.EndAt
				a.Origin = approvalDomain.OriginPEApproval
			} else {
				number, err := r.Approvals.NextNumber(ctx, u.issuerPrefix)
				if err != nil {
					return err
				}
				a.Number = number
			}
		}
		return r.Approvals.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return u.toDTO(ctx, a)
}

// reusableLegacyApproval looks up a still-valid approval imported from the
// legacy employment-agency system: its number and validity period are carried
// over instead of issuing fresh rights.
func (u *Usecase) reusableLegacyApproval(ctx context.Context, r uow.Repos, userID uint64) (*peapprovalDomain.PoleEmploiApproval, error) {
	beneficiary, err := r.Users.GetByID(ctx, userID)
	if errors.Is(err, userDomain.ErrNotFound) {
		// Without a directory record there is nothing to match against.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	candidates, err := r.PEApprovals.FindForUser(ctx, beneficiary.NIR, beneficiary.PoleEmploiID, beneficiary.BirthDate)
	if err != nil {
		return nil, err
	}
	today := u.Now()
	for i := range candidates {
		if candidates[i].IsValid(today) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

func (u *Usecase) Get(ctx context.Context, number string) (*ApprovalDTO, error) {
	a, err := u.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return u.toDTO(ctx, a)
}

// Postpone moves the start date of a not-yet-started approval, re-deriving
// the end date from the default validity.
func (u *Usecase) Postpone(ctx context.Context, number string, newStartAt time.Time) (*ApprovalDTO, error) {
	var out *approvalDomain.Approval
	err := u.uow.WithinApprovalTx(ctx, number, func(r uow.Repos, a *approvalDomain.Approval) error {
		if !a.CanPostponeStartDate(u.Now()) {
			return approvalDomain.ErrCannotPostpone
		}
		a.StartAt = interval.DateOf(newStartAt)
		a.EndAt = approvalDomain.DefaultEndDate(a.StartAt)
		if err := r.Approvals.Save(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.toDTO(ctx, out)
}

// Unsuspend lifts the in-progress suspension when a new hire starts, for the
// reasons that allow it. The approval's end date gives back the unserved part
// of the suspension.
func (u *Usecase) Unsuspend(ctx context.Context, number string, hiringStartAt time.Time) error {
	hiringStartAt = interval.DateOf(hiringStartAt)
	return u.uow.WithinApprovalTx(ctx, number, func(r uow.Repos, a *approvalDomain.Approval) error {
		s, err := r.Suspensions.LastInProgressForApproval(ctx, a.ID, u.Now())
		if errors.Is(err, suspensionDomain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !suspensionDomain.ReasonsAllowingUnsuspend[s.Reason] {
			return nil
		}

		if s.StartAt.Equal(hiringStartAt) {
			// The hire starts the very day the suspension did: the suspension
			// never took effect, drop it entirely.
			a.EndAt = addDuration(a.EndAt, -s.Duration())
			if err := r.Suspensions.Delete(ctx, s); err != nil {
				return err
			}
			return r.Approvals.Save(ctx, a)
		}

		newEndAt := interval.AddDays(hiringStartAt, -1)
		a.EndAt = addDuration(a.EndAt, newEndAt.Sub(s.EndAt))
		s.EndAt = newEndAt
		if err := r.Suspensions.Save(ctx, s); err != nil {
			return err
		}
		return r.Approvals.Save(ctx, a)
	})
}

// Delete removes an approval delivered by mistake. Only allowed while the
// approval is tied to exactly one job application, the accepted one that
// created it.
func (u *Usecase) Delete(ctx context.Context, number string) error {
	return u.uow.WithinApprovalTx(ctx, number, func(r uow.Repos, a *approvalDomain.Approval) error {
		apps, err := r.JobApplications.ListForApproval(ctx, a.ID)
		if err != nil {
			return err
		}
		if len(apps) != 1 || apps[0].State != hiring.StateAccepted {
			return approvalDomain.ErrCannotDelete
		}
		return r.Approvals.Delete(ctx, a)
	})
}

func (u *Usecase) toDTO(ctx context.Context, a *approvalDomain.Approval) (*ApprovalDTO, error) {
	suspensions, err := u.suspensions.ListForApproval(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	spans := make([]interval.Span, len(suspensions))
	for i := range suspensions {
		spans[i] = suspensions[i].Span()
	}

	today := u.Now()
	return &ApprovalDTO{
		Number:               a.Number,
		NumberWithSpaces:     approvalDomain.NumberWithSpaces(a.Number),
		UserID:               a.UserID,
		StartAt:              a.StartAt,
		EndAt:                a.EndAt,
		Origin:               string(a.Origin),
		Status:               string(a.Status(today, spans)),
		RemainderDays:        int(a.Remainder(today, spans) / interval.Day),
		RemainderAsDate:      a.RemainderAsDate(today, spans),
		IsInWaitingPeriod:    a.IsInWaitingPeriod(today),
		CanBeSuspended:       a.CanBeSuspended(today, spans),
		IsOpenToProlongation: a.IsOpenToProlongation(today),
		CreatedAt:            a.CreatedAt,
	}, nil
}

// addDuration shifts a date by a whole number of days expressed as a duration.
func addDuration(t time.Time, d time.Duration) time.Time {
	return interval.AddDays(t, int(d/interval.Day))
}
