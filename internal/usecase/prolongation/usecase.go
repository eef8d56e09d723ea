package prolongation

import (
	"context"
	"errors"
	"time"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/interval"
	prolongationDomain "pass-iae-backend/internal/domain/prolongation"
	"pass-iae-backend/internal/domain/uow"
	"pass-iae-backend/pkg/id"
)

// Usecase declares prolongations. Like suspensions, every mutation runs
// inside the approval's row lock so the end date moves with the record.
type Usecase struct {
	uow uow.UnitOfWork

	Now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{uow: tx, Now: time.Now}
}

type CreateInput struct {
	ApprovalNumber    string                    `json:"-"`
	EndAt             time.Time                 `json:"end_at"`
	Reason            prolongationDomain.Reason `json:"reason"`
	ReasonExplanation string                    `json:"reason_explanation"`

	DeclaredBy             *uint64 `json:"-"`
	DeclaredByEnterpriseID *uint64 `json:"enterprise_id"`
	// ValidatedBy is required for reasons needing a prescriber opinion.
	ValidatedBy              *uint64 `json:"validated_by"`
	PrescriberOrganizationID *uint64 `json:"prescriber_organization_id"`

	ReportFileKey string `json:"report_file_key"`

	RequirePhoneInterview bool   `json:"require_phone_interview"`
	ContactEmail          string `json:"contact_email"`
	ContactPhone          string `json:"contact_phone"`
}

type ProlongationDTO struct {
	ID             string    `json:"id"`
	ApprovalNumber string    `json:"approval_number"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Reason         string    `json:"reason"`
	CreatedAt      time.Time `json:"created_at"`
}

// Create declares a prolongation starting exactly where the approval ends and
// pushes the approval's end date by the prolongated duration.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*ProlongationDTO, error) {
	p := &prolongationDomain.Prolongation{
		PublicID:                 id.NewID32(),
		EndAt:                    interval.DateOf(in.EndAt),
		Reason:                   in.Reason,
		ReasonExplanation:        in.ReasonExplanation,
		DeclaredBy:               in.DeclaredBy,
		DeclaredByEnterpriseID:   in.DeclaredByEnterpriseID,
		ValidatedBy:              in.ValidatedBy,
		PrescriberOrganizationID: in.PrescriberOrganizationID,
		ReportFileKey:            in.ReportFileKey,
		RequirePhoneInterview:    in.RequirePhoneInterview,
		ContactEmail:             in.ContactEmail,
		ContactPhone:             in.ContactPhone,
		CreatedBy:                in.DeclaredBy,
	}

	var dto *ProlongationDTO
	err := u.uow.WithinApprovalTx(ctx, in.ApprovalNumber, func(r uow.Repos, a *approvalDomain.Approval) error {
		canProlong, err := u.canBeProlonged(ctx, r, a)
		if err != nil {
			return err
		}
		if !canProlong {
			return prolongationDomain.ErrCannotProlong
		}

		p.ApprovalID = a.ID
		p.StartAt = prolongationDomain.StartAtFor(a.EndAt)

		existing, err := r.Prolongations.ListForApproval(ctx, a.ID)
		if err != nil {
			return err
		}
		vc := prolongationDomain.ValidationContext{
			Approval: a,
			Existing: existing,
		}
		if in.DeclaredByEnterpriseID != nil {
			e, err := r.Enterprises.GetByID(ctx, *in.DeclaredByEnterpriseID)
			if err != nil {
				return err
			}
			vc.DeclaringEnterpriseKind = e.Kind
		}
		if in.ValidatedBy != nil {
			validator, err := r.Users.GetByID(ctx, *in.ValidatedBy)
			if err != nil {
				return err
			}
			vc.ValidatorIsAuthorizedPrescriber = validator.IsAuthorizedPrescriber
		}
		if err := vc.Validate(p); err != nil {
			return err
		}

		if err := r.Prolongations.Create(ctx, p); err != nil {
			return err
		}
		a.EndAt = interval.AddDays(a.EndAt, int(p.Duration()/interval.Day))
		if err := r.Approvals.Save(ctx, a); err != nil {
			return err
		}
		dto = &ProlongationDTO{
			ID:             p.PublicID,
			ApprovalNumber: a.Number,
			StartAt:        p.StartAt,
			EndAt:          p.EndAt,
			Reason:         string(p.Reason),
			CreatedAt:      p.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// canBeProlonged: the approval must be the beneficiary's most recent one,
// today must fall inside its prolongation window and no suspension may be in
// progress.
func (u *Usecase) canBeProlonged(ctx context.Context, r uow.Repos, a *approvalDomain.Approval) (bool, error) {
	last, err := r.Approvals.LastForUser(ctx, a.UserID)
	if err != nil && !errors.Is(err, approvalDomain.ErrNotFound) {
		return false, err
	}
	if last == nil || last.ID != a.ID {
		return false, nil
	}
	today := u.Now()
	if !a.IsOpenToProlongation(today) {
		return false, nil
	}
	suspensions, err := r.Suspensions.ListForApproval(ctx, a.ID)
	if err != nil {
		return false, err
	}
	for i := range suspensions {
		if suspensions[i].IsInProgress(today) {
			return false, nil
		}
	}
	return true, nil
}
