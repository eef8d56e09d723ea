package suspension

import (
	"context"
	"errors"
	"time"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/hiring"
	"pass-iae-backend/internal/domain/interval"
	suspensionDomain "pass-iae-backend/internal/domain/suspension"
	"pass-iae-backend/internal/domain/uow"
	"pass-iae-backend/pkg/id"
)

// Usecase runs every suspension mutation inside the approval's row lock:
// the suspension set and the approval's end date always move together.
type Usecase struct {
	uow uow.UnitOfWork

	Now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{uow: tx, Now: time.Now}
}

type CreateInput struct {
	ApprovalNumber    string                  `json:"-"`
	StartAt           time.Time               `json:"start_at"`
	EndAt             time.Time               `json:"end_at"`
	Reason            suspensionDomain.Reason `json:"reason"`
	ReasonExplanation string                  `json:"reason_explanation"`
	EnterpriseID      *uint64                 `json:"enterprise_id"`
	CreatedBy         *uint64                 `json:"-"`
}

type UpdateInput struct {
	StartAt           time.Time               `json:"start_at"`
	EndAt             time.Time               `json:"end_at"`
	Reason            suspensionDomain.Reason `json:"reason"`
	ReasonExplanation string                  `json:"reason_explanation"`
	UpdatedBy         *uint64                 `json:"-"`
}

type SuspensionDTO struct {
	ID                string    `json:"id"`
	ApprovalNumber    string    `json:"approval_number"`
	StartAt           time.Time `json:"start_at"`
	EndAt             time.Time `json:"end_at"`
	Reason            string    `json:"reason"`
	ReasonExplanation string    `json:"reason_explanation,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*SuspensionDTO, error) {
	s := &suspensionDomain.Suspension{
		PublicID:          id.NewID32(),
		StartAt:           interval.DateOf(in.StartAt),
		EndAt:             interval.DateOf(in.EndAt),
		EnterpriseID:      in.EnterpriseID,
		Reason:            in.Reason,
		ReasonExplanation: in.ReasonExplanation,
		CreatedBy:         in.CreatedBy,
	}

	var dto *SuspensionDTO
	err := u.uow.WithinApprovalTx(ctx, in.ApprovalNumber, func(r uow.Repos, a *approvalDomain.Approval) error {
		others, err := r.Suspensions.ListForApproval(ctx, a.ID)
		if err != nil {
			return err
		}
		if !a.CanBeSuspended(u.Now(), spansOf(others)) {
			return suspensionDomain.ErrCannotSuspend
		}

		vc, err := u.validationContext(ctx, r, a, others)
		if err != nil {
			return err
		}
		if err := vc.Validate(s); err != nil {
			return err
		}

		s.ApprovalID = a.ID
		if err := r.Suspensions.Create(ctx, s); err != nil {
			return err
		}

		// The suspended time is given back at the end of the approval.
		a.EndAt = shiftByDuration(a.EndAt, s.Duration())
		if err := r.Approvals.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(s, a.Number)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Update(ctx context.Context, approvalNumber, publicID string, in UpdateInput) (*SuspensionDTO, error) {
	var dto *SuspensionDTO
	err := u.uow.WithinApprovalTx(ctx, approvalNumber, func(r uow.Repos, a *approvalDomain.Approval) error {
		s, err := r.Suspensions.GetByPublicID(ctx, publicID)
		if err != nil {
			return err
		}
		oldDuration := s.Duration()

		all, err := r.Suspensions.ListForApproval(ctx, a.ID)
		if err != nil {
			return err
		}
		others := all[:0:0]
		for i := range all {
			if all[i].ID != s.ID {
				others = append(others, all[i])
			}
		}

		s.StartAt = interval.DateOf(in.StartAt)
		s.EndAt = interval.DateOf(in.EndAt)
		s.Reason = in.Reason
		s.ReasonExplanation = in.ReasonExplanation
		s.UpdatedBy = in.UpdatedBy

		vc, err := u.validationContext(ctx, r, a, others)
		if err != nil {
			return err
		}
		// On update the retroactivity threshold is anchored to the
		// suspension's creation date, not today.
		vc.ReferentDate = s.CreatedAt
		if err := vc.Validate(s); err != nil {
			return err
		}

		if err := r.Suspensions.Save(ctx, s); err != nil {
			return err
		}
		a.EndAt = shiftByDuration(a.EndAt, s.Duration()-oldDuration)
		if err := r.Approvals.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(s, a.Number)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Delete(ctx context.Context, approvalNumber, publicID string) error {
	return u.uow.WithinApprovalTx(ctx, approvalNumber, func(r uow.Repos, a *approvalDomain.Approval) error {
		s, err := r.Suspensions.GetByPublicID(ctx, publicID)
		if err != nil {
			return err
		}
		if err := r.Suspensions.Delete(ctx, s); err != nil {
			return err
		}
		a.EndAt = shiftByDuration(a.EndAt, -s.Duration())
		return r.Approvals.Save(ctx, a)
	})
}

func (u *Usecase) validationContext(ctx context.Context, r uow.Repos, a *approvalDomain.Approval, others []suspensionDomain.Suspension) (suspensionDomain.ValidationContext, error) {
	vc := suspensionDomain.ValidationContext{
		Approval:     a,
		Others:       others,
		Today:        u.Now(),
		ReferentDate: u.Now(),
	}
	lastHire, err := r.JobApplications.LastAcceptedForUser(ctx, a.UserID)
	switch {
	case errors.Is(err, hiring.ErrNotFound):
	case err != nil:
		return vc, err
	case lastHire.HiringStartAt != nil:
		vc.LastHireStartAt = lastHire.HiringStartAt
	}
	return vc, nil
}

func spansOf(suspensions []suspensionDomain.Suspension) []interval.Span {
	spans := make([]interval.Span, len(suspensions))
	for i := range suspensions {
		spans[i] = suspensions[i].Span()
	}
	return spans
}

func shiftByDuration(t time.Time, d time.Duration) time.Time {
	return interval.AddDays(t, int(d/interval.Day))
}

func toDTO(s *suspensionDomain.Suspension, approvalNumber string) *SuspensionDTO {
	return &SuspensionDTO{
		ID:                s.PublicID,
		ApprovalNumber:    approvalNumber,
		StartAt:           s.StartAt,
		EndAt:             s.EndAt,
		Reason:            string(s.Reason),
		ReasonExplanation: s.ReasonExplanation,
		CreatedAt:         s.CreatedAt,
	}
}
