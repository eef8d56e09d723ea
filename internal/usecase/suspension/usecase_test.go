package suspension

import (
	"context"
	"errors"
	"testing"
	"time"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	"pass-iae-backend/internal/domain/interval"
	suspensionDomain "pass-iae-backend/internal/domain/suspension"
	"pass-iae-backend/internal/domain/uow"
	"pass-iae-backend/internal/domain/validation"
	"pass-iae-backend/internal/testutil/approvalmock"
	"pass-iae-backend/internal/testutil/hiringmock"
	"pass-iae-backend/internal/testutil/suspensionmock"
	"pass-iae-backend/internal/testutil/uowmock"
)

type fixture struct {
	approvals   *approvalmock.Repo
	suspensions *suspensionmock.Repo
	hires       *hiringmock.Ledger
	approval    *approvalDomain.Approval
	uc          *Usecase
}

func newFixture(today time.Time) *fixture {
	f := &fixture{
		approvals:   &approvalmock.Repo{},
		suspensions: &suspensionmock.Repo{},
		hires:       &hiringmock.Ledger{},
		approval: &approvalDomain.Approval{
			ID: 1, Number: "999990000001", UserID: 7,
			StartAt: interval.Date(2026, 1, 1),
			EndAt:   interval.Date(2027, 12, 31),
		},
	}
	f.approvals.GetByNumberFn = func(ctx context.Context, number string) (*approvalDomain.Approval, error) {
		if number != f.approval.Number {
			return nil, approvalDomain.ErrNotFound
		}
		return f.approval, nil
	}
	f.uc = NewUsecase(uowmock.New(uow.Repos{
		Approvals:       f.approvals,
		Suspensions:     f.suspensions,
		JobApplications: f.hires,
	}))
	f.uc.Now = func() time.Time { return today }
	return f
}

func TestCreate_PushesTheApprovalEnd(t *testing.T) {
	f := newFixture(interval.Date(2026, 6, 1))
	var created *suspensionDomain.Suspension
	f.suspensions.CreateFn = func(ctx context.Context, s *suspensionDomain.Suspension) error {
		created = s
		return nil
	}
	saved := false
	f.approvals.SaveFn = func(ctx context.Context, a *approvalDomain.Approval) error {
		saved = true
		return nil
	}

	dto, err := f.uc.Create(context.Background(), CreateInput{
		ApprovalNumber: "999990000001",
		StartAt:        interval.Date(2026, 5, 1),
		EndAt:          interval.Date(2026, 6, 30), // 60 days
		Reason:         suspensionDomain.ReasonSuspendedContract,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created == nil || created.ApprovalID != 1 {
		t.Fatalf("suspension not persisted: %+v", created)
	}
	if len(created.PublicID) != 32 {
		t.Errorf("public id: got %q", created.PublicID)
	}
	if !saved {
		t.Fatal("approval not saved")
	}
	if !f.approval.EndAt.Equal(interval.Date(2028, 2, 29)) {
		t.Errorf("approval end: got %v", f.approval.EndAt)
	}
	if dto.ApprovalNumber != "999990000001" {
		t.Errorf("dto: %+v", dto)
	}
}

func TestCreate_RejectedWhileSuspended(t *testing.T) {
	f := newFixture(interval.Date(2026, 6, 1))
	f.suspensions.ListForApprovalFn = func(ctx context.Context, approvalID uint64) ([]suspensionDomain.Suspension, error) {
		return []suspensionDomain.Suspension{{
			ID:      10,
			StartAt: interval.Date(2026, 5, 1),
			EndAt:   interval.Date(2026, 7, 31),
		}}, nil
	}

	_, err := f.uc.Create(context.Background(), CreateInput{
		ApprovalNumber: "999990000001",
		StartAt:        interval.Date(2026, 6, 1),
		EndAt:          interval.Date(2026, 8, 31),
		Reason:         suspensionDomain.ReasonSuspendedContract,
	})
	if !errors.Is(err, suspensionDomain.ErrCannotSuspend) {
		t.Fatalf("expected ErrCannotSuspend, got %v", err)
	}
}

func TestCreate_ValidationFailureLeavesTheApprovalAlone(t *testing.T) {
	f := newFixture(interval.Date(2026, 6, 1))
	f.approvals.SaveFn = func(ctx context.Context, a *approvalDomain.Approval) error {
		t.Fatal("the approval must stay untouched")
		return nil
	}

	_, err := f.uc.Create(context.Background(), CreateInput{
		ApprovalNumber: "999990000001",
		StartAt:        interval.Date(2026, 7, 1), // in the future
		EndAt:          interval.Date(2026, 8, 31),
		Reason:         suspensionDomain.ReasonSuspendedContract,
	})
	if _, ok := validation.AsError(err); !ok {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestUpdate_ShiftsTheApprovalEndByTheDelta(t *testing.T) {
	f := newFixture(interval.Date(2026, 6, 1))
	existing := &suspensionDomain.Suspension{
		ID: 10, PublicID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", ApprovalID: 1,
		StartAt:   interval.Date(2026, 4, 1),
		EndAt:     interval.Date(2026, 5, 31), // 60 days
		Reason:    suspensionDomain.ReasonSuspendedContract,
		CreatedAt: interval.Date(2026, 4, 1),
	}
	// The approval end already includes the 60 pushed days.
	f.approval.EndAt = interval.Date(2028, 2, 29)
	f.suspensions.GetByPublicIDFn = func(ctx context.Context, publicID string) (*suspensionDomain.Suspension, error) {
		return existing, nil
	}
	f.suspensions.ListForApprovalFn = func(ctx context.Context, approvalID uint64) ([]suspensionDomain.Suspension, error) {
		return []suspensionDomain.Suspension{*existing}, nil
	}

	dto, err := f.uc.Update(context.Background(), "999990000001", existing.PublicID, UpdateInput{
		StartAt: interval.Date(2026, 4, 1),
		EndAt:   interval.Date(2026, 5, 1), // now 30 days
		Reason:  suspensionDomain.ReasonSuspendedContract,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !f.approval.EndAt.Equal(interval.Date(2028, 1, 30)) {
		t.Errorf("approval end: got %v", f.approval.EndAt)
	}
	if !dto.EndAt.Equal(interval.Date(2026, 5, 1)) {
		t.Errorf("dto end: got %v", dto.EndAt)
	}
}

func TestDelete_GivesBackTheDuration(t *testing.T) {
	f := newFixture(interval.Date(2026, 6, 1))
	existing := &suspensionDomain.Suspension{
		ID: 10, PublicID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", ApprovalID: 1,
		StartAt: interval.Date(2026, 4, 1),
		EndAt:   interval.Date(2026, 5, 31),
	}
	f.approval.EndAt = interval.Date(2028, 2, 29)
	f.suspensions.GetByPublicIDFn = func(ctx context.Context, publicID string) (*suspensionDomain.Suspension, error) {
		return existing, nil
	}
	deleted := false
	f.suspensions.DeleteFn = func(ctx context.Context, s *suspensionDomain.Suspension) error {
		deleted = true
		return nil
	}

	if err := f.uc.Delete(context.Background(), "999990000001", existing.PublicID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("suspension not deleted")
	}
	if !f.approval.EndAt.Equal(interval.Date(2027, 12, 31)) {
		t.Errorf("approval end: got %v", f.approval.EndAt)
	}
}

func TestDelete_UnknownSuspension(t *testing.T) {
	f := newFixture(interval.Date(2026, 6, 1))

	err := f.uc.Delete(context.Background(), "999990000001", "ffffffffffffffffffffffffffffffff")
	if !errors.Is(err, suspensionDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
