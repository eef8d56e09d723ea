package mysql

import (
	"context"
	"errors"
	"testing"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	suspensionDomain "pass-iae-backend/internal/domain/suspension"
	"pass-iae-backend/internal/domain/uow"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	err := u.WithinTx(ctx, func(r uow.Repos) error {
		a := makeApproval("999990000001", 1, date(2026, 1, 1), date(2027, 12, 31))
		if err := r.Approvals.Create(ctx, a); err != nil {
			return err
		}
		return r.Suspensions.Create(ctx, &suspensionDomain.Suspension{
			PublicID:   "s1",
			ApprovalID: a.ID,
			StartAt:    date(2026, 2, 1),
			EndAt:      date(2026, 3, 31),
			Reason:     suspensionDomain.ReasonSuspendedContract,
		})
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	// Both writes are visible after commit.
	a, err := NewApprovalRepository(db).GetByNumber(ctx, "999990000001")
	if err != nil {
		t.Fatalf("approval missing after commit: %v", err)
	}
	spans, err := NewSuspensionRepository(db).ListForApproval(ctx, a.ID)
	if err != nil || len(spans) != 1 {
		t.Fatalf("suspension missing after commit: %v %+v", err, spans)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()
	sentinel := errors.New("boom")

	err := u.WithinTx(ctx, func(r uow.Repos) error {
		a := makeApproval("999990000001", 1, date(2026, 1, 1), date(2027, 12, 31))
		if err := r.Approvals.Create(ctx, a); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	if _, err := NewApprovalRepository(db).GetByNumber(ctx, "999990000001"); !errors.Is(err, approvalDomain.ErrNotFound) {
		t.Fatalf("write should have been rolled back, got %v", err)
	}
}

func TestGormUoW_WithinApprovalTx(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	seeded := makeApproval("999990000001", 1, date(2026, 1, 1), date(2027, 12, 31))
	if err := NewApprovalRepository(db).Create(ctx, seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := u.WithinApprovalTx(ctx, "999990000001", func(r uow.Repos, a *approvalDomain.Approval) error {
		if a.ID != seeded.ID {
			t.Errorf("locked the wrong approval: %+v", a)
		}
		a.EndAt = date(2028, 6, 30)
		return r.Approvals.Save(ctx, a)
	})
	if err != nil {
		t.Fatalf("WithinApprovalTx: %v", err)
	}

	got, _ := NewApprovalRepository(db).GetByID(ctx, seeded.ID)
	if !got.EndAt.Equal(date(2028, 6, 30)) {
		t.Fatalf("update lost: %+v", got)
	}
}

func TestGormUoW_WithinApprovalTx_NotFound(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)

	called := false
	err := u.WithinApprovalTx(context.Background(), "999990009999", func(r uow.Repos, a *approvalDomain.Approval) error {
		called = true
		return nil
	})
	if !errors.Is(err, approvalDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if called {
		t.Fatal("callback must not run for an unknown approval")
	}
}
