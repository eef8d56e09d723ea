package approval

import (
	"context"
	"time"

	"pass-iae-backend/internal/domain/notification"
)

type Repository interface {
	Create(ctx context.Context, a *Approval) error
	Save(ctx context.Context, a *Approval) error
	Delete(ctx context.Context, a *Approval) error

	GetByID(ctx context.Context, id uint64) (*Approval, error)
	GetByNumber(ctx context.Context, number string) (*Approval, error)

	// HasValidForUser reports whether the user already holds a valid-or-future
	// approval as of today.
	HasValidForUser(ctx context.Context, userID uint64, today time.Time) (bool, error)
	// LastForUser returns the user's most recent approval by start date.
	LastForUser(ctx context.Context, userID uint64) (*Approval, error)

	// NextNumber issues the next number under the prefix. Must be called
	// within a transaction: it locks a sentinel row for the duration of the
	// enclosing transaction to serialize concurrent issuance.
	NextNumber(ctx context.Context, prefix string) (string, error)

	// ListNotifiable returns approvals awaiting notification (pending or
	// should-retry) whose start date has passed and whose beneficiary data
	// and accepted hire are present, oldest attempt first.
	ListNotifiable(ctx context.Context, today time.Time, limit int) ([]Approval, error)
	// UpdateNotification persists a notification state transition without
	// touching the rest of the record.
	UpdateNotification(ctx context.Context, id uint64, st notification.State) error
}
