// Package directorymock bundles function-backed mocks for the read-mostly
// directories (users, enterprises, prescriber organizations).
package directorymock

import (
	"context"
	"time"

	enterpriseDomain "pass-iae-backend/internal/domain/enterprise"
	prescriberDomain "pass-iae-backend/internal/domain/prescriber"
	userDomain "pass-iae-backend/internal/domain/user"
)

var (
	_ userDomain.Directory       = (*Users)(nil)
	_ enterpriseDomain.Directory = (*Enterprises)(nil)
	_ prescriberDomain.Directory = (*Prescribers)(nil)
)

type Users struct {
	GetByIDFn           func(ctx context.Context, id uint64) (*userDomain.User, error)
	SaveObfuscatedNIRFn func(ctx context.Context, userID uint64, token string, at time.Time) error
}

func (m *Users) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, userDomain.ErrNotFound
}

func (m *Users) SaveObfuscatedNIR(ctx context.Context, userID uint64, token string, at time.Time) error {
	if m.SaveObfuscatedNIRFn != nil {
		return m.SaveObfuscatedNIRFn(ctx, userID, token, at)
	}
	return nil
}

type Enterprises struct {
	GetByIDFn func(ctx context.Context, id uint64) (*enterpriseDomain.Enterprise, error)
}

func (m *Enterprises) GetByID(ctx context.Context, id uint64) (*enterpriseDomain.Enterprise, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, enterpriseDomain.ErrNotFound
}

type Prescribers struct {
	GetByIDFn func(ctx context.Context, id uint64) (*prescriberDomain.Organization, error)
}

func (m *Prescribers) GetByID(ctx context.Context, id uint64) (*prescriberDomain.Organization, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, prescriberDomain.ErrNotFound
}
