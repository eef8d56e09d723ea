package notify

import (
	"context"
	"fmt"
	"time"
)

// IndividualQuery identifies a beneficiary for the remote identity search.
type IndividualQuery struct {
	FirstName string
	LastName  string
	BirthDate time.Time
	NIR       string
}

// RegisterInput carries everything the remote update operation needs.
type RegisterInput struct {
	EncryptedID    string
	ApprovalNumber string
	StartAt        time.Time
	EndAt          time.Time

	SiaeSiret    string
	SiaeTypeCode int

	// OriginCode tells who initiated the hire: DEMA, PRES or EMPL.
	OriginCode string
	// PrescriberTypology qualifies the sending organization when the origin
	// is PRES; empty otherwise.
	PrescriberTypology string
}

// Client is the remote government-agency API. Implementations return a
// *BadResponseError for definitive rejections; any other error is treated as
// transient and retried by the sweep.
type Client interface {
	// SearchIndividual resolves the beneficiary's encrypted identifier.
	SearchIndividual(ctx context.Context, q IndividualQuery) (string, error)
	// RegisterApproval pushes the approval to the remote system.
	RegisterApproval(ctx context.Context, in RegisterInput) error
}

// BadResponseError is a definitive remote rejection: the request reached the
// remote system, which answered with a non-success exit code. Retrying the
// same payload would fail the same way.
type BadResponseError struct {
	Code string
}

func (e *BadResponseError) Error() string {
	return fmt.Sprintf("remote system rejected the request with exit code %s", e.Code)
}
