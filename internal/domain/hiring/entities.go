package hiring

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("job application not found")

type State string

const (
	StateNew       State = "new"
	StateAccepted  State = "accepted"
	StatePostponed State = "postponed"
	StateCancelled State = "cancelled"
	StateRefused   State = "refused"
)

// SenderKind tells who submitted the job application.
type SenderKind string

const (
	SenderJobSeeker       SenderKind = "job_seeker"
	SenderPrescriber      SenderKind = "prescriber"
	SenderEnterpriseStaff SenderKind = "siae_staff"
)

// RemoteOriginCode maps the sender kind to the hire-origin code expected by
// the government system.
func (k SenderKind) RemoteOriginCode() string {
	switch k {
	case SenderPrescriber:
		return "PRES"
	case SenderEnterpriseStaff:
		return "EMPL"
	default:
		return "DEMA"
	}
}

// JobApplication is a hire record. The approval engine only reads it: the
// full application workflow lives outside this service.
type JobApplication struct {
	ID            uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        uint64     `gorm:"column:user_id;index" json:"user_id"`
	EnterpriseID  uint64     `gorm:"column:enterprise_id;index" json:"enterprise_id"`
	ApprovalID    *uint64    `gorm:"column:approval_id;index" json:"approval_id,omitempty"`
	State         State      `gorm:"column:state;size:20;index" json:"state"`
	HiringStartAt *time.Time `gorm:"column:hiring_start_at;type:date" json:"hiring_start_at,omitempty"`
	SenderKind    SenderKind `gorm:"column:sender_kind;size:20" json:"sender_kind"`
	// Prescriber organization of the sender, when sent by a prescriber.
	SenderPrescriberOrgID *uint64 `gorm:"column:sender_prescriber_org_id" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (JobApplication) TableName() string { return "job_applications" }

type Ledger interface {
	// LastAcceptedForUser returns the beneficiary's most recent accepted
	// hire, used to bound retroactive suspensions.
	LastAcceptedForUser(ctx context.Context, userID uint64) (*JobApplication, error)
	// LastAcceptedForApproval returns the most recent accepted hire tied to
	// the approval, used to resolve notification parameters.
	LastAcceptedForApproval(ctx context.Context, approvalID uint64) (*JobApplication, error)
	ListForApproval(ctx context.Context, approvalID uint64) ([]JobApplication, error)
}
