package user

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is a job seeker holding zero or more approvals. Prescriber accounts
// live in the same table; only IsAuthorizedPrescriber matters for them here.
type User struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PublicID  string     `gorm:"column:public_id;type:char(32);uniqueIndex" json:"public_id"`
	FirstName string     `gorm:"column:first_name;size:150" json:"first_name"`
	LastName  string     `gorm:"column:last_name;size:150" json:"last_name"`
	Email     string     `gorm:"column:email;size:254" json:"email"`
	BirthDate *time.Time `gorm:"column:birthdate;type:date" json:"birthdate,omitempty"`
	// NIR is the French national identity number (numéro de sécurité sociale).
	NIR          string `gorm:"column:nir;size:15;index" json:"-"`
	PoleEmploiID string `gorm:"column:pole_emploi_id;size:8" json:"-"`

	// Obfuscated identity token returned by the remote identity-search
	// operation. Write-once-then-reused; concurrent sweeps racing to set it
	// are harmless since it derives from the same deterministic inputs.
	PEObfuscatedNIR              string     `gorm:"column:pe_obfuscated_nir;size:48" json:"-"`
	PELastCertificationAttemptAt *time.Time `gorm:"column:pe_last_certification_attempt_at" json:"-"`

	IsAuthorizedPrescriber bool `gorm:"column:is_authorized_prescriber" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }

// HasCompleteIdentity reports whether the remote identity-search operation
// can be attempted at all.
func (u *User) HasCompleteIdentity() bool {
	return u.FirstName != "" && u.LastName != "" && u.NIR != "" && u.BirthDate != nil
}

type Directory interface {
	GetByID(ctx context.Context, id uint64) (*User, error)
	// SaveObfuscatedNIR caches the remote identity token on the user record,
	// stamping the certification attempt time.
	SaveObfuscatedNIR(ctx context.Context, userID uint64, token string, at time.Time) error
}
