package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no enums/engine specifics) ---

type approvalSQLite struct {
	ID                     uint64     `gorm:"primaryKey;column:id;autoIncrement"`
	Number                 string     `gorm:"size:12;uniqueIndex;column:number"`
	UserID                 uint64     `gorm:"column:user_id"`
	StartAt                time.Time  `gorm:"column:start_at"`
	EndAt                  time.Time  `gorm:"column:end_at"`
	Origin                 string     `gorm:"column:origin"`
	EligibilityDiagnosisID *uint64    `gorm:"column:eligibility_diagnosis_id"`
	NotificationStatus     string     `gorm:"column:pe_notification_status"`
	NotificationTime       *time.Time `gorm:"column:pe_notification_time"`
	NotificationEndpoint   *string    `gorm:"column:pe_notification_endpoint"`
	NotificationExitCode   *string    `gorm:"column:pe_notification_exit_code"`
	CreatedAt              time.Time  `gorm:"column:created_at"`
	CreatedBy              *uint64    `gorm:"column:created_by"`
}

func (approvalSQLite) TableName() string { return "approvals" }

type suspensionSQLite struct {
	ID                uint64    `gorm:"primaryKey;column:id;autoIncrement"`
	PublicID          string    `gorm:"size:32;uniqueIndex;column:public_id"`
	ApprovalID        uint64    `gorm:"column:approval_id"`
	StartAt           time.Time `gorm:"column:start_at"`
	EndAt             time.Time `gorm:"column:end_at"`
	EnterpriseID      *uint64   `gorm:"column:enterprise_id"`
	Reason            string    `gorm:"column:reason"`
	ReasonExplanation string    `gorm:"column:reason_explanation"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	CreatedBy         *uint64   `gorm:"column:created_by"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
	UpdatedBy         *uint64   `gorm:"column:updated_by"`
}

func (suspensionSQLite) TableName() string { return "suspensions" }

type prolongationSQLite struct {
	ID                       uint64    `gorm:"primaryKey;column:id;autoIncrement"`
	PublicID                 string    `gorm:"size:32;uniqueIndex;column:public_id"`
	ApprovalID               uint64    `gorm:"column:approval_id"`
	StartAt                  time.Time `gorm:"column:start_at"`
	EndAt                    time.Time `gorm:"column:end_at"`
	Reason                   string    `gorm:"column:reason"`
	ReasonExplanation        string    `gorm:"column:reason_explanation"`
	DeclaredBy               *uint64   `gorm:"column:declared_by"`
	DeclaredByEnterpriseID   *uint64   `gorm:"column:declared_by_enterprise_id"`
	ValidatedBy              *uint64   `gorm:"column:validated_by"`
	PrescriberOrganizationID *uint64   `gorm:"column:prescriber_organization_id"`
	ReportFileKey            string    `gorm:"column:report_file_key"`
	RequirePhoneInterview    bool      `gorm:"column:require_phone_interview"`
	ContactEmail             string    `gorm:"column:contact_email"`
	ContactPhone             string    `gorm:"column:contact_phone"`
	CreatedAt                time.Time `gorm:"column:created_at"`
	CreatedBy                *uint64   `gorm:"column:created_by"`
	UpdatedAt                time.Time `gorm:"column:updated_at"`
	UpdatedBy                *uint64   `gorm:"column:updated_by"`
}

func (prolongationSQLite) TableName() string { return "prolongations" }

type userSQLite struct {
	ID                           uint64     `gorm:"primaryKey;column:id;autoIncrement"`
	PublicID                     string     `gorm:"size:32;column:public_id"`
	FirstName                    string     `gorm:"column:first_name"`
	LastName                     string     `gorm:"column:last_name"`
	Email                        string     `gorm:"column:email"`
	BirthDate                    *time.Time `gorm:"column:birthdate"`
	NIR                          string     `gorm:"column:nir"`
	PoleEmploiID                 string     `gorm:"column:pole_emploi_id"`
	PEObfuscatedNIR              string     `gorm:"column:pe_obfuscated_nir"`
	PELastCertificationAttemptAt *time.Time `gorm:"column:pe_last_certification_attempt_at"`
	IsAuthorizedPrescriber       bool       `gorm:"column:is_authorized_prescriber"`
	CreatedAt                    time.Time  `gorm:"column:created_at"`
	UpdatedAt                    time.Time  `gorm:"column:updated_at"`
}

func (userSQLite) TableName() string { return "users" }

type jobApplicationSQLite struct {
	ID                    uint64     `gorm:"primaryKey;column:id;autoIncrement"`
	UserID                uint64     `gorm:"column:user_id"`
	EnterpriseID          uint64     `gorm:"column:enterprise_id"`
	ApprovalID            *uint64    `gorm:"column:approval_id"`
	State                 string     `gorm:"column:state"`
	HiringStartAt         *time.Time `gorm:"column:hiring_start_at"`
	SenderKind            string     `gorm:"column:sender_kind"`
	SenderPrescriberOrgID *uint64    `gorm:"column:sender_prescriber_org_id"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
}

func (jobApplicationSQLite) TableName() string { return "job_applications" }

type enterpriseSQLite struct {
	ID        uint64    `gorm:"primaryKey;column:id;autoIncrement"`
	Name      string    `gorm:"column:name"`
	Kind      string    `gorm:"column:kind"`
	Siret     string    `gorm:"column:siret"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (enterpriseSQLite) TableName() string { return "enterprises" }

type prescriberOrgSQLite struct {
	ID        uint64    `gorm:"primaryKey;column:id;autoIncrement"`
	Name      string    `gorm:"column:name"`
	Kind      string    `gorm:"column:kind"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (prescriberOrgSQLite) TableName() string { return "prescriber_organizations" }

type peApprovalSQLite struct {
	ID                   uint64     `gorm:"primaryKey;column:id;autoIncrement"`
	Number               string     `gorm:"size:15;uniqueIndex;column:number"`
	PoleEmploiID         string     `gorm:"column:pole_emploi_id"`
	FirstName            string     `gorm:"column:first_name"`
	LastName             string     `gorm:"column:last_name"`
	BirthName            string     `gorm:"column:birth_name"`
	BirthDate            *time.Time `gorm:"column:birthdate"`
	NIR                  string     `gorm:"column:nir"`
	SiaeSiret            string     `gorm:"column:siae_siret"`
	SiaeKind             string     `gorm:"column:siae_kind"`
	StartAt              time.Time  `gorm:"column:start_at"`
	EndAt                time.Time  `gorm:"column:end_at"`
	NotificationStatus   string     `gorm:"column:pe_notification_status"`
	NotificationTime     *time.Time `gorm:"column:pe_notification_time"`
	NotificationEndpoint *string    `gorm:"column:pe_notification_endpoint"`
	NotificationExitCode *string    `gorm:"column:pe_notification_exit_code"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
}

func (peApprovalSQLite) TableName() string { return "pole_emploi_approvals" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe
// schema, NOT the domain models.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&approvalSQLite{},
		&suspensionSQLite{},
		&prolongationSQLite{},
		&userSQLite{},
		&jobApplicationSQLite{},
		&enterpriseSQLite{},
		&prescriberOrgSQLite{},
		&peApprovalSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
