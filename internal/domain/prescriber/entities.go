package prescriber

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("prescriber organization not found")

// OrganizationKind of a prescriber structure. Persisted values.
type OrganizationKind string

const (
	KindPE        OrganizationKind = "PE"
	KindCapEmploi OrganizationKind = "CAP_EMPLOI"
	KindML        OrganizationKind = "ML"
	KindDEPT      OrganizationKind = "DEPT"
	KindPLIE      OrganizationKind = "PLIE"
	KindSPIP      OrganizationKind = "SPIP"
	KindOther     OrganizationKind = "OTHER"
)

var remoteTypologies = map[OrganizationKind]string{
	KindPE:        "PE",
	KindCapEmploi: "CAP_EMPLOI",
	KindML:        "ML",
	KindDEPT:      "DEPT",
	KindPLIE:      "PLIE",
	KindSPIP:      "SPIP",
}

// RemoteTypology maps the organization kind to the typology code known to
// the government system; kinds it does not track fall back to "AUTRE".
func (k OrganizationKind) RemoteTypology() string {
	if t, ok := remoteTypologies[k]; ok {
		return t
	}
	return "AUTRE"
}

type Organization struct {
	ID   uint64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name string           `gorm:"column:name;size:255" json:"name"`
	Kind OrganizationKind `gorm:"column:kind;size:20" json:"kind"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Organization) TableName() string { return "prescriber_organizations" }

type Directory interface {
	GetByID(ctx context.Context, id uint64) (*Organization, error)
}
