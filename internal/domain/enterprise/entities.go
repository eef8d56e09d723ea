package enterprise

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("enterprise not found")

// Kind of employer structure ("SIAE"). Persisted values.
type Kind string

const (
	KindEI     Kind = "EI"
	KindAI     Kind = "AI"
	KindACI    Kind = "ACI"
	KindACIPHC Kind = "ACIPHC"
	KindETTI   Kind = "ETTI"
	KindEITI   Kind = "EITI"
	KindGEIQ   Kind = "GEIQ"
	KindEA     Kind = "EA"
	KindEATT   Kind = "EATT"
	KindOPCS   Kind = "OPCS"
)

// remoteTypeCodes maps an enterprise kind to the numeric type code expected
// by the government system. OPCS is deliberately absent: not mapped yet on
// the remote side.
var remoteTypeCodes = map[Kind]int{
	KindEI:     838,
	KindAI:     837,
	KindACI:    836,
	KindACIPHC: 837,
	KindETTI:   839,
	KindEITI:   840,
	KindGEIQ:   838,
	KindEA:     838,
	KindEATT:   840,
}

// RemoteTypeCode returns the remote system's type code for the kind, or
// false when the kind cannot be notified.
func (k Kind) RemoteTypeCode() (int, bool) {
	code, ok := remoteTypeCodes[k]
	return code, ok
}

type Enterprise struct {
	ID    uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"column:name;size:255" json:"name"`
	Kind  Kind   `gorm:"column:kind;size:6;index" json:"kind"`
	Siret string `gorm:"column:siret;type:char(14)" json:"siret"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Enterprise) TableName() string { return "enterprises" }

type Directory interface {
	GetByID(ctx context.Context, id uint64) (*Enterprise, error)
}
