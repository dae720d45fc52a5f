package approvallevel

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrEmpty = errors.New("no approval levels configured")

type Authority string

const (
	AuthorityManager   Authority = "MANAGER"
	AuthorityDirector  Authority = "DIRECTOR"
	AuthorityCEO       Authority = "CEO"
	AuthorityCommittee Authority = "COMMITTEE"
)

func (a Authority) Valid() bool {
	switch a {
	case AuthorityManager, AuthorityDirector, AuthorityCEO, AuthorityCommittee:
		return true
	}
	return false
}

// Table: approval_levels
type Level struct {
	ID                string          `gorm:"column:id;primaryKey;size:64" json:"id" yaml:"id"`
	Name              string          `gorm:"column:name;size:128;not null" json:"name" yaml:"name"`
	MaxAmount         decimal.Decimal `gorm:"column:max_amount;type:decimal(18,2);not null" json:"max_amount" yaml:"-"`
	Authority         Authority       `gorm:"column:authority;size:16;not null" json:"authority" yaml:"authority"`
	CommitteeRequired bool            `gorm:"column:committee_required;not null" json:"committee_required" yaml:"committee_required"`
}

func (Level) TableName() string { return "approval_levels" }
