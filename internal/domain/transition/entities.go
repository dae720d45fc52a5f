package transition

import (
	"time"

	"loan-origination/internal/domain/loan"
)

// Table: loan_transitions (append-only audit of workflow mutations)
type Transition struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	TransitionID string `gorm:"column:transition_id;type:char(32);not null;uniqueIndex:ux_transitions_transition_id"`
	// FK to loans.id (numeric)
	LoanID     uint64      `gorm:"column:loan_id;not null;index"`
	Action     string      `gorm:"column:action;size:32;not null"`
	FromStatus loan.Status `gorm:"column:from_status;size:32;not null"`
	ToStatus   loan.Status `gorm:"column:to_status;size:32;not null"`
	ActorID    string      `gorm:"column:actor_id;type:char(32);not null"`
	CreatedAt  time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (Transition) TableName() string { return "loan_transitions" }
