package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusSubmitted                Status = "submitted"
	StatusUnderReview              Status = "under_review"
	StatusPendingAssessment        Status = "pending_assessment"
	StatusAssessmentComplete       Status = "assessment_complete"
	StatusPendingCommitteeReview   Status = "pending_committee_review"
	StatusPendingCommitteeApproval Status = "pending_committee_approval"
	StatusCommitteeApproved        Status = "committee_approved"
	StatusApproved                 Status = "approved"
	StatusContractGenerated        Status = "contract_generated"
	StatusContractUploaded         Status = "contract_uploaded"
	StatusContractSigned           Status = "contract_signed"
	StatusReadyForDisbursement     Status = "ready_for_disbursement"
	StatusDisbursed                Status = "disbursed"
	StatusRejected                 Status = "rejected"
	StatusArchived                 Status = "archived"
)

var statuses = map[Status]struct{}{
	StatusSubmitted: {}, StatusUnderReview: {}, StatusPendingAssessment: {},
	StatusAssessmentComplete: {}, StatusPendingCommitteeReview: {},
	StatusPendingCommitteeApproval: {}, StatusCommitteeApproved: {},
	StatusApproved: {}, StatusContractGenerated: {}, StatusContractUploaded: {},
	StatusContractSigned: {}, StatusReadyForDisbursement: {}, StatusDisbursed: {},
	StatusRejected: {}, StatusArchived: {},
}

// Valid reports whether s is one of the known loan statuses.
func (s Status) Valid() bool {
	_, ok := statuses[s]
	return ok
}

// IsTerminal reports whether no workflow action may leave s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDisbursed, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// In reports whether s is any of the given statuses.
func (s Status) In(set ...Status) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}

type ContractStatus string

const (
	ContractNotGenerated ContractStatus = "not_generated"
	ContractGenerated    ContractStatus = "generated"
	ContractUploaded     ContractStatus = "uploaded"
	ContractSigned       ContractStatus = "signed"
	ContractVerified     ContractStatus = "verified"

	// Older rows may still carry these; both mean a contract exists but is unsigned.
	ContractCreated ContractStatus = "created"
	ContractDraft   ContractStatus = "draft"
)

// Rank orders contract statuses along not_generated < generated < uploaded < signed < verified.
// Unknown values rank below not_generated.
func (c ContractStatus) Rank() int {
	switch c {
	case "", ContractNotGenerated:
		return 0
	case ContractGenerated, ContractCreated, ContractDraft:
		return 1
	case ContractUploaded:
		return 2
	case ContractSigned:
		return 3
	case ContractVerified:
		return 4
	}
	return -1
}

// IsGenerated is true once a contract exists, whatever stage it has reached since.
func (c ContractStatus) IsGenerated() bool {
	return c.Rank() >= ContractGenerated.Rank()
}

// Table: loans
type Loan struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string          `gorm:"column:loan_id;size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID      string          `gorm:"column:borrower_id;size:32;index:idx_loans_borrower_active" json:"borrower_id"`
	RequestedAmount decimal.Decimal `gorm:"column:requested_amount;type:decimal(18,2)" json:"requested_amount"`
	InterestRate    decimal.Decimal `gorm:"column:interest_rate;type:decimal(6,4)" json:"interest_rate"`
	TermMonths      int             `gorm:"column:term_months" json:"term_months"`
	AssessmentScore int             `gorm:"column:assessment_score;default:0" json:"assessment_score"`
	Status          Status          `gorm:"column:status;size:32;default:'submitted'" json:"status"`
	ContractStatus  ContractStatus  `gorm:"column:contract_status;size:32;default:'not_generated'" json:"contract_status"`
	StatusUpdatedAt time.Time       `gorm:"column:status_updated_at;autoCreateTime" json:"status_updated_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
	DeletedBy       string          `gorm:"column:deleted_by;size:32" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// StatusUpdate is a compare-and-swap on the loan's status.
// The write only lands while the stored status still equals From.
type StatusUpdate struct {
	LoanID string
	From   Status
	To     Status
	// Empty leaves contract_status untouched.
	ContractStatus ContractStatus
	// Nil leaves assessment_score untouched.
	AssessmentScore *int
}
