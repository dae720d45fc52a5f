// Package workflow derives what can happen next to a loan. Nothing here does I/O.
package workflow

import (
	"loan-origination/internal/domain/approvallevel"
	"loan-origination/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type Indicator string

const (
	IndicatorCompleted  Indicator = "completed"
	IndicatorInProgress Indicator = "in_progress"
	IndicatorLocked     Indicator = "locked"
	IndicatorError      Indicator = "error"
)

// Snapshot is the slice of a loan the calculator looks at.
type Snapshot struct {
	ID              string
	RequestedAmount decimal.Decimal
	Status          loan.Status
	ContractStatus  loan.ContractStatus
	AssessmentScore int
}

func SnapshotOf(l *loan.Loan) Snapshot {
	return Snapshot{
		ID:              l.LoanID,
		RequestedAmount: l.RequestedAmount,
		Status:          l.Status,
		ContractStatus:  l.ContractStatus,
		AssessmentScore: l.AssessmentScore,
	}
}

type UIIndicators struct {
	CreditAssessment   Indicator `json:"credit_assessment"`
	ContractGeneration Indicator `json:"contract_generation"`
	ContractUpload     Indicator `json:"contract_upload"`
	Disbursement       Indicator `json:"disbursement"`
}

type State struct {
	LoanID                string               `json:"loan_id"`
	Status                loan.Status          `json:"status"`
	ContractStatus        loan.ContractStatus  `json:"contract_status"`
	ApprovalLevel         *approvallevel.Level `json:"approval_level"`
	CommitteeRequired     bool                 `json:"committee_required"`
	CanApprove            bool                 `json:"can_approve"`
	CanForwardToCommittee bool                 `json:"can_forward_to_committee"`
	CanGenerateContract   bool                 `json:"can_generate_contract"`
	CanUploadContract     bool                 `json:"can_upload_contract"`
	CanMoveToDisbursement bool                 `json:"can_move_to_disbursement"`
	NextSteps             []string             `json:"next_steps"`
	UIIndicators          UIIndicators         `json:"ui_indicators"`
}

// Allows reports whether a is currently legal. Reject has no gate flag of its
// own; it is open from every non-terminal status.
func (s State) Allows(a Action) bool {
	switch a {
	case ActionApprove:
		return s.CanApprove
	case ActionForwardToCommittee:
		return s.CanForwardToCommittee
	case ActionGenerateContract:
		return s.CanGenerateContract
	case ActionUploadContract:
		return s.CanUploadContract
	case ActionMoveToDisbursement:
		return s.CanMoveToDisbursement
	case ActionReject:
		return rules[ActionReject].Accepts(s.Status)
	}
	return false
}

// Thresholds that force committee review regardless of the approval level.
type Thresholds struct {
	// Requests strictly above this amount need the committee.
	CommitteeAmount decimal.Decimal
	// Assessment scores strictly below this need the committee.
	RiskScore int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		CommitteeAmount: decimal.NewFromInt(5_000_000),
		RiskScore:       600,
	}
}

type options struct {
	thresholds Thresholds
	generated  map[string]struct{}
}

type Option func(*options)

func WithThresholds(t Thresholds) Option {
	return func(o *options) { o.thresholds = t }
}

// WithGeneratedContracts marks loans whose contract is known to exist even if
// the stored contract status has not caught up yet. The executor never uses it.
func WithGeneratedContracts(loanIDs ...string) Option {
	return func(o *options) {
		if o.generated == nil {
			o.generated = make(map[string]struct{}, len(loanIDs))
		}
		for _, id := range loanIDs {
			o.generated[id] = struct{}{}
		}
	}
}

// Calculate derives the workflow state of a loan.
func Calculate(s Snapshot, levels []approvallevel.Level, opts ...Option) State {
	o := options{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(&o)
	}

	level := SelectLevel(levels, s.RequestedAmount)
	committee := level == nil ||
		level.CommitteeRequired ||
		s.RequestedAmount.GreaterThan(o.thresholds.CommitteeAmount) ||
		s.AssessmentScore < o.thresholds.RiskScore

	_, hinted := o.generated[s.ID]
	generated := hinted || s.ContractStatus.IsGenerated()

	st := State{
		LoanID:            s.ID,
		Status:            s.Status,
		ContractStatus:    s.ContractStatus,
		ApprovalLevel:     level,
		CommitteeRequired: committee,
		NextSteps:         []string{},
	}

	if !s.Status.IsTerminal() {
		inAssessment := rules[ActionApprove].Accepts(s.Status)
		st.CanApprove = inAssessment && !committee && level.Authority != approvallevel.AuthorityCommittee
		st.CanForwardToCommittee = rules[ActionForwardToCommittee].Accepts(s.Status) &&
			(committee || s.Status == loan.StatusAssessmentComplete)
		st.CanGenerateContract = !generated && rules[ActionGenerateContract].Accepts(s.Status)
		// An existing contract never opens upload outside the approved statuses.
		st.CanUploadContract = rules[ActionUploadContract].Accepts(s.Status)
		st.CanMoveToDisbursement = rules[ActionMoveToDisbursement].Accepts(s.Status)
	}

	for _, a := range stepOrder {
		if st.Allows(a) {
			st.NextSteps = append(st.NextSteps, a.Label())
		}
	}

	st.UIIndicators = indicators(s.Status, generated, st)
	return st
}

var (
	assessing = []loan.Status{
		loan.StatusSubmitted, loan.StatusUnderReview, loan.StatusPendingAssessment,
		loan.StatusPendingCommitteeReview, loan.StatusPendingCommitteeApproval,
	}
	awaitingContract = []loan.Status{loan.StatusApproved, loan.StatusCommitteeApproved}
	contractDone     = []loan.Status{
		loan.StatusContractGenerated, loan.StatusContractUploaded, loan.StatusContractSigned,
		loan.StatusReadyForDisbursement, loan.StatusDisbursed,
	}
	uploadDone = []loan.Status{
		loan.StatusContractUploaded, loan.StatusContractSigned,
		loan.StatusReadyForDisbursement, loan.StatusDisbursed,
	}
)

func indicators(status loan.Status, generated bool, st State) UIIndicators {
	if status == loan.StatusRejected {
		return UIIndicators{
			CreditAssessment:   IndicatorError,
			ContractGeneration: IndicatorLocked,
			ContractUpload:     IndicatorLocked,
			Disbursement:       IndicatorLocked,
		}
	}

	ui := UIIndicators{
		CreditAssessment:   IndicatorCompleted,
		ContractGeneration: IndicatorLocked,
		ContractUpload:     IndicatorLocked,
		Disbursement:       IndicatorLocked,
	}
	if status.In(assessing...) {
		ui.CreditAssessment = IndicatorInProgress
	}

	switch {
	case status.In(contractDone...) || (generated && status != loan.StatusArchived):
		ui.ContractGeneration = IndicatorCompleted
	case status.In(awaitingContract...):
		ui.ContractGeneration = IndicatorInProgress
	}

	switch {
	case status.In(uploadDone...):
		ui.ContractUpload = IndicatorCompleted
	case st.CanUploadContract:
		ui.ContractUpload = IndicatorInProgress
	}

	switch {
	case status == loan.StatusDisbursed:
		ui.Disbursement = IndicatorCompleted
	case status == loan.StatusReadyForDisbursement || st.CanMoveToDisbursement:
		ui.Disbursement = IndicatorInProgress
	}
	return ui
}
