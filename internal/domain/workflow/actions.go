package workflow

import "loan-origination/internal/domain/loan"

type Action string

const (
	ActionApprove            Action = "approve"
	ActionForwardToCommittee Action = "forward_to_committee"
	ActionReject             Action = "reject"
	ActionGenerateContract   Action = "generate_contract"
	ActionUploadContract     Action = "upload_contract"
	ActionMoveToDisbursement Action = "move_to_disbursement"
)

// Rule describes one edge family of the loan state machine.
type Rule struct {
	// From lists the source statuses; empty means every non-terminal status.
	From []loan.Status
	To   loan.Status
	// Contract is the contract status written alongside To; empty leaves it unchanged.
	Contract loan.ContractStatus
	Label    string
}

var rules = map[Action]Rule{
	ActionApprove: {
		From:  []loan.Status{loan.StatusPendingAssessment, loan.StatusAssessmentComplete},
		To:    loan.StatusApproved,
		Label: "Approve Loan",
	},
	ActionForwardToCommittee: {
		From:  []loan.Status{loan.StatusPendingAssessment, loan.StatusAssessmentComplete},
		To:    loan.StatusPendingCommitteeApproval,
		Label: "Forward to Committee",
	},
	ActionReject: {
		To:    loan.StatusRejected,
		Label: "Reject Loan",
	},
	ActionGenerateContract: {
		From:     []loan.Status{loan.StatusApproved, loan.StatusCommitteeApproved},
		To:       loan.StatusContractGenerated,
		Contract: loan.ContractGenerated,
		Label:    "Generate Contract",
	},
	ActionUploadContract: {
		From:     []loan.Status{loan.StatusApproved, loan.StatusCommitteeApproved, loan.StatusContractGenerated},
		To:       loan.StatusContractSigned,
		Contract: loan.ContractSigned,
		Label:    "Upload Contract",
	},
	ActionMoveToDisbursement: {
		From:  []loan.Status{loan.StatusContractSigned, loan.StatusContractUploaded},
		To:    loan.StatusReadyForDisbursement,
		Label: "Move to Disbursement",
	},
}

// stepOrder is the order in which permitted actions are suggested.
var stepOrder = []Action{
	ActionApprove,
	ActionForwardToCommittee,
	ActionGenerateContract,
	ActionUploadContract,
	ActionMoveToDisbursement,
}

// ParseAction maps a wire name to an Action.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	_, ok := rules[a]
	return a, ok
}

// RuleFor returns the transition rule of a.
func RuleFor(a Action) (Rule, bool) {
	r, ok := rules[a]
	return r, ok
}

// Label is the human-readable name shown for a.
func (a Action) Label() string { return rules[a].Label }

// Accepts reports whether the rule has an edge leaving s.
func (r Rule) Accepts(s loan.Status) bool {
	if s.IsTerminal() {
		return false
	}
	if len(r.From) == 0 {
		return s.Valid()
	}
	return s.In(r.From...)
}
