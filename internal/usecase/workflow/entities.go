package workflow

import (
	"context"
	"time"

	"loan-origination/internal/domain/loan"
	wf "loan-origination/internal/domain/workflow"
)

// Reason classifies a failed action so callers can branch without parsing messages.
type Reason string

const (
	ReasonNone                    Reason = ""
	ReasonInvalidAction           Reason = "invalid_action"
	ReasonInvalidTransition       Reason = "invalid_transition"
	ReasonConcurrentModification  Reason = "concurrent_modification"
	ReasonNotFound                Reason = "not_found"
	ReasonCollaboratorUnavailable Reason = "collaborator_unavailable"
)

type ActionInput struct {
	Action wf.Action
	LoanID string
	UserID string // 32-char hex of the acting staff member
	// DocumentURL points at the signed contract already placed in object storage (upload_contract only).
	DocumentURL string
}

// Outcome is the result of every Execute call; failures are values, not errors.
type Outcome struct {
	Success    bool        `json:"success"`
	NewStatus  loan.Status `json:"new_status"`
	Message    string      `json:"message"`
	Reason     Reason      `json:"reason,omitempty"`
	Retryable  bool        `json:"retryable"`
	ContractID string      `json:"contract_id,omitempty"`
}

// Event is emitted after a transition has been committed.
type Event struct {
	ID             string              `json:"id"`
	Action         wf.Action           `json:"action"`
	LoanID         string              `json:"loan_id"`
	From           loan.Status         `json:"from"`
	To             loan.Status         `json:"to"`
	ContractStatus loan.ContractStatus `json:"contract_status"`
	ContractID     string              `json:"contract_id,omitempty"`
	ActorID        string              `json:"actor_id"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Recorder interface {
	// ObserveAction is called once per Execute with result "success" or the failure Reason.
	ObserveAction(action, result string, elapsed time.Duration)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

type nopRecorder struct{}

func (nopRecorder) ObserveAction(string, string, time.Duration) {}
