package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-origination/internal/domain/loan"
	"loan-origination/internal/domain/transition"
	"loan-origination/internal/domain/uow"
	"loan-origination/pkg/id"

	"github.com/shopspring/decimal"
)

// Audit actions recorded for the steps that happen before the workflow gates.
const (
	ActionStartReview      = "start_review"
	ActionRecordAssessment = "record_assessment"
	ActionCommitteeApprove = "committee_approve"
	ActionCommitteeDecline = "committee_decline"
)

const (
	MaxAssessmentScore = 1000
	maxTermMonths      = 120
)

type Usecase struct {
	repo    loan.Repository
	uow     uow.UnitOfWork
	history transition.Repository
	log     *slog.Logger
}

type Option func(*Usecase)

// WithHistory enables History; without it History returns ErrHistoryUnavailable.
func WithHistory(r transition.Repository) Option { return func(u *Usecase) { u.history = r } }

func NewUsecase(r loan.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{repo: r, uow: tx, log: slog.Default()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

var ErrHistoryUnavailable = errors.New("transition history is not configured")

type CreateLoanInput struct {
	BorrowerID      string
	RequestedAmount decimal.Decimal
	InterestRate    decimal.Decimal
	TermMonths      int
}

type LoanDTO struct {
	LoanID          string              `json:"loan_id"`
	BorrowerID      string              `json:"borrower_id"`
	RequestedAmount decimal.Decimal     `json:"requested_amount"`
	InterestRate    decimal.Decimal     `json:"interest_rate"`
	TermMonths      int                 `json:"term_months"`
	AssessmentScore int                 `json:"assessment_score"`
	Status          loan.Status         `json:"status"`
	ContractStatus  loan.ContractStatus `json:"contract_status"`
	StatusUpdatedAt time.Time           `json:"status_updated_at"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:          l.LoanID,
		BorrowerID:      l.BorrowerID,
		RequestedAmount: l.RequestedAmount,
		InterestRate:    l.InterestRate,
		TermMonths:      l.TermMonths,
		AssessmentScore: l.AssessmentScore,
		Status:          l.Status,
		ContractStatus:  l.ContractStatus,
		StatusUpdatedAt: l.StatusUpdatedAt,
		CreatedAt:       l.CreatedAt,
	}
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	switch {
	case !id.Valid(in.BorrowerID):
		return nil, fmt.Errorf("%w: borrower_id must be 32-char lowercase hex", loan.ErrInvalidInput)
	case !in.RequestedAmount.IsPositive():
		return nil, fmt.Errorf("%w: requested_amount must be positive", loan.ErrInvalidInput)
	case in.InterestRate.IsNegative():
		return nil, fmt.Errorf("%w: interest_rate must not be negative", loan.ErrInvalidInput)
	case in.TermMonths <= 0 || in.TermMonths > maxTermMonths:
		return nil, fmt.Errorf("%w: term_months must be between 1 and %d", loan.ErrInvalidInput, maxTermMonths)
	}

	// One open application per borrower.
	open, err := u.repo.GetOpenLoanByBorrowerID(ctx, in.BorrowerID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", loan.ErrPendingLoanExists, open.LoanID)
	case !errors.Is(err, loan.ErrNotFound):
		return nil, err
	}

	now := time.Now().UTC()
	l := &loan.Loan{
		LoanID:          id.NewID32(),
		BorrowerID:      in.BorrowerID,
		RequestedAmount: in.RequestedAmount.Round(2),
		InterestRate:    in.InterestRate,
		TermMonths:      in.TermMonths,
		Status:          loan.StatusSubmitted,
		ContractStatus:  loan.ContractNotGenerated,
		StatusUpdatedAt: now,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	u.log.Info("loan submitted", "loan_id", l.LoanID, "borrower_id", l.BorrowerID, "amount", l.RequestedAmount.String())
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// History lists the audit trail of a loan, oldest first.
func (u *Usecase) History(ctx context.Context, loanID string) ([]transition.Transition, error) {
	if u.history == nil {
		return nil, ErrHistoryUnavailable
	}
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return u.history.ListByLoanID(ctx, l.ID)
}

// StartReview queues a submitted loan for credit assessment.
func (u *Usecase) StartReview(ctx context.Context, loanID, actorID string) (*LoanDTO, error) {
	return u.move(ctx, move{
		loanID: loanID,
		actor:  actorID,
		action: ActionStartReview,
		from:   []loan.Status{loan.StatusSubmitted},
		to:     loan.StatusPendingAssessment,
	})
}

// RecordAssessment stores the credit score produced by the assessment step.
func (u *Usecase) RecordAssessment(ctx context.Context, loanID string, score int, actorID string) (*LoanDTO, error) {
	if score < 0 || score > MaxAssessmentScore {
		return nil, fmt.Errorf("%w: score must be between 0 and %d", loan.ErrInvalidInput, MaxAssessmentScore)
	}
	return u.move(ctx, move{
		loanID: loanID,
		actor:  actorID,
		action: ActionRecordAssessment,
		from:   []loan.Status{loan.StatusSubmitted, loan.StatusUnderReview, loan.StatusPendingAssessment},
		to:     loan.StatusAssessmentComplete,
		score:  &score,
	})
}

// RecordCommitteeDecision closes committee review either way.
func (u *Usecase) RecordCommitteeDecision(ctx context.Context, loanID string, approved bool, actorID string) (*LoanDTO, error) {
	m := move{
		loanID: loanID,
		actor:  actorID,
		action: ActionCommitteeDecline,
		from:   []loan.Status{loan.StatusPendingCommitteeReview, loan.StatusPendingCommitteeApproval},
		to:     loan.StatusRejected,
	}
	if approved {
		m.action, m.to = ActionCommitteeApprove, loan.StatusCommitteeApproved
	}
	return u.move(ctx, m)
}

type move struct {
	loanID string
	actor  string
	action string
	from   []loan.Status
	to     loan.Status
	score  *int
}

func (u *Usecase) move(ctx context.Context, m move) (*LoanDTO, error) {
	if !id.Valid(m.actor) {
		return nil, fmt.Errorf("%w: actor id must be 32-char lowercase hex", loan.ErrInvalidInput)
	}
	l, err := u.repo.GetByLoanID(ctx, m.loanID)
	if err != nil {
		return nil, err
	}
	if !l.Status.In(m.from...) {
		return nil, fmt.Errorf("%w: cannot %s a loan in status %s", loan.ErrInvalidTransition, m.action, l.Status)
	}

	txCtx := context.WithoutCancel(ctx)
	err = u.uow.WithinTx(txCtx, func(r uow.Repos) error {
		if err := r.Loans.UpdateStatus(txCtx, loan.StatusUpdate{
			LoanID:          l.LoanID,
			From:            l.Status,
			To:              m.to,
			AssessmentScore: m.score,
		}); err != nil {
			return err
		}
		return r.Transitions.Create(txCtx, &transition.Transition{
			TransitionID: id.NewID32(),
			LoanID:       l.ID,
			Action:       m.action,
			FromStatus:   l.Status,
			ToStatus:     m.to,
			ActorID:      m.actor,
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("loan status changed", "loan_id", l.LoanID, "action", m.action, "from", l.Status, "to", m.to)
	l.Status = m.to
	l.StatusUpdatedAt = time.Now().UTC()
	if m.score != nil {
		l.AssessmentScore = *m.score
	}
	return toDTO(l), nil
}
