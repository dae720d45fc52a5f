package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"loan-origination/internal/domain/approvallevel"
	"loan-origination/internal/domain/contract"
	"loan-origination/internal/domain/loan"
	"loan-origination/internal/domain/transition"
	"loan-origination/internal/domain/uow"
	wf "loan-origination/internal/domain/workflow"
	"loan-origination/pkg/id"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const publishTimeout = 2 * time.Second

var doneMessages = map[wf.Action]string{
	wf.ActionApprove:            "loan approved",
	wf.ActionForwardToCommittee: "loan forwarded to committee",
	wf.ActionReject:             "loan rejected",
	wf.ActionGenerateContract:   "contract generated",
	wf.ActionUploadContract:     "signed contract recorded",
	wf.ActionMoveToDisbursement: "loan moved to disbursement",
}

type Usecase struct {
	loans     loan.Repository
	levels    approvallevel.Repository
	uow       uow.UnitOfWork
	publisher Publisher
	metrics   Recorder
	log       *slog.Logger

	thresholds wf.Thresholds
	feeRate    decimal.Decimal
	now        func() time.Time

	mu             sync.Mutex
	cachedLevels   []approvallevel.Level
	levelsLoadedAt time.Time
	levelsRefresh  time.Duration
}

type Option func(*Usecase)

func WithPublisher(p Publisher) Option { return func(u *Usecase) { u.publisher = p } }

func WithRecorder(r Recorder) Option { return func(u *Usecase) { u.metrics = r } }

func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

// WithThresholds overrides the committee-forcing amount and risk score.
func WithThresholds(t wf.Thresholds) Option { return func(u *Usecase) { u.thresholds = t } }

func WithFeeRate(r decimal.Decimal) Option { return func(u *Usecase) { u.feeRate = r } }

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// WithLevelsRefresh reloads the approval levels once they are older than d.
// Zero keeps the first successful load for the life of the usecase.
func WithLevelsRefresh(d time.Duration) Option { return func(u *Usecase) { u.levelsRefresh = d } }

// NewUsecase: loans serves reads, tx carries every write.
func NewUsecase(loans loan.Repository, levels approvallevel.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		loans:      loans,
		levels:     levels,
		uow:        tx,
		publisher:  nopPublisher{},
		metrics:    nopRecorder{},
		log:        slog.Default(),
		thresholds: wf.DefaultThresholds(),
		feeRate:    contract.DefaultFeeRate,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ApprovalLevels serves the level table from memory, reloading it when the
// refresh interval has passed. A failed reload keeps the previous table and
// is retried on the next call; a failed first load is an error.
func (u *Usecase) ApprovalLevels(ctx context.Context) ([]approvallevel.Level, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	now := u.now()
	if !u.levelsLoadedAt.IsZero() && (u.levelsRefresh <= 0 || now.Sub(u.levelsLoadedAt) < u.levelsRefresh) {
		return u.cachedLevels, nil
	}
	levels, err := u.levels.List(ctx)
	if err != nil {
		if u.levelsLoadedAt.IsZero() {
			return nil, err
		}
		u.log.Warn("approval levels reload failed, serving previous table", "loaded_at", u.levelsLoadedAt, "error", err)
		return u.cachedLevels, nil
	}
	u.cachedLevels, u.levelsLoadedAt = levels, now
	return levels, nil
}

// State reads the loan fresh and derives its workflow state.
func (u *Usecase) State(ctx context.Context, loanID string) (*wf.State, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	levels, err := u.ApprovalLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load approval levels: %w", err)
	}
	st := wf.Calculate(wf.SnapshotOf(l), levels, wf.WithThresholds(u.thresholds))
	return &st, nil
}

// Execute re-derives the loan's state, checks the action's gate and applies the
// transition with a compare-and-swap on the status it observed.
func (u *Usecase) Execute(ctx context.Context, in ActionInput) Outcome {
	start := time.Now()
	out := u.execute(ctx, in)

	result := "success"
	if !out.Success {
		result = string(out.Reason)
	}
	u.metrics.ObserveAction(string(in.Action), result, time.Since(start))

	attrs := []any{"action", in.Action, "loan_id", in.LoanID, "user_id", in.UserID, "result", result}
	if out.Success {
		u.log.Info("workflow action executed", append(attrs, "new_status", out.NewStatus)...)
	} else {
		u.log.Warn("workflow action refused", append(attrs, "message", out.Message)...)
	}
	return out
}

func (u *Usecase) execute(ctx context.Context, in ActionInput) Outcome {
	action, ok := wf.ParseAction(string(in.Action))
	if !ok {
		return failure(ReasonInvalidAction, "", fmt.Sprintf("unknown action %q", in.Action))
	}
	if !id.Valid(in.UserID) {
		return failure(ReasonInvalidAction, "", "user id must be 32-char lowercase hex")
	}

	l, err := u.loans.GetByLoanID(ctx, in.LoanID)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			return failure(ReasonNotFound, "", fmt.Sprintf("failed to execute %s: loan %s not found", action, in.LoanID))
		}
		return failure(ReasonCollaboratorUnavailable, "", fmt.Sprintf("failed to execute %s: %v", action, err))
	}

	levels, err := u.ApprovalLevels(ctx)
	if err != nil {
		return failure(ReasonCollaboratorUnavailable, l.Status, fmt.Sprintf("failed to execute %s: %v", action, err))
	}

	// The gate and the transition table must both agree before anything is written.
	rule, _ := wf.RuleFor(action)
	st := wf.Calculate(wf.SnapshotOf(l), levels, wf.WithThresholds(u.thresholds))
	if !st.Allows(action) || !rule.Accepts(l.Status) {
		return failure(ReasonInvalidTransition, l.Status, fmt.Sprintf("%s is not permitted in the current state", action))
	}

	update := loan.StatusUpdate{LoanID: l.LoanID, From: l.Status, To: rule.To}
	contractStatus := l.ContractStatus
	if rule.Contract != "" && rule.Contract.Rank() > l.ContractStatus.Rank() {
		update.ContractStatus = rule.Contract
		contractStatus = rule.Contract
	}

	// Once issued, the write finishes even if the caller goes away.
	txCtx := context.WithoutCancel(ctx)
	var contractID string
	err = u.uow.WithinTx(txCtx, func(r uow.Repos) error {
		if err := r.Loans.UpdateStatus(txCtx, update); err != nil {
			return err
		}
		switch action {
		case wf.ActionGenerateContract:
			c, err := u.newContract(l, in.UserID, loan.ContractGenerated)
			if err != nil {
				return err
			}
			if err := r.Contracts.Create(txCtx, c); err != nil {
				return err
			}
			contractID = c.ContractID
		case wf.ActionUploadContract:
			cid, err := u.attachSignedContract(txCtx, r, l, in)
			if err != nil {
				return err
			}
			contractID = cid
		}
		return r.Transitions.Create(txCtx, &transition.Transition{
			TransitionID: id.NewID32(),
			LoanID:       l.ID,
			Action:       string(action),
			FromStatus:   l.Status,
			ToStatus:     rule.To,
			ActorID:      in.UserID,
		})
	})
	switch {
	case err == nil:
	case errors.Is(err, loan.ErrConflict):
		out := failure(ReasonConcurrentModification, l.Status, fmt.Sprintf("failed to execute %s: state changed, please retry", action))
		out.Retryable = true
		return out
	case errors.Is(err, loan.ErrNotFound):
		return failure(ReasonNotFound, l.Status, fmt.Sprintf("failed to execute %s: loan %s not found", action, l.LoanID))
	case errors.Is(err, contract.ErrInvalidTerms):
		return failure(ReasonInvalidTransition, l.Status, fmt.Sprintf("failed to execute %s: %v", action, err))
	default:
		return failure(ReasonCollaboratorUnavailable, l.Status, fmt.Sprintf("failed to execute %s: %v", action, err))
	}

	u.publish(ctx, Event{
		ID:             uuid.NewString(),
		Action:         action,
		LoanID:         l.LoanID,
		From:           l.Status,
		To:             rule.To,
		ContractStatus: contractStatus,
		ContractID:     contractID,
		ActorID:        in.UserID,
		OccurredAt:     u.now(),
	})

	return Outcome{
		Success:    true,
		NewStatus:  rule.To,
		Message:    doneMessages[action],
		ContractID: contractID,
	}
}

func (u *Usecase) newContract(l *loan.Loan, actorID string, status loan.ContractStatus) (*contract.Contract, error) {
	terms, err := contract.ComputeTerms(l.RequestedAmount, l.InterestRate, u.feeRate, l.TermMonths)
	if err != nil {
		return nil, err
	}
	c := &contract.Contract{
		ContractID:  id.NewID32(),
		LoanID:      l.ID,
		Status:      status,
		GeneratedBy: actorID,
	}
	terms.Apply(c)
	return c, nil
}

// attachSignedContract marks the loan's contract signed. A contract drafted
// outside the system has no record yet, so one is created from the loan terms.
func (u *Usecase) attachSignedContract(ctx context.Context, r uow.Repos, l *loan.Loan, in ActionInput) (string, error) {
	c, err := r.Contracts.GetByLoanID(ctx, l.ID)
	switch {
	case err == nil:
		if c.Status.Rank() >= loan.ContractSigned.Rank() {
			return c.ContractID, nil
		}
		return c.ContractID, r.Contracts.UpdateStatus(ctx, c.ContractID, loan.ContractSigned, in.DocumentURL)
	case errors.Is(err, contract.ErrNotFound):
		c, err := u.newContract(l, in.UserID, loan.ContractSigned)
		if err != nil {
			return "", err
		}
		c.DocumentURL = in.DocumentURL
		return c.ContractID, r.Contracts.Create(ctx, c)
	default:
		return "", err
	}
}

func (u *Usecase) publish(ctx context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := u.publisher.Publish(ctx, ev); err != nil {
		// The transition is already committed; downstream consumers reconcile from the audit table.
		u.log.Error("workflow event not published", "action", ev.Action, "loan_id", ev.LoanID, "error", err)
	}
}

func failure(reason Reason, status loan.Status, msg string) Outcome {
	return Outcome{Success: false, NewStatus: status, Message: msg, Reason: reason}
}
