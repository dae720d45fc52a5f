// Package events publishes committed workflow transitions to NATS.
package events

import (
	"context"
	"fmt"

	wf "loan-origination/internal/domain/workflow"
	"loan-origination/internal/usecase/workflow"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

const (
	// SubjectPrefix is followed by the action name, e.g. loan.workflow.approve.
	SubjectPrefix = "loan.workflow."
	// SubjectDisbursement receives the hand-off once a loan is ready for disbursement.
	SubjectDisbursement = "loan.disbursement.requested"
)

var _ workflow.Publisher = (*Publisher)(nil)

type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(nc *nats.Conn) *Publisher { return &Publisher{nc: nc} }

// Subject returns where an event for action a is published.
func Subject(a wf.Action) string { return SubjectPrefix + string(a) }

// Publish sends ev and, for move_to_disbursement, the disbursement hand-off.
// It flushes so a dead connection is reported to the caller.
func (p *Publisher) Publish(ctx context.Context, ev workflow.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Action, err)
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := nats.NewMsg(Subject(ev.Action))
	msg.Header.Set(nats.MsgIdHdr, ev.ID)
	msg.Data = payload
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}

	if ev.Action == wf.ActionMoveToDisbursement {
		hand := nats.NewMsg(SubjectDisbursement)
		hand.Header.Set(nats.MsgIdHdr, ev.ID)
		hand.Data = payload
		if err := p.nc.PublishMsg(hand); err != nil {
			return fmt.Errorf("publish %s: %w", hand.Subject, err)
		}
	}
	return p.nc.FlushWithContext(ctx)
}
