package notify

import (
	"context"
	"errors"
	"time"

	"github.com/UPO33/MPMatch/internal/matchmaking"
)

const (
	EventMatchReady   = "match_ready"
	EventTicketFailed = "ticket_failed"
)

type TicketFailure struct {
	TicketID  string             `json:"ticket_id"`
	QueueName string             `json:"queue_name"`
	Code      string             `json:"code"`
	Users     []matchmaking.User `json:"users"`
	Data      map[string]any     `json:"data,omitempty"`
	Waited    time.Duration      `json:"waited"`
}

// Event is the payload delivered to every external collaborator.
type Event struct {
	Type    string                   `json:"type"`
	Match   *matchmaking.MatchResult `json:"match,omitempty"`
	Failure *TicketFailure           `json:"failure,omitempty"`
	SentAt  time.Time                `json:"sent_at"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
