package matchmaking

import (
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type Option func(*Engine)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTicketIDs replaces the ticket id generator. The generator receives
// the queue name the ticket was submitted to.
func WithTicketIDs(gen func(queue string) string) Option {
	return func(e *Engine) {
		e.newTicketID = gen
	}
}

func WithMatchIDs(gen func(queue string) string) Option {
	return func(e *Engine) {
		e.newMatchID = gen
	}
}

func defaultTicketID(queue string) string {
	return queue + "#" + gonanoid.Must(12)
}

func defaultMatchID(string) string {
	return uuid.New().String()
}
