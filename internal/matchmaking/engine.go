// Package matchmaking groups tickets into teams and teams into matches.
//
// The Engine is not safe for concurrent use. Submission, cancellation and
// Tick for the same engine must be serialized by the caller.
package matchmaking

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Hooks receives the engine's outcomes. Both methods are called from inside
// Tick and must not call back into the engine.
type Hooks interface {
	OnMatchReady(result MatchResult)
	OnTicketFailed(ticket *Ticket, code FailCode)
}

// HookFuncs adapts plain functions to Hooks. Nil fields are ignored.
type HookFuncs struct {
	MatchReady   func(result MatchResult)
	TicketFailed func(ticket *Ticket, code FailCode)
}

func (h HookFuncs) OnMatchReady(result MatchResult) {
	if h.MatchReady != nil {
		h.MatchReady(result)
	}
}

func (h HookFuncs) OnTicketFailed(ticket *Ticket, code FailCode) {
	if h.TicketFailed != nil {
		h.TicketFailed(ticket, code)
	}
}

type QueueStatus struct {
	NumUsers   int `json:"num_users"`
	NumTickets int `json:"num_tickets"`
}

type failure struct {
	ticket *Ticket
	code   FailCode
}

type Engine struct {
	schemas map[string]*Schema
	queues  map[string]*Queue
	tickets registry

	// submission failures waiting for the next Tick
	deferred []failure

	hooks       Hooks
	now         func() time.Time
	newTicketID func(queue string) string
	newMatchID  func(queue string) string
	logger      zerolog.Logger
}

func New(hooks Hooks, opts ...Option) *Engine {
	if hooks == nil {
		hooks = HookFuncs{}
	}
	e := &Engine{
		schemas:     make(map[string]*Schema),
		queues:      make(map[string]*Queue),
		tickets:     make(registry),
		hooks:       hooks,
		now:         time.Now,
		newTicketID: defaultTicketID,
		newMatchID:  defaultMatchID,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetQueueSchema replaces every registered schema. Queues that already exist
// switch to the new schema of the same name; queues whose name is gone keep
// their previous schema until they drain.
func (e *Engine) SetQueueSchema(schemas map[string]Schema) {
	next := make(map[string]*Schema, len(schemas))
	for name, s := range schemas {
		fixed := s.withDefaults(name)
		next[name] = &fixed
	}
	e.schemas = next

	for name, q := range e.queues {
		if s, ok := next[name]; ok {
			q.schema = s
		}
	}

	e.logger.Info().Int("schemas", len(next)).Msg("queue schemas replaced")
}

// Schema returns the registered schema for name.
func (e *Engine) Schema(name string) (Schema, bool) {
	s, ok := e.schemas[name]
	if !ok {
		return Schema{}, false
	}
	return *s, true
}

// CreateTicket submits users to queueName. A ticket is always returned;
// when it cannot be queued the failure is reported through OnTicketFailed
// on the next Tick.
func (e *Engine) CreateTicket(queueName string, data map[string]any, users []User) *Ticket {
	ticket := &Ticket{
		ID:          e.newTicketID(queueName),
		QueueName:   queueName,
		RequestTime: e.now(),
		Users:       users,
		Data:        data,
	}

	schema, ok := e.schemas[queueName]
	if !ok {
		return e.fail(ticket, FailQueueNotFound)
	}
	if len(users) == 0 || len(users) > schema.TeamSize {
		return e.fail(ticket, FailInvalidTicket)
	}

	q := e.queue(schema)
	q.add(ticket)
	e.tickets.put(ticket)

	e.logger.Debug().
		Str("ticket_id", ticket.ID).
		Str("queue", queueName).
		Int("users", len(users)).
		Msg("ticket queued")

	return ticket
}

func (e *Engine) fail(ticket *Ticket, code FailCode) *Ticket {
	e.deferred = append(e.deferred, failure{ticket: ticket, code: code})
	e.logger.Debug().Str("ticket_id", ticket.ID).Str("code", code.String()).Msg("ticket rejected")
	return ticket
}

func (e *Engine) queue(schema *Schema) *Queue {
	q, ok := e.queues[schema.Name]
	if !ok {
		q = newQueue(schema)
		e.queues[schema.Name] = q
	}
	return q
}

// CancelTicket removes a queued ticket. It reports false when id is unknown.
func (e *Engine) CancelTicket(id string) bool {
	ticket, ok := e.tickets.get(id)
	if !ok {
		return false
	}
	return e.removeTicket(ticket)
}

func (e *Engine) removeTicket(ticket *Ticket) bool {
	e.tickets.delete(ticket.ID)

	q, ok := e.queues[ticket.queue]
	if !ok {
		return false
	}
	_, removed := q.remove(ticket.ID)
	return removed
}

func (e *Engine) GetQueuesBasicStatus() map[string]QueueStatus {
	out := make(map[string]QueueStatus, len(e.queues))
	for name, q := range e.queues {
		out[name] = QueueStatus{NumUsers: q.numUsers, NumTickets: len(q.tickets)}
	}
	return out
}

// NumTickets returns the number of queued tickets across all queues.
func (e *Engine) NumTickets() int {
	return len(e.tickets)
}

// Tick runs one scheduling pass over every queue.
func (e *Engine) Tick() {
	e.flushDeferred()

	names := make([]string, 0, len(e.queues))
	for name := range e.queues {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e.pullQueue(e.queues[name])
	}
}

func (e *Engine) flushDeferred() {
	pending := e.deferred
	e.deferred = nil
	for _, f := range pending {
		e.hooks.OnTicketFailed(f.ticket, f.code)
	}
}

func (e *Engine) pullQueue(q *Queue) {
	now := e.now()
	schema := q.schema

	q.sortByWeight()

	var collections []*Collection
	for _, ticket := range q.Tickets() {
		placed := false
		for _, c := range collections {
			team := c.JoinPossible(ticket, now)
			if team == nil {
				continue
			}
			c.Join(ticket, team)
			placed = true
			break
		}
		if !placed {
			collections = append(collections, newCollection(schema, ticket))
		}
	}

	for _, c := range collections {
		if c.IsCompleted() {
			e.accomplish(q, c, now)
		}
	}

	e.sweepTimeouts(q, now)
}

func (e *Engine) accomplish(q *Queue, c *Collection, now time.Time) {
	for _, t := range c.tickets() {
		e.removeTicket(t)
	}

	result := MatchResult{
		MatchID:   e.newMatchID(q.Name),
		QueueName: q.Name,
		BuildName: c.schema.BuildName,
		Teams:     resolveTeams(c),
		MinAge:    c.MinAge(now),
		MinSkill:  c.MinSkill,
		MaxSkill:  c.MaxSkill,
		CreatedAt: now,
	}

	e.logger.Info().
		Str("match_id", result.MatchID).
		Str("queue", q.Name).
		Int("tickets", c.JoinedTickets).
		Int("users", c.JoinedUsers).
		Float64("min_skill", c.MinSkill).
		Float64("max_skill", c.MaxSkill).
		Dur("min_age", result.MinAge).
		Dur("max_age", c.MaxAge(now)).
		Msg("match ready")

	e.hooks.OnMatchReady(result)
}

func (e *Engine) sweepTimeouts(q *Queue, now time.Time) {
	var expired []*Ticket
	for _, t := range q.tickets {
		if t.Elapsed(now) >= q.schema.Duration {
			expired = append(expired, t)
		}
	}

	for _, t := range expired {
		e.removeTicket(t)
		e.logger.Debug().Str("ticket_id", t.ID).Str("queue", q.Name).Msg("ticket timed out")
		e.hooks.OnTicketFailed(t, FailTimeout)
	}
}
