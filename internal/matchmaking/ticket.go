package matchmaking

import "time"

type User struct {
	ID    string         `json:"id"`
	Skill float64        `json:"skill"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Ticket is one submission of one or more users who play together.
type Ticket struct {
	ID          string
	QueueName   string // queue the ticket was submitted to
	RequestTime time.Time
	Users       []User
	Data        map[string]any

	// name of the owning queue, empty when not queued
	queue     string
	weight    float64
	lastSkill float64
}

// Queue returns the name of the queue holding the ticket, or "" once the
// ticket has been removed.
func (t *Ticket) Queue() string {
	return t.queue
}

// Elapsed returns how long the ticket has been waiting at now.
func (t *Ticket) Elapsed(now time.Time) time.Duration {
	return now.Sub(t.RequestTime)
}

// Tolerance returns the maximum skill spread the ticket accepts at now.
func (t *Ticket) Tolerance(schema *Schema, now time.Time) float64 {
	alpha := 1.0
	if schema.Duration > 0 {
		alpha = clamp01(float64(t.Elapsed(now)) / float64(schema.Duration))
	}
	return SampleCurve(schema.SkillCurve, alpha)
}
