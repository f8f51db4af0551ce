package domain

import (
	"time"

	"github.com/UPO33/MPMatch/internal/matchmaking"
)

// Match is a completed match as stored in the history database.
type Match struct {
	MatchID   string
	QueueName string
	BuildName string
	NumTeams  int
	NumUsers  int
	MinAge    time.Duration
	MinSkill  float64
	MaxSkill  float64
	CreatedAt time.Time
	Teams     [][]MatchTicket // indexed by team, then seat order
}

type MatchTicket struct {
	ID        string // nanoid
	MatchID   string
	TeamIndex int
	Position  int
	TicketID  string
	Users     []matchmaking.User
	Data      map[string]any
}

type TicketFailure struct {
	ID        string // nanoid
	TicketID  string
	QueueName string
	Code      string
	NumUsers  int
	Waited    time.Duration
	CreatedAt time.Time
}

// FromResult flattens an engine match result into the stored shape.
func FromResult(r matchmaking.MatchResult) Match {
	m := Match{
		MatchID:   r.MatchID,
		QueueName: r.QueueName,
		BuildName: r.BuildName,
		NumTeams:  len(r.Teams),
		NumUsers:  r.NumUsers(),
		MinAge:    r.MinAge,
		MinSkill:  r.MinSkill,
		MaxSkill:  r.MaxSkill,
		CreatedAt: r.CreatedAt,
		Teams:     make([][]MatchTicket, len(r.Teams)),
	}
	for i, team := range r.Teams {
		seats := make([]MatchTicket, len(team.Tickets))
		for j, t := range team.Tickets {
			seats[j] = MatchTicket{
				MatchID:   r.MatchID,
				TeamIndex: i,
				Position:  j,
				TicketID:  t.TicketID,
				Users:     t.Users,
				Data:      t.Data,
			}
		}
		m.Teams[i] = seats
	}
	return m
}
