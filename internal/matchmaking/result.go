package matchmaking

import "time"

type ResolvedTicket struct {
	TicketID string         `json:"ticket_id"`
	Users    []User         `json:"users"`
	Data     map[string]any `json:"data,omitempty"`
}

type ResolvedTeam struct {
	Tickets []ResolvedTicket `json:"tickets"`
}

// MatchResult is handed to OnMatchReady once a collection completes.
type MatchResult struct {
	MatchID   string         `json:"match_id"`
	QueueName string         `json:"queue_name"`
	BuildName string         `json:"build_name,omitempty"`
	Teams     []ResolvedTeam `json:"teams"`
	MinAge    time.Duration  `json:"min_age"`
	MinSkill  float64        `json:"min_skill"`
	MaxSkill  float64        `json:"max_skill"`
	CreatedAt time.Time      `json:"created_at"`
}

// NumUsers counts the users placed across all teams.
func (m MatchResult) NumUsers() int {
	n := 0
	for _, team := range m.Teams {
		for _, t := range team.Tickets {
			n += len(t.Users)
		}
	}
	return n
}

func resolveTeams(c *Collection) []ResolvedTeam {
	teams := make([]ResolvedTeam, len(c.Teams))
	for i, team := range c.Teams {
		resolved := ResolvedTeam{Tickets: make([]ResolvedTicket, 0, len(team.Tickets))}
		for _, t := range team.Tickets {
			resolved.Tickets = append(resolved.Tickets, ResolvedTicket{
				TicketID: t.ID,
				Users:    t.Users,
				Data:     t.Data,
			})
		}
		teams[i] = resolved
	}
	return teams
}
