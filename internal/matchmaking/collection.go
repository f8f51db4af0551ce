package matchmaking

import (
	"math"
	"time"
)

// Collection is one match attempt built during a single tick.
type Collection struct {
	schema *Schema

	Teams          []*Team
	MinSkill       float64
	MaxSkill       float64
	FilledTeams    int
	JoinedTickets  int
	JoinedUsers    int
	MinRequestTime time.Time
	MaxRequestTime time.Time
}

// newCollection pre-allocates MaxTeam empty teams and seeds team 0 with first.
func newCollection(schema *Schema, first *Ticket) *Collection {
	c := &Collection{
		schema:   schema,
		Teams:    make([]*Team, schema.MaxTeam),
		MinSkill: math.Inf(1),
		MaxSkill: math.Inf(-1),
	}
	for i := range c.Teams {
		c.Teams[i] = newTeam(schema.TeamSize)
	}
	c.Join(first, c.Teams[0])
	return c
}

// First returns the ticket the collection was seeded with.
func (c *Collection) First() *Ticket {
	if len(c.Teams) == 0 || len(c.Teams[0].Tickets) == 0 {
		return nil
	}
	return c.Teams[0].Tickets[0]
}

// JoinPossible returns the tightest team joining fits into, or nil.
func (c *Collection) JoinPossible(joining *Ticket, now time.Time) *Team {
	if c.schema.Mode == ModeSingleJoin && c.JoinedTickets > 0 {
		return nil
	}
	if c.FilledTeams >= c.schema.MaxTeam {
		return nil
	}
	if !c.schema.Policy.TicketsEverMatch(c.First(), joining) {
		return nil
	}

	tolerance := joining.Tolerance(c.schema, now)

	var best *Team
	for _, team := range c.Teams {
		if !c.teamAccepts(team, joining, tolerance) {
			continue
		}
		if best == nil || team.Free < best.Free {
			best = team
		}
	}
	return best
}

func (c *Collection) teamAccepts(team *Team, joining *Ticket, tolerance float64) bool {
	if team.Free < len(joining.Users) {
		return false
	}

	skill := team.averageSkill(joining)
	spread := math.Max(c.MaxSkill, skill) - math.Min(c.MinSkill, skill)
	if spread > tolerance {
		return false
	}

	return c.schema.Policy.TicketEverJoin(team, joining)
}

// Join places joining into team and widens the collection aggregates.
func (c *Collection) Join(joining *Ticket, team *Team) {
	team.add(joining)
	joining.lastSkill = team.Skill

	c.MinSkill = math.Min(c.MinSkill, team.Skill)
	c.MaxSkill = math.Max(c.MaxSkill, team.Skill)

	if c.JoinedTickets == 0 || joining.RequestTime.Before(c.MinRequestTime) {
		c.MinRequestTime = joining.RequestTime
	}
	if c.JoinedTickets == 0 || joining.RequestTime.After(c.MaxRequestTime) {
		c.MaxRequestTime = joining.RequestTime
	}

	if team.Free == 0 {
		c.FilledTeams++
	}
	c.JoinedTickets++
	c.JoinedUsers += len(joining.Users)
}

func (c *Collection) IsCompleted() bool {
	switch c.schema.Mode {
	case ModeSingleJoin:
		for _, team := range c.Teams {
			if len(team.Tickets) > 0 {
				return true
			}
		}
	case ModeMaxTeam:
		return c.FilledTeams >= c.schema.MaxTeam
	}
	return false
}

// MinAge is the wait time every member ticket has reached at now.
func (c *Collection) MinAge(now time.Time) time.Duration {
	return now.Sub(c.MaxRequestTime)
}

// MaxAge is the wait time of the oldest member ticket at now.
func (c *Collection) MaxAge(now time.Time) time.Duration {
	return now.Sub(c.MinRequestTime)
}

func (c *Collection) tickets() []*Ticket {
	out := make([]*Ticket, 0, c.JoinedTickets)
	for _, team := range c.Teams {
		out = append(out, team.Tickets...)
	}
	return out
}
