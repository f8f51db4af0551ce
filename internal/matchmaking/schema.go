package matchmaking

import (
	"reflect"
	"time"
)

type Mode string

const (
	// ModeMaxTeam completes a collection once every team is full.
	ModeMaxTeam Mode = "max_team"
	// ModeSingleJoin completes a collection with its first ticket; used
	// for practice and tutorial queues.
	ModeSingleJoin Mode = "single_join"
)

// Policy gates which tickets may share a collection and a team.
type Policy interface {
	// TicketsEverMatch reports whether joining may share a collection whose
	// first ticket is first.
	TicketsEverMatch(first, joining *Ticket) bool
	// TicketEverJoin reports whether joining may be placed into team.
	TicketEverJoin(team *Team, joining *Ticket) bool
}

type allowAll struct{}

func (allowAll) TicketsEverMatch(first, joining *Ticket) bool { return true }
func (allowAll) TicketEverJoin(team *Team, joining *Ticket) bool { return true }

// AllowAll is the policy used when a schema does not set one.
var AllowAll Policy = allowAll{}

// PolicyFuncs adapts plain functions to Policy. A nil field allows everything.
type PolicyFuncs struct {
	EverMatch func(first, joining *Ticket) bool
	EverJoin  func(team *Team, joining *Ticket) bool
}

func (p PolicyFuncs) TicketsEverMatch(first, joining *Ticket) bool {
	if p.EverMatch == nil {
		return true
	}
	return p.EverMatch(first, joining)
}

func (p PolicyFuncs) TicketEverJoin(team *Team, joining *Ticket) bool {
	if p.EverJoin == nil {
		return true
	}
	return p.EverJoin(team, joining)
}

// KeyPolicy compares ticket Data values. MatchKeys must be equal between
// the first ticket of a collection and the joining ticket; JoinKeys must
// be equal between the first ticket of a team and the joining ticket.
type KeyPolicy struct {
	MatchKeys []string
	JoinKeys  []string
}

func (p KeyPolicy) TicketsEverMatch(first, joining *Ticket) bool {
	return sameKeys(p.MatchKeys, first, joining)
}

func (p KeyPolicy) TicketEverJoin(team *Team, joining *Ticket) bool {
	if len(team.Tickets) == 0 {
		return true
	}
	return sameKeys(p.JoinKeys, team.Tickets[0], joining)
}

func sameKeys(keys []string, a, b *Ticket) bool {
	for _, k := range keys {
		if !reflect.DeepEqual(a.Data[k], b.Data[k]) {
			return false
		}
	}
	return true
}

type Schema struct {
	Name       string
	TeamSize   int
	MaxTeam    int
	Duration   time.Duration
	SkillCurve []float64
	Mode       Mode
	BuildName  string
	Policy     Policy
}

func (s Schema) withDefaults(name string) Schema {
	s.Name = name
	if s.Policy == nil {
		s.Policy = AllowAll
	}
	if len(s.SkillCurve) == 0 {
		s.SkillCurve = []float64{MaxTolerance, MaxTolerance}
	} else {
		s.SkillCurve = append([]float64(nil), s.SkillCurve...)
	}
	return s
}
