package matchmaking

// Team is a fixed-size slot set inside a collection.
type Team struct {
	Size    int
	Free    int
	Tickets []*Ticket
	Skill   float64
}

func newTeam(size int) *Team {
	return &Team{Size: size, Free: size}
}

func (t *Team) NumUsers() int {
	return t.Size - t.Free
}

// averageSkill returns the mean user skill of the team, counting joining
// as a member when it is not nil.
func (t *Team) averageSkill(joining *Ticket) float64 {
	var sum float64
	var n int
	for _, ticket := range t.Tickets {
		for _, u := range ticket.Users {
			sum += u.Skill
			n++
		}
	}
	if joining != nil {
		for _, u := range joining.Users {
			sum += u.Skill
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (t *Team) add(ticket *Ticket) {
	t.Tickets = append(t.Tickets, ticket)
	t.Skill = t.averageSkill(nil)
	t.Free -= len(ticket.Users)
}
