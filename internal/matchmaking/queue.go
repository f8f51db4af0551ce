package matchmaking

import "sort"

// skillWeight scales a ticket's last known team skill when ordering a pass.
const skillWeight = 1.0

// Queue holds the waiting tickets of one schema.
type Queue struct {
	Name     string
	schema   *Schema
	tickets  []*Ticket
	numUsers int
}

func newQueue(schema *Schema) *Queue {
	return &Queue{Name: schema.Name, schema: schema}
}

func (q *Queue) Schema() *Schema {
	return q.schema
}

// Tickets returns a copy of the waiting tickets in queue order.
func (q *Queue) Tickets() []*Ticket {
	return append([]*Ticket(nil), q.tickets...)
}

func (q *Queue) NumUsers() int {
	return q.numUsers
}

func (q *Queue) Len() int {
	return len(q.tickets)
}

func (q *Queue) add(t *Ticket) {
	t.queue = q.Name
	q.tickets = append(q.tickets, t)
	q.numUsers += len(t.Users)
}

// remove drops the ticket with id, keeping the order of the others.
func (q *Queue) remove(id string) (*Ticket, bool) {
	for i, t := range q.tickets {
		if t.ID != id {
			continue
		}
		q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
		q.numUsers -= len(t.Users)
		t.queue = ""
		return t, true
	}
	return nil, false
}

// sortByWeight orders the tickets for a formation pass. Equal weights keep
// their submission order.
func (q *Queue) sortByWeight() {
	for _, t := range q.tickets {
		t.weight = t.lastSkill * skillWeight
	}
	sort.SliceStable(q.tickets, func(i, j int) bool {
		return q.tickets[i].weight < q.tickets[j].weight
	})
}
