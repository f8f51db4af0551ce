package matchmaking

// registry indexes every queued ticket by id.
type registry map[string]*Ticket

func (r registry) get(id string) (*Ticket, bool) {
	t, ok := r[id]
	return t, ok
}

func (r registry) put(t *Ticket) {
	r[t.ID] = t
}

func (r registry) delete(id string) {
	delete(r, id)
}
