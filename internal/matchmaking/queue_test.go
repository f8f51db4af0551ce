package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_SortByWeightIsStable(t *testing.T) {
	schema := Schema{TeamSize: 2, MaxTeam: 2}.withDefaults("q")
	q := newQueue(&schema)

	a := &Ticket{ID: "a", Users: users(1), lastSkill: 30}
	b := &Ticket{ID: "b", Users: users(1), lastSkill: 10}
	c := &Ticket{ID: "c", Users: users(1, 1), lastSkill: 30}
	d := &Ticket{ID: "d", Users: users(1)}
	for _, ticket := range []*Ticket{a, b, c, d} {
		q.add(ticket)
	}
	require.Equal(t, 5, q.NumUsers())

	q.sortByWeight()

	ids := make([]string, 0, q.Len())
	for _, ticket := range q.Tickets() {
		ids = append(ids, ticket.ID)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids)
}

func TestQueue_Remove(t *testing.T) {
	schema := Schema{TeamSize: 2, MaxTeam: 2}.withDefaults("q")
	q := newQueue(&schema)

	a := &Ticket{ID: "a", Users: users(1, 2)}
	q.add(a)
	assert.Equal(t, "q", a.Queue())

	_, ok := q.remove("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, q.NumUsers())

	got, ok := q.remove("a")
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, 0, q.NumUsers())
	assert.Equal(t, "", a.Queue())
}

func TestCollection_SingleJoinAcceptsOneTicket(t *testing.T) {
	schema := Schema{TeamSize: 3, MaxTeam: 2, Mode: ModeSingleJoin}.withDefaults("practice")
	first := &Ticket{ID: "a", Users: users(1)}

	c := newCollection(&schema, first)
	assert.True(t, c.IsCompleted())
	assert.Nil(t, c.JoinPossible(&Ticket{ID: "b", Users: users(1)}, first.RequestTime))
	assert.Same(t, first, c.First())
}

func TestCollection_Ages(t *testing.T) {
	schema := Schema{TeamSize: 1, MaxTeam: 3}.withDefaults("q")
	start := time.Unix(1000, 0)

	c := newCollection(&schema, &Ticket{ID: "a", Users: users(1), RequestTime: start.Add(5 * time.Second)})
	c.Join(&Ticket{ID: "b", Users: users(1), RequestTime: start}, c.Teams[1])
	c.Join(&Ticket{ID: "c", Users: users(1), RequestTime: start.Add(8 * time.Second)}, c.Teams[2])

	now := start.Add(20 * time.Second)
	assert.Equal(t, 12*time.Second, c.MinAge(now), "youngest ticket")
	assert.Equal(t, 20*time.Second, c.MaxAge(now), "oldest ticket")
}
