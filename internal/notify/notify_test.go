package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UPO33/MPMatch/internal/matchmaking"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchEvent() Event {
	return Event{
		Type: EventMatchReady,
		Match: &matchmaking.MatchResult{
			MatchID:   "m1",
			QueueName: "apex-play",
			Teams: []matchmaking.ResolvedTeam{{Tickets: []matchmaking.ResolvedTicket{
				{TicketID: "apex-play#1", Users: []matchmaking.User{{ID: "u1", Skill: 12}}},
			}}},
		},
		SentAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier_PostsEvent(t *testing.T) {
	var got Event
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("X-MPMatch-Event")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	require.NoError(t, n.Notify(context.Background(), matchEvent()))

	assert.Equal(t, EventMatchReady, header)
	require.NotNil(t, got.Match)
	assert.Equal(t, "m1", got.Match.MatchID)
	assert.Equal(t, 1, got.Match.NumUsers())

	stats := n.Stats()
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, http.StatusNoContent, stats.LastStatus)
}

func TestWebhookNotifier_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL)
	err := n.Notify(context.Background(), matchEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, 1, n.Stats().Failed)
}

func TestRedisNotifier_Publishes(t *testing.T) {
	client, mock := redismock.NewClientMock()
	event := matchEvent()
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectPublish("mpmatch:events", payload).SetVal(1)

	n := NewRedisNotifier(client, "mpmatch:events")
	require.NoError(t, n.Notify(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisNotifier_Error(t *testing.T) {
	client, mock := redismock.NewClientMock()
	event := matchEvent()
	payload, _ := json.Marshal(event)

	mock.ExpectPublish("mpmatch:events", payload).SetErr(errors.New("connection refused"))

	n := NewRedisNotifier(client, "mpmatch:events")
	err := n.Notify(context.Background(), event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

type fakeNotifier struct {
	events []Event
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, e Event) error {
	f.events = append(f.events, e)
	return f.err
}

func TestMulti_DeliversToAll(t *testing.T) {
	ok := &fakeNotifier{}
	bad := &fakeNotifier{err: errors.New("boom")}

	err := Multi{bad, ok}.Notify(context.Background(), matchEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, ok.events, 1)
	assert.Len(t, bad.events, 1)

	assert.NoError(t, Multi{}.Notify(context.Background(), matchEvent()))
	assert.NoError(t, Nop{}.Notify(context.Background(), matchEvent()))
}
