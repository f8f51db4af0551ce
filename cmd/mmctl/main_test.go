package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UPO33/MPMatch/internal/matchmaking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUsers(t *testing.T) {
	users, err := parseUsers([]string{"alice:12.5", "bob"})
	require.NoError(t, err)
	assert.Equal(t, []matchmaking.User{{ID: "alice", Skill: 12.5}, {ID: "bob"}}, users)

	_, err = parseUsers(nil)
	assert.Error(t, err)

	_, err = parseUsers([]string{":3"})
	assert.Error(t, err)

	_, err = parseUsers([]string{"carol:high"})
	assert.Error(t, err)
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, &out))
	assert.Contains(t, out.String(), "matches [--queue NAME]")
	assert.Contains(t, out.String(), "--server")
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"frobnicate"}, &out))
}

func TestRun_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mpmatch.v1.Matchmaker/GetQueuesStatus", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"queues":{"apex-play":{"num_users":3,"num_tickets":2}}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, run([]string{"--server", srv.URL, "status"}, &out))
	assert.Contains(t, out.String(), `"num_users": 3`)
}

func TestRun_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mpmatch.v1.Matchmaker/GetFailureCounts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"counts":{"Timeout":4}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, run([]string{"--server", srv.URL, "failures", "--queue", "apex-play"}, &out))
	assert.Contains(t, out.String(), `"Timeout": 4`)
}

func TestRun_MissingArgument(t *testing.T) {
	var out bytes.Buffer
	assert.EqualError(t, run([]string{"cancel"}, &out), "usage: mmctl cancel TICKET_ID")
	assert.EqualError(t, run([]string{"match", "a", "b"}, &out), "usage: mmctl match MATCH_ID")
}
