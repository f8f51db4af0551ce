package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/UPO33/MPMatch/internal/config"
	"github.com/UPO33/MPMatch/internal/database"
	"github.com/UPO33/MPMatch/internal/domain"
	"github.com/UPO33/MPMatch/internal/matchmaking"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult(id, queue string, at time.Time) matchmaking.MatchResult {
	return matchmaking.MatchResult{
		MatchID:   id,
		QueueName: queue,
		BuildName: "build_apex",
		Teams: []matchmaking.ResolvedTeam{
			{Tickets: []matchmaking.ResolvedTicket{
				{TicketID: queue + "#a", Users: []matchmaking.User{{ID: "1", Skill: 10}, {ID: "2", Skill: 20}}, Data: map[string]any{"map": "jungle"}},
				{TicketID: queue + "#b", Users: []matchmaking.User{{ID: "3", Skill: 30}}},
			}},
			{Tickets: []matchmaking.ResolvedTicket{}},
		},
		MinAge:    1500 * time.Millisecond,
		MinSkill:  15,
		MaxSkill:  30,
		CreatedAt: at,
	}
}

func TestMatchRepository_SaveAndGet(t *testing.T) {
	repo := NewMatchRepository(setupDB(t), zerolog.Nop())
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, domain.FromResult(sampleResult("m1", "apex-play", at))))

	got, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "apex-play", got.QueueName)
	assert.Equal(t, "build_apex", got.BuildName)
	assert.Equal(t, 2, got.NumTeams)
	assert.Equal(t, 3, got.NumUsers)
	assert.Equal(t, 1500*time.Millisecond, got.MinAge)
	assert.Equal(t, 15.0, got.MinSkill)
	assert.Equal(t, 30.0, got.MaxSkill)
	assert.True(t, at.Equal(got.CreatedAt))

	require.Len(t, got.Teams, 2)
	require.Len(t, got.Teams[0], 2)
	assert.Empty(t, got.Teams[1])
	assert.Equal(t, "apex-play#a", got.Teams[0][0].TicketID)
	assert.Equal(t, "jungle", got.Teams[0][0].Data["map"])
	assert.Equal(t, []matchmaking.User{{ID: "3", Skill: 30}}, got.Teams[0][1].Users)
	assert.Nil(t, got.Teams[0][1].Data)
	assert.NotEmpty(t, got.Teams[0][0].ID)
}

func TestMatchRepository_GetMissing(t *testing.T) {
	repo := NewMatchRepository(setupDB(t), zerolog.Nop())

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestMatchRepository_DuplicateMatchRollsBack(t *testing.T) {
	db := setupDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	ctx := context.Background()
	result := sampleResult("m1", "apex-play", time.Now())

	require.NoError(t, repo.Save(ctx, domain.FromResult(result)))
	assert.Error(t, repo.Save(ctx, domain.FromResult(result)))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM match_tickets`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestMatchRepository_ListRecent(t *testing.T) {
	repo := NewMatchRepository(setupDB(t), zerolog.Nop())
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, domain.FromResult(sampleResult("m1", "apex-play", base))))
	require.NoError(t, repo.Save(ctx, domain.FromResult(sampleResult("m2", "apex-practice", base.Add(time.Minute)))))
	require.NoError(t, repo.Save(ctx, domain.FromResult(sampleResult("m3", "apex-play", base.Add(2*time.Minute)))))

	all, err := repo.ListRecent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m3", all[0].MatchID)
	assert.Equal(t, "m1", all[2].MatchID)

	play, err := repo.ListRecent(ctx, "apex-play", 1)
	require.NoError(t, err)
	require.Len(t, play, 1)
	assert.Equal(t, "m3", play[0].MatchID)
	assert.Nil(t, play[0].Teams)
}

func TestFailureRepository(t *testing.T) {
	repo := NewFailureRepository(setupDB(t), zerolog.Nop())
	ctx := context.Background()

	for _, code := range []matchmaking.FailCode{matchmaking.FailTimeout, matchmaking.FailTimeout, matchmaking.FailInvalidTicket} {
		require.NoError(t, repo.Record(ctx, domain.TicketFailure{
			TicketID:  "apex-play#x",
			QueueName: "apex-play",
			Code:      code.String(),
			NumUsers:  1,
			Waited:    10 * time.Second,
			CreatedAt: time.Now(),
		}))
	}

	counts, err := repo.CountByCode(ctx, "apex-play")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Timeout": 2, "InvalidTicket": 1}, counts)

	empty, err := repo.CountByCode(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.Record(ctx, domain.TicketFailure{
		TicketID:  "junk#y",
		QueueName: "junk",
		Code:      matchmaking.FailQueueNotFound.String(),
		NumUsers:  1,
		CreatedAt: time.Now(),
	}))
	all, err := repo.CountByCode(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Timeout": 2, "InvalidTicket": 1, "QueueNotFound": 1}, all)
}
