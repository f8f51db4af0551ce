package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/UPO33/MPMatch/internal/matchmaking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSchemas_YAML(t *testing.T) {
	path := writeFile(t, "queues.yaml", `
advanced-play:
  team_size: 3
  max_team: 20
  duration: 2m
  skill_curve: [0, 100, 300, 300, 300]
  mode: max_team
  match_keys: [map]
  join_keys: [race]
apex-tutorial:
  team_size: 1
  max_team: 1
  duration: 10000
  mode: single_join
  build_name: build_apex
`)

	schemas, err := LoadSchemas(path)
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	adv := schemas["advanced-play"]
	assert.Equal(t, 3, adv.TeamSize)
	assert.Equal(t, 20, adv.MaxTeam)
	assert.Equal(t, 2*time.Minute, adv.Duration)
	assert.Equal(t, []float64{0, 100, 300, 300, 300}, adv.SkillCurve)
	assert.Equal(t, matchmaking.ModeMaxTeam, adv.Mode)
	assert.Equal(t, matchmaking.KeyPolicy{MatchKeys: []string{"map"}, JoinKeys: []string{"race"}}, adv.Policy)

	tut := schemas["apex-tutorial"]
	assert.Equal(t, 10*time.Second, tut.Duration)
	assert.Equal(t, matchmaking.ModeSingleJoin, tut.Mode)
	assert.Equal(t, "build_apex", tut.BuildName)
	assert.Nil(t, tut.Policy)
	assert.Empty(t, tut.SkillCurve)
}

func TestLoadSchemas_JSONC(t *testing.T) {
	path := writeFile(t, "queues.jsonc", `{
  // practice queue
  "apex-practice": {
    "team_size": 3,
    "max_team": 1,
    "duration": "20s",
    "mode": "single_join", /* trailing comma below */
  },
}`)

	schemas, err := LoadSchemas(path)
	require.NoError(t, err)
	require.Contains(t, schemas, "apex-practice")
	assert.Equal(t, 20*time.Second, schemas["apex-practice"].Duration)
	assert.Equal(t, matchmaking.ModeSingleJoin, schemas["apex-practice"].Mode)
}

func TestLoadSchemas_Errors(t *testing.T) {
	_, err := LoadSchemas(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadSchemas(writeFile(t, "bad.yaml", "q:\n  team_size: 1\n  max_team: 1\n  mode: free_for_all\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")

	_, err = LoadSchemas(writeFile(t, "zero.yaml", "q:\n  team_size: 0\n  max_team: 1\n"))
	assert.Error(t, err)

	_, err = LoadSchemas(writeFile(t, "dur.yaml", "q:\n  team_size: 1\n  max_team: 1\n  duration: soon\n"))
	assert.Error(t, err)
}
