package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/UPO33/MPMatch/internal/matchmaking"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// QueueSchema is one queue entry of the schema file.
type QueueSchema struct {
	TeamSize   int       `yaml:"team_size" json:"team_size"`
	MaxTeam    int       `yaml:"max_team" json:"max_team"`
	Duration   Duration  `yaml:"duration" json:"duration"`
	SkillCurve []float64 `yaml:"skill_curve" json:"skill_curve"`
	Mode       string    `yaml:"mode" json:"mode"`
	BuildName  string    `yaml:"build_name" json:"build_name"`
	MatchKeys  []string  `yaml:"match_keys" json:"match_keys"`
	JoinKeys   []string  `yaml:"join_keys" json:"join_keys"`
}

// Duration accepts "90s" style strings or a number of milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	return d.parse(strings.Trim(string(b), `"`))
}

func (d *Duration) parse(s string) error {
	if v, err := time.ParseDuration(s); err == nil {
		*d = Duration(v)
		return nil
	}
	var ms int64
	if _, err := fmt.Sscan(s, &ms); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// LoadSchemas reads queue schemas from path. Files ending in .json or .jsonc
// are parsed as JSON with comments, anything else as YAML.
func LoadSchemas(path string) (map[string]matchmaking.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	raw := make(map[string]QueueSchema)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
		}
	}

	schemas := make(map[string]matchmaking.Schema, len(raw))
	for name, q := range raw {
		s, err := q.toSchema()
		if err != nil {
			return nil, fmt.Errorf("queue %s: %w", name, err)
		}
		schemas[name] = s
	}
	return schemas, nil
}

func (q QueueSchema) toSchema() (matchmaking.Schema, error) {
	mode := matchmaking.Mode(q.Mode)
	switch mode {
	case "":
		mode = matchmaking.ModeMaxTeam
	case matchmaking.ModeMaxTeam, matchmaking.ModeSingleJoin:
	default:
		return matchmaking.Schema{}, fmt.Errorf("unknown mode %q", q.Mode)
	}
	if q.TeamSize <= 0 || q.MaxTeam <= 0 {
		return matchmaking.Schema{}, fmt.Errorf("team_size and max_team must be positive")
	}

	s := matchmaking.Schema{
		TeamSize:   q.TeamSize,
		MaxTeam:    q.MaxTeam,
		Duration:   time.Duration(q.Duration),
		SkillCurve: q.SkillCurve,
		Mode:       mode,
		BuildName:  q.BuildName,
	}
	if len(q.MatchKeys) > 0 || len(q.JoinKeys) > 0 {
		s.Policy = matchmaking.KeyPolicy{MatchKeys: q.MatchKeys, JoinKeys: q.JoinKeys}
	}
	return s, nil
}
