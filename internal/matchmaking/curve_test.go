package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleCurve(t *testing.T) {
	curve := []float64{0, 100, 300, 300, 300}

	tests := []struct {
		name  string
		alpha float64
		want  float64
	}{
		{"start", 0, 0},
		{"end", 1, 300},
		{"middle point", 0.5, 300},
		{"between first points", 0.125, 50},
		{"between second points", 0.375, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SampleCurve(curve, tt.alpha), 1e-9)
		})
	}
}

func TestSampleCurve_SinglePoint(t *testing.T) {
	assert.Equal(t, 42.0, SampleCurve([]float64{42}, 0))
	assert.Equal(t, 42.0, SampleCurve([]float64{42}, 0.7))
	assert.Equal(t, 42.0, SampleCurve([]float64{42}, 1))
}

func TestSampleCurve_TwoPoints(t *testing.T) {
	assert.Equal(t, 5.0, SampleCurve([]float64{0, 10}, 0.5))
}

func TestTicketTolerance(t *testing.T) {
	start := time.Unix(1000, 0)
	schema := Schema{Duration: 40 * time.Second, SkillCurve: []float64{0, 100, 300}}
	ticket := &Ticket{RequestTime: start}

	assert.Equal(t, 0.0, ticket.Tolerance(&schema, start))
	assert.Equal(t, 50.0, ticket.Tolerance(&schema, start.Add(10*time.Second)))
	assert.Equal(t, 100.0, ticket.Tolerance(&schema, start.Add(20*time.Second)))
	assert.Equal(t, 300.0, ticket.Tolerance(&schema, start.Add(time.Hour)), "alpha clamps to 1")
	assert.Equal(t, 0.0, ticket.Tolerance(&schema, start.Add(-time.Second)), "alpha clamps to 0")

	schema.Duration = 0
	assert.Equal(t, 300.0, ticket.Tolerance(&schema, start))
}
