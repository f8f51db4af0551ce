package matchmaking

import "math"

// MaxTolerance is the flat tolerance used when a schema has no skill curve.
const MaxTolerance = float64(1<<53 - 1)

// SampleCurve returns the skill spread allowed at elapsed fraction alpha.
// alpha must already be clamped to [0,1].
func SampleCurve(points []float64, alpha float64) float64 {
	if len(points) == 1 {
		return points[0]
	}

	p := float64(len(points)-1) * alpha
	i := math.Floor(p)
	frac := p - i
	idx := int(i)

	if frac == 0 {
		return points[idx]
	}
	return lerp(points[idx], points[idx+1], frac)
}

func lerp(a, b, amount float64) float64 {
	return a + (b-a)*amount
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
