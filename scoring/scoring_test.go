package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogistic_MonotonicAndBounded(t *testing.T) {
	// Beyond |s| ~ 7000 the float64 exponential saturates, so probe the
	// range where strict bounds are numerically observable.
	inputs := []float64{-100, -10, -1, 0, 1, 10, 100}
	prev := math.Inf(-1)
	for _, s := range inputs {
		v := Logistic(s, 10)
		assert.Greater(t, v, 0.0, "logistic(%v) must stay above 0", s)
		assert.Less(t, v, 1.0, "logistic(%v) must stay below 1", s)
		assert.Greater(t, v, prev, "logistic must be strictly increasing at %v", s)
		prev = v
	}
	assert.InDelta(t, 0.5, Logistic(0, 10), 1e-12)
}

func TestRemap_Endpoints(t *testing.T) {
	assert.InDelta(t, 1.0, Remap(1, RemapUnit), 1e-12)
	assert.InDelta(t, 0.0, Remap(-1, RemapUnit), 1e-12)
	assert.InDelta(t, 0.5, Remap(0, RemapUnit), 1e-12)

	assert.InDelta(t, 2.0, Remap(1, RemapShifted), 1e-12)
	assert.InDelta(t, 0.0, Remap(-1, RemapShifted), 1e-12)
	assert.InDelta(t, 1.0, Remap(0, RemapShifted), 1e-12)
}

func TestRecencyFactor(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Fresh content decays nothing, content exactly one scale old scores
	// the configured decay.
	assert.InDelta(t, 1.0, cfg.RecencyFactor(now, now), 1e-12)
	assert.InDelta(t, 0.5, cfg.RecencyFactor(now.Add(-time.Hour), now), 1e-12)
	assert.InDelta(t, 0.25, cfg.RecencyFactor(now.Add(-2*time.Hour), now), 1e-12)

	older := cfg.RecencyFactor(now.Add(-3*time.Hour), now)
	newer := cfg.RecencyFactor(now.Add(-30*time.Minute), now)
	assert.Less(t, older, newer)

	fast := FastDecayConfig()
	assert.InDelta(t, 0.99, fast.RecencyFactor(now.Add(-10*time.Minute), now), 1e-12)
}

func TestBlendedSum_MonotonicInTextScore(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()
	last := now.Add(-45 * time.Minute)
	importance := 2.5
	sim := 0.3

	blended := func(textScore float64) float64 {
		return cfg.TextFactor(textScore) + cfg.RecencyFactor(last, now) + importance + cfg.SimilarityFactor(sim)
	}
	assert.Greater(t, blended(5), blended(4))
	assert.Greater(t, blended(100), blended(5))
}

func TestScaleString(t *testing.T) {
	tests := []struct {
		scale time.Duration
		want  string
	}{
		{time.Hour, "1h"},
		{3 * time.Hour, "3h"},
		{10 * time.Minute, "10m"},
		{90 * time.Minute, "90m"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "90s"},
	}
	for _, tt := range tests {
		cfg := Config{DecayScale: tt.scale}
		assert.Equal(t, tt.want, cfg.ScaleString())
	}
}
