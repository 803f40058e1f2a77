// Package scoring implements the blended-relevance factor math used to rank
// retrieved content nodes: a logistic squash of the store's native text-match
// score, exponential recency decay of the last-access time, a raw importance
// contribution and a remapped cosine similarity between embedding vectors.
// The factors are independent and summed; the sum replaces the base match
// score for ranking (never multiplies it).
package scoring

import (
	"fmt"
	"math"
	"time"
)

// RemapMode selects how cosine similarity is lifted off [-1,1] so dissimilar
// vectors cannot drag the blended sum down.
type RemapMode int

const (
	// RemapUnit maps similarity to [0,1] via (sim+1)/2.
	RemapUnit RemapMode = iota
	// RemapShifted maps similarity to [0,2] via sim+1.
	RemapShifted
)

// Config carries the tunable parameters of the blended score. The zero value
// is not usable; start from DefaultConfig or FastDecayConfig.
type Config struct {
	// LogisticDivisor scales the raw match score before the logistic squash
	// 1/(1+e^(-score/divisor)), bounding the text factor to (0,1).
	LogisticDivisor float64

	// DecayScale and Decay parameterize the recency factor: content whose
	// last access is DecayScale old scores exactly Decay, decaying
	// exponentially beyond that.
	DecayScale time.Duration
	Decay      float64

	// Remap selects the cosine-similarity lift.
	Remap RemapMode
}

// DefaultConfig mirrors the long-memory variant: hour-scale half life.
func DefaultConfig() Config {
	return Config{LogisticDivisor: 10, DecayScale: time.Hour, Decay: 0.5, Remap: RemapUnit}
}

// FastDecayConfig mirrors the short-memory variant: ten-minute scale with a
// gentle 0.99 decay, favoring very recent context.
func FastDecayConfig() Config {
	return Config{LogisticDivisor: 10, DecayScale: 10 * time.Minute, Decay: 0.99, Remap: RemapUnit}
}

// Logistic squashes a raw match score through 1/(1+e^(-s/divisor)). It is
// strictly increasing in s and bounded in (0,1) for any real s.
func Logistic(s, divisor float64) float64 {
	return 1 / (1 + math.Exp(-s/divisor))
}

// Remap lifts a cosine similarity in [-1,1] to a non-negative range.
func Remap(sim float64, mode RemapMode) float64 {
	if mode == RemapShifted {
		return sim + 1
	}
	return (sim + 1) / 2
}

// TextFactor returns the bounded text-relevance contribution for a raw
// match score.
func (c Config) TextFactor(score float64) float64 {
	return Logistic(score, c.LogisticDivisor)
}

// RecencyFactor returns the exponential decay contribution for a node last
// accessed at last, evaluated at now. Equals 1 at zero age and Decay at
// exactly DecayScale of age.
func (c Config) RecencyFactor(last, now time.Time) float64 {
	age := math.Abs(now.Sub(last).Seconds())
	return math.Exp(math.Log(c.Decay) * age / c.DecayScale.Seconds())
}

// SimilarityFactor returns the remapped cosine-similarity contribution.
func (c Config) SimilarityFactor(sim float64) float64 {
	return Remap(sim, c.Remap)
}

// ScaleString renders DecayScale in the store's duration notation ("1h",
// "10m", "45s").
func (c Config) ScaleString() string {
	d := c.DecayScale
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
}
