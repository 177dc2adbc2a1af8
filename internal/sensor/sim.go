package sensor

import (
	"math"
	"time"

	"github.com/aquilax/go-perlin"

	"github.com/banshee-data/roboeyes/internal/timeutil"
)

// Simulation defaults: a slow oscillation through all the mood zones with a
// little coherent noise on top, clamped to the sensor's usable range.
const (
	simMidCM   = 32.0
	simSpanCM  = 55.0
	simMinCM   = 5.0
	simMaxCM   = 60.0
	simNoiseCM = 1.5
)

// Simulator produces a smoothly varying synthetic distance so downstream
// consumers behave identically whether real hardware is present or not.
type Simulator struct {
	clock timeutil.Clock
	start time.Time
	noise *perlin.Perlin
}

// NewSimulator creates a simulator driven by the given clock. The seed only
// affects the cosmetic noise layer.
func NewSimulator(clock timeutil.Clock, seed int64) *Simulator {
	return &Simulator{
		clock: clock,
		start: clock.Now(),
		noise: perlin.NewPerlin(2, 2, 3, seed),
	}
}

// Distance returns the synthetic distance for the current clock time.
func (s *Simulator) Distance() float64 {
	t := s.clock.Since(s.start).Seconds()
	d := simMidCM + (simSpanCM/2)*math.Sin(t*0.5)
	d += simNoiseCM * s.noise.Noise1D(t*0.35)
	return math.Min(simMaxCM, math.Max(simMinCM, d))
}
