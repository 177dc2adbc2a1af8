// Package sensor turns the line-oriented serial distance stream into a
// non-blocking latest-sample slot for the frame loop, synthesizing samples
// when the real sensor is absent or goes quiet.
package sensor

import (
	"context"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/roboeyes/internal/monitoring"
	"github.com/banshee-data/roboeyes/internal/timeutil"
)

const (
	// DefaultInterval is the nominal firmware sampling cadence (20 Hz).
	DefaultInterval = 50 * time.Millisecond

	// DefaultGrace is how long the stream may go silent before the reader
	// switches to the simulation generator.
	DefaultGrace = 2 * time.Second

	// smoothingWindow is the number of recent readings averaged before a
	// sample is exposed, so single-line noise does not jitter the
	// classifier input.
	smoothingWindow = 5
)

// Sample is one distance reading ready for classification.
type Sample struct {
	DistanceCM float64
	At         time.Time
	Simulated  bool
}

// LineSource is the subset of the serial mux the reader consumes.
type LineSource interface {
	Subscribe() (string, chan string)
	Unsubscribe(string)
}

// Reader maintains the latest distance sample. A single feeder goroutine
// (Run) writes the slot; the frame loop drains it with Poll. Last write
// wins, the mutex is held only for the copy.
type Reader struct {
	source   LineSource // nil means simulation only
	sim      *Simulator
	clock    timeutil.Clock
	grace    time.Duration
	interval time.Duration

	mu         sync.Mutex
	latest     Sample
	seq        uint64
	consumed   uint64
	window     []float64
	lastReal   time.Time
	simulating bool
}

// NewReader creates a reader fed by source, falling back to sim whenever
// source is nil or goes silent for longer than grace. Zero grace or
// interval select the defaults.
func NewReader(source LineSource, sim *Simulator, clock timeutil.Clock, grace, interval time.Duration) *Reader {
	if grace <= 0 {
		grace = DefaultGrace
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Reader{
		source:     source,
		sim:        sim,
		clock:      clock,
		grace:      grace,
		interval:   interval,
		simulating: source == nil,
	}
	if r.simulating {
		monitoring.Logf("sensor: no serial channel, using simulated distance")
	}
	return r
}

// Run feeds the latest-sample slot until the context is cancelled. It never
// returns an error: sensor flakiness is recovered internally.
func (r *Reader) Run(ctx context.Context) {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	var lines chan string
	if r.source != nil {
		id, ch := r.source.Subscribe()
		defer r.source.Unsubscribe(id)
		lines = ch
	}

	for {
		select {
		case <-ctx.Done():
			return

		case line, ok := <-lines:
			if !ok {
				// source closed mid-run; the ticker keeps the slot fed
				lines = nil
				continue
			}
			if d, parsed := ParseLine(line); parsed {
				r.storeReal(d)
			}

		case <-ticker.C():
			if r.realIsFresh() {
				continue
			}
			r.storeSimulated(r.sim.Distance())
		}
	}
}

// Poll returns the most recent sample if one has arrived since the last
// poll. Non-blocking; never errors.
func (r *Reader) Poll() (Sample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seq == r.consumed {
		return Sample{}, false
	}
	r.consumed = r.seq
	return r.latest, true
}

// Simulating reports whether the reader is currently synthesizing samples.
func (r *Reader) Simulating() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.simulating
}

func (r *Reader) realIsFresh() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source != nil && !r.lastReal.IsZero() && r.clock.Since(r.lastReal) <= r.grace
}

func (r *Reader) storeReal(distanceCM float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.simulating && r.source != nil {
		r.simulating = false
		monitoring.Logf("sensor: live distance stream resumed")
	}
	r.lastReal = r.clock.Now()
	r.store(distanceCM, false)
}

func (r *Reader) storeSimulated(distanceCM float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.simulating {
		r.simulating = true
		monitoring.Logf("sensor: stream silent for %v, switching to simulated distance", r.grace)
	}
	r.store(distanceCM, true)
}

// store must be called with the mutex held.
func (r *Reader) store(distanceCM float64, simulated bool) {
	r.window = append(r.window, distanceCM)
	if len(r.window) > smoothingWindow {
		r.window = r.window[len(r.window)-smoothingWindow:]
	}
	r.latest = Sample{
		DistanceCM: stat.Mean(r.window, nil),
		At:         r.clock.Now(),
		Simulated:  simulated,
	}
	r.seq++
}
