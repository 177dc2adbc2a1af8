package mood

import (
	"fmt"
	"time"
)

// DefaultDwell is the minimum time a differing raw classification must
// persist before it replaces the committed mood.
const DefaultDwell = 400 * time.Millisecond

// Classifier turns a noisy distance stream into a stable committed mood.
// It is a pure state machine over (distance, time): no I/O, no blocking.
// Not safe for concurrent use; the frame loop is its only caller.
type Classifier struct {
	table     Table
	dwell     time.Duration
	committed Mood

	hasPending   bool
	pending      Mood
	pendingSince time.Time
}

// NewClassifier validates the table and returns a classifier starting in
// the Default mood.
func NewClassifier(table Table, dwell time.Duration) (*Classifier, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid zone table: %w", err)
	}
	if dwell <= 0 {
		return nil, fmt.Errorf("dwell must be positive, got %v", dwell)
	}
	return &Classifier{table: table, dwell: dwell, committed: Default}, nil
}

// Classify maps the distance through the zone table and applies the dwell
// window: a differing raw mood replaces the committed mood only once the
// same raw mood has persisted for the full dwell period. A raw reading that
// returns to the committed mood, or flips to yet another mood, restarts the
// wait, so readings alternating across a zone boundary never flicker.
func (c *Classifier) Classify(distanceCM float64, now time.Time) Mood {
	raw := c.table.Lookup(distanceCM)
	if raw == c.committed {
		c.hasPending = false
		return c.committed
	}
	if !c.hasPending || c.pending != raw {
		c.hasPending = true
		c.pending = raw
		c.pendingSince = now
		return c.committed
	}
	if now.Sub(c.pendingSince) >= c.dwell {
		c.committed = raw
		c.hasPending = false
	}
	return c.committed
}

// Committed returns the current committed mood.
func (c *Classifier) Committed() Mood {
	return c.committed
}

// Hold returns the committed mood without consuming a sample. Used when the
// sensor produced no reading this tick; absence of data never changes mood.
func (c *Classifier) Hold() Mood {
	return c.committed
}

// Override commits a manually selected mood immediately and discards any
// pending candidate, so distance-driven classification must persist for a
// full fresh dwell window before it can displace the selection.
func (c *Classifier) Override(m Mood, now time.Time) {
	if !m.Valid() {
		return
	}
	c.committed = m
	c.hasPending = false
}
