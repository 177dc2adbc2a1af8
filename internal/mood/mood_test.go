package mood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	for _, m := range []Mood{Default, Tired, Angry, Happy, Frozen, Scary, Curious, Sad} {
		parsed, ok := Parse(m.String())
		require.True(t, ok, "parse %q", m.String())
		assert.Equal(t, m, parsed)
	}
}

func TestParseUnknown(t *testing.T) {
	_, ok := Parse("grumpy")
	assert.False(t, ok)

	_, ok = Parse("")
	assert.False(t, ok)
}

func TestParseCaseInsensitive(t *testing.T) {
	m, ok := Parse(" ANGRY ")
	require.True(t, ok)
	assert.Equal(t, Angry, m)
}

func TestLookupIsTotal(t *testing.T) {
	table := DefaultTable()
	require.NoError(t, table.Validate())

	// every non-negative distance maps to exactly one mood
	for d := 0.0; d < 1000; d += 0.5 {
		m := table.Lookup(d)
		assert.True(t, m.Valid(), "distance %.1f", d)
	}
}

func TestLookupBoundaries(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		distance float64
		want     Mood
	}{
		{0, Curious},
		{10, Curious},
		{15, Curious},
		{15.1, Happy},
		{35, Happy},
		{50, Default},
		{60, Default},
		{61, Tired},
		{400, Tired},
		{9999, Tired}, // beyond the last bound maps to the last zone
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.Lookup(tt.distance), "distance %.1f", tt.distance)
	}
}

func TestValidateRejectsNonMonotonic(t *testing.T) {
	table := Table{
		{UpperCM: 35, Mood: Happy},
		{UpperCM: 15, Mood: Curious},
	}
	assert.Error(t, table.Validate())
}

func TestValidateRejectsEmpty(t *testing.T) {
	assert.Error(t, Table{}.Validate())
}

func TestValidateRejectsInvalidMood(t *testing.T) {
	table := Table{{UpperCM: 15, Mood: Mood(42)}}
	assert.Error(t, table.Validate())
}

func TestValidateRejectsZeroBound(t *testing.T) {
	table := Table{{UpperCM: 0, Mood: Curious}}
	assert.Error(t, table.Validate())
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultTable(), DefaultDwell)
	require.NoError(t, err)
	return c
}

func TestNewClassifierRejectsBadConfig(t *testing.T) {
	_, err := NewClassifier(Table{}, DefaultDwell)
	assert.Error(t, err)

	_, err = NewClassifier(DefaultTable(), 0)
	assert.Error(t, err)
}

// commitMood drives the classifier to the mood for the given distance by
// holding it for a full dwell window. Returns the time of the commit.
func commitMood(t *testing.T, c *Classifier, distance float64, start time.Time) time.Time {
	t.Helper()
	c.Classify(distance, start)
	at := start.Add(DefaultDwell)
	require.Equal(t, c.table.Lookup(distance), c.Classify(distance, at))
	return at
}

func TestClassifyRequiresPersistence(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// a differing raw mood never commits on first sight
	assert.Equal(t, Default, c.Classify(10, t0))

	// still suppressed while the dwell window is open
	assert.Equal(t, Default, c.Classify(10, t0.Add(100*time.Millisecond)))
	assert.Equal(t, Default, c.Classify(10, t0.Add(399*time.Millisecond)))

	// once the same raw mood has persisted for the full window it commits
	assert.Equal(t, Curious, c.Classify(10, t0.Add(DefaultDwell)))
}

func TestClassifyRestartsWaitOnCandidateChange(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// 10cm starts a curious candidate; switching to 100cm before the dwell
	// elapses restarts the wait for the new candidate
	assert.Equal(t, Default, c.Classify(10, t0))
	assert.Equal(t, Default, c.Classify(100, t0.Add(300*time.Millisecond)))
	assert.Equal(t, Default, c.Classify(100, t0.Add(500*time.Millisecond)))
	assert.Equal(t, Tired, c.Classify(100, t0.Add(700*time.Millisecond)))
}

func TestClassifyReturnToCommittedClearsCandidate(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, Default, c.Classify(10, t0))
	// back inside the committed zone: the candidate is discarded
	assert.Equal(t, Default, c.Classify(50, t0.Add(200*time.Millisecond)))
	// a fresh candidate starts its own full window
	assert.Equal(t, Default, c.Classify(10, t0.Add(300*time.Millisecond)))
	assert.Equal(t, Default, c.Classify(10, t0.Add(600*time.Millisecond)))
	assert.Equal(t, Curious, c.Classify(10, t0.Add(700*time.Millisecond)))
}

func TestClassifyIdempotent(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	at := commitMood(t, c, 25, t0)
	// repeating the same distance never moves the committed mood again
	for i := 1; i < 50; i++ {
		got := c.Classify(25, at.Add(time.Duration(i)*50*time.Millisecond))
		assert.Equal(t, Happy, got)
	}
}

func TestHoldKeepsCommittedMood(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	commitMood(t, c, 10, t0)
	// sensor dropout: no sample must not change the committed mood
	for i := 0; i < 10; i++ {
		assert.Equal(t, Curious, c.Hold())
	}
}

func TestNoFlickerAcrossBoundary(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	now := commitMood(t, c, 10, t0)

	// distance alternates 10 <-> 50 every 30ms, each raw mood held well
	// under the dwell: the committed mood must stay curious throughout,
	// no matter how long the alternation runs
	for i := 0; i < 60; i++ {
		now = now.Add(30 * time.Millisecond)
		d := 10.0
		if i%2 == 1 {
			d = 50.0
		}
		got := c.Classify(d, now)
		assert.Equal(t, Curious, got, "tick %d", i)
	}
}

func TestOverrideTakesEffectImmediately(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	at := commitMood(t, c, 10, t0)

	c.Override(Angry, at.Add(50*time.Millisecond))
	assert.Equal(t, Angry, c.Committed())

	// the sensor must persist for a fresh full window to win it back
	assert.Equal(t, Angry, c.Classify(10, at.Add(100*time.Millisecond)))
	assert.Equal(t, Angry, c.Classify(10, at.Add(400*time.Millisecond)))
	assert.Equal(t, Curious, c.Classify(10, at.Add(100*time.Millisecond+DefaultDwell)))
}

func TestOverrideDiscardsPendingCandidate(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// a curious candidate is almost through its window when the override
	// lands; the candidate must not commit on the next sample
	c.Classify(10, t0)
	c.Override(Angry, t0.Add(390*time.Millisecond))
	assert.Equal(t, Angry, c.Classify(10, t0.Add(410*time.Millisecond)))
}

func TestOverrideIgnoresInvalidMood(t *testing.T) {
	c := newTestClassifier(t)
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	commitMood(t, c, 10, t0)
	c.Override(Mood(99), t0)
	assert.Equal(t, Curious, c.Committed())
}
