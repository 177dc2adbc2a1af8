package eyes

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/roboeyes/internal/mood"
)

const frame = 16 * time.Millisecond

// quietConfig pushes the auto-behaviors far into the future so gesture
// tests are not disturbed by the idle blinker.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.BlinkInterval = time.Hour
	cfg.BlinkVariation = 0
	cfg.WinkInterval = time.Hour
	cfg.WinkVariation = 0
	return cfg
}

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg, rand.New(rand.NewSource(1)))
}

func TestBlinkProfile(t *testing.T) {
	e := newTestEngine(quietConfig())

	st := e.Tick(frame, mood.Default, GestureEvent(GestureBlink))
	assert.InDelta(t, 1.0, st.LeftOpen, 1e-9, "blink starts fully open")

	// halfway through the 120ms blink both lids are at the floor
	st = e.Tick(60*time.Millisecond, mood.Default, Event{})
	assert.InDelta(t, 0.05, st.LeftOpen, 0.01)
	assert.InDelta(t, 0.05, st.RightOpen, 0.01)

	// after the duration elapses the eyes reopen
	st = e.Tick(120*time.Millisecond, mood.Default, Event{})
	assert.InDelta(t, 1.0, st.LeftOpen, 1e-9)
	assert.InDelta(t, 1.0, st.RightOpen, 1e-9)
}

func TestWinkClosesOneEye(t *testing.T) {
	e := newTestEngine(quietConfig())

	e.Tick(frame, mood.Default, GestureEvent(GestureWinkLeft))
	st := e.Tick(150*time.Millisecond, mood.Default, Event{})

	assert.Less(t, st.LeftOpen, 0.5)
	assert.InDelta(t, 1.0, st.RightOpen, 1e-9)
}

func TestWinkDroppedDuringBlink(t *testing.T) {
	e := newTestEngine(quietConfig())

	e.Tick(frame, mood.Default, GestureEvent(GestureBlink))

	// wink-left arrives while the blink holds both eyelid slots: dropped
	e.Tick(frame, mood.Default, GestureEvent(GestureWinkLeft))

	// once the blink's 120ms elapse, both eyes reopen; had the wink been
	// accepted the left eye would stay closed for its 300ms duration
	st := e.Tick(120*time.Millisecond, mood.Default, Event{})
	assert.InDelta(t, 1.0, st.LeftOpen, 1e-9)
	assert.InDelta(t, 1.0, st.RightOpen, 1e-9)

	st = e.Tick(frame, mood.Default, Event{})
	assert.InDelta(t, 1.0, st.LeftOpen, 1e-9)
}

func TestWholeFacePreemptsBlink(t *testing.T) {
	e := newTestEngine(quietConfig())

	e.Tick(frame, mood.Default, GestureEvent(GestureBlink))
	st := e.Tick(60*time.Millisecond, mood.Default, GestureEvent(GestureLaugh))

	// the laugh clears the eyelid slots and bounces the face vertically
	assert.InDelta(t, 1.0, st.LeftOpen, 1e-9)
	assert.InDelta(t, 1.0, st.RightOpen, 1e-9)
	assert.NotZero(t, st.FaceDY)
	assert.Zero(t, st.FaceDX)
}

func TestSecondFaceGestureDropped(t *testing.T) {
	e := newTestEngine(quietConfig())

	e.Tick(frame, mood.Default, GestureEvent(GestureLaugh))

	// a confuse trigger mid-laugh is dropped, so once the laugh's 500ms
	// elapse no overlay remains
	e.Tick(400*time.Millisecond, mood.Default, GestureEvent(GestureConfuse))
	st := e.Tick(120*time.Millisecond, mood.Default, Event{})

	assert.Zero(t, st.FaceDX)
	assert.Zero(t, st.FaceDY)
}

func TestConfuseShakesHorizontally(t *testing.T) {
	e := newTestEngine(quietConfig())

	st := e.Tick(frame, mood.Default, GestureEvent(GestureConfuse))
	assert.NotZero(t, st.FaceDX)
	assert.Zero(t, st.FaceDY)

	// the jitter alternates sign on an 80ms period
	first := st.FaceDX
	st = e.Tick(80*time.Millisecond, mood.Default, Event{})
	assert.Equal(t, -first, st.FaceDX)
}

func TestFrozenForcesPartiallyClosed(t *testing.T) {
	e := newTestEngine(quietConfig())

	st := e.Tick(frame, mood.Frozen, Event{})
	assert.InDelta(t, 0.4, st.LeftOpen, 1e-9)
	assert.InDelta(t, 0.4, st.RightOpen, 1e-9)

	// even a blink cannot open a frozen eye past the fixed value
	e.Tick(frame, mood.Frozen, GestureEvent(GestureBlink))
	st = e.Tick(200*time.Millisecond, mood.Frozen, Event{})
	assert.InDelta(t, 0.4, st.LeftOpen, 1e-9)
}

func TestTiredDroop(t *testing.T) {
	e := newTestEngine(quietConfig())

	st := e.Tick(frame, mood.Tired, Event{})
	assert.InDelta(t, 0.5, st.LeftOpen, 1e-9)
	assert.InDelta(t, 0.5, st.RightOpen, 1e-9)
	assert.InDelta(t, 0.5, st.UpperLid, 1e-9)
}

func TestMoodGeometry(t *testing.T) {
	e := newTestEngine(quietConfig())

	st := e.Tick(frame, mood.Angry, Event{})
	assert.InDelta(t, 0.30, st.PupilScale, 1e-9)
	assert.InDelta(t, -1.0, st.BrowSlant, 1e-9)
	// angry narrows and centers: no idle drift
	assert.Zero(t, st.PupilDX)

	st = e.Tick(frame, mood.Curious, Event{})
	assert.InDelta(t, 0.48, st.PupilScale, 1e-9)

	st = e.Tick(frame, mood.Sad, Event{})
	assert.InDelta(t, 0.34, st.PupilScale, 1e-9)
	assert.Greater(t, st.PupilDY, 0.1)

	st = e.Tick(frame, mood.Happy, Event{})
	assert.InDelta(t, 0.5, st.LowerLid, 1e-9)
}

func TestIrisPaletteCoversAllMoods(t *testing.T) {
	for _, m := range []mood.Mood{mood.Default, mood.Tired, mood.Angry, mood.Happy, mood.Frozen, mood.Scary, mood.Curious, mood.Sad} {
		c := irisFor(m)
		assert.NotEqual(t, RGB{}, c, "mood %s has no iris color", m)
	}
}

func TestAutoBlinkFires(t *testing.T) {
	cfg := quietConfig()
	cfg.BlinkInterval = time.Second
	e := newTestEngine(cfg)

	blinked := false
	for i := 0; i < 100; i++ {
		st := e.Tick(frame, mood.Default, Event{})
		if st.LeftOpen < 0.9 && st.RightOpen < 0.9 {
			blinked = true
			break
		}
	}
	assert.True(t, blinked, "idle blink should fire within the interval")
}

func TestCuriousAutoWink(t *testing.T) {
	cfg := quietConfig()
	cfg.WinkInterval = 500 * time.Millisecond
	e := newTestEngine(cfg)

	winked := false
	for i := 0; i < 100; i++ {
		st := e.Tick(frame, mood.Curious, Event{})
		if st.LeftOpen < 0.9 && st.RightOpen > 0.9 {
			winked = true
			break
		}
	}
	assert.True(t, winked, "curious mood should wink occasionally")
}

func TestNoAutoWinkOutsideCurious(t *testing.T) {
	cfg := quietConfig()
	cfg.WinkInterval = 200 * time.Millisecond
	e := newTestEngine(cfg)

	for i := 0; i < 200; i++ {
		st := e.Tick(frame, mood.Default, Event{})
		require.InDelta(t, 1.0, st.LeftOpen, 1e-9, "tick %d", i)
	}
}

func TestSetMoodEventWins(t *testing.T) {
	e := newTestEngine(quietConfig())

	st := e.Tick(frame, mood.Curious, MoodEvent(mood.Angry))
	assert.Equal(t, "angry", st.Mood)
	assert.Equal(t, mood.Angry, e.Mood())
}

func TestUnknownEventIgnored(t *testing.T) {
	a := newTestEngine(quietConfig())
	b := newTestEngine(quietConfig())

	// identical seeds: an unknown event must leave the state untouched
	stA := a.Tick(frame, mood.Default, Event{Kind: EventKind(99)})
	stB := b.Tick(frame, mood.Default, Event{})

	if diff := cmp.Diff(stB, stA); diff != "" {
		t.Errorf("unknown event changed render state (-want +got):\n%s", diff)
	}
}

func TestScaryFlickerToggles(t *testing.T) {
	e := newTestEngine(quietConfig())

	seenOn, seenOff := false, false
	for i := 0; i < 40; i++ {
		st := e.Tick(frame, mood.Scary, Event{})
		if st.Flicker {
			seenOn = true
		} else {
			seenOff = true
		}
	}
	assert.True(t, seenOn)
	assert.True(t, seenOff)
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		want Event
		ok   bool
	}{
		{"angry", MoodEvent(mood.Angry), true},
		{"HAPPY", MoodEvent(mood.Happy), true},
		{"blink", GestureEvent(GestureBlink), true},
		{"wink-left", GestureEvent(GestureWinkLeft), true},
		{"wink-right", GestureEvent(GestureWinkRight), true},
		{"laugh", GestureEvent(GestureLaugh), true},
		{"confuse", GestureEvent(GestureConfuse), true},
		{"none", Event{}, true},
		{"shrug", Event{}, false},
		{"", Event{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseEvent(tt.name)
		assert.Equal(t, tt.ok, ok, "event %q", tt.name)
		assert.Equal(t, tt.want, got, "event %q", tt.name)
	}
}
