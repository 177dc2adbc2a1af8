// Package eyes advances the procedural eye animation: the committed mood,
// transient gesture overlays, and the per-frame render state. Everything is
// driven by an internal animation clock advanced once per frame; the engine
// never blocks and never fails externally.
package eyes

import (
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"

	"github.com/banshee-data/roboeyes/internal/mood"
)

// Config holds the gesture and auto-behavior timing. All durations are
// injected so nothing here is a hard-coded constant.
type Config struct {
	// Idle blink: base interval plus a random jitter up to the variation.
	BlinkInterval  time.Duration
	BlinkVariation time.Duration

	// Occasional wink while curious, on its own slower schedule.
	WinkInterval  time.Duration
	WinkVariation time.Duration

	// Fixed gesture durations.
	BlinkDuration time.Duration
	WinkDuration  time.Duration
	FaceDuration  time.Duration
}

// DefaultConfig returns the stock timing: autoblinker 3s+2s jitter, wink
// 8s+4s, blink 120ms, wink 300ms, laugh/confuse 500ms.
func DefaultConfig() Config {
	return Config{
		BlinkInterval:  3 * time.Second,
		BlinkVariation: 2 * time.Second,
		WinkInterval:   8 * time.Second,
		WinkVariation:  4 * time.Second,
		BlinkDuration:  120 * time.Millisecond,
		WinkDuration:   300 * time.Millisecond,
		FaceDuration:   500 * time.Millisecond,
	}
}

// lidSlot holds one eyelid gesture in flight. A blink occupies both slots,
// a wink one.
type lidSlot struct {
	gesture  Gesture
	start    time.Duration
	duration time.Duration
}

func (s lidSlot) active(now time.Duration) bool {
	return s.gesture != GestureNone && now-s.start < s.duration
}

// faceSlot holds the single whole-face overlay (laugh or confuse).
type faceSlot struct {
	gesture Gesture
	start   time.Duration
}

// Engine is the animation state machine. Not safe for concurrent use; the
// frame loop is its only caller.
type Engine struct {
	cfg   Config
	rng   *rand.Rand
	drift *perlin.Perlin

	now  time.Duration
	mood mood.Mood

	left  lidSlot
	right lidSlot
	face  faceSlot

	nextBlink time.Duration
	nextWink  time.Duration
}

// NewEngine creates an engine with the given timing. A nil rng falls back
// to a time-seeded source; tests inject a fixed seed for determinism.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:   cfg,
		rng:   rng,
		drift: perlin.NewPerlin(2, 2, 3, rng.Int63()),
		mood:  mood.Default,
	}
	e.nextBlink = cfg.BlinkInterval + e.jitter(cfg.BlinkVariation)
	e.nextWink = cfg.WinkInterval + e.jitter(cfg.WinkVariation)
	return e
}

// Mood returns the mood the engine rendered last tick.
func (e *Engine) Mood() mood.Mood {
	return e.mood
}

// Tick advances the animation clock by elapsed, applies the manual event,
// runs the auto-behaviors, and returns the frame's render state. Invoked
// once per rendered frame.
func (e *Engine) Tick(elapsed time.Duration, moodIn mood.Mood, ev Event) RenderState {
	e.now += elapsed
	if moodIn.Valid() {
		e.mood = moodIn
	}

	e.expire()
	e.apply(ev)
	e.autoBehaviors()

	return e.render()
}

func (e *Engine) jitter(variation time.Duration) time.Duration {
	if variation <= 0 {
		return 0
	}
	return time.Duration(e.rng.Int63n(int64(variation) + 1))
}

// expire clears finished overlays before this tick's triggers are applied.
func (e *Engine) expire() {
	if e.left.gesture != GestureNone && !e.left.active(e.now) {
		e.left = lidSlot{}
	}
	if e.right.gesture != GestureNone && !e.right.active(e.now) {
		e.right = lidSlot{}
	}
	if e.face.gesture != GestureNone && e.now-e.face.start >= e.cfg.FaceDuration {
		e.face = faceSlot{}
	}
}

func (e *Engine) apply(ev Event) {
	switch ev.Kind {
	case EventNone:
		// nothing to do
	case EventSetMood:
		// the dispatcher also resets the classifier's dwell clock; here the
		// override just becomes this frame's mood
		if ev.Mood.Valid() {
			e.mood = ev.Mood
		}
	case EventGesture:
		e.trigger(ev.Gesture)
	}
}

// trigger starts a gesture if its slot is free, otherwise drops it. A
// gesture in progress is never interrupted by another of the same class.
func (e *Engine) trigger(g Gesture) {
	faceBusy := e.face.gesture != GestureNone
	switch g {
	case GestureNone:
		// explicit no-op
	case GestureBlink:
		if faceBusy || e.left.active(e.now) || e.right.active(e.now) {
			return
		}
		e.left = lidSlot{gesture: GestureBlink, start: e.now, duration: e.cfg.BlinkDuration}
		e.right = lidSlot{gesture: GestureBlink, start: e.now, duration: e.cfg.BlinkDuration}
	case GestureWinkLeft:
		if faceBusy || e.left.active(e.now) {
			return
		}
		e.left = lidSlot{gesture: GestureWinkLeft, start: e.now, duration: e.cfg.WinkDuration}
	case GestureWinkRight:
		if faceBusy || e.right.active(e.now) {
			return
		}
		e.right = lidSlot{gesture: GestureWinkRight, start: e.now, duration: e.cfg.WinkDuration}
	case GestureLaugh, GestureConfuse:
		if faceBusy {
			return
		}
		// whole-face overlays preempt any eyelid gesture in progress
		e.left = lidSlot{}
		e.right = lidSlot{}
		e.face = faceSlot{gesture: g, start: e.now}
	}
}

func (e *Engine) autoBehaviors() {
	faceBusy := e.face.gesture != GestureNone

	// idle blink when nothing else is animating the lids
	if e.now >= e.nextBlink {
		if !faceBusy && !e.left.active(e.now) && !e.right.active(e.now) {
			e.trigger(GestureBlink)
		}
		e.nextBlink = e.now + e.cfg.BlinkInterval + e.jitter(e.cfg.BlinkVariation)
	}

	// curious mood: an occasional extra wink on its own slower schedule
	if e.now >= e.nextWink {
		if e.mood == mood.Curious && !faceBusy && !e.left.active(e.now) {
			e.trigger(GestureWinkLeft)
		}
		e.nextWink = e.now + e.cfg.WinkInterval + e.jitter(e.cfg.WinkVariation)
	}
}

// lidOpenness returns the eyelid openness for one slot: a sin profile that
// closes and reopens over the gesture duration, with a small floor so the
// eye never vanishes entirely mid-blink.
func (e *Engine) lidOpenness(s lidSlot) float64 {
	if !s.active(e.now) {
		return 1
	}
	p := float64(e.now-s.start) / float64(s.duration)
	phase := math.Sin(p * math.Pi)
	return math.Max(0.05, 1-phase)
}

func (e *Engine) render() RenderState {
	st := RenderState{
		Mood:       e.mood.String(),
		LeftOpen:   e.lidOpenness(e.left),
		RightOpen:  e.lidOpenness(e.right),
		PupilScale: pupilScaleFor(e.mood),
		Iris:       irisFor(e.mood),
	}

	t := e.now.Seconds()

	switch e.mood {
	case mood.Frozen:
		// frozen stare: lids pinned partially closed regardless of gestures
		st.LeftOpen = 0.4
		st.RightOpen = 0.4
	case mood.Tired:
		st.LeftOpen = math.Min(st.LeftOpen, 0.5)
		st.RightOpen = math.Min(st.RightOpen, 0.5)
		st.UpperLid = 0.5
		st.PupilDY = 0.10
	case mood.Sad:
		st.LeftOpen = math.Min(st.LeftOpen, 0.6)
		st.RightOpen = math.Min(st.RightOpen, 0.6)
		st.UpperLid = 0.4
		st.PupilDY = 0.18
	case mood.Angry:
		st.UpperLid = 0.5
		st.BrowSlant = -1
	case mood.Happy:
		st.LowerLid = 0.5
	case mood.Scary, mood.Curious, mood.Default:
		// pupil scale and palette carry these
	}

	// idle micro-drift of the pupil; cosmetic only, never touches the mood.
	// Angry stays narrowed and centered.
	if e.mood != mood.Angry {
		st.PupilDX += 0.04 * e.drift.Noise1D(t*0.8)
		st.PupilDY += 0.04 * e.drift.Noise1D(t*0.8+100)
	}

	// whole-face overlays: alternate jitter sign on an 80ms period
	if e.face.gesture != GestureNone {
		sign := 1.0
		if (e.now/(80*time.Millisecond))%2 == 1 {
			sign = -1.0
		}
		switch e.face.gesture {
		case GestureConfuse:
			st.FaceDX = 20 * sign
		case GestureLaugh:
			st.FaceDY = 15 * sign
		}
	}

	// frozen/scary outline flicker on a 150ms period
	if e.mood == mood.Frozen || e.mood == mood.Scary {
		st.Flicker = (e.now/(150*time.Millisecond))%2 == 0
	}

	return st
}
