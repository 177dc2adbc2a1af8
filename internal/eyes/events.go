package eyes

import (
	"strings"

	"github.com/banshee-data/roboeyes/internal/mood"
)

// Gesture identifies a transient, time-bounded animation layered on top of
// the base mood.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureBlink
	GestureWinkLeft
	GestureWinkRight
	GestureLaugh
	GestureConfuse
)

var gestureNames = map[Gesture]string{
	GestureNone:      "none",
	GestureBlink:     "blink",
	GestureWinkLeft:  "wink-left",
	GestureWinkRight: "wink-right",
	GestureLaugh:     "laugh",
	GestureConfuse:   "confuse",
}

func (g Gesture) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return "unknown"
}

// EventKind tags the closed set of manual control events.
type EventKind int

const (
	EventNone EventKind = iota
	EventSetMood
	EventGesture
)

// Event is one manual control input: a mood select, a gesture trigger, or
// nothing. The zero value is the no-op event.
type Event struct {
	Kind    EventKind
	Mood    mood.Mood
	Gesture Gesture
}

// MoodEvent builds a mood-select event.
func MoodEvent(m mood.Mood) Event {
	return Event{Kind: EventSetMood, Mood: m}
}

// GestureEvent builds a gesture trigger event.
func GestureEvent(g Gesture) Event {
	return Event{Kind: EventGesture, Gesture: g}
}

// ParseEvent maps a named control event to its Event value. Recognised
// names are the eight mood names plus the gesture and utility names. The
// second return value is false for anything else; invalid events are
// ignored by the engine, never surfaced as errors.
func ParseEvent(name string) (Event, bool) {
	name = strings.ToLower(strings.TrimSpace(name))

	if m, ok := mood.Parse(name); ok {
		return MoodEvent(m), true
	}
	for g, n := range gestureNames {
		if n != name {
			continue
		}
		if g == GestureNone {
			return Event{}, true
		}
		return GestureEvent(g), true
	}
	return Event{}, false
}
