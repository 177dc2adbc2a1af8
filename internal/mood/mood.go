// Package mood maps distance readings from the proximity sensor onto the
// closed set of display moods and debounces the result so the eyes do not
// flicker between moods near a zone boundary.
package mood

import "strings"

// Mood is a discrete emotional display state. The numeric values match the
// firmware-side animation API and must not be reordered.
type Mood int

const (
	Default Mood = iota
	Tired
	Angry
	Happy
	Frozen
	Scary
	Curious
	Sad
)

var moodNames = map[Mood]string{
	Default: "default",
	Tired:   "tired",
	Angry:   "angry",
	Happy:   "happy",
	Frozen:  "frozen",
	Scary:   "scary",
	Curious: "curious",
	Sad:     "sad",
}

func (m Mood) String() string {
	if name, ok := moodNames[m]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether m is one of the defined moods.
func (m Mood) Valid() bool {
	_, ok := moodNames[m]
	return ok
}

// Parse returns the mood named by s (case-insensitive). The second return
// value is false for unrecognised names.
func Parse(s string) (Mood, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range moodNames {
		if name == s {
			return m, true
		}
	}
	return Default, false
}
