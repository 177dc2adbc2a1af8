package mood

import "fmt"

// Zone maps a contiguous distance range to a mood. A zone covers all
// distances up to and including UpperCM that are not claimed by an earlier
// zone in the table.
type Zone struct {
	UpperCM float64
	Mood    Mood
}

// Table is an ordered set of zones with strictly increasing upper bounds.
// Distances beyond the last bound classify as the last zone's mood, so every
// non-negative distance maps to exactly one mood.
type Table []Zone

// DefaultTable reproduces the stock proximity thresholds: a hand very close
// makes the eyes curious, moderate proximity happy, some distance default,
// and anything further away tired.
func DefaultTable() Table {
	return Table{
		{UpperCM: 15, Mood: Curious},
		{UpperCM: 35, Mood: Happy},
		{UpperCM: 60, Mood: Default},
		{UpperCM: 400, Mood: Tired},
	}
}

// Validate rejects tables that would make classification ill-defined. This
// is the one configuration error that must be fatal at startup.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("zone table must contain at least one zone")
	}
	prev := 0.0
	for i, z := range t {
		if z.UpperCM <= prev {
			return fmt.Errorf("zone %d: upper bound %.1fcm must be greater than %.1fcm", i, z.UpperCM, prev)
		}
		if !z.Mood.Valid() {
			return fmt.Errorf("zone %d: invalid mood %d", i, z.Mood)
		}
		prev = z.UpperCM
	}
	return nil
}

// Lookup returns the mood for the first zone whose upper bound is at or
// above the given distance. Distances beyond the last bound map to the last
// zone's mood.
func (t Table) Lookup(distanceCM float64) Mood {
	for _, z := range t {
		if distanceCM <= z.UpperCM {
			return z.Mood
		}
	}
	return t[len(t)-1].Mood
}
