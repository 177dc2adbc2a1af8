package sensor

import (
	"math"
	"strconv"
	"strings"
)

// linePrefix is the sensor firmware's distance report prefix. Anything else
// on the wire (the one-time ready banner, line noise) is discarded.
const linePrefix = "DIST:"

// ParseLine extracts a distance in centimeters from one serial line. The
// second return value is false for malformed or non-distance lines; those
// are expected on a serial link and never surfaced as errors.
func ParseLine(line string) (float64, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, linePrefix) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line[len(linePrefix):]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
