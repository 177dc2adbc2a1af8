package eyes

import "github.com/banshee-data/roboeyes/internal/mood"

// RGB is an 8-bit color triple for the renderer's iris palette.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RenderState is the per-frame snapshot handed to the drawing surface. It
// is recomputed every tick and never persisted.
type RenderState struct {
	Mood string `json:"mood"`

	// Eyelid openness per eye, 0 (closed) to 1 (fully open).
	LeftOpen  float64 `json:"left_open"`
	RightOpen float64 `json:"right_open"`

	// Pupil geometry: scale relative to the iris, offset in eye-widths.
	PupilScale float64 `json:"pupil_scale"`
	PupilDX    float64 `json:"pupil_dx"`
	PupilDY    float64 `json:"pupil_dy"`

	// Mood-driven lid shapes: fraction of the eye covered from the top
	// (tired/sad droop, angry slant base) and from the bottom (happy
	// squint). BrowSlant tilts the upper lid, negative towards the nose.
	UpperLid  float64 `json:"upper_lid"`
	LowerLid  float64 `json:"lower_lid"`
	BrowSlant float64 `json:"brow_slant"`

	// Whole-face jitter offsets in pixels: confuse shakes horizontally,
	// laugh bounces vertically.
	FaceDX float64 `json:"face_dx"`
	FaceDY float64 `json:"face_dy"`

	// Iris color for the renderer's pastel palette.
	Iris RGB `json:"iris"`

	// Flicker toggles on a 150ms period for the frozen/scary outline
	// effect.
	Flicker bool `json:"flicker"`
}

// irisPalette is the per-mood pastel palette from the original display
// code.
var irisPalette = map[mood.Mood]RGB{
	mood.Happy:   {255, 170, 205},
	mood.Curious: {150, 210, 255},
	mood.Tired:   {150, 160, 170},
	mood.Angry:   {255, 110, 110},
	mood.Scary:   {140, 255, 170},
	mood.Frozen:  {185, 240, 255},
	mood.Sad:     {145, 175, 235},
	mood.Default: {165, 245, 230},
}

// pupilScale is the per-mood pupil size relative to the iris.
var pupilScale = map[mood.Mood]float64{
	mood.Curious: 0.48,
	mood.Scary:   0.50,
	mood.Angry:   0.30,
	mood.Tired:   0.32,
	mood.Sad:     0.34,
}

const defaultPupilScale = 0.38

func irisFor(m mood.Mood) RGB {
	if c, ok := irisPalette[m]; ok {
		return c
	}
	return irisPalette[mood.Default]
}

func pupilScaleFor(m mood.Mood) float64 {
	if s, ok := pupilScale[m]; ok {
		return s
	}
	return defaultPupilScale
}
