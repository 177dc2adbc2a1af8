// Package config loads the runtime configuration: the distance zone table,
// classifier dwell, frame rate, sensor channel, and animation timing. The
// schema uses pointer fields so partial JSON files are safe; omitted fields
// fall back to the Get* defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/roboeyes/internal/eyes"
	"github.com/banshee-data/roboeyes/internal/mood"
	"github.com/banshee-data/roboeyes/internal/serialmux"
)

// ZoneConfig is one entry of the distance-to-mood table as it appears in
// the JSON file.
type ZoneConfig struct {
	UpperCM float64 `json:"upper_cm"`
	Mood    string  `json:"mood"`
}

// Config is the root runtime configuration.
type Config struct {
	// Classifier params
	ZoneBoundaries []ZoneConfig `json:"zone_boundaries,omitempty"`
	DwellMS        *int         `json:"dwell_ms,omitempty"`

	// Frame loop params
	FrameRate *int `json:"frame_rate,omitempty"`

	// Sensor channel params
	ChannelID        *string                `json:"channel_id,omitempty"`
	Serial           *serialmux.PortOptions `json:"serial,omitempty"`
	GraceMS          *int                   `json:"grace_ms,omitempty"`
	SampleIntervalMS *int                   `json:"sample_interval_ms,omitempty"`

	// Animation timing params
	BlinkIntervalMS  *int `json:"blink_interval_ms,omitempty"`
	BlinkVariationMS *int `json:"blink_variation_ms,omitempty"`
	WinkIntervalMS   *int `json:"wink_interval_ms,omitempty"`
	WinkVariationMS  *int `json:"wink_variation_ms,omitempty"`
	BlinkDurationMS  *int `json:"blink_duration_ms,omitempty"`
	WinkDurationMS   *int `json:"wink_duration_ms,omitempty"`
	FaceDurationMS   *int `json:"face_duration_ms,omitempty"`
}

// Default returns a Config with all fields unset, so every accessor yields
// its default.
func Default() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file and validates it. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration. An ill-formed zone table makes
// classification undefined and must be rejected at startup; everything else
// falls back to defaults rather than failing.
func (c *Config) Validate() error {
	if _, err := c.ZoneTable(); err != nil {
		return err
	}
	if c.DwellMS != nil && *c.DwellMS <= 0 {
		return fmt.Errorf("dwell_ms must be positive, got %d", *c.DwellMS)
	}
	if c.FrameRate != nil && (*c.FrameRate < 1 || *c.FrameRate > 240) {
		return fmt.Errorf("frame_rate must be between 1 and 240, got %d", *c.FrameRate)
	}
	if c.Serial != nil {
		if _, err := c.Serial.Normalize(); err != nil {
			return err
		}
	}
	return nil
}

// ZoneTable resolves the configured boundaries into a validated mood table.
// An empty configuration yields the stock table.
func (c *Config) ZoneTable() (mood.Table, error) {
	if len(c.ZoneBoundaries) == 0 {
		return mood.DefaultTable(), nil
	}
	table := make(mood.Table, 0, len(c.ZoneBoundaries))
	for i, z := range c.ZoneBoundaries {
		m, ok := mood.Parse(z.Mood)
		if !ok {
			return nil, fmt.Errorf("zone %d: unknown mood %q", i, z.Mood)
		}
		table = append(table, mood.Zone{UpperCM: z.UpperCM, Mood: m})
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func (c *Config) millis(p *int, def time.Duration) time.Duration {
	if p == nil {
		return def
	}
	return time.Duration(*p) * time.Millisecond
}

// GetDwell returns the classifier dwell window.
func (c *Config) GetDwell() time.Duration {
	return c.millis(c.DwellMS, mood.DefaultDwell)
}

// GetFrameRate returns the target frames per second.
func (c *Config) GetFrameRate() int {
	if c.FrameRate == nil {
		return 60
	}
	return *c.FrameRate
}

// FrameInterval returns the frame duration for the configured rate.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.GetFrameRate())
}

// GetChannelID returns the serial device path for the distance sensor.
func (c *Config) GetChannelID() string {
	if c.ChannelID == nil {
		return "/dev/ttyUSB0"
	}
	return *c.ChannelID
}

// GetSerial returns the serial port options.
func (c *Config) GetSerial() serialmux.PortOptions {
	if c.Serial == nil {
		return serialmux.PortOptions{}
	}
	return *c.Serial
}

// GetGrace returns how long the stream may go silent before simulation
// takes over.
func (c *Config) GetGrace() time.Duration {
	return c.millis(c.GraceMS, 2*time.Second)
}

// GetSampleInterval returns the nominal sensor sampling cadence.
func (c *Config) GetSampleInterval() time.Duration {
	return c.millis(c.SampleIntervalMS, 50*time.Millisecond)
}

// EyesConfig resolves the animation timing into an engine config.
func (c *Config) EyesConfig() eyes.Config {
	def := eyes.DefaultConfig()
	return eyes.Config{
		BlinkInterval:  c.millis(c.BlinkIntervalMS, def.BlinkInterval),
		BlinkVariation: c.millis(c.BlinkVariationMS, def.BlinkVariation),
		WinkInterval:   c.millis(c.WinkIntervalMS, def.WinkInterval),
		WinkVariation:  c.millis(c.WinkVariationMS, def.WinkVariation),
		BlinkDuration:  c.millis(c.BlinkDurationMS, def.BlinkDuration),
		WinkDuration:   c.millis(c.WinkDurationMS, def.WinkDuration),
		FaceDuration:   c.millis(c.FaceDurationMS, def.FaceDuration),
	}
}
