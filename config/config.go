// Package config handles toastd configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/toastd/anim"
	"github.com/jmylchreest/toastd/toast"
)

// Duration is a time.Duration that unmarshals from human-readable strings.
// Supports formats like "300ms", "2s", "1m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Integer milliseconds for backwards compatibility
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '300ms', '2s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Position represents a toast position on screen.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
	}
}

// Config is the toastd configuration, loaded from
// ~/.config/toastd/toastd.toml.
type Config struct {
	Display  DisplayConfig  `toml:"display"`
	Timing   TimingConfig   `toml:"timing"`
	Behavior BehaviorConfig `toml:"behavior"`
	Anim     AnimConfig     `toml:"anim"`
	Audio    AudioConfig    `toml:"audio"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	Position  string `toml:"position"`   // "bottom-center", "top-right", ...
	OffsetX   int    `toml:"offset_x"`   // Pixels from the screen edge
	OffsetY   int    `toml:"offset_y"`   // Pixels from the screen edge
	Width     int    `toml:"width"`      // Toast width in pixels
	MaxHeight int    `toml:"max_height"` // Maximum toast height
}

// TimingConfig contains the duration presets and transition length.
type TimingConfig struct {
	Short      Duration `toml:"short"`      // Short hold preset
	Long       Duration `toml:"long"`       // Long hold preset
	Transition Duration `toml:"transition"` // Enter/exit transition length
	Delay      Duration `toml:"delay"`      // Default delay before show
}

// BehaviorConfig contains scheduler switches.
type BehaviorConfig struct {
	Queueing        bool   `toml:"queueing"`         // false = latest-wins
	Announcements   bool   `toml:"announcements"`    // assistive announcements
	DefaultDuration string `toml:"default_duration"` // "short" or "long"
}

// AnimConfig selects the default enter/exit transition styles.
type AnimConfig struct {
	Enter string `toml:"enter"` // "fade", "slide-top", ..., "bounce"
	Exit  string `toml:"exit"`  // "fade", "slide-top", ..., "shrink"
}

// AudioConfig contains the optional presentation cue.
type AudioConfig struct {
	Enabled bool   `toml:"enabled"`
	Volume  int    `toml:"volume"` // 0-100
	Cue     string `toml:"cue"`    // Sound file played when a toast appears
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Position:  string(PositionBottomCenter),
			OffsetX:   0,
			OffsetY:   48,
			Width:     320,
			MaxHeight: 120,
		},
		Timing: TimingConfig{
			Short:      Duration(toast.DurationShort),
			Long:       Duration(toast.DurationLong),
			Transition: Duration(toast.DefaultTransition),
			Delay:      0,
		},
		Behavior: BehaviorConfig{
			Queueing:        true,
			Announcements:   true,
			DefaultDuration: "short",
		},
		Anim: AnimConfig{
			Enter: anim.StyleFade,
			Exit:  anim.StyleFade,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
			Cue:     "",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "toastd", "toastd.toml"), nil
}

// Load reads the configuration from path. An empty path uses the default
// location; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path atomically, creating parent
// directories as needed. An empty path uses the default location.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validPos := false
	for _, p := range ValidPositions() {
		if c.Display.Position == string(p) {
			validPos = true
			break
		}
	}
	if !validPos {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions())
	}

	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("width must be between 100 and 1000, got %d", c.Display.Width)
	}

	if c.Timing.Short.Duration() <= 0 || c.Timing.Long.Duration() <= 0 {
		return fmt.Errorf("duration presets must be positive")
	}
	if c.Timing.Transition.Duration() < 0 || c.Timing.Delay.Duration() < 0 {
		return fmt.Errorf("transition and delay must not be negative")
	}

	switch c.Behavior.DefaultDuration {
	case "short", "long":
	default:
		return fmt.Errorf("default_duration must be \"short\" or \"long\", got %q", c.Behavior.DefaultDuration)
	}

	if _, err := anim.ParseEnter(c.Anim.Enter); err != nil {
		return err
	}
	if _, err := anim.ParseExit(c.Anim.Exit); err != nil {
		return err
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	return nil
}

// HoldDuration returns the dwell time for the named preset, falling back to
// the short preset for unknown names.
func (c *Config) HoldDuration(preset string) time.Duration {
	if preset == "long" {
		return c.Timing.Long.Duration()
	}
	return c.Timing.Short.Duration()
}

// DefaultHold returns the configured default dwell time.
func (c *Config) DefaultHold() time.Duration {
	return c.HoldDuration(c.Behavior.DefaultDuration)
}
