// Package audio provides optional presentation-cue playback: a short sound
// played when a toast appears.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/jmylchreest/toastd/config"
)

// Player plays toast presentation cues. It owns the cue policy from the
// audio config section: which file to play, whether cues are enabled, and
// at what volume. Sounds are decoded once and cached.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	enabled bool
	cue     string

	// Volume control (0.0 to 1.0)
	volume float64

	initialized bool
	sampleRate  beep.SampleRate

	cacheMu sync.RWMutex
	cache   map[string]*beep.Buffer
}

// NewPlayer creates a new cue player.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
		cache:      make(map[string]*beep.Buffer),
	}
}

// Apply installs the cue policy from the audio config section. Safe to call
// again on config reload.
func (p *Player) Apply(cfg config.AudioConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enabled = cfg.Enabled
	p.cue = cfg.Cue
	p.volume = clampVolume(float64(cfg.Volume) / 100)
}

// Enabled reports whether a presentation cue is configured and enabled.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled && p.cue != ""
}

// Cue plays the configured presentation cue. A no-op when cues are disabled
// or no cue file is set. Decoding and speaker setup can block; call off the
// UI-owning context.
func (p *Player) Cue() error {
	p.mu.Lock()
	enabled := p.enabled
	cue := p.cue
	p.mu.Unlock()

	if !enabled || cue == "" {
		return nil
	}
	return p.Play(cue)
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(volume)
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play plays a cue file. Supports WAV, OGG, and MP3. Decoding and speaker
// setup can block; call off the UI-owning context.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	p.cacheMu.RLock()
	buffer, ok := p.cache[path]
	p.cacheMu.RUnlock()

	if !ok {
		var err error
		buffer, err = p.loadSound(path)
		if err != nil {
			p.logger.Warn("failed to load cue", "path", path, "error", err)
			return err
		}

		p.cacheMu.Lock()
		p.cache[path] = buffer
		p.cacheMu.Unlock()
	}

	return p.playBuffer(buffer)
}

// loadSound loads and decodes a sound file into a buffer.
func (p *Player) loadSound(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cue file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(path))

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode cue: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	if err := p.ensureInitialized(format.SampleRate); err != nil {
		return nil, err
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// ensureInitialized initializes the speaker if not already done.
func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	bufferSize := sampleRate.N(time.Millisecond * 100)
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

// playBuffer plays a buffered sound at the configured volume.
func (p *Player) playBuffer(buffer *beep.Buffer) error {
	if buffer == nil {
		return nil
	}

	p.mu.Lock()
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())

	if buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, sampleRate, streamer)
	}

	if volume < 1 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   math.Log2(math.Max(volume, 0.001)),
			Silent:   volume == 0,
		}
	}

	speaker.Play(streamer)
	return nil
}
