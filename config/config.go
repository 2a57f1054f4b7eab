// Package config loads the richplay runtime configuration from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/rich-engine/engine"
	"github.com/lixenwraith/rich-engine/sound"
)

// ErrInvalid is returned by Validate for out-of-range settings
var ErrInvalid = errors.New("invalid configuration")

// Display backends
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Config is the full runtime configuration
type Config struct {
	Width         int      `toml:"width"`
	Height        int      `toml:"height"`
	Backend       string   `toml:"backend"`
	FrameInterval Duration `toml:"frame_interval"`

	Debug  bool   `toml:"debug"`
	LogDir string `toml:"log_dir"`

	Sound  sound.Config `toml:"sound"`
	Script Script       `toml:"script"`
}

// Script selects the Lua game
type Script struct {
	Path      string `toml:"path"`
	HotReload bool   `toml:"hot_reload"`
}

// Duration reads TOML strings like "16ms"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Width:         engine.DefaultWidth,
		Height:        engine.DefaultHeight,
		Backend:       BackendANSI,
		FrameInterval: Duration{16 * time.Millisecond},
		LogDir:        "logs",
		Sound:         sound.DefaultConfig(),
	}
}

// Load reads path over the defaults and validates the result.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Read is Load without validation, for callers that apply overrides
// (command line flags) before calling Validate themselves.
func Read(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := Parse(path, data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML into cfg, keeping values absent from data.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Parse(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return newParseError(source, err)
	}
	return nil
}

// Validate checks ranges and names
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalid, c.Width, c.Height)
	}
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	if c.FrameInterval.Duration < 0 {
		return fmt.Errorf("%w: negative frame interval %v", ErrInvalid, c.FrameInterval.Duration)
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return fmt.Errorf("%w: sound volume %.2f outside [0,1]", ErrInvalid, c.Sound.Volume)
	}
	if c.Sound.Enabled && c.Sound.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d must be positive", ErrInvalid, c.Sound.SampleRate)
	}
	if c.Script.HotReload && c.Script.Path == "" {
		return fmt.Errorf("%w: hot reload needs a script path", ErrInvalid)
	}
	return nil
}

// ParseError represents an error while parsing a configuration file
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
