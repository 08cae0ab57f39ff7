// Package config loads snapguide settings from TOML.
//
// Settings are read from the file given with --config, otherwise from
// $XDG_CONFIG_HOME/snapguide/config.toml (~/.config/snapguide/config.toml).
// A missing default file is not an error; every field has a default.
//
// Example:
//
//	[canvas]
//	width = 640
//	height = 420
//
//	[snap]
//	distance = 6
//	release = 12
//	cooldown = "150ms"
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/drag"
	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/feedback"
)

const appName = "snapguide"

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the full configuration.
type Config struct {
	Canvas Canvas `toml:"canvas"`
	Box    Box    `toml:"box"`
	Snap   Snap   `toml:"snap"`
	Drag   Drag   `toml:"drag"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
}

// Canvas is the container the box is dragged in.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Box is the initial position and size of the dragged box.
type Box struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Snap tunes the snap filter and feedback player.
type Snap struct {
	Distance float64  `toml:"distance"`
	Release  float64  `toml:"release"`
	Cooldown Duration `toml:"cooldown"`
	Bell     bool     `toml:"bell"`
}

// Drag tunes pointer handling.
type Drag struct {
	Grid     bool    `toml:"grid"`
	GridStep float64 `toml:"grid_step"`
}

// Store selects where traces are kept.
type Store struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	RedisTTL      Duration `toml:"redis_ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration that decodes from strings like "150ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration: a 200x200 box near the top of
// a 640x420 canvas.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 640, Height: 420},
		Box:    Box{X: 180, Y: 10, Width: 200, Height: 200},
		Snap: Snap{
			Distance: feedback.DefaultSnapDistance,
			Release:  feedback.DefaultReleaseDistance,
			Cooldown: Duration{feedback.DefaultCooldown},
			Bell:     true,
		},
		Drag:   Drag{GridStep: drag.DefaultGridStep},
		Store:  Store{Backend: BackendFile},
		Server: Server{Addr: "127.0.0.1:8080"},
	}
}

// Load reads path over the defaults. An empty path uses DefaultPath and
// tolerates it being absent.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg and validates the result. Keys that are
// not part of the schema are rejected.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	if err := c.Bounds().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "canvas")
	}
	if err := c.BoxRect().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "box")
	}
	if c.Box.Width > c.Canvas.Width || c.Box.Height > c.Canvas.Height {
		return errors.New(errors.ErrCodeInvalidConfig, "box %gx%g does not fit canvas %gx%g",
			c.Box.Width, c.Box.Height, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Snap.Distance < 0 || c.Snap.Release < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "snap distances must not be negative")
	}
	if c.Snap.Cooldown.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "snap cooldown must not be negative")
	}
	if c.Drag.GridStep < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid step must not be negative")
	}
	switch c.Store.Backend {
	case BackendFile:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis backend needs store.redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// Bounds returns the canvas as a rectangle at the origin.
func (c *Config) Bounds() align.Rect {
	return align.NewRect(0, 0, c.Canvas.Width, c.Canvas.Height)
}

// BoxRect returns the initial box.
func (c *Config) BoxRect() align.Rect {
	return align.NewRect(c.Box.X, c.Box.Y, c.Box.Width, c.Box.Height)
}

// Filter builds the snap filter.
func (c *Config) Filter() *feedback.Filter {
	return feedback.NewFilter(c.Snap.Distance, c.Snap.Release)
}

// TraceDir returns the configured trace directory, or the XDG default.
func (c *Config) TraceDir() (string, error) {
	if c.Store.Dir != "" {
		return c.Store.Dir, nil
	}
	return DataDir("traces")
}

// DefaultPath returns $XDG_CONFIG_HOME/snapguide/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DataDir returns a directory under $XDG_DATA_HOME/snapguide.
func DataDir(sub string) (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName, sub), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, sub), nil
}
