// Package config loads the heapctl TOML configuration and turns it into a
// raw allocator and logger settings.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"

	"github.com/joshuapare/heapkit/heap/raw"
	"github.com/joshuapare/heapkit/internal/logger"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the on-disk configuration.
type Config struct {
	Arena  ArenaConfig  `toml:"arena"`
	Limits LimitsConfig `toml:"limits"`
	Log    LogConfig    `toml:"log"`
}

// ArenaConfig selects and sizes the raw arena.
type ArenaConfig struct {
	Backend  string `toml:"backend"`  // "heap" or "mmap"
	Capacity string `toml:"capacity"` // e.g. "64MiB"
	Span     string `toml:"span"`     // e.g. "64KiB"
	Base     uint64 `toml:"base"`
}

// LimitsConfig wraps the arena in a raw.Bounded when Budget is non-zero.
type LimitsConfig struct {
	Budget string `toml:"budget"`
}

// LogConfig configures internal/logger. Level "off" disables logging.
type LogConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"` // JSON log directory; empty logs text to stderr
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Arena: ArenaConfig{
			Backend:  "heap",
			Capacity: "64MiB",
			Span:     "64KiB",
			Base:     uint64(raw.DefaultBase),
		},
		Limits: LimitsConfig{Budget: "0"},
		Log:    LogConfig{Level: "off"},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field without building anything.
func (c Config) Validate() error {
	if _, err := c.ArenaOptions(); err != nil {
		return err
	}
	if _, err := c.Budget(); err != nil {
		return err
	}
	if _, err := c.LoggerOptions(); err != nil {
		return err
	}
	return nil
}

// ArenaOptions converts the [arena] table.
func (c Config) ArenaOptions() (raw.ArenaOptions, error) {
	src, err := raw.SourceFor(c.Arena.Backend)
	if err != nil {
		return raw.ArenaOptions{}, fmt.Errorf("%w: arena.backend: %w", ErrInvalid, err)
	}
	capacity, err := parseSize("arena.capacity", c.Arena.Capacity)
	if err != nil {
		return raw.ArenaOptions{}, err
	}
	span, err := parseSize("arena.span", c.Arena.Span)
	if err != nil {
		return raw.ArenaOptions{}, err
	}
	if c.Arena.Base%8 != 0 {
		return raw.ArenaOptions{}, fmt.Errorf("%w: arena.base 0x%x is not 8-byte aligned", ErrInvalid, c.Arena.Base)
	}
	return raw.ArenaOptions{
		Base:     raw.Addr(c.Arena.Base),
		Capacity: capacity,
		SpanSize: span,
		Source:   src,
	}, nil
}

// Budget returns the [limits] budget in bytes (0 = unlimited).
func (c Config) Budget() (uint64, error) {
	return parseSize("limits.budget", c.Limits.Budget)
}

// LoggerOptions converts the [log] table.
func (c Config) LoggerOptions() (logger.Options, error) {
	if strings.EqualFold(strings.TrimSpace(c.Log.Level), "off") {
		return logger.Options{Enabled: false}, nil
	}
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.Options{}, fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	return logger.Options{Enabled: true, LogDir: c.Log.Dir, Level: level}, nil
}

// Allocator builds the raw allocator the configuration describes, along with
// the arena underneath it. Closing the arena releases its spans.
func (c Config) Allocator() (raw.Allocator, *raw.Arena, error) {
	opts, err := c.ArenaOptions()
	if err != nil {
		return nil, nil, err
	}
	budget, err := c.Budget()
	if err != nil {
		return nil, nil, err
	}
	arena, err := raw.NewArena(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	logger.Debug("arena configured",
		"backend", c.Arena.Backend, "capacity", opts.Capacity, "span", opts.SpanSize,
		"base", opts.Base.String(), "budget", budget)

	if budget == 0 {
		return arena, arena, nil
	}
	return raw.NewBounded(arena, budget), arena, nil
}

// parseSize accepts "0", plain byte counts, and humanized sizes like "64KiB".
func parseSize(key, s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}
	return n, nil
}
