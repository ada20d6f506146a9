package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "gmailspace.toml"

// Limits applied by Validate.
const (
	MaxPageSize = 10000
	MaxWorkers  = 1024
)

type Config struct {
	Server Server `toml:"server"`
	Page   Page   `toml:"page"`
	Log    Log    `toml:"log"`
}

type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type Page struct {
	DefaultSize int `toml:"default_size"` // entries returned when no size is requested
	MaxSize     int `toml:"max_size"`     // larger requests are clipped
	Workers     int `toml:"workers"`      // decode goroutines per page, 0 = GOMAXPROCS
}

type Log struct {
	Level       string `toml:"level"` // debug, info, warn, error
	Development bool   `toml:"development"`
	Encoding    string `toml:"encoding"` // json or console
}

// Duration is a time.Duration that reads and writes as a string like "5s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            "127.0.0.1:8039",
			ReadTimeout:     Duration(5 * time.Second),
			WriteTimeout:    Duration(10 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Page: Page{
			DefaultSize: 100,
			MaxSize:     1000,
			Workers:     runtime.NumCPU(),
		},
		Log: Log{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error: the defaults are returned as is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result. Keys absent
// from data keep their current values; unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return err
	}
	return cfg.Validate()
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, &FieldError{Field: "server.addr", Value: "", Reason: "must not be empty"})
	}
	for _, f := range []struct {
		name string
		d    Duration
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
	} {
		if f.d < 0 {
			errs = append(errs, &FieldError{Field: f.name, Value: f.d.Std().String(), Reason: "must not be negative"})
		}
	}

	if c.Page.MaxSize < 1 || c.Page.MaxSize > MaxPageSize {
		errs = append(errs, &FieldError{Field: "page.max_size", Value: fmt.Sprint(c.Page.MaxSize), Reason: fmt.Sprintf("must be in [1, %d]", MaxPageSize)})
	}
	if c.Page.DefaultSize < 1 || c.Page.DefaultSize > c.Page.MaxSize {
		errs = append(errs, &FieldError{Field: "page.default_size", Value: fmt.Sprint(c.Page.DefaultSize), Reason: "must be in [1, page.max_size]"})
	}
	if c.Page.Workers < 0 || c.Page.Workers > MaxWorkers {
		errs = append(errs, &FieldError{Field: "page.workers", Value: fmt.Sprint(c.Page.Workers), Reason: fmt.Sprintf("must be in [0, %d]", MaxWorkers)})
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &FieldError{Field: "log.level", Value: c.Log.Level, Reason: "must be debug, info, warn or error"})
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		errs = append(errs, &FieldError{Field: "log.encoding", Value: c.Log.Encoding, Reason: "must be json or console"})
	}

	return errors.Join(errs...)
}

// FieldError reports an invalid configuration value.
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config error for field %s (value %q): %s", e.Field, e.Value, e.Reason)
}
