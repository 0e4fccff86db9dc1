// Package config loads the TOML configuration used by txtmesh host
// programs. Values missing from the file keep their [Default] value.
package config

import "os"
import "fmt"
import "math"
import "errors"
import "strings"
import "log/slog"

import "github.com/BurntSushi/toml"

import "github.com/tinne26/txtmesh"

// Returned by [Config.Validate]() and [Load]() for out of range values.
var ErrInvalid = errors.New("config: invalid value")

// Returned by [Load]() when the file has keys that don't map to any
// configuration field.
var ErrUnknownKeys = errors.New("config: unknown keys")

type Config struct {
	Cache   Cache   `toml:"cache"`
	Fonts   Fonts   `toml:"fonts"`
	Mesh    Mesh    `toml:"mesh"`
	Window  Window  `toml:"window"`
	Scene   Scene   `toml:"scene"`
	Metrics Metrics `toml:"metrics"`
	Log     Log     `toml:"log"`
}

type Cache struct {
	Capacity int `toml:"capacity"`
}

type Fonts struct {
	Dir     string `toml:"dir"`     // .ttf and .otf files, non-recursive
	Default string `toml:"default"` // font name, empty for the first one
	GoFonts bool   `toml:"go_fonts"`
}

type Mesh struct {
	UnitsPerPixel float64 `toml:"units_per_pixel"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type Scene struct {
	Amount     int     `toml:"amount"`
	TextSize   float64 `toml:"text_size"`
	Spacing    float64 `toml:"spacing"`
	BobHeight  float64 `toml:"bob_height"`
	BobSpeed   float64 `toml:"bob_speed"`
	Pivot      string  `toml:"pivot"`
	CycleFonts bool    `toml:"cycle_fonts"`
}

type Metrics struct {
	Addr string `toml:"addr"` // empty disables the metrics endpoint
}

type Log struct {
	Level string `toml:"level"`
}

// Returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Cache: Cache{ Capacity: txtmesh.DefaultCacheCapacity },
		Fonts: Fonts{ GoFonts: true },
		Mesh: Mesh{ UnitsPerPixel: 0.1 },
		Window: Window{ Width: 960, Height: 540, Title: "txtmesh demo" },
		Scene: Scene{
			Amount: 17, TextSize: 10, Spacing: 1.5,
			BobHeight: 0.25, BobSpeed: 2, Pivot: "center", CycleFonts: true,
		},
		Log: Log{ Level: "info" },
	}
}

// Reads the TOML file at the given path on top of [Default]() and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil { return nil, err }

	cfg := Default()
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil { return nil, fmt.Errorf("config: decoding %s: %w", path, err) }
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded { keys = append(keys, key.String()) }
		return nil, fmt.Errorf("%w in %s: %s", ErrUnknownKeys, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil { return nil, err }
	return &cfg, nil
}

// Checks that all values are within range. All the problems found
// are reported together.
func (self *Config) Validate() error {
	var errs []error
	var invalid = func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: " + format, append([]any{ErrInvalid}, args...)...))
	}

	if self.Cache.Capacity <= 0 { invalid("cache.capacity must be positive, got %d", self.Cache.Capacity) }
	if !self.Fonts.GoFonts && self.Fonts.Dir == "" {
		invalid("fonts.dir is required when fonts.go_fonts is disabled")
	}
	if !isPositive(float64(float32(self.Mesh.UnitsPerPixel))) {
		invalid("mesh.units_per_pixel must be positive, got %v", self.Mesh.UnitsPerPixel)
	}
	if self.Window.Width <= 0 || self.Window.Height <= 0 {
		invalid("window size must be positive, got %dx%d", self.Window.Width, self.Window.Height)
	}
	if self.Scene.Amount < 0 { invalid("scene.amount can't be negative, got %d", self.Scene.Amount) }
	if !isPositive(self.Scene.TextSize) { invalid("scene.text_size must be positive, got %v", self.Scene.TextSize) }
	if !isPositive(self.Scene.Spacing) { invalid("scene.spacing must be positive, got %v", self.Scene.Spacing) }
	if _, err := txtmesh.ParsePivot(self.Scene.Pivot); err != nil {
		invalid("scene.pivot: %v", err)
	}
	if _, err := self.LogLevel(); err != nil { invalid("log.level: %v", err) }
	return errors.Join(errs...)
}

// Returns the parsed log level ("debug", "info", "warn", "error",
// optionally with an offset like "info+2").
func (self *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(self.Log.Level))
	return level, err
}

// Returns the parsed scene pivot.
func (self *Config) ScenePivot() txtmesh.Pivot {
	pivot, _ := txtmesh.ParsePivot(self.Scene.Pivot)
	return pivot
}

func isPositive(value float64) bool {
	return value > 0 && !math.IsInf(value, 0)
}
