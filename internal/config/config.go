// Package config loads the telescope configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "config.json"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds process settings. JSON keys match the on-disk file.
type Config struct {
	ServerURL     string  `json:"SERVER_URL"`
	LiveKitURL    string  `json:"LIVEKIT_URL"`
	TelescopeName string  `json:"TELESCOPE_NAME"`
	FramePeriod   float64 `json:"FRAME_PERIOD"`
	Latitude      float64 `json:"LATITUDE"`
	Longitude     float64 `json:"LONGITUDE"`
	MaxZoom       float64 `json:"MAX_ZOOM"`
	FOVX          float64 `json:"TELESCOPE_FOVX"`
	FOVY          float64 `json:"TELESCOPE_FOVY"`
	StreamWidth   int     `json:"TELESCOPE_STREAM_WIDTH"`
	StreamHeight  int     `json:"TELESCOPE_STREAM_HEIGHT"`
	ResourceDir   string  `json:"RESOURCE_DIR"`
	HTTPAddr      string  `json:"HTTP_ADDR"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		ServerURL:     "http://localhost:8000",
		LiveKitURL:    "ws://localhost:7880",
		TelescopeName: "Teleskop Maciuś",
		FramePeriod:   0.01,
		Latitude:      50.0,
		Longitude:     20.0,
		MaxZoom:       5,
		FOVX:          1.6,
		FOVY:          0.9,
		StreamWidth:   1920,
		StreamHeight:  1080,
		ResourceDir:   "resources",
		HTTPAddr:      ":8090",
	}
}

// Period returns FramePeriod as a duration.
func (c Config) Period() time.Duration {
	return time.Duration(c.FramePeriod * float64(time.Second))
}

// Load reads path. A missing file is created with the defaults, which are
// returned. Environment overrides are applied after reading, then the result
// is validated.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := Write(path, cfg); err != nil {
			return Config{}, err
		}
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write saves cfg as indented JSON.
func Write(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from LS_TELESCOPE_<KEY> variables, where KEY is
// the JSON key.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup("LS_TELESCOPE_" + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *float64) error {
		v, ok := lookup("LS_TELESCOPE_" + key)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: LS_TELESCOPE_%s=%q: %v", ErrInvalid, key, v, err)
		}
		*dst = f
		return nil
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup("LS_TELESCOPE_" + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: LS_TELESCOPE_%s=%q: %v", ErrInvalid, key, v, err)
		}
		*dst = n
		return nil
	}

	str("SERVER_URL", &c.ServerURL)
	str("LIVEKIT_URL", &c.LiveKitURL)
	str("TELESCOPE_NAME", &c.TelescopeName)
	str("RESOURCE_DIR", &c.ResourceDir)
	str("HTTP_ADDR", &c.HTTPAddr)

	for key, dst := range map[string]*float64{
		"FRAME_PERIOD":   &c.FramePeriod,
		"LATITUDE":       &c.Latitude,
		"LONGITUDE":      &c.Longitude,
		"MAX_ZOOM":       &c.MaxZoom,
		"TELESCOPE_FOVX": &c.FOVX,
		"TELESCOPE_FOVY": &c.FOVY,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*int{
		"TELESCOPE_STREAM_WIDTH":  &c.StreamWidth,
		"TELESCOPE_STREAM_HEIGHT": &c.StreamHeight,
	} {
		if err := integer(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports the first setting the telescope cannot run with.
func (c Config) Validate() error {
	switch {
	case c.StreamWidth <= 0 || c.StreamHeight <= 0:
		return fmt.Errorf("%w: stream size %dx%d must be positive", ErrInvalid, c.StreamWidth, c.StreamHeight)
	case !(c.FOVX > 0) || !(c.FOVY > 0):
		return fmt.Errorf("%w: field of view %gx%g must be positive", ErrInvalid, c.FOVX, c.FOVY)
	case c.FOVY >= math.Pi:
		return fmt.Errorf("%w: vertical field of view %g must be below pi", ErrInvalid, c.FOVY)
	case !(c.MaxZoom >= 1):
		return fmt.Errorf("%w: MAX_ZOOM %g must be at least 1", ErrInvalid, c.MaxZoom)
	case !(c.FramePeriod > 0):
		return fmt.Errorf("%w: FRAME_PERIOD %g must be positive", ErrInvalid, c.FramePeriod)
	case c.Latitude < -90 || c.Latitude > 90:
		return fmt.Errorf("%w: LATITUDE %g out of range", ErrInvalid, c.Latitude)
	case c.Longitude < -180 || c.Longitude > 180:
		return fmt.Errorf("%w: LONGITUDE %g out of range", ErrInvalid, c.Longitude)
	}
	return nil
}
