package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	var onDisk map[string]any
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("default file is not JSON: %v", err)
	}
	for _, key := range []string{"TELESCOPE_FOVX", "MAX_ZOOM", "FRAME_PERIOD", "TELESCOPE_STREAM_WIDTH"} {
		if _, ok := onDisk[key]; !ok {
			t.Errorf("default file missing %s", key)
		}
	}
}

func TestLoad_ReadsFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"MAX_ZOOM": 8, "TELESCOPE_STREAM_WIDTH": 1280, "TELESCOPE_STREAM_HEIGHT": 720}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxZoom != 8 || cfg.StreamWidth != 1280 || cfg.StreamHeight != 720 {
		t.Errorf("Load = %+v", cfg)
	}
	if cfg.FOVX != 1.6 {
		t.Errorf("FOVX = %v, want default 1.6", cfg.FOVX)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"MAX_ZOOM":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed file succeeded, want error")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"FRAME_PERIOD": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load = %v, want ErrInvalid", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("LS_TELESCOPE_LATITUDE", "-33.9")
	t.Setenv("LS_TELESCOPE_TELESCOPE_STREAM_WIDTH", "640")
	t.Setenv("LS_TELESCOPE_TELESCOPE_STREAM_HEIGHT", "360")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Latitude != -33.9 || cfg.StreamWidth != 640 || cfg.StreamHeight != 360 {
		t.Errorf("Load = %+v", cfg)
	}
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := Default()
	lookup := func(k string) (string, bool) {
		if k == "LS_TELESCOPE_MAX_ZOOM" {
			return "lots", true
		}
		return "", false
	}
	if err := cfg.ApplyEnv(lookup); !errors.Is(err, ErrInvalid) {
		t.Errorf("ApplyEnv = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero width", func(c *Config) { c.StreamWidth = 0 }, false},
		{"negative fov", func(c *Config) { c.FOVY = -1 }, false},
		{"fovy too wide", func(c *Config) { c.FOVY = 4 }, false},
		{"zoom below one", func(c *Config) { c.MaxZoom = 0.5 }, false},
		{"zoom exactly one", func(c *Config) { c.MaxZoom = 1 }, true},
		{"latitude", func(c *Config) { c.Latitude = 91 }, false},
		{"longitude", func(c *Config) { c.Longitude = -181 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestPeriod(t *testing.T) {
	cfg := Config{FramePeriod: 0.04}
	if got := cfg.Period(); got != 40*time.Millisecond {
		t.Errorf("Period = %v, want 40ms", got)
	}
}
