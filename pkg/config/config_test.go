package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/snapguide/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	f := cfg.Filter()
	if f.SnapDistance != 6 || f.ReleaseDistance != 12 {
		t.Errorf("Filter() = %+v", f)
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`
[canvas]
width = 400
height = 300

[box]
x = 10
y = 20
width = 50
height = 60

[snap]
distance = 4
release = 9
cooldown = "250ms"
bell = false

[drag]
grid = true

[store]
backend = "redis"
redis_addr = "localhost:6379"
redis_ttl = "24h"
`)
	cfg := Default()
	if err := Decode(data, &cfg); err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if cfg.Bounds().Width != 400 || cfg.BoxRect().Height != 60 {
		t.Errorf("geometry = %v %v", cfg.Bounds(), cfg.BoxRect())
	}
	if cfg.Snap.Cooldown.Duration != 250*time.Millisecond || cfg.Snap.Bell {
		t.Errorf("snap = %+v", cfg.Snap)
	}
	if !cfg.Drag.Grid || cfg.Drag.GridStep != 10 {
		t.Errorf("drag = %+v, want grid with default step", cfg.Drag)
	}
	if cfg.Store.RedisTTL.Duration != 24*time.Hour {
		t.Errorf("redis ttl = %v", cfg.Store.RedisTTL)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("server addr default lost: %q", cfg.Server.Addr)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[canvas\nwidth = 1"},
		{"unknown key", "[canvas]\ndepth = 3"},
		{"bad duration", "[snap]\ncooldown = \"soon\""},
		{"negative canvas", "[canvas]\nwidth = -1"},
		{"box too large", "[box]\nwidth = 9000"},
		{"negative snap", "[snap]\ndistance = -2"},
		{"unknown backend", "[store]\nbackend = \"s3\""},
		{"redis without addr", "[store]\nbackend = \"redis\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Decode([]byte(tt.data), &cfg)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Decode() = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file falls back to defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if cfg.Canvas != Default().Canvas {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}

	// A missing explicit file is an error.
	if _, err := Load(filepath.Join(dir, "nope.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) = %v", err)
	}

	path := filepath.Join(dir, "snapguide", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[snap]\ndistance = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(default path) = %v", err)
	}
	if cfg.Snap.Distance != 3 {
		t.Errorf("distance = %v, want 3", cfg.Snap.Distance)
	}
}

func TestEncodeDecodes(t *testing.T) {
	data, err := Encode(Default())
	if err != nil {
		t.Fatal(err)
	}
	var cfg Config
	if err := Decode(data, &cfg); err != nil {
		t.Fatalf("Decode(Encode(Default())) = %v\n%s", err, data)
	}
	if cfg != Default() {
		t.Errorf("encoded config does not decode back to defaults:\n%s", data)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	dir, err := DataDir("traces")
	if err != nil || dir != filepath.Join("/data", "snapguide", "traces") {
		t.Errorf("DataDir() = %q, %v", dir, err)
	}
	cfg := Default()
	if got, _ := cfg.TraceDir(); got != dir {
		t.Errorf("TraceDir() = %q, want %q", got, dir)
	}
	cfg.Store.Dir = "/tmp/x"
	if got, _ := cfg.TraceDir(); got != "/tmp/x" {
		t.Errorf("TraceDir() = %q", got)
	}
}
