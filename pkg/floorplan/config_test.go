package floorplan

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "floorplan.toml", `
[extract]
label_pattern = '^[0-9]{4}$'
grid_step = 1.0
dedup = false

[cache]
dir = "/tmp/fp-cache"
ttl = "24h"

[server]
addr = "127.0.0.1:9090"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Extract.LabelPattern != `^[0-9]{4}$` {
		t.Errorf("label_pattern = %q", cfg.Extract.LabelPattern)
	}
	if cfg.Cache.Dir != "/tmp/fp-cache" || cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}

	opts := cfg.Options()
	if opts.Pattern() != `^[0-9]{4}$` || opts.Grid() != 1.0 || opts.ShouldDedup() {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v", opts.CacheTTL)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "floorplan.toml", "[server]\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	opts := cfg.Options()
	if opts.Pattern() != DefaultOptions().LabelPattern || opts.Grid() != 0.5 || !opts.ShouldDedup() {
		t.Errorf("unexpected default options: %+v", opts)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default server addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	unknown := writeFile(t, dir, "unknown.toml", "[extract]\ngrid = 2\n")
	if _, err := LoadConfig(unknown); err == nil {
		t.Error("expected error for unknown key")
	}

	badTTL := writeFile(t, dir, "ttl.toml", "[cache]\nttl = \"soon\"\n")
	if _, err := LoadConfig(badTTL); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestOptionsAccessors(t *testing.T) {
	var o Options
	if o.Pattern() == "" || o.Grid() != 0.5 || !o.ShouldDedup() {
		t.Errorf("zero Options should fall back to defaults: %+v", o)
	}
	if o.logger() == nil {
		t.Error("logger() should never be nil")
	}
}
