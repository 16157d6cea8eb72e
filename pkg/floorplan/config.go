package floorplan

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration read from floorplan.toml.
//
//	[extract]
//	label_pattern = '^[0-9]{3,5}[A-Z]{0,2}$'
//	grid_step = 0.5
//	dedup = true
//
//	[cache]
//	dir = ".floorplan-cache"
//	redis_addr = ""
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Extract ExtractConfig `toml:"extract"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// ExtractConfig holds the [extract] table.
type ExtractConfig struct {
	LabelPattern string  `toml:"label_pattern"`
	GridStep     float64 `toml:"grid_step"`
	Dedup        *bool   `toml:"dedup"`
}

// CacheConfig holds the [cache] table. At most one of Dir and RedisAddr is used;
// RedisAddr wins when both are set.
type CacheConfig struct {
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// ServerConfig holds the [server] table.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration decoded from a TOML string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Extract: ExtractConfig{
			LabelPattern: DefaultOptions().LabelPattern,
			GridStep:     DefaultOptions().GridStep,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads a TOML configuration file on top of DefaultConfig.
// Unknown keys are rejected so that typos do not go unnoticed.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return cfg, err
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Options converts the [extract] and [cache] settings into extraction options.
// The cache itself is not opened; callers attach it.
func (c Config) Options() Options {
	opts := DefaultOptions()
	if c.Extract.LabelPattern != "" {
		opts.LabelPattern = c.Extract.LabelPattern
	}
	if c.Extract.GridStep > 0 {
		opts.GridStep = c.Extract.GridStep
	}
	opts.Dedup = c.Extract.Dedup
	opts.CacheTTL = c.Cache.TTL.Duration
	return opts
}
