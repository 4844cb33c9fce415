// Package config loads the optional archgraph.toml project configuration.
//
// A project may carry an archgraph.toml in its root:
//
//	[project]
//	name = "shop"
//
//	[render]
//	width = 1200
//	animate = false
//
//	[layout]
//	nodesep = 80
//
//	[scan]
//	timeout = "30s"
//	disable = ["plugin"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://cache:6379/0"
//	ttl = "12h"
//
// Every key is optional. Environment variables ARCHGRAPH_CACHE,
// ARCHGRAPH_REDIS_URL and ARCHGRAPH_NO_ANIMATE override the file, and CLI
// flags override both.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// FileName is the configuration file looked up in a project root.
const FileName = "archgraph.toml"

// Environment variables read by ApplyEnv.
const (
	EnvCache     = "ARCHGRAPH_CACHE"
	EnvRedisURL  = "ARCHGRAPH_REDIS_URL"
	EnvNoAnimate = "ARCHGRAPH_NO_ANIMATE"
)

// Config mirrors archgraph.toml.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Render  RenderConfig  `toml:"render"`
	Layout  LayoutConfig  `toml:"layout"`
	Scan    ScanConfig    `toml:"scan"`
	Cache   CacheConfig   `toml:"cache"`
}

// ProjectConfig is the [project] table.
type ProjectConfig struct {
	Name string `toml:"name" validate:"omitempty,max=256"`
}

// RenderConfig is the [render] table. Zero values mean the pipeline default.
type RenderConfig struct {
	Width   float64 `toml:"width" validate:"gte=0"`
	Height  float64 `toml:"height" validate:"gte=0"`
	Padding float64 `toml:"padding" validate:"gte=0"`
	Animate *bool   `toml:"animate"`
}

// LayoutConfig is the [layout] table.
type LayoutConfig struct {
	NodeSep float64 `toml:"nodesep" validate:"gte=0"`
	RankSep float64 `toml:"ranksep" validate:"gte=0"`
	Margin  float64 `toml:"margin" validate:"gte=0"`
}

// ScanConfig is the [scan] table.
type ScanConfig struct {
	Timeout Duration `toml:"timeout" validate:"gte=0"`
	Disable []string `toml:"disable" validate:"dive,oneof=terraform compose plugin"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Backend  string   `toml:"backend" validate:"omitempty,oneof=none file memory redis"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl" validate:"gte=0"`
	Size     int      `toml:"size" validate:"gte=0"`
	Dir      string   `toml:"dir"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{Cache: CacheConfig{Backend: cache.BackendFile}}
}

// Load reads and validates the file at path. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads explicit when it is set, otherwise archgraph.toml from root
// if present, otherwise the defaults. It returns the path that was read, or
// "" for defaults.
func Resolve(root, explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	if root == "" {
		return Default(), "", nil
	}
	path := filepath.Join(root, FileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	return errors.ValidateStruct(errors.ErrCodeInvalidConfig, c)
}

// ApplyEnv overrides fields from environment variables read through getenv
// (os.Getenv in production).
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvCache); v != "" {
		c.Cache.Backend = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := getenv(EnvNoAnimate); v != "" {
		off, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvNoAnimate)
		}
		if off {
			c.Render.Animate = pipeline.Bool(false)
		}
	}
	return c.Validate()
}

// PipelineOptions converts the configuration into pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		ProjectName:      c.Project.Name,
		Animate:          c.Render.Animate,
		Width:            c.Render.Width,
		Height:           c.Render.Height,
		Padding:          c.Render.Padding,
		NodeSep:          c.Layout.NodeSep,
		RankSep:          c.Layout.RankSep,
		Margin:           c.Layout.Margin,
		ScanTimeout:      time.Duration(c.Scan.Timeout),
		DisabledScanners: c.Scan.Disable,
	}
}

// CacheSettings converts the [cache] table into backend settings.
func (c Config) CacheSettings() cache.Config {
	return cache.Config{
		Backend:  c.Cache.Backend,
		Dir:      c.Cache.Dir,
		Size:     c.Cache.Size,
		RedisURL: c.Cache.RedisURL,
	}
}

// CacheTTL returns the configured TTL or the cache default.
func (c Config) CacheTTL() time.Duration {
	if c.Cache.TTL > 0 {
		return time.Duration(c.Cache.TTL)
	}
	return cache.DefaultTTL
}
