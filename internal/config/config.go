// Package config loads the CLI and server settings from an optional YAML (or JSON)
// file, overlaid with TURING_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "turing.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TURING_"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds every setting the commands read.
type Config struct {
	Program    string        `mapstructure:"program"`
	Inputs     []string      `mapstructure:"inputs"`
	Output     string        `mapstructure:"output"`
	Start      string        `mapstructure:"start"`
	MaxSteps   int           `mapstructure:"max_steps"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Parallel   int           `mapstructure:"parallel"`
	SortedTape bool          `mapstructure:"sorted_tape"`
	LogLevel   string        `mapstructure:"log_level"`
	LogFile    string        `mapstructure:"log_file"`
	Listen     string        `mapstructure:"listen"`
	Store      StoreConfig   `mapstructure:"store"`
}

// StoreConfig selects where the server keeps compiled tables.
type StoreConfig struct {
	Kind          string        `mapstructure:"kind"`
	Dir           string        `mapstructure:"dir"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Prefix        string        `mapstructure:"prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Program:  "program.btm",
		Output:   "morphett.txt",
		LogLevel: "info",
		Listen:   ":8080",
		Store: StoreConfig{
			Kind:      StoreMemory,
			Dir:       filepath.Join(".turing", "tables"),
			RedisAddr: "localhost:6379",
			Prefix:    "turing:",
		},
	}
}

// envKeys lists the settable keys; nested keys use a dot.
var envKeys = []string{
	"program", "inputs", "output", "start", "max_steps", "timeout", "parallel",
	"sorted_tape", "log_level", "log_file", "listen",
	"store.kind", "store.dir", "store.redis_addr", "store.redis_password",
	"store.redis_db", "store.prefix", "store.ttl",
}

// EnvName returns the environment variable overriding key, e.g. store.redis_addr
// maps to TURING_STORE_REDIS_ADDR.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads path (or DefaultPath if path is empty and that file exists), applies
// environment overrides and decodes the result over Default().
func Load(path string) (Config, error) {
	raw := map[string]any{}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if raw, err = parse(path, data); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	overlayEnv(raw)

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(path string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func overlayEnv(raw map[string]any) {
	for _, key := range envKeys {
		val, ok := os.LookupEnv(EnvName(key))
		if !ok {
			continue
		}
		section, leaf, nested := strings.Cut(key, ".")
		if !nested {
			raw[key] = val
			continue
		}
		sub, ok := raw[section].(map[string]any)
		if !ok {
			sub = map[string]any{}
			raw[section] = sub
		}
		sub[leaf] = val
	}
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate rejects settings no command can honor.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid config: unknown store kind %q", c.Store.Kind)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("invalid config: max_steps must not be negative")
	}
	if c.Parallel < 0 {
		return fmt.Errorf("invalid config: parallel must not be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid config: timeout must not be negative")
	}
	return nil
}
