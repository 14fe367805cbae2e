// Package config loads safechain settings from defaults, a YAML file,
// SAFECHAIN_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

const (
	appName   = "safechain"
	envPrefix = "SAFECHAIN_"
)

// Backend names accepted by the store key.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

type Config struct {
	APIURL          string        `koanf:"api_url"`
	DemoURL         string        `koanf:"demo_url"`
	DataDir         string        `koanf:"data_dir"`
	Store           string        `koanf:"store"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	MonitorInterval time.Duration `koanf:"monitor_interval"`
	LogFormat       string        `koanf:"log_format"`
	LogLevel        string        `koanf:"log_level"`
}

func Default() Config {
	return Config{
		APIURL:          "http://localhost:8000",
		DemoURL:         "http://localhost:9000",
		DataDir:         filepath.Join(userConfigDir(), appName),
		Store:           StoreSQLite,
		RequestTimeout:  10 * time.Second,
		MonitorInterval: 30 * time.Second,
		LogFormat:       "text",
		LogLevel:        "info",
	}
}

// DBPath is the sqlite database holding the session slot and check history.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "safechain.db")
}

// BoltPath is the bbolt file used when Store is "bolt".
func (c Config) BoltPath() string {
	return filepath.Join(c.DataDir, "session.bolt")
}

func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "debug.log")
}

// DefaultFile is the config file read when no --config flag is given.
func DefaultFile() string {
	return filepath.Join(userConfigDir(), appName, "config.yaml")
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	errb := oops.Code("CONFIG_INVALID")
	for key, raw := range map[string]string{"api_url": c.APIURL, "demo_url": c.DemoURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errb.With("key", key, "value", raw).Errorf("%s must be an http(s) URL", key)
		}
	}
	if c.DataDir == "" {
		return errb.With("key", "data_dir").Errorf("data_dir is required")
	}
	if !slices.Contains([]string{StoreSQLite, StoreBolt, StoreMemory}, c.Store) {
		return errb.With("key", "store", "value", c.Store).
			Errorf("store must be one of sqlite, bolt, memory; got %q", c.Store)
	}
	if c.RequestTimeout <= 0 {
		return errb.With("key", "request_timeout").Errorf("request_timeout must be positive")
	}
	if c.MonitorInterval < time.Second {
		return errb.With("key", "monitor_interval").Errorf("monitor_interval must be at least 1s")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return errb.With("key", "log_format", "value", c.LogFormat).
			Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		return errb.With("key", "log_level", "value", c.LogLevel).
			Errorf("log_level must be debug, info, warn or error; got %q", c.LogLevel)
	}
	return nil
}

// Load builds a Config. path names a YAML file; when empty, DefaultFile is
// used if it exists. flags, when non-nil, override everything else, but only
// for flags the user actually set.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")
	def := Default()

	if err := k.Load(confmap.Provider(map[string]any{
		"api_url":          def.APIURL,
		"demo_url":         def.DemoURL,
		"data_dir":         def.DataDir,
		"store":            def.Store,
		"request_timeout":  def.RequestTimeout,
		"monitor_interval": def.MonitorInterval,
		"log_format":       def.LogFormat,
		"log_level":        def.LogLevel,
	}, "."), nil); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile()
	}
	if _, err := os.Stat(path); explicit || !errors.Is(err, fs.ErrNotExist) {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if !k.Exists(key) {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EnsureDataDir creates the data directory with owner-only permissions.
func (c Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return oops.Code("DATA_DIR_FAILED").With("path", c.DataDir).Wrap(err)
	}
	return nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
