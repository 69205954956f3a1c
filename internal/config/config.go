// Package config loads the revetment configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/revetment/config.toml
// (falling back to ~/.config/revetment/config.toml). REVETMENT_CONFIG
// overrides the location. A missing file yields [Default].
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/revetment/pkg/cache"
	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/pipeline"
	"github.com/matzehuels/revetment/pkg/store"
)

const (
	// AppName names the config and cache directories.
	AppName = "revetment"

	// EnvConfig overrides the config file location.
	EnvConfig = "REVETMENT_CONFIG"

	fileName = "config.toml"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultTitle is the chart title used when none is configured.
const DefaultTitle = "Required D50 along the channel"

// Config is the whole configuration file.
type Config struct {
	Storage Storage `toml:"storage"`
	Cache   Cache   `toml:"cache"`
	Plot    Plot    `toml:"plot"`
}

// Storage selects where sections are kept.
type Storage struct {
	Backend string `toml:"backend"` // file | sqlite
	Path    string `toml:"path"`    // defaults under the config dir
}

// Cache selects where rendered artifacts are kept.
type Cache struct {
	Backend       string   `toml:"backend"` // file | redis | none
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// Plot holds defaults for the plot command.
type Plot struct {
	Width   int      `toml:"width"`
	Height  int      `toml:"height"`
	Types   []string `toml:"types"`
	Formats []string `toml:"formats"`
	Title   string   `toml:"title"`
}

// Duration is a time.Duration written as a string such as "168h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage: Storage{Backend: store.BackendFile},
		Cache: Cache{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{cache.TTLArtifact},
		},
		Plot: Plot{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Types:   []string{pipeline.TypeChart},
			Formats: []string{pipeline.FormatSVG},
			Title:   DefaultTitle,
		},
	}
}

// Path returns the config file location, honouring REVETMENT_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Dir returns the config directory using the XDG standard (~/.config/revetment/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// CacheDir returns the cache directory using the XDG standard (~/.cache/revetment/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path, or at [Path] when path is empty. Values the
// file leaves out keep their defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "locate config")
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Context(err, "%s", path)
	}
	return cfg, nil
}

// Validate checks backend names and plot defaults.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case store.BackendFile, store.BackendSQLite:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "storage.backend: %q (must be file or sqlite)", c.Storage.Backend)
	}
	if c.Storage.Path != "" {
		if err := errors.ValidatePath(c.Storage.Path); err != nil {
			return errors.Context(err, "storage.path")
		}
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend: %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}

	opts := pipeline.Options{
		Types:   c.Plot.Types,
		Formats: c.Plot.Formats,
		Width:   c.Plot.Width,
		Height:  c.Plot.Height,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errors.Context(err, "plot")
	}
	return nil
}

// StoragePath returns the configured storage path, or the default file for
// the backend inside the config directory.
func (c Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == store.BackendSQLite {
		return filepath.Join(dir, "sections.db"), nil
	}
	return filepath.Join(dir, "sections.json"), nil
}

// CacheDirectory returns the configured cache dir or the XDG default.
func (c Config) CacheDirectory() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}

// Write encodes the configuration as TOML.
func (c Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(c)
}
