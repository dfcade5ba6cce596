// Package config resolves the client configuration from defaults, a yaml
// file, a .env file and MLFS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all client settings.
type Config struct {
	// APIBaseURL is the root of the grant management REST API.
	APIBaseURL string `yaml:"api_base_url" validate:"required,url"`
	// Token is sent as "Authorization: Token <token>" when set.
	Token string `yaml:"token"`
	// DBPath is the local sqlite cache holding drafts, fields and the
	// session profile.
	DBPath    string `yaml:"db_path" validate:"required"`
	TimeoutMs int    `yaml:"timeout_ms" validate:"gt=0"`
	// FieldCacheTTLMinutes bounds the age of cached field descriptors.
	// Zero disables the cache.
	FieldCacheTTLMinutes int    `yaml:"field_cache_ttl_minutes" validate:"gte=0"`
	LogCalls             bool   `yaml:"log_calls"`
	LogLevel             string `yaml:"log_level" validate:"oneof=debug info warn error"`
	Theme                string `yaml:"theme" validate:"oneof=auto dark light"`
}

// DefaultConfig returns a Config with sensible defaults. The API base URL
// has no default and must be configured.
func DefaultConfig() Config {
	return Config{
		DBPath:               defaultDBPath(),
		TimeoutMs:            15000,
		FieldCacheTTLMinutes: 60,
		LogLevel:             "info",
		Theme:                "auto",
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mlfs", "mlfs.db")
	}
	return filepath.Join(home, ".mlfs", "mlfs.db")
}

// DefaultPath returns the config file location: $MLFS_CONFIG or
// ~/.mlfs/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("MLFS_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".mlfs", "config.yaml")
}

// Loader resolves a Config. Zero values use the process defaults.
type Loader struct {
	// Path is the yaml file; a missing file is not an error.
	Path string
	// EnvFile is the .env file; a missing file is not an error.
	EnvFile string
	// Getenv reads the process environment.
	Getenv func(string) string
}

// Load resolves the configuration with the default file locations.
func Load() (Config, error) {
	return Loader{Path: DefaultPath(), EnvFile: ".env"}.Load()
}

// Load applies defaults, the yaml file, the .env file and environment
// variables, then validates the result.
func (l Loader) Load() (Config, error) {
	cfg := DefaultConfig()

	if l.Path != "" {
		if err := cfg.mergeFile(l.Path); err != nil {
			return Config{}, err
		}
	}

	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	dotenv := map[string]string{}
	if l.EnvFile != "" {
		m, err := godotenv.Read(l.EnvFile)
		switch {
		case err == nil:
			dotenv = m
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("reading %s: %w", l.EnvFile, err)
		}
	}
	// The process environment wins over .env, as with godotenv.Load.
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
	cfg.applyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) string) {
	if v := lookup("MLFS_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := lookup("MLFS_TOKEN"); v != "" {
		c.Token = v
	}
	if v := lookup("MLFS_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := lookup("MLFS_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutMs = n
		}
	}
	if v := lookup("MLFS_FIELD_CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FieldCacheTTLMinutes = n
		}
	}
	if v := lookup("MLFS_LOG_CALLS"); v != "" {
		c.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := lookup("MLFS_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := lookup("MLFS_THEME"); v != "" {
		c.Theme = strings.ToLower(v)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the config, reporting failures as "field: tag" pairs.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	pairs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		pairs = append(pairs, fe.Field()+": "+fe.Tag())
	}
	sort.Strings(pairs)
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(pairs, ", "))
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// FieldCacheTTL returns the maximum age of cached field descriptors.
func (c Config) FieldCacheTTL() time.Duration {
	return time.Duration(c.FieldCacheTTLMinutes) * time.Minute
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
