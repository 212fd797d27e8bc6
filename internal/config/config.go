// Package config loads server and CLI configuration from a TOML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ADMINSETTINGS_"

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Template engines.
const (
	EnginePongo2     = "pongo2"
	EngineGoTemplate = "go-template"
)

// Config holds all configuration settings.
type Config struct {
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Plugin      PluginConfig    `toml:"plugin"`
	Theme       ThemeConfig     `toml:"theme"`
	Templates   TemplatesConfig `toml:"templates"`
	Definitions string          `toml:"definitions"` // directory of page definitions; empty uses the built-in ones
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr          string   `toml:"addr"`
	ShutdownGrace Duration `toml:"shutdown_grace"`
	ReadTimeout   Duration `toml:"read_timeout"`
	WriteTimeout  Duration `toml:"write_timeout"`
}

// StorageConfig selects and configures the option/post meta backend.
type StorageConfig struct {
	Driver          string   `toml:"driver"` // "memory" or "postgres"
	DSN             string   `toml:"dsn"`
	MaxOpenConns    int      `toml:"max_open_conns"`
	MaxIdleConns    int      `toml:"max_idle_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	CreateSchema    bool     `toml:"create_schema"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level      string `toml:"level"`  // "debug", "info", "warn", "error"
	Format     string `toml:"format"` // "json" or "console"
	File       string `toml:"file"`   // optional rotating log file
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// PluginConfig identifies the settings owner.
type PluginConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// ThemeConfig names the default go-theme selection. Dir holds the manifests,
// either at its root or one theme per subdirectory; theming is off when empty.
type ThemeConfig struct {
	Dir     string `toml:"dir"`
	Name    string `toml:"name"`
	Variant string `toml:"variant"`
}

// TemplatesConfig selects the page template engine. Templates found in Dir
// replace the built-in ones of the same path.
type TemplatesConfig struct {
	Engine string `toml:"engine"` // "pongo2" or "go-template"
	Dir    string `toml:"dir"`
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ShutdownGrace: Duration(10 * time.Second),
			ReadTimeout:   Duration(15 * time.Second),
			WriteTimeout:  Duration(15 * time.Second),
		},
		Storage: StorageConfig{
			Driver:          DriverMemory,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: Duration(30 * time.Minute),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Plugin: PluginConfig{
			Name:    "ServTake Menu",
			Version: "1.0.0",
		},
		Templates: TemplatesConfig{
			Engine: EnginePongo2,
		},
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// empty), then environment variables. envFiles are loaded into the
// environment first without overriding variables that are already set; a
// missing .env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	if err := loadDotenv(envFiles...); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "ADDR")
	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.DSN, "DB_DSN")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
	setString(&c.Logging.File, "LOG_FILE")
	setString(&c.Plugin.Name, "PLUGIN_NAME")
	setString(&c.Plugin.Version, "PLUGIN_VERSION")
	setString(&c.Definitions, "DEFINITIONS_DIR")
	setString(&c.Theme.Name, "THEME")
	setString(&c.Theme.Variant, "THEME_VARIANT")
	setString(&c.Theme.Dir, "THEME_DIR")
	setString(&c.Templates.Engine, "TEMPLATE_ENGINE")
	setString(&c.Templates.Dir, "TEMPLATES_DIR")

	var errs []error
	errs = append(errs,
		setDuration(&c.Server.ShutdownGrace, "SHUTDOWN_GRACE"),
		setInt(&c.Storage.MaxOpenConns, "DB_MAX_OPEN_CONNS"),
		setBool(&c.Storage.CreateSchema, "DB_CREATE_SCHEMA"),
	)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Validate checks that the selected drivers and formats are known.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}
	switch c.Templates.Engine {
	case EnginePongo2, EngineGoTemplate:
	default:
		errs = append(errs, fmt.Errorf("unknown template engine %q", c.Templates.Engine))
	}
	if strings.TrimSpace(c.Theme.Dir) != "" && strings.TrimSpace(c.Theme.Name) == "" {
		errs = append(errs, errors.New("theme.name is required when theme.dir is set"))
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func setString(dst *string, key string) {
	if value, ok := lookup(key); ok {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	*dst = parsed
	return nil
}

func setBool(dst *bool, key string) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	*dst = parsed
	return nil
}

func setDuration(dst *Duration, key string) error {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
	*dst = Duration(parsed)
	return nil
}
