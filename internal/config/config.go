package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/codalotl/locpick/internal/locationapi"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load (ex: LOCPICK_API_BASEURL).
const EnvPrefix = "LOCPICK"

// Config is locpick's configuration.
//
// NOTE: viper matches keys to field names case-insensitively via mapstructure; the json tags only shape `locpick config` output.
type Config struct {
	API   APIConfig   `json:"api"`
	Log   LogConfig   `json:"log"`
	UI    UIConfig    `json:"ui"`
	Serve ServeConfig `json:"serve"`
}

// APIConfig configures the location-data client.
type APIConfig struct {
	BaseURL string `json:"baseurl"`

	// Timeout bounds each request. 0 means no timeout.
	Timeout time.Duration `json:"timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text, json

	// File is appended to when set. The interactive selector logs nowhere if it is empty.
	File string `json:"file"`
}

// UIConfig holds interactive selector settings.
type UIConfig struct {
	// DiscardStale drops fetch results superseded by a newer request for the same level.
	DiscardStale bool `json:"discardstale"`

	// MaxRows is the number of options visible per column.
	MaxRows int `json:"maxrows"`

	// Palette is "auto" or "plain" (no colors). Unknown names mean auto.
	Palette string `json:"palette"`
}

// ServeConfig configures the fixture location server.
type ServeConfig struct {
	Addr    string `json:"addr"`
	Data    string `json:"data"`    // YAML dataset path; empty uses the built-in dataset
	GinMode string `json:"ginmode"` // debug, release, test
}

// flagKeys maps CLI flag names to config keys. Flags that are absent from the FlagSet passed to Load are skipped.
var flagKeys = map[string]string{
	"api-url":       "api.baseurl",
	"timeout":       "api.timeout",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"log-file":      "log.file",
	"discard-stale": "ui.discardstale",
	"max-rows":      "ui.maxrows",
	"palette":       "ui.palette",
	"addr":          "serve.addr",
	"data":          "serve.data",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.baseurl", locationapi.DefaultBaseURL)
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.discardstale", false)
	v.SetDefault("ui.maxrows", 10)
	v.SetDefault("ui.palette", "auto")
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.data", "")
	v.SetDefault("serve.ginmode", "release")
}

// Load reads configuration with precedence flags > environment > config file > defaults.
//
// If file is empty, "locpick.yaml" is searched for in the working directory and in $HOME/.locpick; a missing file is not an error. flags may be nil.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("locpick")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.locpick")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist; we have defaults. An explicit file must exist, though.
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid configuration: api.baseurl must be an absolute http(s) URL (got %q)", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid configuration: api.timeout must be >= 0 (got %s)", c.API.Timeout)
	}
	if c.UI.MaxRows <= 0 {
		return fmt.Errorf("invalid configuration: ui.maxrows must be > 0 (got %d)", c.UI.MaxRows)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid configuration: log.format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}

// WriteJSON writes c as indented JSON.
func (c *Config) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(c)
}

// NewLogger creates a slog.Logger writing to w at the configured level and format.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: c.SlogLevel(),
	}

	var handler slog.Handler
	switch strings.ToLower(c.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// SlogLevel parses Level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
