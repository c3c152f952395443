package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/georgemunganga/printa-console/internal/gateway"
)

// Config is the console runtime configuration.
type Config struct {
	Port      int             `mapstructure:"port"`
	Host      string          `mapstructure:"host"`
	API       APIConfig       `mapstructure:"api"`
	Log       LogConfig       `mapstructure:"log"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Products  ProductsConfig  `mapstructure:"products"`
}

type APIConfig struct {
	PrimaryURL  string        `mapstructure:"primary_url"`
	FallbackURL string        `mapstructure:"fallback_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ProvidersConfig struct {
	DirectoryLimit int           `mapstructure:"directory_limit"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

type ProductsConfig struct {
	ScopedLimit int `mapstructure:"scoped_limit"`
}

var defaults = map[string]interface{}{
	"port":                      8080,
	"host":                      "",
	"api.primary_url":           "https://api-rest-orange-box.vercel.app/api/v1",
	"api.fallback_url":          "http://localhost:3000/api/v1",
	"api.timeout":               gateway.DefaultTimeout,
	"log.level":                 "info",
	"log.format":                "text",
	"providers.directory_limit": 100,
	"providers.cache_ttl":       time.Minute,
	"products.scoped_limit":     20,
}

// Load reads .env (if present), the file named by CONSOLE_CONFIG (if set) and
// CONSOLE_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("port", "CONSOLE_PORT", "APP_PORT"); err != nil {
		return nil, err
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(file), "."))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := url.ParseRequestURI(c.API.PrimaryURL); err != nil {
		return fmt.Errorf("api.primary_url: %w", err)
	}
	if c.API.FallbackURL != "" {
		if _, err := url.ParseRequestURI(c.API.FallbackURL); err != nil {
			return fmt.Errorf("api.fallback_url: %w", err)
		}
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Providers.DirectoryLimit <= 0 {
		return errors.New("providers.directory_limit must be positive")
	}
	if c.Providers.CacheTTL < 0 {
		return errors.New("providers.cache_ttl cannot be negative")
	}
	if c.Products.ScopedLimit <= 0 {
		return errors.New("products.scoped_limit must be positive")
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// Endpoints picks the gateway endpoints for the configured host.
func (c *Config) Endpoints() gateway.Endpoints {
	return SelectEndpoints(c.Host, c.API.PrimaryURL, c.API.FallbackURL)
}

// SelectEndpoints returns the fallback as the only endpoint when the console
// runs on a loopback host, primary plus fallback otherwise.
func SelectEndpoints(host, primary, fallback string) gateway.Endpoints {
	if isLoopback(host) && fallback != "" {
		return gateway.Endpoints{Primary: fallback}
	}
	return gateway.Endpoints{Primary: primary, Fallback: fallback}
}

func isLoopback(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(strings.ToLower(host), "[]")
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return lvl, nil
}

// Logger builds the process logger writing to w.
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
