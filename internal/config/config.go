package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/storefront/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "storefront.json"

	// DefaultPort is the default HTTP port.
	DefaultPort = 8080

	// DefaultHost is the default bind host.
	DefaultHost = "localhost"

	// DefaultMaxRedirects bounds consecutive before-hook redirects.
	DefaultMaxRedirects = 8
)

// Config represents storefront.json.
type Config struct {
	// Name is the service name used in logs and traces.
	Name string `json:"name,omitempty" env:"STOREFRONT_NAME"`

	Server    ServerConfig    `json:"server"`
	Log       LogConfig       `json:"log"`
	Shop      ShopConfig      `json:"shop"`
	Images    ImagesConfig    `json:"images"`
	Telemetry TelemetryConfig `json:"telemetry"`
	Router    RouterConfig    `json:"router"`

	configPath string
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `json:"host,omitempty" env:"STOREFRONT_HOST"`
	Port int    `json:"port,omitempty" env:"STOREFRONT_PORT"`

	// AllowedOrigins lists origins allowed to open the websocket. Empty means
	// same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" env:"STOREFRONT_ALLOWED_ORIGINS" envSeparator:","`

	// ReadHeaderTimeout and ShutdownTimeout are Go durations such as "5s".
	ReadHeaderTimeout string `json:"readHeaderTimeout,omitempty" env:"STOREFRONT_READ_HEADER_TIMEOUT"`
	ShutdownTimeout   string `json:"shutdownTimeout,omitempty" env:"STOREFRONT_SHUTDOWN_TIMEOUT"`

	// Metrics exposes /metrics.
	Metrics bool `json:"metrics" env:"STOREFRONT_METRICS"`

	// DevAssets serves client files unfingerprinted and uncached.
	DevAssets bool `json:"devAssets,omitempty" env:"STOREFRONT_DEV_ASSETS"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"STOREFRONT_LOG_LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"STOREFRONT_LOG_FORMAT"`
}

// ShopConfig configures the demo backend.
type ShopConfig struct {
	Locale   string `json:"locale,omitempty" env:"STOREFRONT_LOCALE"`
	Currency string `json:"currency,omitempty" env:"STOREFRONT_CURRENCY"`

	// Latency delays every backend call, e.g. "200ms".
	Latency string `json:"latency,omitempty" env:"STOREFRONT_LATENCY"`
}

// ImagesConfig selects where product images come from.
type ImagesConfig struct {
	// Driver is "static" or "s3".
	Driver string `json:"driver,omitempty" env:"STOREFRONT_IMAGES_DRIVER"`

	// Prefix is the URL prefix of static images.
	Prefix string `json:"prefix,omitempty" env:"STOREFRONT_IMAGES_PREFIX"`

	Bucket          string `json:"bucket,omitempty" env:"STOREFRONT_S3_BUCKET"`
	KeyPrefix       string `json:"keyPrefix,omitempty" env:"STOREFRONT_S3_KEY_PREFIX"`
	Region          string `json:"region,omitempty" env:"STOREFRONT_S3_REGION"`
	Endpoint        string `json:"endpoint,omitempty" env:"STOREFRONT_S3_ENDPOINT"`
	AccessKeyID     string `json:"accessKeyId,omitempty" env:"STOREFRONT_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `json:"-" env:"STOREFRONT_S3_SECRET_ACCESS_KEY"` // environment only
	PathStyle       bool   `json:"pathStyle,omitempty" env:"STOREFRONT_S3_PATH_STYLE"`
	URLExpiry       string `json:"urlExpiry,omitempty" env:"STOREFRONT_S3_URL_EXPIRY"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP collector host:port. Empty disables export.
	Endpoint string `json:"endpoint,omitempty" env:"STOREFRONT_OTLP_ENDPOINT"`
	Insecure bool   `json:"insecure,omitempty" env:"STOREFRONT_OTLP_INSECURE"`
}

// RouterConfig configures every session's router.
type RouterConfig struct {
	MaxRedirects int `json:"maxRedirects,omitempty" env:"STOREFRONT_MAX_REDIRECTS"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Name: "storefront",
		Server: ServerConfig{
			Host:              DefaultHost,
			Port:              DefaultPort,
			ReadHeaderTimeout: "5s",
			ShutdownTimeout:   "10s",
			Metrics:           true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Shop: ShopConfig{
			Locale:   "en-US",
			Currency: "$",
			Latency:  "0s",
		},
		Images: ImagesConfig{
			Driver:    "static",
			Prefix:    "/images/",
			URLExpiry: "15m",
		},
		Router: RouterConfig{
			MaxRedirects: DefaultMaxRedirects,
		},
	}
}

// Load reads storefront.json from dir and applies environment overrides.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is Load, except that a missing file yields the defaults with
// environment overrides applied.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, "E141") {
		cfg = New()
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or configure the server with STOREFRONT_* variables")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from STOREFRONT_* variables.
func (c *Config) applyEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.New("E120").
			WithDetail("Failed to parse STOREFRONT_* environment variables").
			Wrap(err)
	}
	return nil
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in values a partial file left empty.
func (c *Config) applyDefaults() {
	d := New()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = d.Server.ReadHeaderTimeout
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Shop.Locale == "" {
		c.Shop.Locale = d.Shop.Locale
	}
	if c.Shop.Currency == "" {
		c.Shop.Currency = d.Shop.Currency
	}
	if c.Shop.Latency == "" {
		c.Shop.Latency = d.Shop.Latency
	}
	if c.Images.Driver == "" {
		c.Images.Driver = d.Images.Driver
	}
	if c.Images.Prefix == "" {
		c.Images.Prefix = d.Images.Prefix
	}
	if c.Images.URLExpiry == "" {
		c.Images.URLExpiry = d.Images.URLExpiry
	}
	if c.Router.MaxRedirects == 0 {
		c.Router.MaxRedirects = d.Router.MaxRedirects
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", "Port must be between 0 and 65535")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level", fmt.Sprintf("Unknown log level %q (use debug, info, warn or error)", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", fmt.Sprintf("Unknown log format %q (use text or json)", c.Log.Format))
	}
	for field, value := range map[string]string{
		"server.readHeaderTimeout": c.Server.ReadHeaderTimeout,
		"server.shutdownTimeout":   c.Server.ShutdownTimeout,
		"shop.latency":             c.Shop.Latency,
		"images.urlExpiry":         c.Images.URLExpiry,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return invalid(field, fmt.Sprintf("%q is not a duration", value))
		}
	}
	switch c.Images.Driver {
	case "static":
	case "s3":
		if c.Images.Bucket == "" || c.Images.Region == "" {
			return invalid("images", "The s3 driver needs a bucket and a region")
		}
	default:
		return invalid("images.driver", fmt.Sprintf("Unknown image driver %q (use static or s3)", c.Images.Driver))
	}
	if c.Router.MaxRedirects < 1 {
		return invalid("router.maxRedirects", "maxRedirects must be at least 1")
	}
	return nil
}

func invalid(field, detail string) error {
	return errors.New("E122").
		WithDetail(field + ": " + detail)
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ReadHeaderTimeout returns the parsed server read header timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return mustDuration(c.Server.ReadHeaderTimeout)
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return mustDuration(c.Server.ShutdownTimeout)
}

// Latency returns the parsed backend latency.
func (c *Config) Latency() time.Duration {
	return mustDuration(c.Shop.Latency)
}

// URLExpiry returns the parsed presigned URL lifetime.
func (c *Config) URLExpiry() time.Duration {
	return mustDuration(c.Images.URLExpiry)
}

// mustDuration parses a duration Validate has already checked. Invalid input
// yields zero.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
