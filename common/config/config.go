package config

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mcuadros/go-defaults"
	"github.com/naoina/toml"
	"github.com/sethvargo/go-envconfig"
)

var configFile = ""

type Config struct {
	InstanceID string `env:"IMAGE_MODERATION_INSTANCE_ID"`
	Debug      bool   `env:"DEBUG" default:"false"`
	// expose /debug/pprof, keep it off in production
	EnablePprof   bool `env:"IMAGE_MODERATION_ENABLE_PPROF" default:"false"`
	EnableSwagger bool `env:"IMAGE_MODERATION_ENABLE_SWAGGER" default:"false"`

	APIServer struct {
		Host string `env:"HOST" default:"127.0.0.1"`
		Port int    `env:"PORT" default:"8000"`
		// comma separated, "*" allows every origin
		CORSAllowOrigins string `env:"IMAGE_MODERATION_CORS_ALLOW_ORIGINS" default:"*"`
	}

	Sightengine struct {
		APIUser   string `env:"SIGHTENGINE_API_USER"`
		APISecret string `env:"SIGHTENGINE_API_SECRET"`
		Endpoint  string `env:"SIGHTENGINE_ENDPOINT" default:"https://api.sightengine.com/1.0/check.json"`

		TimeoutSEC              int `env:"SIGHTENGINE_TIMEOUT_SEC" default:"30"`
		MaxConnections          int `env:"SIGHTENGINE_MAX_CONNECTIONS" default:"5"`
		MaxKeepAliveConnections int `env:"SIGHTENGINE_MAX_KEEPALIVE_CONNECTIONS" default:"2"`

		RetryAttempts           int     `env:"SIGHTENGINE_RETRY_ATTEMPTS" default:"3"`
		RetryInitialIntervalSEC int     `env:"SIGHTENGINE_RETRY_INITIAL_INTERVAL_SEC" default:"2"`
		RetryMaxIntervalSEC     int     `env:"SIGHTENGINE_RETRY_MAX_INTERVAL_SEC" default:"8"`
		RetryMultiplier         float64 `env:"SIGHTENGINE_RETRY_MULTIPLIER" default:"2"`
	}

	Moderation struct {
		// comma separated sightengine models, also selects the analyzers
		Models    string  `env:"MODERATION_MODELS" default:"nudity-2.0"`
		Threshold float64 `env:"NSFW_THRESHOLD" default:"0.7"`
		// bytes, or a human readable size such as "10MB"
		MaxFileSize       string `env:"MAX_FILE_SIZE" default:"10485760"`
		AllowedExtensions string `env:"ALLOWED_EXTENSIONS" default:"jpg,jpeg,png"`

		// parsed from MaxFileSize by LoadConfig
		MaxFileSizeBytes int64 `toml:"-"`
	}

	Instrumentation struct {
		OTLPEndpoint string `env:"OPENCSG_TRACING_OTLP_ENDPOINT"`
		//Note: don't enable it unless you have no other way to collect service logs. It will leads to very high CPU usage.
		OTLPLogging bool `env:"OPENCSG_TRACING_OTLP_LOGGING"`
	}
}

func SetConfigFile(file string) {
	configFile = file
}

func LoadConfig() (*Config, error) {
	defer slog.Debug("end load config")
	slog.Debug("start load config")
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	toml.DefaultConfig.MissingField = func(typ reflect.Type, key string) error {
		return nil
	}

	if configFile != "" {
		f, err := os.Open(configFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		err = toml.NewDecoder(f).Decode(cfg)
		if err != nil {
			return nil, err
		}
	}

	// Always read environment variables, even if a config file exists. If a config value is present in both the
	// config file and the environment, the environment value takes priority. If a config value is missing from
	// the config file, the default value (specified by the struct field's default tag) will be used.
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:           cfg,
		DefaultOverwrite: true,
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Moderation.Models = strings.Trim(strings.TrimSpace(c.Moderation.Models), `'"`)

	// written as a negation so NaN is rejected too
	if !(c.Moderation.Threshold >= 0 && c.Moderation.Threshold <= 1) {
		return fmt.Errorf("the NSFW threshold should be between 0 and 1, got %v", c.Moderation.Threshold)
	}

	size, err := humanize.ParseBytes(c.Moderation.MaxFileSize)
	if err != nil {
		return fmt.Errorf("invalid max file size %q: %w", c.Moderation.MaxFileSize, err)
	}
	if size == 0 {
		return fmt.Errorf("max file size must be positive")
	}
	if size > math.MaxInt64 {
		return fmt.Errorf("max file size %q is too large", c.Moderation.MaxFileSize)
	}
	c.Moderation.MaxFileSizeBytes = int64(size)
	return nil
}

// AllowedExtensionSet returns the lower-cased allowed extensions without leading dots.
func (c *Config) AllowedExtensionSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, ext := range strings.Split(c.Moderation.AllowedExtensions, ",") {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return set
}

// CORSAllowOrigins splits APIServer.CORSAllowOrigins, an empty list means any origin.
func (c *Config) CORSAllowOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.APIServer.CORSAllowOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "" || o == "*" {
			continue
		}
		origins = append(origins, o)
	}
	sort.Strings(origins)
	return origins
}

// CheckCredentials reports missing Sightengine credentials, the service can't work without them.
func (c *Config) CheckCredentials() error {
	if c.Sightengine.APIUser == "" || c.Sightengine.APISecret == "" {
		return fmt.Errorf("SIGHTENGINE_API_USER and SIGHTENGINE_API_SECRET are required")
	}
	return nil
}
