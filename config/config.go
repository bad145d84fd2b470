package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "QFORMS_"

type Config struct {
	Host        string `koanf:"host" validate:"required"`
	Port        int    `koanf:"port" validate:"min=1,max=65535"`
	DBUrl       string `koanf:"db_url" validate:"required"`
	TokenSecret string `koanf:"token_secret" validate:"required"`
	TokenTTL    int    `koanf:"token_ttl" validate:"min=1,max=86400"` // seconds
	Debug       bool   `koanf:"debug"`
}

func defaults() map[string]any {
	return map[string]any{
		"host":      "0.0.0.0",
		"port":      80,
		"db_url":    "qforms.sqlite",
		"token_ttl": 120,
		"debug":     false,
	}
}

// Load builds the configuration from defaults, the optional JSON file at
// path, and QFORMS_* environment variables, in increasing priority.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	for key, value := range defaults() {
		k.Set(key, value)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration is usable for serving.
func (cfg Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// envTransform maps QFORMS_TOKEN_SECRET to token_secret.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

func (cfg Config) Addr() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

func (cfg Config) TTL() time.Duration {
	return time.Duration(cfg.TokenTTL) * time.Second
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr()
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
