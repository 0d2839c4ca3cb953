package interview

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from an optional
// YAML file, then environment variables; the environment wins.
type Config struct {
	HTTPAddr    string   `yaml:"http_addr"`
	DatabaseURL string   `yaml:"database_url"`
	RedisAddr   string   `yaml:"redis_addr"`
	OpenAIKey   string   `yaml:"openai_api_key"`
	Models      []string `yaml:"models"`
	JWTSecret   string   `yaml:"jwt_secret"`
}

// DefaultModels is the gateway's model priority order: the preferred
// fast model first, then progressively larger fallbacks.
var DefaultModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo"}

// LoadConfig reads configuration from path (may be empty or missing)
// and overlays environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		HTTPAddr:  ":8080",
		JWTSecret: "secret", // dev default, matches nothing in production
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("interview: read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("interview: parse config: %w", err)
		}
	}

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("OPENAI_MODELS"); v != "" {
		cfg.Models = nil
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.Models = append(cfg.Models, m)
			}
		}
	}

	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels
	}

	return cfg, nil
}
