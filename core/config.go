package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	ServiceName    string        `koanf:"service_name" mapstructure:"service_name"`
	BaseURL        string        `koanf:"base_url" mapstructure:"base_url"`
	APIKey         string        `koanf:"api_key" mapstructure:"api_key"`
	EntityID       string        `koanf:"entity_id" mapstructure:"entity_id"`
	RequestTimeout time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "composio",
		BaseURL:        "https://backend.composio.dev/api",
		EntityID:       DefaultEntityID,
		RequestTimeout: 30 * time.Second,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		return fmt.Errorf("core: base_url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return fmt.Errorf("core: base_url is not a valid URL: %w", err)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("core: request_timeout must not be negative")
	}
	return nil
}
