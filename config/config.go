// Package config loads runtime settings from a YAML file and the
// environment. Environment variables use the VOYAGO_ prefix, e.g.
// VOYAGO_OPENAI_API_KEY.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/voyago/voyago/catalog"
)

// Config holds every tunable of the service.
type Config struct {
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	AssistantID  string `mapstructure:"assistant_id"`

	ListenAddr    string `mapstructure:"listen_addr"`
	SearchBaseURL string `mapstructure:"search_base_url"`

	CatalogVersion string `mapstructure:"catalog_version"`

	PollInterval time.Duration `mapstructure:"poll_interval"`
	RunTimeout   time.Duration `mapstructure:"run_timeout"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	WS WSConfig `mapstructure:"ws"`
}

// WSConfig holds the websocket gateway limits.
type WSConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

// Load reads cfgFile (optional) and the environment and returns the
// validated configuration.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("openai_api_key", "")
	v.SetDefault("assistant_id", "")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("search_base_url", "https://api.holidayhero.dev")
	v.SetDefault("catalog_version", catalog.DefaultVersion)
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("run_timeout", 2*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("ws.read_timeout", 10*time.Minute)
	v.SetDefault("ws.write_timeout", 30*time.Second)
	v.SetDefault("ws.max_message_size", int64(64*1024))

	v.SetEnvPrefix("VOYAGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("openai_api_key is required (set VOYAGO_OPENAI_API_KEY)")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("run_timeout must be positive, got %s", c.RunTimeout)
	}
	if c.WS.MaxMessageSize <= 0 {
		return fmt.Errorf("ws.max_message_size must be positive, got %d", c.WS.MaxMessageSize)
	}
	return nil
}
