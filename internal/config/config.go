package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	API    APIConfig    `mapstructure:"api"`
	UI     UIConfig     `mapstructure:"ui"`
	Server ServerConfig `mapstructure:"server"`
}

type APIConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateBurst      int     `mapstructure:"rate_burst"`
}

type UIConfig struct {
	PageSize            int    `mapstructure:"page_size"`
	ToastTTLMillis      int    `mapstructure:"toast_ttl_ms"`
	DropdownCloseMillis int    `mapstructure:"dropdown_close_delay_ms"`
	LocationsAssetPath  string `mapstructure:"locations_path"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Default returns the configuration used when no config file is present.
// The values mirror the console's fixed UI constants.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 15,
			RateLimit:      0,
			RateBurst:      0,
		},
		UI: UIConfig{
			PageSize:            4,
			ToastTTLMillis:      2500,
			DropdownCloseMillis: 120,
			LocationsAssetPath:  "/assets/colombia-locations.json",
		},
		Server: ServerConfig{Port: 8080},
	}
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("CLINIC")
	viper.AutomaticEnv()

	cfg := Default()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
