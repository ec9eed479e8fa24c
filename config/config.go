// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory; a missing file falls back to defaults so the server runs out
// of the box.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		v.SetDefault("server.address", "")
		v.SetDefault("server.port", 8080)
		v.SetDefault("database.path", "./data/timetracker.db")
		v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. TT_SERVER_PORT=9000
		v.SetEnvPrefix("TT")
		v.AutomaticEnv()

		if readErr := v.ReadInConfig(); readErr != nil {
			if path != "" {
				err = fmt.Errorf("read config: %w", readErr)
				return
			}
			if _, notFound := readErr.(viper.ConfigFileNotFoundError); !notFound {
				err = fmt.Errorf("read config: %w", readErr)
				return
			}
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
