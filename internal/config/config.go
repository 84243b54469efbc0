// Package config provides configuration loading for the threadline CLI
// and API server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	// API metadata
	API APIConfig `mapstructure:"api"`

	// MongoDB configuration
	MongoDB MongoConfig `mapstructure:"mongodb"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// CORS configuration
	CORS CORSConfig `mapstructure:"cors"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds API metadata.
type APIConfig struct {
	ProjectName string `mapstructure:"projectName"`
	Version     string `mapstructure:"version"`
	Prefix      string `mapstructure:"prefix"`
}

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URL            string        `mapstructure:"url"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
	QueryTimeout   time.Duration `mapstructure:"queryTimeout"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	// Origins allowed to call the API. ["*"] allows all origins.
	Origins []string `mapstructure:"origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			ProjectName: "Threadline Commerce API",
			Version:     "1.0.0",
			Prefix:      "/api/v1",
		},
		MongoDB: MongoConfig{
			URL:            "mongodb://localhost:27017",
			Database:       "ecommerce",
			ConnectTimeout: 5 * time.Second,
			QueryTimeout:   10 * time.Second,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".threadline"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("threadline")
		v.SetConfigType("yaml")
	}

	// Environment variables: THREADLINE_MONGODB_URL etc. The replacer maps
	// nested keys like mongodb.url onto MONGODB_URL.
	v.SetEnvPrefix("THREADLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.projectName", "Threadline Commerce API")
	v.SetDefault("api.version", "1.0.0")
	v.SetDefault("api.prefix", "/api/v1")
	v.SetDefault("mongodb.url", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "ecommerce")
	v.SetDefault("mongodb.connectTimeout", "5s")
	v.SetDefault("mongodb.queryTimeout", "10s")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.idleTimeout", "60s")
	v.SetDefault("cors.origins", []string{"http://localhost:3000"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
