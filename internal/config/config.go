package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Broker struct {
		Host     string `yaml:"host" env:"BROKER_HOST"`
		Port     string `yaml:"port" env:"BROKER_PORT"`
		Username string `yaml:"username" env:"BROKER_USERNAME"`
		Password string `yaml:"password" env:"BROKER_PASSWORD"`
		VHost    string `yaml:"vhost" env:"BROKER_VHOST"`
	} `yaml:"broker"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Pipeline struct {
		Prefetch    int `yaml:"prefetch" env:"PIPELINE_PREFETCH"`
		MaxAttempts int `yaml:"max_attempts" env:"PIPELINE_MAX_ATTEMPTS"`
		BatchSize   int `yaml:"batch_size" env:"PIPELINE_BATCH_SIZE"`
	} `yaml:"pipeline"`

	Ingest struct {
		InputDir string `yaml:"input_dir" env:"INGEST_INPUT_DIR"`
	} `yaml:"ingest"`

	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The config file is optional; env vars alone are enough to run.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Broker defaults
	config.Broker.Host = "localhost"
	config.Broker.Port = "5672"
	config.Broker.Username = "guest"
	config.Broker.Password = "guest"
	config.Broker.VHost = "/"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "studentpipe"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// Pipeline defaults
	config.Pipeline.Prefetch = 10
	config.Pipeline.MaxAttempts = 3
	config.Pipeline.BatchSize = 100

	// Ingest defaults
	config.Ingest.InputDir = "data/incoming"

	// Server defaults
	config.Server.Port = "8080"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig performs sanity checks on the loaded configuration
func validateConfig(config *Config) error {
	if config.Broker.Host == "" {
		return fmt.Errorf("broker host cannot be empty")
	}
	if config.Database.Host == "" || config.Database.DBName == "" {
		return fmt.Errorf("database host and name cannot be empty")
	}
	if config.Pipeline.Prefetch < 1 {
		return fmt.Errorf("pipeline prefetch must be at least 1")
	}
	if config.Pipeline.MaxAttempts < 1 {
		return fmt.Errorf("pipeline max_attempts must be at least 1")
	}
	if config.Pipeline.BatchSize < 1 {
		return fmt.Errorf("pipeline batch_size must be at least 1")
	}
	return nil
}

// GetPostgresConnectionString builds the pgx connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetBrokerURL builds the AMQP connection URL
func (c *Config) GetBrokerURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s%s",
		c.Broker.Username,
		c.Broker.Password,
		c.Broker.Host,
		c.Broker.Port,
		c.Broker.VHost,
	)
}
