package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the table ordering system
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
	Sync     SyncConfig     `yaml:"sync"`
	Media    MediaConfig    `yaml:"media"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MigrationsPath string   `yaml:"migrations_path"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// AuthConfig holds staff authentication settings
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminUser     string        `yaml:"admin_user"`
	AdminPassword string        `yaml:"admin_password"`
}

// SyncConfig controls the order status poll loop
type SyncConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// MediaConfig controls where uploaded QR images are kept
type MediaConfig struct {
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"base_url"`
}

// Default returns the configuration used when a key is absent from the file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           3000,
			AllowedOrigins: []string{"*"},
			MigrationsPath: "migrations",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "restaurant_user",
			Password: "restaurant_pass",
			Database: "restaurant_db",
			SSLMode:  "disable",
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
		},
		Auth: AuthConfig{
			TokenTTL:  12 * time.Hour,
			AdminUser: "admin",
		},
		Sync: SyncConfig{
			PollInterval: 3 * time.Second,
		},
		Media: MediaConfig{
			Dir:     "media",
			BaseURL: "/media",
		},
	}
}

// Load reads configuration from a YAML file, then applies .env and RESTO_* overrides.
// A missing file is not an error; defaults and the environment still apply.
func Load(filename string) (*Config, error) {
	cfg := Default()

	content, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Sync.PollInterval <= 0 {
		return fmt.Errorf("sync.poll_interval must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"RESTO_DB_HOST":        &c.Database.Host,
		"RESTO_DB_USER":        &c.Database.User,
		"RESTO_DB_PASSWORD":    &c.Database.Password,
		"RESTO_DB_NAME":        &c.Database.Database,
		"RESTO_RABBITMQ_HOST":  &c.RabbitMQ.Host,
		"RESTO_RABBITMQ_USER":  &c.RabbitMQ.User,
		"RESTO_RABBITMQ_PASS":  &c.RabbitMQ.Password,
		"RESTO_JWT_SECRET":     &c.Auth.JWTSecret,
		"RESTO_ADMIN_USER":     &c.Auth.AdminUser,
		"RESTO_ADMIN_PASSWORD": &c.Auth.AdminPassword,
		"RESTO_MEDIA_DIR":      &c.Media.Dir,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"RESTO_PORT":          &c.Server.Port,
		"RESTO_DB_PORT":       &c.Database.Port,
		"RESTO_RABBITMQ_PORT": &c.RabbitMQ.Port,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("RESTO_POLL_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RESTO_POLL_INTERVAL value: %w", err)
		}
		c.Sync.PollInterval = d
	}

	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database, sslMode)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
