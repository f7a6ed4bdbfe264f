package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
	Database struct {
		Driver   string `yaml:"driver"` // "postgres" or "sqlite3"
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
		Path     string `yaml:"path"` // sqlite3 file path
		Debug    bool   `yaml:"debug"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret  string `yaml:"jwt_secret"`
		RBACModel  string `yaml:"rbac_model"`
		RBACPolicy string `yaml:"rbac_policy"`
	} `yaml:"auth"`
}

// Default returns the development configuration used when no config file
// is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 9090
	cfg.Database.Driver = "sqlite3"
	cfg.Database.Path = "waitery.db"
	cfg.Database.SSLMode = "disable"
	cfg.Auth.JWTSecret = "dev-secret"
	cfg.Auth.RBACModel = "config/rbac_model.conf"
	cfg.Auth.RBACPolicy = "config/rbac_policy.csv"
	return cfg
}

// Load reads the yaml configuration at path, falling back to Default
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// DSN builds the connection string for the configured database driver.
func (c *Config) DSN() string {
	if c.Database.Driver == "sqlite3" {
		return c.Database.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
