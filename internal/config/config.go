package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Local     LocalConfig     `yaml:"local"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig points at the remote store. Leaving Host empty runs the
// server on the local fallback store alone.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// LocalConfig locates the local fallback store.
type LocalConfig struct {
	Dir string `yaml:"dir"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Enabled reports whether a remote store is configured at all.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix LIFTLOG_ and underscore-separated paths:
//
//	LIFTLOG_SERVER_HOST, LIFTLOG_SERVER_PORT,
//	LIFTLOG_DB_HOST, LIFTLOG_DB_PORT, LIFTLOG_DB_NAME,
//	LIFTLOG_DB_USER, LIFTLOG_DB_PASSWORD, LIFTLOG_DB_SSLMODE,
//	LIFTLOG_LOCAL_DIR, LIFTLOG_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LIFTLOG_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LIFTLOG_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("LIFTLOG_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("LIFTLOG_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("LIFTLOG_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("LIFTLOG_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LIFTLOG_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("LIFTLOG_LOCAL_DIR"); v != "" {
		cfg.Local.Dir = v
	}
	if v := os.Getenv("LIFTLOG_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Local.Dir == "" {
		return fmt.Errorf("local.dir is required")
	}
	if c.Database.Enabled() {
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	}
	return nil
}
