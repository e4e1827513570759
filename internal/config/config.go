package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Limits LimitsConfig `yaml:"limits"`
	Audit  AuditConfig  `yaml:"audit"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// LimitsConfig bounds inline attachment payloads. MaxAttachmentBytes is the
// per-attachment ceiling advertised to clients (enforced client-side);
// MaxMessageBytes is the hard per-message ceiling on the websocket channel.
type LimitsConfig struct {
	MaxAttachmentBytes int64 `yaml:"max_attachment_bytes"`
	MaxMessageBytes    int64 `yaml:"max_message_bytes"`
}

type AuditConfig struct {
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Load reads configuration from an optional YAML file and environment variables.
// An explicit path wins over SITEDESK_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "sitedesk.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Limits: LimitsConfig{
			MaxAttachmentBytes: 5 * 1024 * 1024,
			MaxMessageBytes:    15 * 1024 * 1024,
		},
		Audit: AuditConfig{
			Retention:     31 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
	}

	if path == "" {
		path = os.Getenv("SITEDESK_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("SITEDESK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SITEDESK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SITEDESK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("SITEDESK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SITEDESK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
