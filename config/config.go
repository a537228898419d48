package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Web      WebConfig      `yaml:"web"`
	Events   EventsConfig   `yaml:"events"`
}

// BackendConfig points the panel at the fleet backend REST API.
type BackendConfig struct {
	BaseURL          string        `yaml:"base_url"`
	Timeout          time.Duration `yaml:"timeout"`
	NodePollInterval time.Duration `yaml:"node_poll_interval"`
	FilePollInterval time.Duration `yaml:"file_poll_interval"`
	// RefreshDelay is how long to wait after a mutating command before
	// re-polling, so backend-side state has a chance to settle.
	RefreshDelay time.Duration `yaml:"refresh_delay"`
}

type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type WebConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	SessionSecret string `yaml:"session_secret"`
	// PublicURL is the externally reachable base URL of the panel, used
	// to build fully-qualified copy links. Falls back to the backend base
	// URL when empty.
	PublicURL string `yaml:"public_url"`
}

type EventsConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
	Topic string      `yaml:"topic"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
}

func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:          "http://localhost:9999",
			Timeout:          10 * time.Second,
			NodePollInterval: 5 * time.Second,
			FilePollInterval: 5 * time.Second,
			RefreshDelay:     800 * time.Millisecond,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "fleetpanel.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "fleetpanel",
				User:     "fleetpanel",
				Password: "",
				SSLMode:  "disable",
			},
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			Password: "",
			DB:       0,
		},
		Web: WebConfig{
			Host:          "0.0.0.0",
			Port:          8084,
			SessionSecret: "change-me-in-production",
		},
		Events: EventsConfig{
			Topic: "fleetpanel.commands",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
