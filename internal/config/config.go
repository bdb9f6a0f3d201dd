// Package config загрузка конфигурации сервиса из TOML-файла
// с переопределением чувствительных значений через переменные окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	Notifier       IntegrationConfig `toml:"notifier"`
	CalendarMirror IntegrationConfig `toml:"calendar_mirror"`
	RateLimit      RateLimitConfig   `toml:"rate_limit"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	Port            int `toml:"port"`
	ReadTimeoutSec  int `toml:"read_timeout_sec"`
	WriteTimeoutSec int `toml:"write_timeout_sec"`
	IdleTimeoutSec  int `toml:"idle_timeout_sec"`
	ShutdownSec     int `toml:"shutdown_sec"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	Name           string `toml:"name"`
	SSLMode        string `toml:"sslmode"`
	MaxOpenConns   int    `toml:"max_open_conns"`
	MaxIdleConns   int    `toml:"max_idle_conns"`
	ConnMaxLifeMin int    `toml:"conn_max_life_min"`
}

// DSN собирает строку подключения lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetime время жизни соединения в пуле
func (d DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(d.ConnMaxLifeMin) * time.Minute
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// IntegrationConfig настройки внешнего HTTP-сервиса
type IntegrationConfig struct {
	BaseURL    string `toml:"base_url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// Timeout таймаут исходящих запросов интеграции
func (i IntegrationConfig) Timeout() time.Duration {
	if i.TimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(i.TimeoutSec) * time.Second
}

// RateLimitConfig настройки лимитера запросов на пользователя
type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

// Load читает конфигурацию из TOML-файла и применяет переопределения
// из окружения (.env подхватывается, если присутствует).
func Load(path string) (*Config, error) {
	// .env опционален, отсутствие файла не ошибка
	_ = godotenv.Load()

	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 15,
			IdleTimeoutSec:  60,
			ShutdownSec:     10,
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			SSLMode:        "disable",
			MaxOpenConns:   25,
			MaxIdleConns:   5,
			ConnMaxLifeMin: 5,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 20,
		},
	}
}

// applyEnvOverrides переопределяет значения секретов и адресов из окружения.
// Файл конфигурации хранится в репозитории, пароли - нет.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("NOTIFIER_BASE_URL"); v != "" {
		cfg.Notifier.BaseURL = v
	}
	if v := os.Getenv("CALENDAR_MIRROR_BASE_URL"); v != "" {
		cfg.CalendarMirror.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logs.Level = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database user is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: database name is required")
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("config: metrics path is required when metrics enabled")
	}
	return nil
}
