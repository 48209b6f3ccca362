package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig      `toml:"server"`
	Logs                LogsConfig        `toml:"logs"`
	Metrics             MetricsConfig     `toml:"metrics"`
	AvailabilityService IntegrationConfig `toml:"availability_service"`
	ReservationService  IntegrationConfig `toml:"reservation_service"`
	Scheduler           SchedulerConfig   `toml:"scheduler"`
	Sessions            SessionsConfig    `toml:"sessions"`
	RateLimit           RateLimitConfig   `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки HTTP-клиента внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// SchedulerConfig настройки движка расписания
type SchedulerConfig struct {
	Timezone     string `toml:"timezone"`      // часовой пояс площадки, например America/Bogota
	GraceMinutes int    `toml:"grace_minutes"` // буфер для бронирования ближайших слотов
	OpenHour     int    `toml:"open_hour"`     // первый час синтетической сетки
	CloseHour    int    `toml:"close_hour"`    // час закрытия (не включается)
}

type SessionsConfig struct {
	TTLMinutes           int `toml:"ttl_minutes"`
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"`
}

type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`
	IdleMinutes       int  `toml:"idle_minutes"` // лимитер клиента удаляется после простоя
	TrustProxy        bool `toml:"trust_proxy"`  // брать IP из X-Forwarded-For (только за своим прокси)
}

// Load загружает конфигурацию из TOML-файла и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     false,
			Path:        "/metrics",
			ServiceName: "smc-slot-scheduler",
		},
		AvailabilityService: IntegrationConfig{Timeout: 5},
		ReservationService:  IntegrationConfig{Timeout: 10},
		Scheduler: SchedulerConfig{
			Timezone:     "America/Bogota",
			GraceMinutes: 30,
			OpenHour:     6,
			CloseHour:    23,
		},
		Sessions: SessionsConfig{
			TTLMinutes:           60,
			SweepIntervalSeconds: 60,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 240,
			Burst:             40,
			IdleMinutes:       10,
			TrustProxy:        false,
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.AvailabilityService.URL == "" {
		return fmt.Errorf("%w: availability_service.url is required", ErrInvalidConfig)
	}
	if c.ReservationService.URL == "" {
		return fmt.Errorf("%w: reservation_service.url is required", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("%w: scheduler.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Scheduler.GraceMinutes < 0 {
		return fmt.Errorf("%w: scheduler.grace_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Scheduler.OpenHour < 0 || c.Scheduler.CloseHour > 24 || c.Scheduler.OpenHour >= c.Scheduler.CloseHour {
		return fmt.Errorf("%w: scheduler.open_hour must be before scheduler.close_hour", ErrInvalidConfig)
	}
	if c.Sessions.TTLMinutes <= 0 {
		return fmt.Errorf("%w: sessions.ttl_minutes must be positive", ErrInvalidConfig)
	}
	if c.Sessions.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("%w: sessions.sweep_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit requires positive requests_per_minute and burst", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && c.RateLimit.IdleMinutes <= 0 {
		return fmt.Errorf("%w: rate_limit.idle_minutes must be positive", ErrInvalidConfig)
	}
	return nil
}

// Location часовой пояс площадки (валидирован в Validate)
func (s SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Grace буфер для ближайших слотов
func (s SchedulerConfig) Grace() time.Duration {
	return time.Duration(s.GraceMinutes) * time.Minute
}
