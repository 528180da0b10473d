package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Redis           RedisConfig           `toml:"redis"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	IdentityService IdentityServiceConfig `toml:"identity_service"`
	PaymentGateway  PaymentGatewayConfig  `toml:"payment_gateway"`
	Booking         BookingConfig         `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки Redis (кэш календаря)
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// IdentityServiceConfig настройки клиента сервиса идентичности
type IdentityServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// PaymentGatewayConfig настройки клиента платежного шлюза
type PaymentGatewayConfig struct {
	URL       string `toml:"url"`
	SecretKey string `toml:"secret_key"`
	Timeout   int    `toml:"timeout"`
}

// BookingConfig бизнес-настройки движка бронирования
type BookingConfig struct {
	// Timezone авторитетная таймзона бизнеса для границ суток
	// (правило "отмена день-в-день без реквизитов возврата")
	Timezone string `toml:"timezone"`

	// HoldTTLMinutes время жизни временного hold
	// Должно превышать окно авторизации платежного шлюза
	HoldTTLMinutes int `toml:"hold_ttl_minutes"`

	// SweepSchedule cron-расписание фоновой очистки hold и просроченных броней
	SweepSchedule string `toml:"sweep_schedule"`

	// CalendarCacheTTLSeconds TTL кэша календаря занятых слотов
	CalendarCacheTTLSeconds int `toml:"calendar_cache_ttl_seconds"`
}

// HoldTTL возвращает TTL hold как Duration
func (b *BookingConfig) HoldTTL() time.Duration {
	return time.Duration(b.HoldTTLMinutes) * time.Minute
}

// CalendarCacheTTL возвращает TTL кэша календаря как Duration
func (b *BookingConfig) CalendarCacheTTL() time.Duration {
	return time.Duration(b.CalendarCacheTTLSeconds) * time.Second
}

// Location загружает таймзону бизнеса
func (b *BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "srs-booking-engine",
			Path:        "/metrics",
		},
		Booking: BookingConfig{
			Timezone:                "Asia/Seoul",
			HoldTTLMinutes:          30,
			SweepSchedule:           "@every 1m",
			CalendarCacheTTLSeconds: 15,
		},
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if cfg.Booking.HoldTTLMinutes <= 0 {
		return nil, fmt.Errorf("config: hold_ttl_minutes must be positive")
	}
	if _, err := cfg.Booking.Location(); err != nil {
		return nil, fmt.Errorf("config: invalid booking timezone %q: %w", cfg.Booking.Timezone, err)
	}

	return cfg, nil
}
