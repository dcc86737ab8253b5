package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Переменные окружения с секретами. В TOML секреты не хранятся.
const (
	EnvDBPassword     = "DB_PASSWORD"
	EnvSendGridAPIKey = "SENDGRID_API_KEY"
	EnvAdminToken     = "ADMIN_TOKEN"
	EnvRedisPassword  = "REDIS_PASSWORD"
)

// Отправители уведомлений
const (
	SenderLog      = "log"
	SenderSendGrid = "sendgrid"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	App           AppConfig           `toml:"app"`
	Notifications NotificationsConfig `toml:"notifications"`
	Redis         RedisConfig         `toml:"redis"`
	Admin         AdminConfig         `toml:"-"`
}

// ServerConfig настройки HTTP сервера. Таймауты в секундах.
type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"-"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AppConfig доменные настройки
type AppConfig struct {
	Timezone                string `toml:"timezone"`
	AlternativesHorizonDays int    `toml:"alternatives_horizon_days"`
	AlternativesConcurrency int    `toml:"alternatives_concurrency"`
	AlternativesCacheTTL    int    `toml:"alternatives_cache_ttl"` // секунды
	AlternativesCacheSize   int    `toml:"alternatives_cache_size"`
	MaintenanceSchedule     string `toml:"maintenance_schedule"` // cron выражение
	ExpireStalePending      bool   `toml:"expire_stale_pending"`
}

// NotificationsConfig настройки email уведомлений
type NotificationsConfig struct {
	Sender      string `toml:"sender"` // log | sendgrid
	FromAddress string `toml:"from_address"`
	FromName    string `toml:"from_name"`
	Workers     int    `toml:"workers"`
	QueueSize   int    `toml:"queue_size"`
	APIKey      string `toml:"-"`
}

// RedisConfig общий кэш альтернатив (опционально)
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
	Password string `toml:"-"`
}

// AdminConfig доступ к админским эндпоинтам
type AdminConfig struct {
	Token string
}

// CacheTTL время жизни записи кэша альтернатив
func (c AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.AlternativesCacheTTL) * time.Second
}

// Load читает TOML файл, подмешивает секреты из окружения (.env подхватывается, если есть)
// и проверяет результат
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "reservationservice"
	}

	if c.App.Timezone == "" {
		c.App.Timezone = domain.DefaultTimezone
	}
	if c.App.AlternativesHorizonDays == 0 {
		c.App.AlternativesHorizonDays = domain.DefaultAlternativeHorizon
	}
	if c.App.AlternativesConcurrency == 0 {
		c.App.AlternativesConcurrency = 4
	}
	if c.App.AlternativesCacheTTL == 0 {
		c.App.AlternativesCacheTTL = 60
	}
	if c.App.AlternativesCacheSize == 0 {
		c.App.AlternativesCacheSize = 256
	}
	if c.App.MaintenanceSchedule == "" {
		c.App.MaintenanceSchedule = "@every 10m"
	}

	if c.Notifications.Sender == "" {
		c.Notifications.Sender = SenderLog
	}
	if c.Notifications.Workers == 0 {
		c.Notifications.Workers = 2
	}
	if c.Notifications.QueueSize == 0 {
		c.Notifications.QueueSize = 100
	}

	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "reservations:alternatives"
	}
}

func (c *Config) applyEnv() {
	c.Database.Password = os.Getenv(EnvDBPassword)
	c.Notifications.APIKey = os.Getenv(EnvSendGridAPIKey)
	c.Admin.Token = os.Getenv(EnvAdminToken)
	c.Redis.Password = os.Getenv(EnvRedisPassword)
}

// Validate проверяет конфигурацию и возвращает все найденные проблемы разом
func (c *Config) Validate() error {
	problems := make([]string, 0)

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be between 1 and 65535")
	}
	if strings.TrimSpace(c.Database.Host) == "" {
		problems = append(problems, "database.host is required")
	}
	if strings.TrimSpace(c.Database.DBName) == "" {
		problems = append(problems, "database.dbname is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("app.timezone %q is unknown", c.App.Timezone))
	}
	if c.App.AlternativesHorizonDays < 1 || c.App.AlternativesHorizonDays > domain.MaxAdvanceBookingDays {
		problems = append(problems, fmt.Sprintf("app.alternatives_horizon_days must be between 1 and %d", domain.MaxAdvanceBookingDays))
	}
	if c.App.AlternativesConcurrency < 1 {
		problems = append(problems, "app.alternatives_concurrency must be positive")
	}

	switch c.Notifications.Sender {
	case SenderLog:
	case SenderSendGrid:
		if c.Notifications.APIKey == "" {
			problems = append(problems, EnvSendGridAPIKey+" is required for the sendgrid sender")
		}
		if strings.TrimSpace(c.Notifications.FromAddress) == "" {
			problems = append(problems, "notifications.from_address is required for the sendgrid sender")
		}
	default:
		problems = append(problems, fmt.Sprintf("notifications.sender %q is unknown", c.Notifications.Sender))
	}
	if c.Notifications.Workers < 1 || c.Notifications.QueueSize < 1 {
		problems = append(problems, "notifications.workers and notifications.queue_size must be positive")
	}

	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.Admin.Token == "" {
		problems = append(problems, EnvAdminToken+" is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
