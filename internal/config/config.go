package config

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	TelegramToken string  `env:"TELEGRAM_TOKEN"`
	Environment   string  `env:"ENV" envDefault:"development"`
	LogLevel      string  `env:"LOG_LEVEL" envDefault:"info"`
	AdminIDs      []int64 `env:"ADMIN_TELEGRAM_IDS" envSeparator:","`
	DBDSN         string  `env:"DB_DSN"`

	Spreadsheet struct {
		Path           string        `env:"SPREADSHEET_PATH"`
		ReloadInterval time.Duration `env:"SPREADSHEET_RELOAD_INTERVAL" envDefault:"0s"`
		Workers        int           `env:"INGEST_WORKERS" envDefault:"4"`
	}

	HTTP struct {
		Enabled  bool   `env:"HTTP_ENABLED"`
		Addr     string `env:"HTTP_ADDR" envDefault:":8080"`
		APIToken string `env:"HTTP_API_TOKEN"`
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"mentors"`
	}

	ImageCacheSize int `env:"IMAGE_CACHE_SIZE" envDefault:"256"`
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return Parse()
}

// Parse собирает конфиг только из окружения процесса
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Environment = strings.ToLower(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля и согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" && !c.HTTP.Enabled {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required unless HTTP_ENABLED is set"))
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		errs = append(errs, errors.New("RABBITMQ_URL is required when RABBITMQ_ENABLED is set"))
	}
	if c.Spreadsheet.Workers < 1 {
		errs = append(errs, fmt.Errorf("INGEST_WORKERS must be positive, got %d", c.Spreadsheet.Workers))
	}
	if c.Spreadsheet.ReloadInterval > 0 && c.Spreadsheet.Path == "" {
		errs = append(errs, errors.New("SPREADSHEET_PATH is required when SPREADSHEET_RELOAD_INTERVAL is set"))
	}

	return errors.Join(errs...)
}

// IsAdmin может ли пользователь Telegram загружать таблицу
func (c *Config) IsAdmin(telegramID int64) bool {
	return slices.Contains(c.AdminIDs, telegramID)
}

// HistoryEnabled сохраняется ли история загрузок в PostgreSQL
func (c *Config) HistoryEnabled() bool {
	return c.DBDSN != ""
}
