package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию для Prompt Vault Server
type Config struct {
	// Настройки сервера
	Host        string `envconfig:"HOST" default:"127.0.0.1"`
	Port        string `envconfig:"PORT" default:"3456"`
	Env         string `envconfig:"ENV" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Настройки SQLite
	DatabasePath  string        `envconfig:"DATABASE_PATH" default:"prompt-vault.db"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"4"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`

	// Настройки файлового хранилища
	UploadsDir string `envconfig:"UPLOADS_DIR" default:"uploads"`

	// CORS (через запятую). По умолчанию — origin'ы десктопного фронтенда.
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"tauri://localhost,http://localhost:1420,http://localhost:5173"`

	// Rate limiting
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"500"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// GetAllowedOrigins возвращает список разрешенных origin'ов для CORS.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Addr возвращает адрес для http.Server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// LoadConfig загружает конфигурацию из .env файла (если есть) и переменных окружения
func LoadConfig(envFiles ...string) (*Config, error) {
	// .env опционален: при его отсутствии работаем только с окружением
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("Файл .env не загружен (%v), используем переменные окружения", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации prompt-vault: %w", err)
	}

	log.Printf("Конфигурация Prompt Vault загружена:")
	log.Printf("  Addr: %s", cfg.Addr())
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  Database: %s", cfg.DatabasePath)
	log.Printf("  Uploads Dir: %s", cfg.UploadsDir)
	log.Printf("  CORS Origins: %s", cfg.CORSAllowedOrigins)
	log.Printf("  Rate Limit: %d per %v", cfg.RateLimitMax, cfg.RateLimitWindow)

	return &cfg, nil
}
