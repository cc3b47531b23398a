package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Database представляет подключение к базе данных
type Database struct {
	DB *sql.DB
}

// Config содержит настройки для подключения к базе данных
type Config struct {
	Path        string        // Путь к файлу SQLite (":memory:" для тестов)
	MaxConns    int           // Максимальное количество открытых соединений
	IdleTimeout time.Duration // Время жизни неиспользуемого соединения
}

// New создает новое подключение к базе данных SQLite.
// Включает foreign_keys, WAL и busy_timeout через DSN-прагмы.
func New(cfg Config) (*Database, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	dsn := cfg.Path + "?_pragma=foreign_keys(on)&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть базу данных: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	if cfg.IdleTimeout > 0 {
		db.SetConnMaxIdleTime(cfg.IdleTimeout)
	}

	// Проверяем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	return d.DB.Close()
}
