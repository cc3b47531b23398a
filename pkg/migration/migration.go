package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

// Config содержит настройки для миграций
type Config struct {
	MigrationsPath string
	MigrationsFS   fs.FS
}

// Migrator выполняет миграции базы данных
type Migrator struct {
	config Config
	db     *sql.DB
}

// NewMigrator создает новый экземпляр Migrator
func NewMigrator(config Config, db *sql.DB) *Migrator {
	return &Migrator{
		config: config,
		db:     db,
	}
}

// Up применяет все доступные миграции
func (m *Migrator) Up() error {
	migrator, err := m.createMigrator()
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info().Msg("database migrations applied successfully")
	return nil
}

// Down откатывает все миграции
func (m *Migrator) Down() error {
	migrator, err := m.createMigrator()
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}

	log.Info().Msg("database migrations rolled back successfully")
	return nil
}

// Version возвращает текущую версию миграции
func (m *Migrator) Version() (uint, bool, error) {
	migrator, err := m.createMigrator()
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}

// createMigrator создает экземпляр migrate.Migrate поверх существующего *sql.DB.
// Важно: не вызываем migrator.Close(), чтобы не закрыть общее соединение.
func (m *Migrator) createMigrator() (*migrate.Migrate, error) {
	driver, err := sqlite.WithInstance(m.db, &sqlite.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	source, err := iofs.New(m.config.MigrationsFS, m.config.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return migrator, nil
}
