package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"tarefaTracker/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// UpPostgres применяет миграции. databaseURL должен быть в формате postgres://
func UpPostgres(databaseURL string) error {
	m, err := newPostgres(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	return up(m, "postgres")
}

func DownPostgres(databaseURL string) error {
	m, err := newPostgres(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	logger.Info("Migrations: Откат миграций", zap.String("dialect", "postgres"))
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrations: Не удалось откатить миграции", err)
		return fmt.Errorf("откат миграций: %w", err)
	}
	return nil
}

// UpSQLite работает поверх уже открытого соединения.
// migrate.Close здесь не вызывается: драйвер закрыл бы db.
func UpSQLite(db *sql.DB) error {
	src, err := iofs.New(sqliteFS, "sqlite")
	if err != nil {
		return fmt.Errorf("источник миграций: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("драйвер миграций sqlite: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer src.Close()

	return up(m, "sqlite")
}

func newPostgres(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(postgresFS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("источник миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("инициализация миграций: %w", err)
	}
	return m, nil
}

func up(m *migrate.Migrate, dialect string) error {
	logger.Info("Migrations: Применение миграций", zap.String("dialect", dialect))

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrations: Не удалось применить миграции", err, zap.String("dialect", dialect))
		return fmt.Errorf("применение миграций: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("версия схемы: %w", err)
	}

	logger.Info("Migrations: Схема актуальна",
		zap.String("dialect", dialect),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
	return nil
}
