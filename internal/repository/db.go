package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pow3r/cashout/internal/config"
	"github.com/pow3r/cashout/internal/migrations"
)

// OpenDatabase opens the configured database and brings its schema up to date.
func OpenDatabase() (*sql.DB, error) {
	switch databaseType := config.GetSystemSettingString(config.DATABASE_TYPE); databaseType {
	case config.DATABASE_TYPE_POSTGRES:
		return openPostgres(config.GetSystemSettingString(config.DATABASE_URL))
	case config.DATABASE_TYPE_MYSQL:
		return openMysql(config.GetSystemSettingString(config.DATABASE_URL))
	case config.DATABASE_TYPE_SQLLITE:
		return OpenSqlLite(config.GetSystemSettingString(config.DATABASE_SQLLITE_FILE_NAME))
	default:
		return nil, fmt.Errorf("%s must be one of %s, %s, %s, got %q", config.DATABASE_TYPE,
			config.DATABASE_TYPE_POSTGRES, config.DATABASE_TYPE_MYSQL, config.DATABASE_TYPE_SQLLITE, databaseType)
	}
}

func openPostgres(dbURL string) (*sql.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("%s must be set when using the POSTGRES database type", config.DATABASE_URL)
	}
	slog.Info("Running migrations", "database", "postgres")
	if err := runMigrationsFromURL("postgres", dbURL); err != nil {
		return nil, fmt.Errorf("postgres migration: %w", err)
	}
	slog.Info("Opening Postgres database")
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	return db, db.Ping()
}

func openMysql(dbURL string) (*sql.DB, error) {
	if !strings.HasPrefix(dbURL, "mysql://") {
		return nil, fmt.Errorf("%s must start with 'mysql://' for MySQL", config.DATABASE_URL)
	}
	if !strings.Contains(dbURL, "parseTime=true") {
		return nil, fmt.Errorf("%s must contain 'parseTime=true' for MySQL", config.DATABASE_URL)
	}
	migrateURL := dbURL
	if !strings.Contains(migrateURL, "multiStatements=") {
		// each migration file holds several statements
		migrateURL += "&multiStatements=true"
	}
	slog.Info("Running migrations", "database", "mysql")
	if err := runMigrationsFromURL("mysql", migrateURL); err != nil {
		return nil, fmt.Errorf("mysql migration: %w", err)
	}
	slog.Info("Opening MySQL database")
	db, err := sql.Open("mysql", strings.TrimPrefix(dbURL, "mysql://"))
	if err != nil {
		return nil, err
	}
	return db, db.Ping()
}

// OpenSqlLite opens a SQLite database and migrates it through the same
// handle. An in-memory database lives only as long as its single connection,
// so the pool is pinned to one connection that never expires.
func OpenSqlLite(fileName string) (*sql.DB, error) {
	if fileName == "" {
		fileName = config.SQLLITE_IN_MEMORY
	}
	slog.Info("Opening SQLite database", "file", fileName)
	db, err := sql.Open("sqlite3", fileName)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("Running migrations", "database", "sqlite3")
	if err := migrateSqlLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite migration: %w", err)
	}
	return db, nil
}

func migrateSqlLite(db *sql.DB) error {
	src, err := embeddedSource("sqlite3")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	// m.Close would close db as well, so the instance is left open.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	return up(m)
}

func runMigrationsFromURL(migrationsPath string, dbURL string) error {
	src, err := embeddedSource(migrationsPath)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return up(m)
}

func embeddedSource(migrationsPath string) (source.Driver, error) {
	sub, err := fs.Sub(migrations.FS, migrationsPath)
	if err != nil {
		return nil, err
	}
	return iofs.New(sub, ".")
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
