package database

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
	"github.com/techmaster-vietnam/blogcounter/config"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded SQL migrations using golang-migrate
func RunMigrations(db *gorm.DB, dbName string, log logrus.FieldLogger) error {
	// Get underlying *sql.DB from GORM
	sqlDB, err := db.DB()
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to get underlying sql.DB from GORM")
	}

	driver, err := pgmigrate.WithInstance(sqlDB, &pgmigrate.Config{
		DatabaseName: dbName,
	})
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to create postgres driver for migrations")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to create embedded source driver")
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to create migrate instance")
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("migrations are up to date")
			return nil
		}
		return goerrorkit.WrapWithMessage(err, "Failed to run migrations")
	}

	log.Info("migrations completed successfully")
	return nil
}

// PrepareSchema resets the store when cfg.Reset is set, then creates the schema
// with golang-migrate ("migrate", default) or gorm AutoMigrate ("auto")
func PrepareSchema(db *gorm.DB, cfg config.DatabaseConfig, log logrus.FieldLogger) error {
	if cfg.Reset {
		if err := Reset(db, log); err != nil {
			return err
		}
	}

	if cfg.MigrateMode == "auto" {
		if err := Migrate(db); err != nil {
			return goerrorkit.WrapWithMessage(err, "Failed to auto-migrate").WithData(map[string]interface{}{
				"operation": "auto_migrate",
			})
		}
		return nil
	}

	// With DATABASE_URL the name is read from the connection (current_database())
	dbName := cfg.Name
	if cfg.URL != "" {
		dbName = ""
	}
	if err := RunMigrations(db, dbName, log); err != nil {
		return goerrorkit.NewSystemError(err).WithData(map[string]interface{}{
			"operation": "migration",
			"database":  cfg.Name,
		})
	}
	return nil
}
