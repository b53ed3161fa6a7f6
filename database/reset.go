package database

import (
	"github.com/sirupsen/logrus"
	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"
)

// Reset drops the blogs table and migration state.
// WARNING: This deletes every counter. Callers gate it behind RESET_DB=true.
func Reset(db *gorm.DB, log logrus.FieldLogger) error {
	log.Warn("resetting database (RESET_DB=true is set)")

	statements := []string{
		"DROP TABLE IF EXISTS blogs",
		"DROP TABLE IF EXISTS schema_migrations",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return goerrorkit.WrapWithMessage(err, "Failed to drop tables").WithData(map[string]interface{}{
				"statement": stmt,
			})
		}
	}

	log.Info("database reset completed")
	return nil
}
