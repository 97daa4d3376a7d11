package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mealmosaic/engine/internal/models"
)

// Migrate brings the schema up to date. AutoMigrate covers both postgres and
// sqlite; the engine's two tables carry no constraints it cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.CuisineCorpus{},
		&models.SavedMealCollection{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
