package database

import (
	"transition-hub-backend/internal/config"
	"transition-hub-backend/internal/logging"
	"transition-hub-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logging.L.Fatal().Err(err).Msg("could not connect to database")
	}

	if err := Migrate(DB); err != nil {
		logging.L.Fatal().Err(err).Msg("migration failed")
	}

	logging.L.Info().Msg("database connected, migration complete")
}

// Migrate runs AutoMigrate for every entity. Split out so tests can run the
// same schema against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.CompanyRelationship{},
		&models.CorporateEmission{},
		&models.Category{},
		&models.EmissionAllocation{},
		&models.AuditLog{},
		&models.EmailJob{},
	)
}
