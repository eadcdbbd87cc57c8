package database

import (
	"anomaly-economy/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	DB = db
	return db, nil
}

// Migrate creates or updates every table the core owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CapRecord{},
		&models.Item{},
		&models.InventoryStack{},
		&models.Cooldown{},
		&models.Faction{},
		&models.FactionStanding{},
		&models.Allegiance{},
		&models.FactionHostility{},
		&models.Territory{},
		&models.ReputationLog{},
		&models.StashAccount{},
		&models.Donor{},
		&models.RaffleEntry{},
	)
}
