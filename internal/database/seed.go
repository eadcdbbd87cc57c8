package database

import (
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedFactions = []models.Faction{
	{ID: "brotherhood", Name: "Brotherhood of Steel", Type: "major"},
	{ID: "institute", Name: "Institute", Type: "major"},
	{ID: "minutemen", Name: "Minutemen", Type: "major"},
	{ID: "railroad", Name: "Railroad", Type: "major"},
	{ID: "raiders", Name: "Raiders", Type: "major"},
	{ID: "wastelanders", Name: "Independent Wastelanders", Type: "major"},
	{ID: "smugglers", Name: "Smugglers", Type: "black-market"},
	{ID: "mercenaries", Name: "Mercenaries", Type: "black-market"},
	{ID: "syndicate", Name: "Wasteland Syndicate", Type: "black-market"},
}

var seedTerritories = []string{
	"cambridge_pd", "the_institute", "railroad_hq", "the_castle", "corvega", "vault_81",
}

var seedItems = []models.Item{
	{ID: "stimpak", Name: "Stimpak", Price: 100, Description: "Restores 20 Health.", Type: models.ItemTypeConsumable, Effect: "health+20"},
	{ID: "radaway", Name: "RadAway", Price: 150, Description: "Removes 100 Rads.", Type: models.ItemTypeConsumable, Effect: "rads-100"},
	{ID: "purified_water", Name: "Purified Water", Price: 50, Description: "Restores 10 Health.", Type: models.ItemTypeConsumable, Effect: "health+10"},
	{ID: "nuka_cola", Name: "Nuka-Cola", Price: 75, Description: "Restores 15 Health, +5 Rads.", Type: models.ItemTypeConsumable, Effect: "health+15,rads+5"},
	{ID: "buffout", Name: "Buffout", Price: 250, Description: "Removes 25 Rads.", Type: models.ItemTypeConsumable, Effect: "rads-25"},
	{ID: "lunchbox", Name: "Vault-Tec Lunchbox", Price: 1000, Description: "Contains random loot.", Type: models.ItemTypeLootbox},

	{ID: "pipe_pistol", Name: "Pipe Pistol", Price: 300, Type: models.ItemTypeWeapon, Damage: 6},
	{ID: "combat_knife", Name: "Combat Knife", Price: 450, Type: models.ItemTypeWeapon, Damage: 9},
	{ID: "hunting_rifle", Name: "Hunting Rifle", Price: 900, Type: models.ItemTypeWeapon, Damage: 14, Rarity: "uncommon"},
	{ID: "laser_rifle", Name: "Laser Rifle", Price: 2200, Type: models.ItemTypeWeapon, Damage: 22, Rarity: "rare"},
	{ID: "deathclaw_gauntlet", Name: "Deathclaw Gauntlet", Price: 4000, Type: models.ItemTypeWeapon, Damage: 25, Rarity: "legendary"},

	{ID: "leather_armor", Name: "Leather Armor", Price: 350, Type: models.ItemTypeArmor, Defense: 5},
	{ID: "metal_armor", Name: "Metal Armor", Price: 800, Type: models.ItemTypeArmor, Defense: 10, Rarity: "uncommon"},
	{ID: "combat_armor", Name: "Combat Armor", Price: 1800, Type: models.ItemTypeArmor, Defense: 18, Rarity: "rare"},

	{ID: "t45", Name: "T-45 Power Armor", Price: 2000, Type: models.ItemTypePowerArmor, Defense: 50, Rarity: "rare"},
	{ID: "t51", Name: "T-51 Power Armor", Price: 3000, Type: models.ItemTypePowerArmor, Defense: 60, Rarity: "rare"},
	{ID: "x01", Name: "X-01 Power Armor", Price: 5000, Type: models.ItemTypePowerArmor, Defense: 75, Rarity: "legendary"},
}

// Seed inserts catalog and faction reference data, ignoring rows that
// already exist so it is safe to run on every boot.
func Seed(db *gorm.DB) error {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seedFactions).Error; err != nil {
		return err
	}
	for _, id := range seedTerritories {
		t := models.Territory{ID: id}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&t).Error; err != nil {
			return err
		}
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seedItems).Error; err != nil {
		return err
	}
	return nil
}
