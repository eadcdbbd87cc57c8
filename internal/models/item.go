package models

// Item types understood by the services layer.
const (
	ItemTypeWeapon     = "weapon"
	ItemTypeArmor      = "armor"
	ItemTypeConsumable = "consumable"
	ItemTypeLootbox    = "lootbox"
	ItemTypePowerArmor = "power_armor"
)

// Item is read-only catalog data, seeded at startup.
type Item struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Price       int64  `gorm:"not null;default:0" json:"price"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"not null;index" json:"type"`
	Rarity      string `gorm:"default:'common'" json:"rarity"`
	Damage      int    `gorm:"not null;default:0" json:"damage"`
	Defense     int    `gorm:"not null;default:0" json:"defense"`
	// Comma-separated effect list, e.g. "health+20,rads-100".
	Effect string `gorm:"default:'none'" json:"effect"`
}

// InventoryStack holds how many of one item a user owns. A row with
// amount zero is logically absent and gets deleted on consume.
type InventoryStack struct {
	UserID string `gorm:"primaryKey" json:"user_id"`
	ItemID string `gorm:"primaryKey" json:"item_id"`
	Amount int    `gorm:"not null;default:0" json:"amount"`
}
