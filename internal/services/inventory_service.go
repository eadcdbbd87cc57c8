package services

import (
	"errors"
	"regexp"
	"strconv"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// grantItemTx adds n copies of an item to a user's inventory, upserting the
// stack row.
func grantItemTx(tx *gorm.DB, userID, itemID string, n int) error {
	if n <= 0 {
		return ErrInvalidAmount
	}
	var item models.Item
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownItem
		}
		return err
	}
	stack := models.InventoryStack{UserID: userID, ItemID: itemID, Amount: n}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"amount": gorm.Expr("inventory_stacks.amount + ?", n)}),
	}).Create(&stack).Error
}

// GrantItem adds items to an inventory. Admin and loot paths only.
func GrantItem(userID, itemID string, n int) error {
	if _, err := EnsureUser(userID); err != nil {
		return err
	}
	return grantItemTx(database.DB, userID, itemID, n)
}

// consumeItemTx removes one copy of an item. The amount check rides in the
// WHERE clause, and a stack that hits zero is deleted.
func consumeItemTx(tx *gorm.DB, userID, itemID string) error {
	res := tx.Model(&models.InventoryStack{}).
		Where("user_id = ? AND item_id = ? AND amount > 0", userID, itemID).
		UpdateColumn("amount", gorm.Expr("amount - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotHeld
	}
	return tx.Delete(&models.InventoryStack{}, "user_id = ? AND item_id = ? AND amount <= 0", userID, itemID).Error
}

// InventoryEntry joins a stack with its catalog item for display.
type InventoryEntry struct {
	Item   models.Item `json:"item"`
	Amount int         `json:"amount"`
}

// GetInventory lists everything a user carries.
func GetInventory(userID string) ([]InventoryEntry, error) {
	var stacks []models.InventoryStack
	if err := database.DB.Where("user_id = ? AND amount > 0", userID).Find(&stacks).Error; err != nil {
		return nil, err
	}
	entries := make([]InventoryEntry, 0, len(stacks))
	for _, s := range stacks {
		var item models.Item
		if err := database.DB.First(&item, "id = ?", s.ItemID).Error; err != nil {
			return nil, err
		}
		entries = append(entries, InventoryEntry{Item: item, Amount: s.Amount})
	}
	return entries, nil
}

// ListShop returns the purchasable catalog.
func ListShop() ([]models.Item, error) {
	var items []models.Item
	err := database.DB.Where("price > 0").Order("price asc").Find(&items).Error
	return items, err
}

// BuyItem purchases qty copies at catalog price. Charge and grant share a
// transaction.
func BuyItem(userID, itemID string, qty int) (int64, error) {
	if qty <= 0 {
		return 0, ErrInvalidAmount
	}
	if _, err := EnsureUser(userID); err != nil {
		return 0, err
	}
	var item models.Item
	if err := database.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnknownItem
		}
		return 0, err
	}

	total := item.Price * int64(qty)
	var newBalance int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		bal, err := debitTx(tx, userID, total, models.CapRecordWager, "bought "+item.Name, userID, "")
		if err != nil {
			return err
		}
		newBalance = bal
		return grantItemTx(tx, userID, itemID, qty)
	})
	if err != nil {
		return 0, err
	}
	invalidateUserCache(userID)
	return newBalance, nil
}

var effectPattern = regexp.MustCompile(`(health|rads)([+-]\d+)`)

// UseItemResult describes the outcome of consuming an item.
type UseItemResult struct {
	Item      string `json:"item"`
	Health    int    `json:"health_delta"`
	Radiation int    `json:"radiation_delta"`
	Caps      int64  `json:"caps"`
	XP        int64  `json:"xp"`
}

// UseItem consumes one item and applies its effects: consumables move
// health and rads, lootboxes pay out random caps. Weapons and armor are
// passive and cannot be used.
func UseItem(userID, itemID string) (UseItemResult, error) {
	if _, err := EnsureUser(userID); err != nil {
		return UseItemResult{}, err
	}
	var item models.Item
	if err := database.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UseItemResult{}, ErrUnknownItem
		}
		return UseItemResult{}, err
	}
	if item.Type != models.ItemTypeConsumable && item.Type != models.ItemTypeLootbox {
		return UseItemResult{}, ErrNotUsable
	}

	result := UseItemResult{Item: item.Name}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := consumeItemTx(tx, userID, itemID); err != nil {
			return err
		}
		if item.Type == models.ItemTypeLootbox {
			caps := int64(100 + rollInt(500))
			if _, err := creditTx(tx, userID, caps, models.CapRecordReward, "opened "+item.Name, userID, ""); err != nil {
				return err
			}
			result.Caps = caps
			return nil
		}
		for _, m := range effectPattern.FindAllStringSubmatch(item.Effect, -1) {
			delta, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			switch m[1] {
			case "health":
				result.Health += delta
			case "rads":
				result.Radiation += delta
			}
		}
		return nil
	})
	if err != nil {
		return UseItemResult{}, err
	}
	invalidateUserCache(userID)

	if result.Health != 0 {
		if err := AdjustHealth(userID, result.Health); err != nil {
			return result, err
		}
	}
	if result.Radiation != 0 {
		if err := AdjustRadiation(userID, result.Radiation); err != nil {
			return result, err
		}
	}
	return result, nil
}

// EquipPowerArmor sets an owned power armor frame as the active one.
func EquipPowerArmor(userID, itemID string) error {
	var item models.Item
	if err := database.DB.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownItem
		}
		return err
	}
	if item.Type != models.ItemTypePowerArmor {
		return ErrNotUsable
	}
	var stack models.InventoryStack
	if err := database.DB.First(&stack, "user_id = ? AND item_id = ? AND amount > 0", userID, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotHeld
		}
		return err
	}
	res := database.DB.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("power_armor", itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	invalidateUserCache(userID)
	return nil
}

// UnequipPowerArmor clears the active frame.
func UnequipPowerArmor(userID string) error {
	res := database.DB.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("power_armor", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	invalidateUserCache(userID)
	return nil
}
