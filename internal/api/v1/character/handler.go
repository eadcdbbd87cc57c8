package character

import (
	"net/http"

	"anomaly-economy/internal/api/v1/common"
	"anomaly-economy/internal/services"
	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
)

// SpendStat converts one banked stat point into a permanent stat increase.
func SpendStat(c *gin.Context) {
	var req SpendStatRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := services.SpendStatPoint(c.Param("user_id"), req.Stat)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Stat point spent", user))
}

// GetInventory lists everything the user carries.
func GetInventory(c *gin.Context) {
	inv, err := services.GetInventory(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Inventory retrieved", inv))
}

// UseItem consumes one item and applies its effects.
func UseItem(c *gin.Context) {
	var req ItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.UseItem(c.Param("user_id"), req.ItemID)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Item used", result))
}

// BuyItem purchases catalog items at list price.
func BuyItem(c *gin.Context) {
	var req BuyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	balance, err := services.BuyItem(c.Param("user_id"), req.ItemID, req.Quantity)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Purchase complete", gin.H{"balance": balance}))
}

// EquipPowerArmor sets an owned frame as active.
func EquipPowerArmor(c *gin.Context) {
	var req ItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := services.EquipPowerArmor(c.Param("user_id"), req.ItemID); err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Power armor equipped", nil))
}

// UnequipPowerArmor clears the active frame.
func UnequipPowerArmor(c *gin.Context) {
	if err := services.UnequipPowerArmor(c.Param("user_id")); err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Power armor unequipped", nil))
}

// GetProfile returns the character sheet with derived progression fields.
func GetProfile(c *gin.Context) {
	user, err := services.EnsureUser(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile retrieved", gin.H{
		"user":           user,
		"xp_to_next":     services.XPToNextLevel(user.XP),
		"level_progress": services.LevelProgress(user.XP),
	}))
}

// AwardXP grants experience for qualifying activity. Donor multipliers apply
// inside the service.
func AwardXP(c *gin.Context) {
	var req AwardXPRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.AwardXP(c.Param("user_id"), req.Amount, req.Reason)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("XP awarded", result))
}

// GetRaffle reports the user's donor tier and raffle entries for the current
// month.
func GetRaffle(c *gin.Context) {
	userID := c.Param("user_id")
	month := services.CurrentRaffleMonth()
	entries, err := services.UserRaffleEntries(userID, month)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Raffle status retrieved", gin.H{
		"month":   month,
		"entries": entries,
		"tier":    services.DonorTierOf(userID),
	}))
}

// ListShop returns the purchasable catalog.
func ListShop(c *gin.Context) {
	items, err := services.ListShop()
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Shop retrieved", items))
}
