package character

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/shop", ListShop)

	group := router.Group("/character/:user_id")
	group.GET("", GetProfile)
	group.POST("/stats", SpendStat)
	group.POST("/xp", AwardXP)
	group.GET("/raffle", GetRaffle)
	group.GET("/inventory", GetInventory)
	group.POST("/use", UseItem)
	group.POST("/buy", BuyItem)
	group.POST("/equip", EquipPowerArmor)
	group.DELETE("/equip", UnequipPowerArmor)
}
