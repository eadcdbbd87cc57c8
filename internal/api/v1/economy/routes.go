package economy

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/economy")
	group.GET("/leaderboard", Leaderboard)
	group.POST("/transfer", Transfer)
	group.GET("/:user_id", GetAccount)
	group.GET("/:user_id/records", ListRecords)
	group.GET("/:user_id/cooldowns", ListCooldowns)
	group.POST("/:user_id/daily", ClaimDaily)
}
