package actions

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/actions/:user_id")
	group.POST("/hunt", Hunt)
	group.POST("/fish", Fish)
	group.POST("/rob", Rob)
	group.POST("/slots", PlaySlots)
	group.POST("/coinflip", Coinflip)
	group.GET("/scavenge", ScavengeStatus)
	group.POST("/scavenge", StartScavenge)
	group.POST("/scavenge/collect", CollectScavenge)
}
