package combat

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/combat")
	group.GET("/npcs", ListNPCs)
	group.POST("/npc/:user_id", FightNPC)
	group.POST("/challenge", CreateChallenge)
	group.POST("/challenge/accept", AcceptChallenge)
	group.POST("/challenge/decline", DeclineChallenge)
}
