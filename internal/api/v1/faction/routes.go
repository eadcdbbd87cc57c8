package faction

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/territories", ListTerritories)

	group := router.Group("/factions/:user_id")
	group.GET("/standings", GetStandings)
	group.POST("/reputation", ModifyReputation)
	group.GET("/allegiance", GetAllegiance)
	group.POST("/allegiance", ChooseAllegiance)
	group.GET("/perks", GetPerks)
	group.POST("/territories/claim", ClaimTerritory)
	group.POST("/territories/income", CollectIncome)
}
