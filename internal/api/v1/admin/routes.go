package admin

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/balance/adjust", AdjustBalance)
	router.POST("/xp", AwardXP)
	router.POST("/stats/grant", GrantStatPoints)
	router.POST("/reputation", ModifyReputation)
	router.POST("/donors", SetDonorTier)
	router.DELETE("/donors/:user_id", RemoveDonor)
	router.POST("/items/grant", GrantItem)
	router.DELETE("/cooldowns/:user_id/:kind", ClearCooldown)
	router.POST("/cooldowns/purge", PurgeExpiredCooldowns)
	router.POST("/levels/reconcile", ReconcileLevels)
	router.GET("/records", ListRecords)
	router.GET("/records/:user_id/verify", VerifyRecords)
	router.POST("/raffle/grant", GrantMonthlyEntries)
	router.GET("/raffle/standings", RaffleStandings)
	router.POST("/raffle/draw", DrawRaffleWinner)
	router.DELETE("/raffle/entries", PurgeRaffleEntries)
	router.DELETE("/factions/:user_id", ResetFactionState)
}
