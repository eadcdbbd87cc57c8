package stash

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/stash/:user_id")
	group.GET("", GetStatus)
	group.POST("/deposit", Deposit)
	group.POST("/withdraw", Withdraw)
	group.POST("/fee", PayFee)
	group.POST("/interest", ClaimInterest)
}
