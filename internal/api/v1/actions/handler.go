package actions

import (
	"net/http"

	"anomaly-economy/internal/api/v1/common"
	"anomaly-economy/internal/services"
	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
)

func Hunt(c *gin.Context) {
	result, err := services.Hunt(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Hunt resolved", result))
}

func Fish(c *gin.Context) {
	result, err := services.Fish(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Cast resolved", result))
}

func Rob(c *gin.Context) {
	var req RobRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.Rob(c.Param("user_id"), req.Target)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Robbery resolved", result))
}

func PlaySlots(c *gin.Context) {
	var req WagerRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.PlaySlots(c.Param("user_id"), req.Bet)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Reels spun", result))
}

func Coinflip(c *gin.Context) {
	var req WagerRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.Coinflip(c.Param("user_id"), req.Bet)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Coin flipped", result))
}

func StartScavenge(c *gin.Context) {
	result, err := services.StartScavenge(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Scavenge run started", result))
}

func CollectScavenge(c *gin.Context) {
	outcome, balance, err := services.CollectScavenge(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Scavenge run collected", gin.H{
		"outcome": outcome,
		"balance": balance,
	}))
}

func ScavengeStatus(c *gin.Context) {
	status, err := services.GetScavengeStatus(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Scavenge status", status))
}
