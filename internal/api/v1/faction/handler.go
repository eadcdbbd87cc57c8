package faction

import (
	"errors"
	"net/http"

	"anomaly-economy/internal/api/v1/common"
	"anomaly-economy/internal/services"
	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetStandings lists the user's reputation with every faction.
func GetStandings(c *gin.Context) {
	standings, err := services.GetStandings(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Standings retrieved", standings))
}

// ChooseAllegiance locks in the one-time faction choice.
func ChooseAllegiance(c *gin.Context) {
	var req AllegianceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.ChooseAllegiance(c.Param("user_id"), req.FactionID)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Allegiance sworn", result))
}

// ModifyReputation applies an event-sourced reputation change. Gains count
// against the daily cap; the admin surface is the only way around it.
func ModifyReputation(c *gin.Context) {
	var req ReputationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	change, err := services.ModifyReputation(c.Param("user_id"), req.FactionID, req.Delta, services.RepSourceEvent)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Reputation updated", change))
}

// GetAllegiance reports the locked faction, if any.
func GetAllegiance(c *gin.Context) {
	allegiance, err := services.GetAllegiance(c.Param("user_id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, utils.NewSuccessResponse("No allegiance sworn", nil))
		return
	}
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Allegiance retrieved", allegiance))
}

// GetPerks lists the rank-unlocked perks of the user's faction.
func GetPerks(c *gin.Context) {
	perks, err := services.UnlockedPerks(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Perks retrieved", perks))
}

// ListTerritories returns the territory map with daily income figures.
func ListTerritories(c *gin.Context) {
	territories, income, err := services.ListTerritories()
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Territories retrieved", gin.H{
		"territories": territories,
		"income":      income,
	}))
}

// ClaimTerritory stakes an unclaimed territory for the user's faction.
func ClaimTerritory(c *gin.Context) {
	var req ClaimRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.ClaimTerritory(c.Param("user_id"), req.TerritoryID)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Territory claimed", result))
}

// CollectIncome pays the faction's daily territory income.
func CollectIncome(c *gin.Context) {
	result, err := services.CollectTerritoryIncome(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Territory income collected", result))
}
