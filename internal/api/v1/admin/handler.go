package admin

import (
	"net/http"
	"strconv"

	"anomaly-economy/internal/api/v1/common"
	"anomaly-economy/internal/models"
	"anomaly-economy/internal/services"
	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
)

func actorFrom(c *gin.Context) string {
	if actor := c.GetString("actor"); actor != "" {
		return actor
	}
	return "admin"
}

// AdjustBalance credits or debits a user. Every adjustment lands in the audit
// trail as an admin record tagged with the acting operator.
func AdjustBalance(c *gin.Context) {
	var req AdjustRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var (
		balance int64
		err     error
	)
	if req.Amount > 0 {
		balance, err = services.Credit(req.UserID, req.Amount, models.CapRecordAdmin, req.Reason, actorFrom(c))
	} else {
		balance, err = services.Debit(req.UserID, -req.Amount, models.CapRecordAdmin, req.Reason, actorFrom(c))
	}
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Balance adjusted", gin.H{"balance": balance}))
}

// AwardXP grants experience directly. Donor multipliers apply.
func AwardXP(c *gin.Context) {
	var req AwardXPRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.AwardXP(req.UserID, req.Amount, req.Reason)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("XP awarded", result))
}

// GrantStatPoints hands out unspent stat points outside the level-up flow.
func GrantStatPoints(c *gin.Context) {
	var req GrantStatPointsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := services.GrantStatPoints(req.UserID, req.Amount)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Stat points granted", user))
}

// ModifyReputation shifts a user's standing with a faction, bypassing the
// daily gain cap.
func ModifyReputation(c *gin.Context) {
	var req ReputationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	change, err := services.ModifyReputation(req.UserID, req.FactionID, req.Delta, services.RepSourceAdmin)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Reputation updated", change))
}

func SetDonorTier(c *gin.Context) {
	var req DonorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	donor, err := services.SetDonorTier(req.UserID, models.DonorTier(req.Tier))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Donor tier set", donor))
}

func RemoveDonor(c *gin.Context) {
	if err := services.RemoveDonor(c.Param("user_id")); err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Donor tier removed", nil))
}

func GrantItem(c *gin.Context) {
	var req GrantItemRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := services.GrantItem(req.UserID, req.ItemID, req.Amount); err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Item granted", nil))
}

func ClearCooldown(c *gin.Context) {
	kind := models.CooldownKind(c.Param("kind"))
	if err := services.ClearCooldown(c.Param("user_id"), kind); err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Cooldown cleared", nil))
}

func PurgeExpiredCooldowns(c *gin.Context) {
	purged, err := services.PurgeExpiredCooldowns()
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Expired cooldowns purged", gin.H{"purged": purged}))
}

// ReconcileLevels recomputes every cached level from lifetime XP and reports
// the rows that drifted.
func ReconcileLevels(c *gin.Context) {
	corrections, err := services.ReconcileLevels()
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Levels reconciled", corrections))
}

// ListRecords pages through the audit trail across all users, with optional
// user and type filters.
func ListRecords(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := services.CapRecordFilter{Page: page, Limit: limit}
	if u := c.Query("user_id"); u != "" {
		filter.UserID = &u
	}
	if t := c.Query("type"); t != "" {
		rt := models.CapRecordType(t)
		filter.Type = &rt
	}

	records, total, err := services.FindCapRecords(filter)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Records retrieved", gin.H{
		"records": records,
		"total":   total,
		"page":    page,
		"limit":   limit,
	}))
}

// VerifyRecords re-hashes a user's audit trail and reports tampered rows.
func VerifyRecords(c *gin.Context) {
	tampered, err := services.VerifyCapRecords(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Audit complete", gin.H{
		"tampered": tampered,
		"clean":    len(tampered) == 0,
	}))
}

func GrantMonthlyEntries(c *gin.Context) {
	granted, err := services.GrantMonthlyEntries()
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Monthly entries granted", gin.H{"granted": granted}))
}

func RaffleStandings(c *gin.Context) {
	month := c.DefaultQuery("month", services.CurrentRaffleMonth())
	standings, err := services.RaffleStandings(month)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Standings retrieved", standings))
}

func DrawRaffleWinner(c *gin.Context) {
	month := c.DefaultQuery("month", services.CurrentRaffleMonth())
	winner, err := services.DrawRaffleWinner(month)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Winner drawn", winner))
}

func PurgeRaffleEntries(c *gin.Context) {
	before := c.Query("before")
	if before == "" {
		common.AbortWithServiceError(c, services.ErrInvalidTarget)
		return
	}
	purged, err := services.PurgeRaffleEntries(before)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Entries purged", gin.H{"purged": purged}))
}

// ResetFactionState wipes a user's allegiance, standings, and territory
// claims so they can start over.
func ResetFactionState(c *gin.Context) {
	if err := services.ResetFactionState(c.Param("user_id")); err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Faction state reset", nil))
}
