package economy

import (
	"net/http"
	"strconv"

	"anomaly-economy/internal/api/v1/common"
	"anomaly-economy/internal/models"
	"anomaly-economy/internal/services"
	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetAccount returns the full account view, creating the account on first
// contact.
func GetAccount(c *gin.Context) {
	user, err := services.EnsureUser(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Account retrieved", user))
}

// Transfer moves caps between two accounts.
func Transfer(c *gin.Context) {
	var req TransferRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.Transfer(req.From, req.To, req.Amount, req.Reason)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Transfer complete", result))
}

// ListRecords pages through a user's audit trail.
func ListRecords(c *gin.Context) {
	userID := c.Param("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := services.CapRecordFilter{UserID: &userID, Page: page, Limit: limit}
	if t := c.Query("type"); t != "" {
		rt := models.CapRecordType(t)
		filter.Type = &rt
	}

	records, total, err := services.FindCapRecords(filter)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Records retrieved", RecordListResponse{
		Total: total,
		Items: records,
	}))
}

// Leaderboard lists the wealthiest accounts.
func Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	users, err := services.Leaderboard(limit)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Leaderboard retrieved", users))
}

// ClaimDaily pays the daily stipend.
func ClaimDaily(c *gin.Context) {
	result, err := services.ClaimDaily(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Daily stipend claimed", result))
}

// ListCooldowns reports every active cooldown for a user.
func ListCooldowns(c *gin.Context) {
	cds, err := services.ActiveCooldowns(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Cooldowns retrieved", cds))
}
