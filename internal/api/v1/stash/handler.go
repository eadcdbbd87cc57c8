package stash

import (
	"net/http"

	"anomaly-economy/internal/api/v1/common"
	"anomaly-economy/internal/services"
	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetStatus reports the stash balance, fee window, and pending interest.
func GetStatus(c *gin.Context) {
	status, err := services.GetStashStatus(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Stash retrieved", status))
}

// Deposit moves caps from the wallet into the stash, minus the deposit fee.
func Deposit(c *gin.Context) {
	var req AmountRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.StashDeposit(c.Param("user_id"), req.Amount)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Deposit complete", result))
}

// Withdraw moves caps back to the wallet, minus the withdrawal fee.
func Withdraw(c *gin.Context) {
	var req AmountRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.StashWithdraw(c.Param("user_id"), req.Amount)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Withdrawal complete", result))
}

// PayFee settles the monthly maintenance fee and reopens the interest window.
func PayFee(c *gin.Context) {
	account, err := services.PayStashFee(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Maintenance fee paid", account))
}

// ClaimInterest pays out whole days of accrued interest.
func ClaimInterest(c *gin.Context) {
	claim, err := services.ClaimStashInterest(c.Param("user_id"))
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Interest claimed", claim))
}
