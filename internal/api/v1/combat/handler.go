package combat

import (
	"net/http"

	"anomaly-economy/internal/api/v1/common"
	"anomaly-economy/internal/services"
	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListNPCs returns the bestiary.
func ListNPCs(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Bestiary retrieved", services.ListNPCs()))
}

// FightNPC resolves a fight against a bestiary enemy.
func FightNPC(c *gin.Context) {
	var req NPCFightRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.FightNPC(c.Param("user_id"), req.EnemyID)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Fight resolved", result))
}

// CreateChallenge issues a PvP invitation.
func CreateChallenge(c *gin.Context) {
	var req ChallengeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ch, err := services.CreateChallenge(req.Attacker, req.Defender)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Challenge issued", ch))
}

// AcceptChallenge resolves the duel.
func AcceptChallenge(c *gin.Context) {
	var req ChallengeAnswerRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := services.AcceptChallenge(req.Defender, req.ChallengeID)
	if err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Duel resolved", result))
}

// DeclineChallenge discards a pending invitation.
func DeclineChallenge(c *gin.Context) {
	var req ChallengeAnswerRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := services.DeclineChallenge(req.Defender, req.ChallengeID); err != nil {
		common.AbortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Challenge declined", nil))
}
