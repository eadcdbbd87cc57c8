package common

import (
	"errors"
	"net/http"

	"anomaly-economy/internal/services"
	"anomaly-economy/internal/utils"

	"github.com/gin-gonic/gin"
)

// AbortWithServiceError maps a services error to an HTTP response. Cooldown
// errors carry the remaining wait in the data payload so the bot can render
// it without parsing the message.
func AbortWithServiceError(c *gin.Context, err error) {
	var cdErr *services.CooldownActiveError
	if errors.As(err, &cdErr) {
		c.JSON(http.StatusConflict, utils.NewResponse(http.StatusConflict, cdErr.Error(), gin.H{
			"kind":              cdErr.Kind,
			"remaining_seconds": int(cdErr.Remaining.Seconds()),
		}))
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrUnknownFaction),
		errors.Is(err, services.ErrUnknownNPC),
		errors.Is(err, services.ErrUnknownItem),
		errors.Is(err, services.ErrNoScavengeRun),
		errors.Is(err, services.ErrChallengeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrUnknownStat):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrNoPointsAvailable),
		errors.Is(err, services.ErrTooLowLevel),
		errors.Is(err, services.ErrAlreadyLocked),
		errors.Is(err, services.ErrRankTooLow),
		errors.Is(err, services.ErrTerritoryTaken),
		errors.Is(err, services.ErrNoTerritories),
		errors.Is(err, services.ErrItemNotHeld),
		errors.Is(err, services.ErrNotUsable),
		errors.Is(err, services.ErrTargetTooPoor),
		errors.Is(err, services.ErrScavengeLimit),
		errors.Is(err, services.ErrChallengePending),
		errors.Is(err, services.ErrFeeWindowExpired),
		errors.Is(err, services.ErrNoInterestAccrued),
		errors.Is(err, services.ErrNoRaffleEntries):
		status = http.StatusConflict
	}

	c.JSON(status, utils.NewErrorResponse(status, err.Error()))
}
