package services

import (
	"errors"
	"fmt"
	"time"

	"anomaly-economy/internal/models"
)

// Terminal failures are returned as values and mapped to structured
// responses by the API layer; none of them should be retried by callers.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrInsufficientFunds = errors.New("insufficient caps")
	ErrNoPointsAvailable = errors.New("no stat points available")
	ErrStillOnCooldown   = errors.New("action is still on cooldown")

	ErrTooLowLevel     = errors.New("level too low to choose an allegiance")
	ErrAlreadyLocked   = errors.New("allegiance is already locked in")
	ErrUnknownFaction  = errors.New("unknown faction")
	ErrRankTooLow      = errors.New("faction rank too low")
	ErrTerritoryTaken  = errors.New("territory is already controlled")
	ErrNoTerritories   = errors.New("faction controls no territories")

	ErrUnknownStat = errors.New("unknown stat name")
	ErrUnknownNPC  = errors.New("unknown enemy")
	ErrUnknownItem = errors.New("unknown item")
	ErrItemNotHeld = errors.New("item not in inventory")
	ErrNotUsable   = errors.New("item cannot be used")

	ErrTargetTooPoor      = errors.New("target does not have enough caps to rob")
	ErrNoScavengeRun      = errors.New("no scavenge run in progress")
	ErrScavengeLimit      = errors.New("daily scavenge limit reached")
	ErrChallengePending   = errors.New("target already has a pending challenge")
	ErrChallengeNotFound  = errors.New("challenge not found or expired")
	ErrFeeWindowExpired   = errors.New("maintenance fee window has expired")
	ErrNoInterestAccrued  = errors.New("no interest accrued yet")
	ErrNoRaffleEntries    = errors.New("no raffle entries this month")
)

// CooldownActiveError carries the remaining wait so callers can surface it.
type CooldownActiveError struct {
	Kind      models.CooldownKind
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("%s is still on cooldown for %s", e.Kind, e.Remaining.Round(time.Second))
}

// Is lets errors.Is(err, ErrStillOnCooldown) match.
func (e *CooldownActiveError) Is(target error) bool {
	return target == ErrStillOnCooldown
}
