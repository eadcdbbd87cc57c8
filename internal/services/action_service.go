package services

import (
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
)

const (
	huntCooldown = 30 * time.Minute
	fishCooldown = 15 * time.Minute
	dailyCooldown = 24 * time.Hour

	dailyClaimAmount = 100
)

// HuntResult describes one hunt attempt.
type HuntResult struct {
	Encounter  string `json:"encounter"`
	Rarity     string `json:"rarity"`
	Killed     bool   `json:"killed"`
	KillChance int    `json:"kill_chance"`
	Caps       int64  `json:"caps"`
	XP         int64  `json:"xp"`
	CapsLost   int64  `json:"caps_lost"`
	Radiation  int    `json:"radiation"`
	NewBalance int64  `json:"new_balance"`
	Level      AwardXPResult `json:"level,omitempty"`
}

// Hunt rolls an encounter from the prey table, then a kill roll against its
// danger. A failed kill costs medical caps and some rads instead of loot.
func Hunt(userID string) (HuntResult, error) {
	user, err := EnsureUser(userID)
	if err != nil {
		return HuntResult{}, err
	}

	var result HuntResult
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := tryStartCooldownTx(tx, userID, models.CooldownHunt, huntCooldown); err != nil {
			return err
		}

		prey := RollWeighted(huntTable)
		result.Encounter = prey.Name
		result.Rarity = prey.Rarity
		result.KillChance = HuntKillChance(prey.Danger, user.Perception, user.Agility, user.Luck)
		result.Killed = rollInt(100) < result.KillChance

		if result.Killed {
			bal, err := creditTx(tx, userID, prey.Caps, models.CapRecordReward, "hunt: "+prey.Name, userID, "")
			if err != nil {
				return err
			}
			result.Caps = prey.Caps
			result.NewBalance = bal
			level, err := awardXPTx(tx, userID, prey.XP, DonorXPMultiplier(userID))
			if err != nil {
				return err
			}
			result.XP = level.Amount
			result.Level = level
			return nil
		}

		// Got mauled. Patch-up costs scale with the prey's danger.
		fine := int64(prey.Danger / 2)
		if fine > 0 {
			taken, err := debitUpToTx(tx, userID, fine, models.CapRecordPenalty, "hunt injury: "+prey.Name, userID, "")
			if err != nil {
				return err
			}
			result.CapsLost = taken
		}
		result.Radiation = prey.Danger / 10
		return nil
	})
	if err != nil {
		return HuntResult{}, err
	}
	invalidateUserCache(userID)
	if result.Radiation > 0 {
		if err := AdjustRadiation(userID, result.Radiation); err != nil {
			return result, err
		}
	}
	return result, nil
}

// FishResult describes one cast.
type FishResult struct {
	Catch      string `json:"catch,omitempty"`
	Rarity     string `json:"rarity,omitempty"`
	Failed     bool   `json:"failed"`
	Caps       int64  `json:"caps"`
	XP         int64  `json:"xp"`
	NewBalance int64  `json:"new_balance"`
	Level      AwardXPResult `json:"level,omitempty"`
}

// Fish draws from the catch table. The failure entry pays nothing but still
// spends the cooldown.
func Fish(userID string) (FishResult, error) {
	if _, err := EnsureUser(userID); err != nil {
		return FishResult{}, err
	}

	var result FishResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := tryStartCooldownTx(tx, userID, models.CooldownFish, fishCooldown); err != nil {
			return err
		}

		catch := RollWeighted(fishTable)
		if catch.Failure {
			result.Failed = true
			return nil
		}
		result.Catch = catch.Name
		result.Rarity = catch.Rarity

		bal, err := creditTx(tx, userID, catch.Caps, models.CapRecordReward, "fishing: "+catch.Name, userID, "")
		if err != nil {
			return err
		}
		result.Caps = catch.Caps
		result.NewBalance = bal

		level, err := awardXPTx(tx, userID, catch.XP, DonorXPMultiplier(userID))
		if err != nil {
			return err
		}
		result.XP = level.Amount
		result.Level = level
		return nil
	})
	if err != nil {
		return FishResult{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// DailyResult describes a daily stipend claim.
type DailyResult struct {
	Caps       int64     `json:"caps"`
	NewBalance int64     `json:"new_balance"`
	NextClaim  time.Time `json:"next_claim"`
}

// ClaimDaily pays the flat stipend once per 24 hours.
func ClaimDaily(userID string) (DailyResult, error) {
	if _, err := EnsureUser(userID); err != nil {
		return DailyResult{}, err
	}

	var result DailyResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		expiry, err := tryStartCooldownTx(tx, userID, models.CooldownDaily, dailyCooldown)
		if err != nil {
			return err
		}
		bal, err := creditTx(tx, userID, dailyClaimAmount, models.CapRecordReward, "daily stipend", userID, "")
		if err != nil {
			return err
		}
		result = DailyResult{Caps: dailyClaimAmount, NewBalance: bal, NextClaim: expiry}
		return nil
	})
	if err != nil {
		return DailyResult{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}
