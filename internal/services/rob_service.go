package services

import (
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	robCooldown      = 24 * time.Hour
	robMinimumTarget = 100

	robBaseChance = 45
	robMinChance  = 10
	robMaxChance  = 85
)

// robSuccessChance starts at the base rate, rises when the robber holds less
// than half the mark's caps and falls when the robber holds more than double.
func robSuccessChance(robberBalance, targetBalance int64) int {
	chance := robBaseChance
	if robberBalance < targetBalance/2 {
		chance += 15
	}
	if robberBalance > targetBalance*2 {
		chance -= 10
	}
	if chance < robMinChance {
		chance = robMinChance
	}
	if chance > robMaxChance {
		chance = robMaxChance
	}
	return chance
}

// RobResult describes one robbery attempt.
type RobResult struct {
	Success    bool  `json:"success"`
	Chance     int   `json:"chance"`
	Stolen     int64 `json:"stolen"`
	Fine       int64 `json:"fine"`
	NewBalance int64 `json:"new_balance"`
}

// Rob attempts to steal 20 to 40 percent of the target's caps. A failed
// attempt fines the robber 5 percent of the target's wealth, half of which
// compensates the victim. Everything, cooldown included, moves in one
// transaction.
func Rob(robberID, targetID string) (RobResult, error) {
	if robberID == targetID || targetID == "" {
		return RobResult{}, ErrInvalidTarget
	}
	if _, err := EnsureUser(robberID); err != nil {
		return RobResult{}, err
	}
	if _, err := EnsureUser(targetID); err != nil {
		return RobResult{}, err
	}

	ref := uuid.NewString()
	var result RobResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := tryStartCooldownTx(tx, robberID, models.CooldownRob, robCooldown); err != nil {
			return err
		}

		var robber, target models.User
		if err := tx.First(&robber, "id = ?", robberID).Error; err != nil {
			return err
		}
		if err := tx.First(&target, "id = ?", targetID).Error; err != nil {
			return err
		}
		if target.Balance < robMinimumTarget {
			return ErrTargetTooPoor
		}

		result.Chance = robSuccessChance(robber.Balance, target.Balance)
		result.Success = rollInt(100) < result.Chance

		if result.Success {
			pct := 20 + rollInt(21)
			stolen := target.Balance * int64(pct) / 100
			if stolen < 1 {
				stolen = 1
			}
			if _, err := debitTx(tx, targetID, stolen, models.CapRecordRobbery, "robbed by "+robberID, robberID, ref); err != nil {
				return err
			}
			bal, err := creditTx(tx, robberID, stolen, models.CapRecordRobbery, "robbed "+targetID, robberID, ref)
			if err != nil {
				return err
			}
			result.Stolen = stolen
			result.NewBalance = bal
			return nil
		}

		// Caught. The fine scales with the mark's wealth so rich targets
		// stay risky, and half of it compensates them.
		fine := target.Balance * 5 / 100
		if fine < 1 {
			fine = 1
		}
		taken, err := debitUpToTx(tx, robberID, fine, models.CapRecordPenalty, "failed robbery of "+targetID, robberID, ref)
		if err != nil {
			return err
		}
		result.Fine = taken
		if taken/2 > 0 {
			if _, err := creditTx(tx, targetID, taken/2, models.CapRecordRobbery, "robbery compensation", robberID, ref); err != nil {
				return err
			}
		}
		var fresh models.User
		if err := tx.First(&fresh, "id = ?", robberID).Error; err != nil {
			return err
		}
		result.NewBalance = fresh.Balance
		return nil
	})
	if err != nil {
		return RobResult{}, err
	}
	invalidateUserCache(robberID, targetID)
	return result, nil
}
