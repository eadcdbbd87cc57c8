package services

import (
	"errors"
	"fmt"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
)

// Scavenge runs take real time. A cooldown row doubles as the run record:
// while unexpired the user is out in the ruins, once expired the run is
// ready to collect, and collecting deletes the row.

const scavengeDailyWindow = 24 * time.Hour

// scavengeProfile returns the run duration and daily limit for a donor tier.
func scavengeProfile(tier models.DonorTier) (time.Duration, int) {
	switch tier {
	case models.DonorSilver:
		return 10 * time.Minute, 15
	case models.DonorGold, models.DonorPlatinum:
		return 5 * time.Minute, 20
	default:
		return 15 * time.Minute, 10
	}
}

// StartScavengeResult describes a freshly launched run.
type StartScavengeResult struct {
	ReadyAt    time.Time     `json:"ready_at"`
	Duration   time.Duration `json:"-"`
	Attempt    int           `json:"attempt"`
	DailyLimit int           `json:"daily_limit"`
}

// StartScavenge launches a timed run. Fails while a run is pending or once
// the daily attempt budget is spent.
func StartScavenge(userID string) (StartScavengeResult, error) {
	if _, err := EnsureUser(userID); err != nil {
		return StartScavengeResult{}, err
	}
	duration, limit := scavengeProfile(DonorTierOf(userID))

	var result StartScavengeResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		// A finished-but-uncollected run still occupies the slot.
		var pending models.Cooldown
		err := tx.First(&pending, "user_id = ? AND kind = ?", userID, models.CooldownScavenge).Error
		if err == nil {
			if pending.ExpiresAt.After(time.Now()) {
				return &CooldownActiveError{Kind: models.CooldownScavenge, Remaining: time.Until(pending.ExpiresAt)}
			}
			return ErrNoScavengeRun // expired run awaiting collection
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		count := user.DailyScavengeCount
		resetAt := user.LastScavengeReset
		if now.Sub(resetAt) >= scavengeDailyWindow {
			count = 0
			resetAt = now
		}
		if count >= limit {
			return ErrScavengeLimit
		}

		// Guard on the previous counter so parallel starts cannot share an attempt.
		res := tx.Model(&models.User{}).
			Where("id = ? AND daily_scavenge_count = ?", userID, user.DailyScavengeCount).
			UpdateColumns(map[string]interface{}{
				"daily_scavenge_count": count + 1,
				"last_scavenge_reset":  resetAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("scavenge start for %s lost to a concurrent attempt", userID)
		}

		expiry, err := tryStartCooldownTx(tx, userID, models.CooldownScavenge, duration)
		if err != nil {
			return err
		}
		result = StartScavengeResult{ReadyAt: expiry, Duration: duration, Attempt: count + 1, DailyLimit: limit}
		return nil
	})
	if err != nil {
		return StartScavengeResult{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// CollectScavenge settles a matured run: rolls the loot, pays it out and
// frees the run slot. Fails when no run exists or it has not matured.
func CollectScavenge(userID string) (ScavengeOutcome, int64, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return ScavengeOutcome{}, 0, err
	}

	var outcome ScavengeOutcome
	var newBalance int64
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var run models.Cooldown
		err := tx.First(&run, "user_id = ? AND kind = ?", userID, models.CooldownScavenge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoScavengeRun
		}
		if err != nil {
			return err
		}
		if run.ExpiresAt.After(time.Now()) {
			return &CooldownActiveError{Kind: models.CooldownScavenge, Remaining: time.Until(run.ExpiresAt)}
		}

		// Delete first so a double collect races on the row, not the payout.
		res := tx.Delete(&models.Cooldown{}, "user_id = ? AND kind = ? AND expires_at = ?",
			userID, models.CooldownScavenge, run.ExpiresAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoScavengeRun
		}

		outcome = rollScavenge(user.Luck, user.Intelligence, user.Perception)
		bal, err := creditTx(tx, userID, outcome.Caps, models.CapRecordReward, "scavenge run", userID, "")
		if err != nil {
			return err
		}
		newBalance = bal
		if _, err := awardXPTx(tx, userID, outcome.XP, DonorXPMultiplier(userID)); err != nil {
			return err
		}
		if outcome.ItemID != "" {
			if err := grantItemTx(tx, userID, outcome.ItemID, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ScavengeOutcome{}, 0, err
	}
	invalidateUserCache(userID)
	if outcome.HitMine {
		if err := AdjustHealth(userID, -outcome.Damage); err != nil {
			return outcome, newBalance, err
		}
		if err := AdjustRadiation(userID, outcome.Radiation); err != nil {
			return outcome, newBalance, err
		}
	}
	return outcome, newBalance, nil
}

// ScavengeStatus reports the current run, if any.
type ScavengeStatus struct {
	Running    bool      `json:"running"`
	Ready      bool      `json:"ready"`
	ReadyAt    time.Time `json:"ready_at,omitempty"`
	Attempts   int       `json:"attempts"`
	DailyLimit int       `json:"daily_limit"`
}

func GetScavengeStatus(userID string) (ScavengeStatus, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return ScavengeStatus{}, err
	}
	_, limit := scavengeProfile(DonorTierOf(userID))

	status := ScavengeStatus{Attempts: user.DailyScavengeCount, DailyLimit: limit}
	if time.Since(user.LastScavengeReset) >= scavengeDailyWindow {
		status.Attempts = 0
	}

	var run models.Cooldown
	err = database.DB.First(&run, "user_id = ? AND kind = ?", userID, models.CooldownScavenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return status, nil
	}
	if err != nil {
		return ScavengeStatus{}, err
	}
	status.ReadyAt = run.ExpiresAt
	if run.ExpiresAt.After(time.Now()) {
		status.Running = true
	} else {
		status.Ready = true
	}
	return status, nil
}
