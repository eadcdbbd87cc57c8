package services

import (
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
)

const (
	coinflipCooldown = 10 * time.Minute
	maxWager         = 10000
)

// SlotsResult describes one pull of the lever.
type SlotsResult struct {
	Reels      [3]string `json:"reels"`
	Multiplier int64     `json:"multiplier"`
	Bet        int64     `json:"bet"`
	Winnings   int64     `json:"winnings"`
	NewBalance int64     `json:"new_balance"`
}

// PlaySlots wagers caps on the reels. The stake is debited and any winnings
// credited inside one transaction, so the books balance even on a crash
// between the two legs.
func PlaySlots(userID string, bet int64) (SlotsResult, error) {
	if bet <= 0 {
		return SlotsResult{}, ErrInvalidAmount
	}
	if bet > maxWager {
		bet = maxWager
	}
	if _, err := EnsureUser(userID); err != nil {
		return SlotsResult{}, err
	}

	var result SlotsResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		bal, err := debitTx(tx, userID, bet, models.CapRecordWager, "slots stake", userID, "")
		if err != nil {
			return err
		}
		reels, multiplier := SpinReels()
		result = SlotsResult{Reels: reels, Multiplier: multiplier, Bet: bet, NewBalance: bal}
		if multiplier > 0 {
			result.Winnings = bet * multiplier
			newBal, err := creditTx(tx, userID, result.Winnings, models.CapRecordReward, "slots payout", userID, "")
			if err != nil {
				return err
			}
			result.NewBalance = newBal
		}
		return nil
	})
	if err != nil {
		return SlotsResult{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// CoinflipResult describes one luck-weighted coin toss.
type CoinflipResult struct {
	Won        bool  `json:"won"`
	WinChance  int   `json:"win_chance"`
	Bet        int64 `json:"bet"`
	Winnings   int64 `json:"winnings"`
	NewBalance int64 `json:"new_balance"`
}

// Coinflip wagers caps on a toss the user's luck tilts slightly. A win pays
// double the stake. Throttled to one flip per ten minutes.
func Coinflip(userID string, bet int64) (CoinflipResult, error) {
	if bet <= 0 {
		return CoinflipResult{}, ErrInvalidAmount
	}
	if bet > maxWager {
		bet = maxWager
	}
	user, err := EnsureUser(userID)
	if err != nil {
		return CoinflipResult{}, err
	}

	var result CoinflipResult
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := tryStartCooldownTx(tx, userID, models.CooldownGamble, coinflipCooldown); err != nil {
			return err
		}
		bal, err := debitTx(tx, userID, bet, models.CapRecordWager, "coinflip stake", userID, "")
		if err != nil {
			return err
		}
		chance := CoinflipWinChance(user.Luck)
		result = CoinflipResult{WinChance: chance, Bet: bet, NewBalance: bal}
		if rollInt(100) < chance {
			result.Won = true
			result.Winnings = bet * 2
			newBal, err := creditTx(tx, userID, result.Winnings, models.CapRecordReward, "coinflip payout", userID, "")
			if err != nil {
				return err
			}
			result.NewBalance = newBal
		}
		return nil
	})
	if err != nil {
		return CoinflipResult{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}
