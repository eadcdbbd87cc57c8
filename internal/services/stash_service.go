package services

import (
	"errors"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
)

const (
	stashDepositFeePct  = 5
	stashWithdrawFeePct = 2
	stashMaintenanceFee = 100
	stashFeeWindow      = 30 * 24 * time.Hour

	// Interest accrues at 0.5% of the stashed amount per full day, only
	// while the maintenance window is open.
	stashInterestNum = 5
	stashInterestDen = 1000
)

// ensureStashTx loads or opens the stash account. Opening starts the first
// maintenance window for free.
func ensureStashTx(tx *gorm.DB, userID string) (models.StashAccount, error) {
	var stash models.StashAccount
	now := time.Now()
	err := tx.Where(models.StashAccount{UserID: userID}).
		Attrs(models.StashAccount{LastFeePaidAt: now, AccruedFrom: now}).
		FirstOrCreate(&stash).Error
	return stash, err
}

// StashMutation reports a deposit or withdrawal.
type StashMutation struct {
	Amount      int64 `json:"amount"`
	Fee         int64 `json:"fee"`
	Net         int64 `json:"net"`
	Balance     int64 `json:"balance"`
	StashAmount int64 `json:"stash_amount"`
}

// StashDeposit moves caps from the wallet into the stash, skimming a 5
// percent handling fee. The fee burns; it is not credited anywhere.
func StashDeposit(userID string, amount int64) (StashMutation, error) {
	if amount <= 0 {
		return StashMutation{}, ErrInvalidAmount
	}
	if _, err := EnsureUser(userID); err != nil {
		return StashMutation{}, err
	}

	var result StashMutation
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		stash, err := ensureStashTx(tx, userID)
		if err != nil {
			return err
		}
		bal, err := debitTx(tx, userID, amount, models.CapRecordStash, "stash deposit", userID, "")
		if err != nil {
			return err
		}
		fee := amount * stashDepositFeePct / 100
		net := amount - fee

		res := tx.Model(&models.StashAccount{}).
			Where("user_id = ? AND amount = ?", userID, stash.Amount).
			UpdateColumn("amount", stash.Amount+net)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("stash changed during deposit")
		}
		result = StashMutation{Amount: amount, Fee: fee, Net: net, Balance: bal, StashAmount: stash.Amount + net}
		return nil
	})
	if err != nil {
		return StashMutation{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// StashWithdraw moves caps back to the wallet, skimming a 2 percent fee.
// The guard on the stored amount keeps concurrent withdrawals from
// overdrawing the stash.
func StashWithdraw(userID string, amount int64) (StashMutation, error) {
	if amount <= 0 {
		return StashMutation{}, ErrInvalidAmount
	}

	var result StashMutation
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.StashAccount{}).
			Where("user_id = ? AND amount >= ?", userID, amount).
			UpdateColumn("amount", gorm.Expr("amount - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}
		fee := amount * stashWithdrawFeePct / 100
		net := amount - fee
		bal, err := creditTx(tx, userID, net, models.CapRecordStash, "stash withdrawal", userID, "")
		if err != nil {
			return err
		}
		var stash models.StashAccount
		if err := tx.First(&stash, "user_id = ?", userID).Error; err != nil {
			return err
		}
		result = StashMutation{Amount: amount, Fee: fee, Net: net, Balance: bal, StashAmount: stash.Amount}
		return nil
	})
	if err != nil {
		return StashMutation{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// PayStashFee charges the flat maintenance fee and opens a fresh 30-day
// interest window. Interest accrued in the old window but never claimed is
// forfeited when the new window starts.
func PayStashFee(userID string) (models.StashAccount, error) {
	var stash models.StashAccount
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		stash, err = ensureStashTx(tx, userID)
		if err != nil {
			return err
		}
		if _, err := debitTx(tx, userID, stashMaintenanceFee, models.CapRecordStash, "stash maintenance fee", userID, ""); err != nil {
			return err
		}
		now := time.Now()
		res := tx.Model(&models.StashAccount{}).
			Where("user_id = ?", userID).
			UpdateColumns(map[string]interface{}{
				"last_fee_paid_at": now,
				"accrued_from":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		stash.LastFeePaidAt = now
		stash.AccruedFrom = now
		return nil
	})
	if err != nil {
		return models.StashAccount{}, err
	}
	invalidateUserCache(userID)
	return stash, nil
}

// accruedInterest computes claimable interest as of now. Zero once the
// maintenance window has lapsed.
func accruedInterest(stash models.StashAccount, now time.Time) (int64, int) {
	windowEnd := stash.LastFeePaidAt.Add(stashFeeWindow)
	if now.After(windowEnd) {
		return 0, 0
	}
	days := int(now.Sub(stash.AccruedFrom).Hours() / 24)
	if days <= 0 {
		return 0, 0
	}
	return stash.Amount * stashInterestNum * int64(days) / stashInterestDen, days
}

// InterestClaim reports a completed interest payout.
type InterestClaim struct {
	Interest   int64 `json:"interest"`
	Days       int   `json:"days"`
	NewBalance int64 `json:"new_balance"`
}

// ClaimStashInterest pays accrued interest to the wallet and advances the
// accrual marker by the whole days claimed, preserving fractional-day
// remainder. Fails once the maintenance window has lapsed.
func ClaimStashInterest(userID string) (InterestClaim, error) {
	var result InterestClaim
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var stash models.StashAccount
		err := tx.First(&stash, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoInterestAccrued
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if now.After(stash.LastFeePaidAt.Add(stashFeeWindow)) {
			return ErrFeeWindowExpired
		}
		interest, days := accruedInterest(stash, now)
		if interest <= 0 {
			return ErrNoInterestAccrued
		}

		// Guard on accrued_from so a racing claim cannot double-pay.
		res := tx.Model(&models.StashAccount{}).
			Where("user_id = ? AND accrued_from = ?", userID, stash.AccruedFrom).
			UpdateColumn("accrued_from", stash.AccruedFrom.Add(time.Duration(days)*24*time.Hour))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoInterestAccrued
		}

		bal, err := creditTx(tx, userID, interest, models.CapRecordStash, "stash interest", userID, "")
		if err != nil {
			return err
		}
		result = InterestClaim{Interest: interest, Days: days, NewBalance: bal}
		return nil
	})
	if err != nil {
		return InterestClaim{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// StashStatus is the read-only stash view.
type StashStatus struct {
	Amount        int64     `json:"amount"`
	Accrued       int64     `json:"accrued"`
	AccruedDays   int       `json:"accrued_days"`
	WindowOpen    bool      `json:"window_open"`
	WindowCloses  time.Time `json:"window_closes"`
	LastFeePaidAt time.Time `json:"last_fee_paid_at"`
}

func GetStashStatus(userID string) (StashStatus, error) {
	var stash models.StashAccount
	err := database.DB.First(&stash, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return StashStatus{}, nil
	}
	if err != nil {
		return StashStatus{}, err
	}
	now := time.Now()
	accrued, days := accruedInterest(stash, now)
	windowEnd := stash.LastFeePaidAt.Add(stashFeeWindow)
	return StashStatus{
		Amount:        stash.Amount,
		Accrued:       accrued,
		AccruedDays:   days,
		WindowOpen:    now.Before(windowEnd),
		WindowCloses:  windowEnd,
		LastFeePaidAt: stash.LastFeePaidAt,
	}, nil
}
