package services

import (
	"testing"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStashDepositSkimsFee(t *testing.T) {
	setupTestDB()
	Credit("saver", 2000, models.CapRecordReward, "seed", "system")

	result, err := StashDeposit("saver", 1000)
	assert.NoError(t, err)
	assert.Equal(t, int64(50), result.Fee)
	assert.Equal(t, int64(950), result.Net)
	assert.Equal(t, int64(1000), result.Balance)
	assert.Equal(t, int64(950), result.StashAmount)
}

func TestStashDepositRequiresFunds(t *testing.T) {
	setupTestDB()
	Credit("saver", 100, models.CapRecordReward, "seed", "system")

	_, err := StashDeposit("saver", 500)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing moved.
	var stash models.StashAccount
	database.DB.First(&stash, "user_id = ?", "saver")
	assert.Equal(t, int64(0), stash.Amount)
}

func TestStashWithdrawSkimsFee(t *testing.T) {
	setupTestDB()
	Credit("saver", 2000, models.CapRecordReward, "seed", "system")
	StashDeposit("saver", 1000)

	result, err := StashWithdraw("saver", 500)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), result.Fee)
	assert.Equal(t, int64(490), result.Net)
	assert.Equal(t, int64(1490), result.Balance)
	assert.Equal(t, int64(450), result.StashAmount)

	_, err = StashWithdraw("saver", 10000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestClaimStashInterest(t *testing.T) {
	setupTestDB()
	Credit("saver", 2000, models.CapRecordReward, "seed", "system")
	StashDeposit("saver", 1000) // stash holds 950

	// No full day elapsed yet.
	_, err := ClaimStashInterest("saver")
	assert.ErrorIs(t, err, ErrNoInterestAccrued)

	// Backdate accrual ten days into an open window.
	database.DB.Model(&models.StashAccount{}).Where("user_id = ?", "saver").
		UpdateColumn("accrued_from", time.Now().Add(-10*24*time.Hour))

	claim, err := ClaimStashInterest("saver")
	assert.NoError(t, err)
	assert.Equal(t, 10, claim.Days)
	// 0.5% of 950 per day, integer caps.
	assert.Equal(t, int64(950*5*10/1000), claim.Interest)

	// Immediately claiming again finds nothing new.
	_, err = ClaimStashInterest("saver")
	assert.ErrorIs(t, err, ErrNoInterestAccrued)
}

func TestClaimAfterFeeWindowLapsed(t *testing.T) {
	setupTestDB()
	Credit("lapsed", 2000, models.CapRecordReward, "seed", "system")
	StashDeposit("lapsed", 1000)

	// Fee unpaid for 40 days, accrual backdated the same.
	database.DB.Model(&models.StashAccount{}).Where("user_id = ?", "lapsed").
		UpdateColumns(map[string]interface{}{
			"last_fee_paid_at": time.Now().Add(-40 * 24 * time.Hour),
			"accrued_from":     time.Now().Add(-40 * 24 * time.Hour),
		})

	_, err := ClaimStashInterest("lapsed")
	assert.ErrorIs(t, err, ErrFeeWindowExpired)

	// Balance untouched by the refused claim.
	var user models.User
	database.DB.First(&user, "id = ?", "lapsed")
	assert.Equal(t, int64(1000), user.Balance)
}

func TestPayStashFeeReopensWindow(t *testing.T) {
	setupTestDB()
	Credit("diligent", 2000, models.CapRecordReward, "seed", "system")
	StashDeposit("diligent", 1000)
	database.DB.Model(&models.StashAccount{}).Where("user_id = ?", "diligent").
		UpdateColumn("last_fee_paid_at", time.Now().Add(-40*24*time.Hour))

	status, err := GetStashStatus("diligent")
	assert.NoError(t, err)
	assert.False(t, status.WindowOpen)

	stash, err := PayStashFee("diligent")
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), stash.LastFeePaidAt, 2*time.Second)

	status, err = GetStashStatus("diligent")
	assert.NoError(t, err)
	assert.True(t, status.WindowOpen)

	// The fee itself came out of the wallet.
	var user models.User
	database.DB.First(&user, "id = ?", "diligent")
	assert.Equal(t, int64(1000-100), user.Balance)
}

func TestStashStatusReportsAccrual(t *testing.T) {
	setupTestDB()
	Credit("watcher", 2000, models.CapRecordReward, "seed", "system")
	StashDeposit("watcher", 1000)
	database.DB.Model(&models.StashAccount{}).Where("user_id = ?", "watcher").
		UpdateColumn("accrued_from", time.Now().Add(-3*24*time.Hour))

	status, err := GetStashStatus("watcher")
	assert.NoError(t, err)
	assert.Equal(t, int64(950), status.Amount)
	assert.Equal(t, 3, status.AccruedDays)
	assert.Equal(t, int64(950*5*3/1000), status.Accrued)
}
