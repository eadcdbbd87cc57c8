package services

import (
	"testing"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClaimDaily(t *testing.T) {
	setupTestDB()

	result, err := ClaimDaily("wanderer")
	assert.NoError(t, err)
	assert.Equal(t, int64(100), result.Caps)
	assert.Equal(t, int64(100), result.NewBalance)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.NextClaim, 2*time.Second)

	_, err = ClaimDaily("wanderer")
	assert.ErrorIs(t, err, ErrStillOnCooldown)

	// Only one payout recorded.
	var count int64
	database.DB.Model(&models.CapRecord{}).Where("user_id = ?", "wanderer").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestHuntPaysOrFines(t *testing.T) {
	setupTestDB()
	SeedRand(11)
	Credit("hunter", 1000, models.CapRecordReward, "seed", "system")

	result, err := Hunt("hunter")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Encounter)
	assert.GreaterOrEqual(t, result.KillChance, 20)
	assert.LessOrEqual(t, result.KillChance, 95)

	var user models.User
	database.DB.First(&user, "id = ?", "hunter")
	if result.Killed {
		assert.Equal(t, int64(1000)+result.Caps, user.Balance)
		assert.Greater(t, result.XP, int64(0))
	} else {
		assert.Equal(t, int64(1000)-result.CapsLost, user.Balance)
	}

	_, err = Hunt("hunter")
	assert.ErrorIs(t, err, ErrStillOnCooldown)
}

func TestFish(t *testing.T) {
	setupTestDB()
	SeedRand(3)

	result, err := Fish("angler")
	assert.NoError(t, err)

	var user models.User
	database.DB.First(&user, "id = ?", "angler")
	if result.Failed {
		assert.Equal(t, int64(0), user.Balance)
		assert.Equal(t, int64(0), user.XP)
	} else {
		assert.Equal(t, result.Caps, user.Balance)
		assert.Equal(t, result.XP, user.XP)
	}

	_, err = Fish("angler")
	assert.ErrorIs(t, err, ErrStillOnCooldown)
}

func TestPlaySlotsBalancesLedger(t *testing.T) {
	setupTestDB()
	SeedRand(5)
	Credit("gambler", 10000, models.CapRecordReward, "seed", "system")

	result, err := PlaySlots("gambler", 100)
	assert.NoError(t, err)
	assert.Equal(t, result.Winnings, result.Bet*result.Multiplier)

	var user models.User
	database.DB.First(&user, "id = ?", "gambler")
	assert.Equal(t, int64(10000)-result.Bet+result.Winnings, user.Balance)
}

func TestPlaySlotsRequiresFunds(t *testing.T) {
	setupTestDB()
	EnsureUser("broke")

	_, err := PlaySlots("broke", 100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = PlaySlots("broke", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCoinflipCooldownAndPayout(t *testing.T) {
	setupTestDB()
	SeedRand(9)
	Credit("flipper", 1000, models.CapRecordReward, "seed", "system")

	result, err := Coinflip("flipper", 100)
	assert.NoError(t, err)
	assert.Equal(t, 36, result.WinChance)

	var user models.User
	database.DB.First(&user, "id = ?", "flipper")
	if result.Won {
		assert.Equal(t, int64(1000)+100, user.Balance)
	} else {
		assert.Equal(t, int64(1000)-100, user.Balance)
	}

	_, err = Coinflip("flipper", 100)
	assert.ErrorIs(t, err, ErrStillOnCooldown)
}
