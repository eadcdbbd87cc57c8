package services

import (
	"testing"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"github.com/stretchr/testify/assert"
)

func finishScavengeRun(userID string) {
	database.DB.Model(&models.Cooldown{}).
		Where("user_id = ? AND kind = ?", userID, models.CooldownScavenge).
		UpdateColumn("expires_at", time.Now().Add(-time.Second))
}

func TestScavengeLifecycle(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	SeedRand(17)

	start, err := StartScavenge("scrapper")
	assert.NoError(t, err)
	assert.Equal(t, 1, start.Attempt)
	assert.Equal(t, 10, start.DailyLimit)

	// Still out in the ruins.
	_, _, err = CollectScavenge("scrapper")
	assert.ErrorIs(t, err, ErrStillOnCooldown)

	// A second launch while one is pending is refused.
	_, err = StartScavenge("scrapper")
	assert.ErrorIs(t, err, ErrStillOnCooldown)

	finishScavengeRun("scrapper")
	outcome, balance, err := CollectScavenge("scrapper")
	assert.NoError(t, err)
	assert.Greater(t, outcome.Caps, int64(0))
	assert.Equal(t, outcome.Caps, balance)

	var user models.User
	database.DB.First(&user, "id = ?", "scrapper")
	assert.Greater(t, user.XP, int64(0))

	// The slot is free again.
	_, _, err = CollectScavenge("scrapper")
	assert.ErrorIs(t, err, ErrNoScavengeRun)
}

func TestScavengeDailyLimit(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	SeedRand(23)

	for i := 0; i < 10; i++ {
		_, err := StartScavenge("grinder")
		assert.NoError(t, err)
		finishScavengeRun("grinder")
		_, _, err = CollectScavenge("grinder")
		assert.NoError(t, err)
	}

	_, err := StartScavenge("grinder")
	assert.ErrorIs(t, err, ErrScavengeLimit)

	// The window rolling over restores the budget.
	database.DB.Model(&models.User{}).Where("id = ?", "grinder").
		UpdateColumn("last_scavenge_reset", time.Now().Add(-25*time.Hour))
	_, err = StartScavenge("grinder")
	assert.NoError(t, err)
}

func TestScavengeDonorProfile(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("patron")
	SetDonorTier("patron", models.DonorGold)

	start, err := StartScavenge("patron")
	assert.NoError(t, err)
	assert.Equal(t, 20, start.DailyLimit)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), start.ReadyAt, 2*time.Second)
}

func TestScavengeStatus(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("watcher")

	status, err := GetScavengeStatus("watcher")
	assert.NoError(t, err)
	assert.False(t, status.Running)
	assert.False(t, status.Ready)

	StartScavenge("watcher")
	status, err = GetScavengeStatus("watcher")
	assert.NoError(t, err)
	assert.True(t, status.Running)

	finishScavengeRun("watcher")
	status, err = GetScavengeStatus("watcher")
	assert.NoError(t, err)
	assert.True(t, status.Ready)
	assert.False(t, status.Running)
}

func TestPurgeSparesMaturedScavengeRuns(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("scrapper")

	_, err := StartScavenge("scrapper")
	assert.NoError(t, err)
	finishScavengeRun("scrapper")

	// A matured run is an expired row, but it still holds the user's payout.
	purged, err := PurgeExpiredCooldowns()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), purged)

	outcome, _, err := CollectScavenge("scrapper")
	assert.NoError(t, err)
	assert.Greater(t, outcome.Caps, int64(0))
}
