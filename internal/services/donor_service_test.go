package services

import (
	"testing"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDonorTierBenefits(t *testing.T) {
	setupTestDB()

	assert.Equal(t, 1.0, DonorXPMultiplier("nobody"))

	SetDonorTier("patron", models.DonorBronze)
	assert.Equal(t, 1.15, DonorXPMultiplier("patron"))

	// Upgrading overwrites the tier in place.
	SetDonorTier("patron", models.DonorGold)
	assert.Equal(t, 1.5, DonorXPMultiplier("patron"))

	_, err := SetDonorTier("patron", "cardboard")
	assert.Error(t, err)

	assert.NoError(t, RemoveDonor("patron"))
	assert.Equal(t, 1.0, DonorXPMultiplier("patron"))
}

func TestGrantMonthlyEntries(t *testing.T) {
	setupTestDB()
	SetDonorTier("bronze_fan", models.DonorBronze)
	SetDonorTier("big_spender", models.DonorPlatinum)

	granted, err := GrantMonthlyEntries()
	assert.NoError(t, err)
	assert.Equal(t, 2, granted)

	standings, err := RaffleStandings(CurrentRaffleMonth())
	assert.NoError(t, err)
	assert.Len(t, standings, 2)
	assert.Equal(t, "big_spender", standings[0].UserID)
	assert.Equal(t, 25, standings[0].Entries)
	assert.Equal(t, 2, standings[1].Entries)

	// Running again in the same month grants nothing more.
	granted, err = GrantMonthlyEntries()
	assert.NoError(t, err)
	assert.Equal(t, 0, granted)
}

func TestDrawRaffleWinner(t *testing.T) {
	setupTestDB()
	SeedRand(37)

	_, err := DrawRaffleWinner(CurrentRaffleMonth())
	assert.ErrorIs(t, err, ErrNoRaffleEntries)

	AddRaffleEntries("solo", 5)
	winner, err := DrawRaffleWinner(CurrentRaffleMonth())
	assert.NoError(t, err)
	assert.Equal(t, "solo", winner.UserID)
	assert.Equal(t, 5, winner.Entries)
}

func TestPurgeRaffleEntries(t *testing.T) {
	setupTestDB()

	old := models.RaffleEntry{UserID: "ghost", Entries: 3, MonthYear: "2024-01"}
	database.DB.Create(&old)
	AddRaffleEntries("current", 2)

	purged, err := PurgeRaffleEntries(CurrentRaffleMonth())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	standings, _ := RaffleStandings(CurrentRaffleMonth())
	assert.Len(t, standings, 1)
}

func TestUserRaffleEntries(t *testing.T) {
	setupTestDB()
	EnsureUser("hopeful")

	entries, err := UserRaffleEntries("hopeful", CurrentRaffleMonth())
	assert.NoError(t, err)
	assert.Equal(t, 0, entries)

	assert.NoError(t, AddRaffleEntries("hopeful", 3))
	assert.NoError(t, AddRaffleEntries("hopeful", 2))

	entries, err = UserRaffleEntries("hopeful", CurrentRaffleMonth())
	assert.NoError(t, err)
	assert.Equal(t, 5, entries)
}
