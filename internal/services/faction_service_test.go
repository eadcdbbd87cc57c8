package services

import (
	"testing"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRankFromRep(t *testing.T) {
	assert.Equal(t, "Outsider", RankFromRep(-100))
	assert.Equal(t, "Outsider", RankFromRep(-76))
	assert.Equal(t, "Recruit", RankFromRep(-75))
	assert.Equal(t, "Neutral", RankFromRep(-50))
	assert.Equal(t, "Neutral", RankFromRep(-1))
	assert.Equal(t, "Ally", RankFromRep(0))
	assert.Equal(t, "Ally", RankFromRep(49))
	assert.Equal(t, "Veteran", RankFromRep(50))
	assert.Equal(t, "Veteran", RankFromRep(79))
	assert.Equal(t, "Champion", RankFromRep(80))
	assert.Equal(t, "Champion", RankFromRep(100))
}

func TestModifyReputationDailyCap(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)

	change, err := ModifyReputation("settler", "minutemen", 8, "quest")
	assert.NoError(t, err)
	assert.Equal(t, 8, change.Applied)
	assert.Equal(t, -92, change.Reputation)

	// The next gain is throttled to the remaining daily room.
	change, err = ModifyReputation("settler", "minutemen", 8, "quest")
	assert.NoError(t, err)
	assert.Equal(t, 2, change.Applied)
	assert.True(t, change.Throttled)

	change, err = ModifyReputation("settler", "minutemen", 5, "quest")
	assert.NoError(t, err)
	assert.Equal(t, 0, change.Applied)
}

func TestModifyReputationAdminBypassesCap(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)

	change, err := ModifyReputation("settler", "minutemen", 60, RepSourceAdmin)
	assert.NoError(t, err)
	assert.Equal(t, 60, change.Applied)
	assert.Equal(t, -40, change.Reputation)
}

func TestModifyReputationClampsToBounds(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)

	change, err := ModifyReputation("settler", "raiders", -500, "betrayal")
	assert.NoError(t, err)
	assert.Equal(t, -100, change.Reputation)

	change, err = ModifyReputation("settler", "raiders", 999, RepSourceAdmin)
	assert.NoError(t, err)
	assert.Equal(t, 100, change.Reputation)
	assert.Equal(t, "Champion", change.Rank)
}

func TestModifyReputationUnknownFaction(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)

	_, err := ModifyReputation("settler", "enclave", 5, "quest")
	assert.ErrorIs(t, err, ErrUnknownFaction)
}

func TestChooseAllegiance(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("recruit")

	// Below the level gate.
	_, err := ChooseAllegiance("recruit", "brotherhood")
	assert.ErrorIs(t, err, ErrTooLowLevel)

	AwardXP("recruit", 10*XPPerLevel, "grind")
	result, err := ChooseAllegiance("recruit", "brotherhood")
	assert.NoError(t, err)
	assert.Equal(t, 25, result.Reputation.Applied)
	assert.ElementsMatch(t, []string{"institute", "raiders"}, result.Hostile)

	// The choice is a one-way door.
	_, err = ChooseAllegiance("recruit", "minutemen")
	assert.ErrorIs(t, err, ErrAlreadyLocked)

	var hostiles []models.FactionHostility
	database.DB.Where("user_id = ?", "recruit").Find(&hostiles)
	assert.Len(t, hostiles, 2)
}

func TestGetStandingsSeedsFloor(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)

	standings, err := GetStandings("newcomer")
	assert.NoError(t, err)
	assert.Len(t, standings, 9)
	for _, s := range standings {
		assert.Equal(t, -100, s.Reputation)
		assert.Equal(t, "Outsider", s.Rank)
	}
}

func TestUnlockedPerks(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("knight")
	AwardXP("knight", 10*XPPerLevel, "grind")
	ChooseAllegiance("knight", "brotherhood")

	// Fresh allegiance sits at -75: no perks yet.
	perks, err := UnlockedPerks("knight")
	assert.NoError(t, err)
	assert.Empty(t, perks)

	ModifyReputation("knight", "brotherhood", 200, RepSourceAdmin)
	perks, err = UnlockedPerks("knight")
	assert.NoError(t, err)
	assert.Len(t, perks, 3)
}

func setVeteran(t *testing.T, userID, factionID string) {
	t.Helper()
	change, err := ModifyReputation(userID, factionID, 200, RepSourceAdmin)
	assert.NoError(t, err)
	assert.Equal(t, "Champion", change.Rank)
}

func TestClaimTerritory(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("general")
	AwardXP("general", 10*XPPerLevel, "grind")
	ChooseAllegiance("general", "minutemen")

	// Rank gate first.
	_, err := ClaimTerritory("general", "the_castle")
	assert.ErrorIs(t, err, ErrRankTooLow)

	setVeteran(t, "general", "minutemen")
	result, err := ClaimTerritory("general", "the_castle")
	assert.NoError(t, err)
	assert.Equal(t, "minutemen", result.FactionID)

	// Already controlled, even for a second eligible claimant.
	EnsureUser("colonel")
	AwardXP("colonel", 10*XPPerLevel, "grind")
	ChooseAllegiance("colonel", "railroad")
	setVeteran(t, "colonel", "railroad")
	_, err = ClaimTerritory("colonel", "the_castle")
	assert.ErrorIs(t, err, ErrTerritoryTaken)

	_, err = ClaimTerritory("general", "atlantis")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestCollectTerritoryIncome(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("general")
	AwardXP("general", 10*XPPerLevel, "grind")
	ChooseAllegiance("general", "minutemen")
	setVeteran(t, "general", "minutemen")
	ClaimTerritory("general", "the_castle")
	ClaimTerritory("general", "corvega")

	var before models.User
	database.DB.First(&before, "id = ?", "general")

	result, err := CollectTerritoryIncome("general")
	assert.NoError(t, err)
	assert.Equal(t, int64(120+80), result.Caps)
	assert.Equal(t, before.Balance+200, result.NewBalance)

	// Once per day.
	_, err = CollectTerritoryIncome("general")
	assert.ErrorIs(t, err, ErrStillOnCooldown)
}

func TestCollectTerritoryIncomeWithoutHoldings(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("landless")
	AwardXP("landless", 10*XPPerLevel, "grind")
	ChooseAllegiance("landless", "railroad")

	_, err := CollectTerritoryIncome("landless")
	assert.ErrorIs(t, err, ErrNoTerritories)
}

func TestResetFactionState(t *testing.T) {
	setupTestDB()
	database.Seed(database.DB)
	EnsureUser("exiled")
	AwardXP("exiled", 10*XPPerLevel, "grind")
	ChooseAllegiance("exiled", "raiders")

	assert.NoError(t, ResetFactionState("exiled"))

	var count int64
	database.DB.Model(&models.Allegiance{}).Where("user_id = ?", "exiled").Count(&count)
	assert.Equal(t, int64(0), count)

	// Free to pledge again after the wipe.
	_, err := ChooseAllegiance("exiled", "minutemen")
	assert.NoError(t, err)
}
