package services

import (
	"errors"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	allegianceMinLevel   = 10
	allegianceRepBonus   = 25
	dailyReputationCap   = 10
	reputationFloor      = -100
	reputationCeiling    = 100
	territoryClaimBonus  = 5
	territoryIncomeEvery = 24 * time.Hour
)

// Reputation sources. Admin and allegiance grants bypass the daily gain cap;
// everything else counts against it.
const (
	RepSourceAdmin      = "admin"
	RepSourceAllegiance = "allegiance"
	RepSourceTerritory  = "territory"
	RepSourceEvent      = "event"
)

// RankFromRep maps reputation to the standing ladder.
func RankFromRep(rep int) string {
	switch {
	case rep >= 80:
		return "Champion"
	case rep >= 50:
		return "Veteran"
	case rep >= 0:
		return "Ally"
	case rep >= -50:
		return "Neutral"
	case rep >= -75:
		return "Recruit"
	default:
		return "Outsider"
	}
}

// factionEnemies drives hostility marking when an allegiance locks in.
var factionEnemies = map[string][]string{
	"brotherhood": {"institute", "raiders"},
	"institute":   {"brotherhood", "railroad"},
	"minutemen":   {"raiders"},
	"railroad":    {"institute"},
	"raiders":     {"brotherhood", "minutemen", "wastelanders"},
	"wastelanders": {"raiders"},
	"smugglers":    {"mercenaries"},
	"mercenaries":  {"smugglers"},
	"syndicate":    {},
}

// FactionPerk is a rank-gated benefit surfaced to the chat layer.
type FactionPerk struct {
	Rank        string `json:"rank"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var factionPerks = map[string][]FactionPerk{
	"brotherhood": {
		{Rank: "Ally", Name: "Armory Access", Description: "Discounted weapons at the shop."},
		{Rank: "Veteran", Name: "Power Armor Training", Description: "Reduced power armor prices."},
		{Rank: "Champion", Name: "Vertibird Support", Description: "Priority scavenge extraction."},
	},
	"institute": {
		{Rank: "Ally", Name: "Synth Labor", Description: "Extra scavenge attempts."},
		{Rank: "Veteran", Name: "Teleportation", Description: "Shorter scavenge runs."},
		{Rank: "Champion", Name: "Directorate Seat", Description: "Institute tech discounts."},
	},
	"minutemen": {
		{Rank: "Ally", Name: "Militia Backup", Description: "Help defending duels."},
		{Rank: "Veteran", Name: "Artillery Support", Description: "Stronger NPC fight odds."},
		{Rank: "Champion", Name: "General's Honors", Description: "Bonus daily stipend."},
	},
	"railroad": {
		{Rank: "Ally", Name: "Safehouse Network", Description: "Shorter rob cooldowns."},
		{Rank: "Veteran", Name: "Ballistic Weave", Description: "Bonus armor in duels."},
		{Rank: "Champion", Name: "Deep Cover", Description: "Harder to rob."},
	},
	"raiders": {
		{Rank: "Ally", Name: "Intimidation", Description: "Better robbery odds."},
		{Rank: "Veteran", Name: "Tribute", Description: "Cut of raider territory income."},
		{Rank: "Champion", Name: "Warlord", Description: "Bigger robbery hauls."},
	},
	"wastelanders": {
		{Rank: "Ally", Name: "Barter Network", Description: "Shop discounts."},
		{Rank: "Veteran", Name: "Caravan Guards", Description: "Protected transfers."},
		{Rank: "Champion", Name: "Folk Hero", Description: "Bonus reputation gains."},
	},
	"smugglers": {
		{Rank: "Ally", Name: "Fence Contacts", Description: "Better sell prices."},
		{Rank: "Veteran", Name: "Hidden Caches", Description: "Extra scavenge loot."},
		{Rank: "Champion", Name: "Kingpin's Favor", Description: "Reduced stash fees."},
	},
	"mercenaries": {
		{Rank: "Ally", Name: "Contract Work", Description: "Bonus NPC fight caps."},
		{Rank: "Veteran", Name: "Gun Runners", Description: "Rare weapon access."},
		{Rank: "Champion", Name: "Company Commander", Description: "Duel reward bonus."},
	},
	"syndicate": {
		{Rank: "Ally", Name: "Protection Racket", Description: "Robbery insurance."},
		{Rank: "Veteran", Name: "Money Laundering", Description: "Reduced stash fees."},
		{Rank: "Champion", Name: "The Family", Description: "All black-market perks."},
	},
}

// territoryIncome is the fixed daily payout each holding contributes.
var territoryIncome = map[string]int64{
	"cambridge_pd":  50,
	"the_institute": 150,
	"railroad_hq":   100,
	"the_castle":    120,
	"corvega":       80,
	"vault_81":      60,
}

// ReputationChange reports an applied (possibly throttled) delta.
type ReputationChange struct {
	FactionID  string `json:"faction_id"`
	Applied    int    `json:"applied"`
	Reputation int    `json:"reputation"`
	Rank       string `json:"rank"`
	OldRank    string `json:"old_rank"`
	Throttled  bool   `json:"throttled"`
}

func modifyReputationTx(tx *gorm.DB, userID, factionID string, delta int, source string) (ReputationChange, error) {
	var change ReputationChange
	var faction models.Faction
	if err := tx.First(&faction, "id = ?", factionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return change, ErrUnknownFaction
		}
		return change, err
	}

	// Daily cap applies to ordinary positive gains only.
	capExempt := source == RepSourceAdmin || source == RepSourceAllegiance
	if delta > 0 && !capExempt {
		var gainedToday int
		err := tx.Model(&models.ReputationLog{}).
			Select("COALESCE(SUM(delta), 0)").
			Where("user_id = ? AND faction_id = ? AND delta > 0 AND created_at >= ?",
				userID, factionID, time.Now().Add(-24*time.Hour)).
			Where("source NOT IN ?", []string{RepSourceAdmin, RepSourceAllegiance}).
			Scan(&gainedToday).Error
		if err != nil {
			return change, err
		}
		room := dailyReputationCap - gainedToday
		if room <= 0 {
			delta = 0
		} else if delta > room {
			delta = room
			change.Throttled = true
		}
	}

	var standing models.FactionStanding
	err := tx.Where(models.FactionStanding{UserID: userID, FactionID: factionID}).
		Attrs(models.FactionStanding{Reputation: reputationFloor, Rank: "Outsider"}).
		FirstOrCreate(&standing).Error
	if err != nil {
		return change, err
	}
	change.OldRank = standing.Rank

	rep := standing.Reputation + delta
	if rep > reputationCeiling {
		rep = reputationCeiling
	}
	if rep < reputationFloor {
		rep = reputationFloor
	}
	change.Applied = rep - standing.Reputation
	change.Reputation = rep
	change.Rank = RankFromRep(rep)
	change.FactionID = factionID
	if delta == 0 && change.Applied == 0 {
		change.Throttled = true
	}

	updates := map[string]interface{}{
		"reputation": rep,
		"rank":       change.Rank,
	}
	if change.Applied > 0 {
		updates["last_gain_at"] = time.Now()
	}
	res := tx.Model(&models.FactionStanding{}).
		Where("user_id = ? AND faction_id = ? AND reputation = ?", userID, factionID, standing.Reputation).
		Updates(updates)
	if res.Error != nil {
		return change, res.Error
	}
	if res.RowsAffected == 0 {
		return change, errors.New("reputation changed while applying delta")
	}

	if change.Applied != 0 {
		log := models.ReputationLog{UserID: userID, FactionID: factionID, Delta: change.Applied, Source: source}
		if err := tx.Create(&log).Error; err != nil {
			return change, err
		}
	}
	return change, nil
}

// ModifyReputation applies a reputation delta. Ordinary gains are capped at
// +10 per rolling day per faction; admin and allegiance sources are exempt.
// Reputation clamps to [-100, 100] and the rank cache is rewritten in the
// same transaction.
func ModifyReputation(userID, factionID string, delta int, source string) (ReputationChange, error) {
	if _, err := EnsureUser(userID); err != nil {
		return ReputationChange{}, err
	}
	var change ReputationChange
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		change, txErr = modifyReputationTx(tx, userID, factionID, delta, source)
		return txErr
	})
	return change, err
}

// GetStandings returns the user's reputation with every faction, seeding
// missing rows at the floor.
func GetStandings(userID string) ([]models.FactionStanding, error) {
	if _, err := EnsureUser(userID); err != nil {
		return nil, err
	}
	var factions []models.Faction
	if err := database.DB.Find(&factions).Error; err != nil {
		return nil, err
	}
	rows := make([]models.FactionStanding, 0, len(factions))
	for _, f := range factions {
		rows = append(rows, models.FactionStanding{
			UserID: userID, FactionID: f.ID, Reputation: reputationFloor, Rank: "Outsider",
		})
	}
	if err := database.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return nil, err
	}
	var standings []models.FactionStanding
	err := database.DB.Where("user_id = ?", userID).Order("faction_id asc").Find(&standings).Error
	return standings, err
}

// AllegianceResult reports a locked-in faction choice.
type AllegianceResult struct {
	FactionID  string           `json:"faction_id"`
	Reputation ReputationChange `json:"reputation"`
	Hostile    []string         `json:"hostile"`
}

// ChooseAllegiance locks a user to a faction. Requires level 10, is
// irreversible, grants +25 reputation and marks the faction's enemies
// hostile, all in one transaction.
func ChooseAllegiance(userID, factionID string) (AllegianceResult, error) {
	user, err := EnsureUser(userID)
	if err != nil {
		return AllegianceResult{}, err
	}
	if user.Level < allegianceMinLevel {
		return AllegianceResult{}, ErrTooLowLevel
	}

	var result AllegianceResult
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var faction models.Faction
		if err := tx.First(&faction, "id = ?", factionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownFaction
			}
			return err
		}

		// The insert is the lock: a second choice conflicts and changes no rows.
		allegiance := models.Allegiance{UserID: userID, FactionID: factionID, Locked: true}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&allegiance)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyLocked
		}

		change, err := modifyReputationTx(tx, userID, factionID, allegianceRepBonus, RepSourceAllegiance)
		if err != nil {
			return err
		}
		result = AllegianceResult{FactionID: factionID, Reputation: change}

		for _, enemyID := range factionEnemies[factionID] {
			h := models.FactionHostility{
				UserID: userID, FactionID: enemyID,
				State: models.HostilityHostile, Reason: "allegiance to " + factionID,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&h).Error; err != nil {
				return err
			}
			result.Hostile = append(result.Hostile, enemyID)
		}
		return nil
	})
	if err != nil {
		return AllegianceResult{}, err
	}
	return result, nil
}

// GetAllegiance returns the locked faction, or gorm.ErrRecordNotFound.
func GetAllegiance(userID string) (models.Allegiance, error) {
	var a models.Allegiance
	err := database.DB.First(&a, "user_id = ?", userID).Error
	return a, err
}

// UnlockedPerks lists the allegiance faction's perks the user's rank has
// reached.
func UnlockedPerks(userID string) ([]FactionPerk, error) {
	allegiance, err := GetAllegiance(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var standing models.FactionStanding
	if err := database.DB.First(&standing, "user_id = ? AND faction_id = ?", userID, allegiance.FactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	rankOrder := map[string]int{"Outsider": 0, "Recruit": 1, "Neutral": 2, "Ally": 3, "Veteran": 4, "Champion": 5}
	have := rankOrder[standing.Rank]
	var unlocked []FactionPerk
	for _, perk := range factionPerks[allegiance.FactionID] {
		if rankOrder[perk.Rank] <= have {
			unlocked = append(unlocked, perk)
		}
	}
	return unlocked, nil
}

// TerritoryClaimResult reports a successful claim.
type TerritoryClaimResult struct {
	TerritoryID string           `json:"territory_id"`
	FactionID   string           `json:"faction_id"`
	Reputation  ReputationChange `json:"reputation"`
}

// ClaimTerritory stakes an unclaimed territory for the user's allegiance
// faction. Requires Veteran standing. The claim itself is one conditional
// update so two claimants cannot both take it.
func ClaimTerritory(userID, territoryID string) (TerritoryClaimResult, error) {
	allegiance, err := GetAllegiance(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TerritoryClaimResult{}, ErrUnknownFaction
	}
	if err != nil {
		return TerritoryClaimResult{}, err
	}
	var standing models.FactionStanding
	if err := database.DB.First(&standing, "user_id = ? AND faction_id = ?", userID, allegiance.FactionID).Error; err != nil {
		return TerritoryClaimResult{}, err
	}
	if standing.Rank != "Veteran" && standing.Rank != "Champion" {
		return TerritoryClaimResult{}, ErrRankTooLow
	}

	var result TerritoryClaimResult
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Territory{}).
			Where("id = ? AND controlling_faction IS NULL", territoryID).
			Updates(map[string]interface{}{
				"controlling_faction": allegiance.FactionID,
				"last_contested_at":   time.Now(),
				"contested_by":        userID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Territory{}).Where("id = ?", territoryID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrInvalidTarget
			}
			return ErrTerritoryTaken
		}
		change, err := modifyReputationTx(tx, userID, allegiance.FactionID, territoryClaimBonus, RepSourceTerritory)
		if err != nil {
			return err
		}
		result = TerritoryClaimResult{TerritoryID: territoryID, FactionID: allegiance.FactionID, Reputation: change}
		return nil
	})
	return result, err
}

// TerritoryIncomeResult reports a collected passive income payout.
type TerritoryIncomeResult struct {
	FactionID   string    `json:"faction_id"`
	Territories []string  `json:"territories"`
	Caps        int64     `json:"caps"`
	NewBalance  int64     `json:"new_balance"`
	NextClaim   time.Time `json:"next_claim"`
}

// CollectTerritoryIncome pays the summed daily income of every territory the
// user's allegiance faction controls, once per 24 hours.
func CollectTerritoryIncome(userID string) (TerritoryIncomeResult, error) {
	allegiance, err := GetAllegiance(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TerritoryIncomeResult{}, ErrUnknownFaction
	}
	if err != nil {
		return TerritoryIncomeResult{}, err
	}

	var territories []models.Territory
	if err := database.DB.Where("controlling_faction = ?", allegiance.FactionID).Find(&territories).Error; err != nil {
		return TerritoryIncomeResult{}, err
	}
	var total int64
	var held []string
	for _, t := range territories {
		total += territoryIncome[t.ID]
		held = append(held, t.ID)
	}
	if total == 0 {
		return TerritoryIncomeResult{}, ErrNoTerritories
	}

	result := TerritoryIncomeResult{FactionID: allegiance.FactionID, Territories: held, Caps: total}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		expiry, err := tryStartCooldownTx(tx, userID, models.CooldownTerritoryIncome, territoryIncomeEvery)
		if err != nil {
			return err
		}
		bal, err := creditTx(tx, userID, total, models.CapRecordTerritory, "territory income", userID, "")
		if err != nil {
			return err
		}
		result.NewBalance = bal
		result.NextClaim = expiry
		return nil
	})
	if err != nil {
		return TerritoryIncomeResult{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// ListTerritories returns the territory map with income annotations.
func ListTerritories() ([]models.Territory, map[string]int64, error) {
	var territories []models.Territory
	err := database.DB.Order("id asc").Find(&territories).Error
	return territories, territoryIncome, err
}

// ResetFactionState wipes a user's faction footprint. Admin surface only.
func ResetFactionState(userID string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.FactionStanding{}, &models.Allegiance{},
			&models.FactionHostility{}, &models.ReputationLog{},
		} {
			if err := tx.Delete(m, "user_id = ?", userID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
