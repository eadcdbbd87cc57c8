package services

import (
	"errors"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm/clause"
)

// TierBenefits describes what one donor tier grants.
type TierBenefits struct {
	XPMultiplier   float64 `json:"xp_multiplier"`
	MonthlyEntries int     `json:"monthly_entries"`
}

var tierBenefits = map[models.DonorTier]TierBenefits{
	models.DonorBronze:   {XPMultiplier: 1.15, MonthlyEntries: 2},
	models.DonorSilver:   {XPMultiplier: 1.3, MonthlyEntries: 5},
	models.DonorGold:     {XPMultiplier: 1.5, MonthlyEntries: 10},
	models.DonorPlatinum: {XPMultiplier: 2.0, MonthlyEntries: 25},
}

// DonorTierOf returns the user's tier, or "" for non-donors.
func DonorTierOf(userID string) models.DonorTier {
	var donor models.Donor
	err := database.DB.First(&donor, "user_id = ?", userID).Error
	if err != nil {
		return ""
	}
	return donor.Tier
}

// DonorXPMultiplier is 1.0 for non-donors.
func DonorXPMultiplier(userID string) float64 {
	if b, ok := tierBenefits[DonorTierOf(userID)]; ok {
		return b.XPMultiplier
	}
	return 1.0
}

// SetDonorTier assigns or updates a user's donor tier. Admin surface only.
func SetDonorTier(userID string, tier models.DonorTier) (models.Donor, error) {
	if _, ok := tierBenefits[tier]; !ok {
		return models.Donor{}, errors.New("unknown donor tier")
	}
	if _, err := EnsureUser(userID); err != nil {
		return models.Donor{}, err
	}
	donor := models.Donor{UserID: userID, Tier: tier, JoinedAt: time.Now()}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"tier": tier}),
	}).Create(&donor).Error
	return donor, err
}

// RemoveDonor strips donor status.
func RemoveDonor(userID string) error {
	return database.DB.Delete(&models.Donor{}, "user_id = ?", userID).Error
}

// CurrentRaffleMonth is the YYYY-MM bucket entries accumulate in.
func CurrentRaffleMonth() string {
	return time.Now().Format("2006-01")
}

// AddRaffleEntries appends entries to the current month's pool.
func AddRaffleEntries(userID string, n int) error {
	if n <= 0 {
		return ErrInvalidAmount
	}
	if _, err := EnsureUser(userID); err != nil {
		return err
	}
	entry := models.RaffleEntry{UserID: userID, Entries: n, MonthYear: CurrentRaffleMonth()}
	return database.DB.Create(&entry).Error
}

// UserRaffleEntries sums one user's entries for a month.
func UserRaffleEntries(userID, month string) (int, error) {
	var total int64
	err := database.DB.Model(&models.RaffleEntry{}).
		Where("user_id = ? AND month_year = ?", userID, month).
		Select("COALESCE(SUM(entries), 0)").
		Scan(&total).Error
	return int(total), err
}

// GrantMonthlyEntries gives every donor their tier's entries for the current
// month. Skips donors who already received this month's grant. Returns how
// many donors were credited.
func GrantMonthlyEntries() (int, error) {
	var donors []models.Donor
	if err := database.DB.Find(&donors).Error; err != nil {
		return 0, err
	}
	month := CurrentRaffleMonth()
	granted := 0
	for _, d := range donors {
		benefits, ok := tierBenefits[d.Tier]
		if !ok {
			continue
		}
		var existing int64
		err := database.DB.Model(&models.RaffleEntry{}).
			Where("user_id = ? AND month_year = ?", d.UserID, month).
			Count(&existing).Error
		if err != nil {
			return granted, err
		}
		if existing > 0 {
			continue
		}
		entry := models.RaffleEntry{UserID: d.UserID, Entries: benefits.MonthlyEntries, MonthYear: month}
		if err := database.DB.Create(&entry).Error; err != nil {
			return granted, err
		}
		granted++
	}
	return granted, nil
}

// RaffleStanding is one user's share of a month's pool.
type RaffleStanding struct {
	UserID  string `json:"user_id"`
	Entries int    `json:"entries"`
}

// RaffleStandings sums each user's entries for a month.
func RaffleStandings(month string) ([]RaffleStanding, error) {
	var standings []RaffleStanding
	err := database.DB.Model(&models.RaffleEntry{}).
		Select("user_id, SUM(entries) as entries").
		Where("month_year = ?", month).
		Group("user_id").
		Order("entries desc").
		Scan(&standings).Error
	return standings, err
}

// DrawRaffleWinner picks one entry from the month's multiset, each user
// weighted by their summed entries.
func DrawRaffleWinner(month string) (RaffleStanding, error) {
	standings, err := RaffleStandings(month)
	if err != nil {
		return RaffleStanding{}, err
	}
	total := 0
	for _, s := range standings {
		total += s.Entries
	}
	if total <= 0 {
		return RaffleStanding{}, ErrNoRaffleEntries
	}
	r := rollInt(total)
	cum := 0
	for _, s := range standings {
		cum += s.Entries
		if r < cum {
			return s, nil
		}
	}
	return RaffleStanding{}, ErrNoRaffleEntries
}

// PurgeRaffleEntries deletes entries older than the given month (exclusive).
func PurgeRaffleEntries(beforeMonth string) (int64, error) {
	res := database.DB.Delete(&models.RaffleEntry{}, "month_year < ?", beforeMonth)
	return res.RowsAffected, res.Error
}
