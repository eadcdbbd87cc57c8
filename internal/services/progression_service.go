package services

import (
	"fmt"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
)

const (
	// XPPerLevel is the flat cost of each level.
	XPPerLevel = 500
	// MaxLevel caps progression.
	MaxLevel = 100
	// StatPointsPerLevel are granted on each level gained.
	StatPointsPerLevel = 1
)

// statColumns whitelists the SPECIAL stats a point can be spent on.
var statColumns = map[string]string{
	"strength":     "stat_strength",
	"perception":   "stat_perception",
	"endurance":    "stat_endurance",
	"charisma":     "stat_charisma",
	"intelligence": "stat_intelligence",
	"agility":      "stat_agility",
	"luck":         "stat_luck",
}

// LevelForXP converts lifetime XP to a level, clamped to [1, MaxLevel].
func LevelForXP(xp int64) int {
	level := int(xp / XPPerLevel)
	if level < 1 {
		return 1
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// XPToNextLevel reports how much XP is still needed for the next level, or
// zero at the cap.
func XPToNextLevel(xp int64) int64 {
	if LevelForXP(xp) >= MaxLevel {
		return 0
	}
	return XPPerLevel - xp%XPPerLevel
}

// LevelProgress reports how far through the current level the XP sits, in
// [0, 1]. Always 1 at the cap.
func LevelProgress(xp int64) float64 {
	if LevelForXP(xp) >= MaxLevel {
		return 1
	}
	return float64(xp%XPPerLevel) / float64(XPPerLevel)
}

// AwardXPResult describes a completed XP award.
type AwardXPResult struct {
	BaseAmount   int64   `json:"base_amount"`
	Amount       int64   `json:"amount"`
	Multiplier   float64 `json:"multiplier"`
	TotalXP      int64   `json:"total_xp"`
	OldLevel     int     `json:"old_level"`
	NewLevel     int     `json:"new_level"`
	LevelsGained int     `json:"levels_gained"`
	PointsGained int     `json:"points_gained"`
}

// awardXPTx applies an XP award inside an existing transaction. XP, the level
// cache and any stat points move in one statement guarded on the previously
// read XP value, retried on contention.
func awardXPTx(tx *gorm.DB, userID string, base int64, multiplier float64) (AwardXPResult, error) {
	var result AwardXPResult
	if base <= 0 {
		return result, ErrInvalidAmount
	}
	if multiplier < 1 {
		multiplier = 1
	}
	amount := int64(float64(base) * multiplier)

	for attempt := 0; attempt < 3; attempt++ {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return result, err
		}

		oldLevel := LevelForXP(user.XP)
		newXP := user.XP + amount
		newLevel := LevelForXP(newXP)
		gained := newLevel - oldLevel
		points := gained * StatPointsPerLevel

		res := tx.Model(&models.User{}).
			Where("id = ? AND xp = ?", userID, user.XP).
			UpdateColumns(map[string]interface{}{
				"xp":          newXP,
				"level":       newLevel,
				"stat_points": gorm.Expr("stat_points + ?", points),
			})
		if res.Error != nil {
			return result, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}

		return AwardXPResult{
			BaseAmount:   base,
			Amount:       amount,
			Multiplier:   multiplier,
			TotalXP:      newXP,
			OldLevel:     oldLevel,
			NewLevel:     newLevel,
			LevelsGained: gained,
			PointsGained: points,
		}, nil
	}
	return result, fmt.Errorf("xp award for %s kept losing to concurrent writers", userID)
}

// AwardXP grants base XP scaled by the user's donor multiplier, levels the
// user up as needed and credits one stat point per level gained.
func AwardXP(userID string, base int64, reason string) (AwardXPResult, error) {
	if _, err := EnsureUser(userID); err != nil {
		return AwardXPResult{}, err
	}
	multiplier := DonorXPMultiplier(userID)
	var result AwardXPResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = awardXPTx(tx, userID, base, multiplier)
		return txErr
	})
	if err != nil {
		return AwardXPResult{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// SpendStatPoint converts one banked point into a permanent +1 on the named
// stat. The point check rides in the WHERE clause.
func SpendStatPoint(userID, stat string) (models.User, error) {
	column, ok := statColumns[stat]
	if !ok {
		return models.User{}, ErrUnknownStat
	}
	if _, err := EnsureUser(userID); err != nil {
		return models.User{}, err
	}

	updates := map[string]interface{}{
		column:        gorm.Expr(column + " + 1"),
		"stat_points": gorm.Expr("stat_points - 1"),
	}
	if stat == "endurance" {
		// Endurance raises the HP pool immediately.
		updates["max_health"] = gorm.Expr("max_health + 10")
	}

	res := database.DB.Model(&models.User{}).
		Where("id = ? AND stat_points > 0", userID).
		UpdateColumns(updates)
	if res.Error != nil {
		return models.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.User{}, ErrNoPointsAvailable
	}
	invalidateUserCache(userID)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GrantStatPoints hands out unspent stat points directly, outside the
// level-up flow. Admin surface only.
func GrantStatPoints(userID string, n int) (models.User, error) {
	if n <= 0 {
		return models.User{}, ErrInvalidAmount
	}
	if _, err := EnsureUser(userID); err != nil {
		return models.User{}, err
	}

	err := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("stat_points", gorm.Expr("stat_points + ?", n)).Error
	if err != nil {
		return models.User{}, err
	}
	invalidateUserCache(userID)

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// LevelCorrection records one fixed level cache entry.
type LevelCorrection struct {
	UserID   string `json:"user_id"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
}

// ReconcileLevels rewrites any level cache column that disagrees with the
// stored XP. Normally a no-op; exists to repair drift after manual edits.
func ReconcileLevels() ([]LevelCorrection, error) {
	var users []models.User
	if err := database.DB.Select("id", "xp", "level").Find(&users).Error; err != nil {
		return nil, err
	}
	var fixed []LevelCorrection
	for _, u := range users {
		want := LevelForXP(u.XP)
		if want == u.Level {
			continue
		}
		res := database.DB.Model(&models.User{}).
			Where("id = ? AND xp = ?", u.ID, u.XP).
			UpdateColumn("level", want)
		if res.Error != nil {
			return fixed, res.Error
		}
		if res.RowsAffected > 0 {
			fixed = append(fixed, LevelCorrection{UserID: u.ID, OldLevel: u.Level, NewLevel: want})
			invalidateUserCache(u.ID)
		}
	}
	return fixed, nil
}
