package services

import (
	"errors"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tryStartCooldownTx arms a cooldown only when no unexpired one exists for
// the (user, kind) pair. The check and the write are a single upsert whose
// DO UPDATE clause is guarded on expiry, so two racing starts cannot both win.
func tryStartCooldownTx(tx *gorm.DB, userID string, kind models.CooldownKind, d time.Duration) (time.Time, error) {
	now := time.Now()
	expiry := now.Add(d)
	cd := models.Cooldown{UserID: userID, Kind: kind, ExpiresAt: expiry}

	res := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "kind"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"expires_at": expiry,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "cooldowns.expires_at <= ?", Vars: []interface{}{now}},
		}},
	}).Create(&cd)
	if res.Error != nil {
		return time.Time{}, res.Error
	}
	if res.RowsAffected == 0 {
		remaining, err := cooldownRemainingTx(tx, userID, kind)
		if err != nil {
			return time.Time{}, err
		}
		return time.Time{}, &CooldownActiveError{Kind: kind, Remaining: remaining}
	}
	return expiry, nil
}

// TryStartCooldown arms a cooldown of duration d, or fails with a
// CooldownActiveError carrying the remaining wait.
func TryStartCooldown(userID string, kind models.CooldownKind, d time.Duration) (time.Time, error) {
	return tryStartCooldownTx(database.DB, userID, kind, d)
}

func cooldownRemainingTx(tx *gorm.DB, userID string, kind models.CooldownKind) (time.Duration, error) {
	var cd models.Cooldown
	err := tx.First(&cd, "user_id = ? AND kind = ?", userID, kind).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	remaining := time.Until(cd.ExpiresAt)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// CooldownRemaining reports how long until kind becomes available again.
// An expired or missing row reads as zero.
func CooldownRemaining(userID string, kind models.CooldownKind) (time.Duration, error) {
	return cooldownRemainingTx(database.DB, userID, kind)
}

// ClearCooldown removes a cooldown regardless of expiry. Admin surface only.
func ClearCooldown(userID string, kind models.CooldownKind) error {
	return database.DB.Delete(&models.Cooldown{}, "user_id = ? AND kind = ?", userID, kind).Error
}

// ActiveCooldowns lists every unexpired cooldown for a user.
func ActiveCooldowns(userID string) ([]models.Cooldown, error) {
	var cds []models.Cooldown
	err := database.DB.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("expires_at asc").Find(&cds).Error
	return cds, err
}

// PurgeExpiredCooldowns deletes rows whose expiry has passed. Called
// periodically so the table does not grow without bound. Scavenge rows are
// skipped: an expired one is a matured run waiting to be collected.
func PurgeExpiredCooldowns() (int64, error) {
	res := database.DB.Delete(&models.Cooldown{},
		"expires_at <= ? AND kind <> ?", time.Now(), models.CooldownScavenge)
	return res.RowsAffected, res.Error
}
