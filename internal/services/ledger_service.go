package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ledgerSecret signs cap records so tampering with audit rows is detectable.
// Set once at startup from config.
var ledgerSecret = "vault-tec"

func SetLedgerSecret(secret string) {
	if secret != "" {
		ledgerSecret = secret
	}
}

// EnsureUser creates an account row on first contact with a user id.
// It is safe to call on every request.
func EnsureUser(userID string) (models.User, error) {
	var user models.User
	if userID == "" {
		return user, ErrInvalidTarget
	}
	err := database.DB.Where(models.User{ID: userID}).FirstOrCreate(&user).Error
	return user, err
}

func FindUserByID(userID string) (models.User, error) {
	// Try cache
	cacheKey := "user:" + userID
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(database.Ctx, cacheKey).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}

	// Set cache
	if database.RedisClient != nil {
		if data, err := json.Marshal(user); err == nil {
			database.RedisClient.Set(database.Ctx, cacheKey, data, time.Hour)
		}
	}

	return user, nil
}

func invalidateUserCache(userIDs ...string) {
	if database.RedisClient == nil {
		return
	}
	for _, id := range userIDs {
		database.RedisClient.Del(database.Ctx, "user:"+id)
	}
}

// recordCapsTx appends a signed audit row for a completed balance mutation.
func recordCapsTx(tx *gorm.DB, userID string, amount, before, after int64, recordType models.CapRecordType, reason, actor, reference string) error {
	rec := models.CapRecord{
		CreatedAt:     time.Now(),
		UserID:        userID,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        reason,
		Actor:         actor,
		Type:          recordType,
		Reference:     reference,
	}
	rec.Hash = rec.GenerateHash(ledgerSecret)
	return tx.Create(&rec).Error
}

// creditTx adds caps inside an existing transaction and returns the new balance.
func creditTx(tx *gorm.DB, userID string, amount int64, recordType models.CapRecordType, reason, actor, reference string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	res := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}
	if err := recordCapsTx(tx, userID, amount, user.Balance-amount, user.Balance, recordType, reason, actor, reference); err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// debitTx removes caps only when the balance covers the full amount. The
// guard lives in the WHERE clause so concurrent debits cannot overdraw.
func debitTx(tx *gorm.DB, userID string, amount int64, recordType models.CapRecordType, reason, actor, reference string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	res := tx.Model(&models.User{}).Where("id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing account from an uncovered debit.
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, ErrUserNotFound
		}
		return 0, ErrInsufficientFunds
	}
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}
	if err := recordCapsTx(tx, userID, -amount, user.Balance+amount, user.Balance, recordType, reason, actor, reference); err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// debitUpToTx removes at most amount, flooring the balance at zero, and
// returns how much was actually taken. Used for fines and penalties.
func debitUpToTx(tx *gorm.DB, userID string, amount int64, recordType models.CapRecordType, reason, actor, reference string) (int64, error) {
	if amount <= 0 {
		return 0, nil
	}
	var before models.User
	if err := tx.First(&before, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	taken := amount
	if before.Balance < taken {
		taken = before.Balance
	}
	if taken == 0 {
		return 0, nil
	}
	res := tx.Model(&models.User{}).Where("id = ? AND balance = ?", userID, before.Balance).
		UpdateColumn("balance", before.Balance-taken)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("balance changed while applying penalty to %s", userID)
	}
	if err := recordCapsTx(tx, userID, -taken, before.Balance, before.Balance-taken, recordType, reason, actor, reference); err != nil {
		return 0, err
	}
	return taken, nil
}

// Credit adds caps to a user account and appends an audit record.
func Credit(userID string, amount int64, recordType models.CapRecordType, reason, actor string) (int64, error) {
	if _, err := EnsureUser(userID); err != nil {
		return 0, err
	}
	var newBalance int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		newBalance, txErr = creditTx(tx, userID, amount, recordType, reason, actor, "")
		return txErr
	})
	if err != nil {
		return 0, err
	}
	invalidateUserCache(userID)
	return newBalance, nil
}

// Debit removes caps from a user account, failing the whole operation when
// the balance does not cover the amount.
func Debit(userID string, amount int64, recordType models.CapRecordType, reason, actor string) (int64, error) {
	if _, err := EnsureUser(userID); err != nil {
		return 0, err
	}
	var newBalance int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		newBalance, txErr = debitTx(tx, userID, amount, recordType, reason, actor, "")
		return txErr
	})
	if err != nil {
		return 0, err
	}
	invalidateUserCache(userID)
	return newBalance, nil
}

// TransferResult reports both post-transfer balances.
type TransferResult struct {
	FromBalance int64 `json:"from_balance"`
	ToBalance   int64 `json:"to_balance"`
	Reference   string `json:"reference"`
}

// Transfer moves caps between two accounts. Both legs commit or neither does,
// and both audit rows share a reference id.
func Transfer(fromID, toID string, amount int64, reason string) (TransferResult, error) {
	var result TransferResult
	if amount <= 0 {
		return result, ErrInvalidAmount
	}
	if fromID == "" || toID == "" || fromID == toID {
		return result, ErrInvalidTarget
	}
	if _, err := EnsureUser(fromID); err != nil {
		return result, err
	}
	if _, err := EnsureUser(toID); err != nil {
		return result, err
	}

	ref := uuid.NewString()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		fromBal, err := debitTx(tx, fromID, amount, models.CapRecordTransfer, reason, fromID, ref)
		if err != nil {
			return err
		}
		toBal, err := creditTx(tx, toID, amount, models.CapRecordTransfer, reason, fromID, ref)
		if err != nil {
			return err
		}
		result = TransferResult{FromBalance: fromBal, ToBalance: toBal, Reference: ref}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}
	invalidateUserCache(fromID, toID)
	return result, nil
}

// AdjustHealth moves health by delta, clamped to [0, max_health] in a single
// statement so concurrent damage cannot push it out of range.
func AdjustHealth(userID string, delta int) error {
	res := database.DB.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("health", gorm.Expr(
			"CASE WHEN health + ? > max_health THEN max_health WHEN health + ? < 0 THEN 0 ELSE health + ? END",
			delta, delta, delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	invalidateUserCache(userID)
	return nil
}

// AdjustRadiation moves radiation by delta, clamped to [0, 100].
func AdjustRadiation(userID string, delta int) error {
	res := database.DB.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("radiation", gorm.Expr(
			"CASE WHEN radiation + ? > 100 THEN 100 WHEN radiation + ? < 0 THEN 0 ELSE radiation + ? END",
			delta, delta, delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	invalidateUserCache(userID)
	return nil
}

// CapRecordFilter defines criteria for browsing the audit trail.
type CapRecordFilter struct {
	UserID    *string
	Type      *models.CapRecordType
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	Limit     int
}

// FindCapRecords retrieves a paginated slice of the audit trail.
func FindCapRecords(filter CapRecordFilter) ([]models.CapRecord, int64, error) {
	var records []models.CapRecord
	var total int64

	query := database.DB.Model(&models.CapRecord{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at desc").Limit(filter.Limit).Offset(offset).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// VerifyCapRecords re-hashes stored audit rows and returns ids whose hash no
// longer matches their contents.
func VerifyCapRecords(userID string) ([]uint, error) {
	var records []models.CapRecord
	if err := database.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	var tampered []uint
	for i := range records {
		if records[i].GenerateHash(ledgerSecret) != records[i].Hash {
			tampered = append(tampered, records[i].ID)
		}
	}
	return tampered, nil
}

// Leaderboard returns the richest accounts in descending balance order.
func Leaderboard(limit int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var users []models.User
	err := database.DB.Order("balance desc").Limit(limit).Find(&users).Error
	return users, err
}
