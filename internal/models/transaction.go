package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

type CapRecordType string

const (
	CapRecordReward    CapRecordType = "reward"
	CapRecordWager     CapRecordType = "wager"
	CapRecordTransfer  CapRecordType = "transfer"
	CapRecordRobbery   CapRecordType = "robbery"
	CapRecordPenalty   CapRecordType = "penalty"
	CapRecordStash     CapRecordType = "stash"
	CapRecordTerritory CapRecordType = "territory"
	CapRecordAdmin     CapRecordType = "admin_adjustment"
)

// CapRecord is the append-only audit trail for every balance change.
type CapRecord struct {
	ID            uint          `gorm:"primarykey"`
	CreatedAt     time.Time     `gorm:"precision:3"` // Millisecond precision
	UserID        string        `gorm:"index;not null"`
	Amount        int64         `gorm:"not null"`
	BalanceBefore int64         `gorm:"not null"`
	BalanceAfter  int64         `gorm:"not null"`
	Reason        string        `gorm:"type:text"`
	// Counterparty user id, or 'system'.
	Actor     string        `gorm:"type:varchar(100)"`
	Type      CapRecordType `gorm:"type:varchar(50);index;default:'reward'"`
	Reference string        `gorm:"type:varchar(64);index"`
	Hash      string        `gorm:"type:varchar(64);default:''"` // HMAC SHA256
}

// GenerateHash generates a tamper-proof hash for the record
func (r *CapRecord) GenerateHash(secret string) string {
	data := fmt.Sprintf("%s|%d|%d|%d|%d|%s|%s|%s",
		r.UserID, r.CreatedAt.UnixNano(), r.Amount, r.BalanceBefore, r.BalanceAfter,
		r.Reason, r.Actor, r.Type)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
