package models

import "time"

// StashAccount is the secondary, fee-gated balance store. Interest accrues
// at 0.5%/day on Amount only while now - LastFeePaidAt is inside the
// 30-day maintenance window; AccruedFrom marks where unclaimed accrual
// starts and is advanced on every claim.
type StashAccount struct {
	UserID        string    `gorm:"primaryKey" json:"user_id"`
	Amount        int64     `gorm:"not null;default:0" json:"amount"`
	LastFeePaidAt time.Time `json:"last_fee_paid_at"`
	AccruedFrom   time.Time `json:"accrued_from"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
