package models

import "time"

type DonorTier string

const (
	DonorBronze   DonorTier = "bronze"
	DonorSilver   DonorTier = "silver"
	DonorGold     DonorTier = "gold"
	DonorPlatinum DonorTier = "platinum"
)

// Donor records supporter status; tier drives XP multipliers and monthly
// raffle entries.
type Donor struct {
	UserID   string    `gorm:"primaryKey" json:"user_id"`
	Tier     DonorTier `gorm:"not null;default:'bronze'" json:"tier"`
	JoinedAt time.Time `json:"joined_at"`
}

// RaffleEntry rows are append-only; a month's winner is drawn from the
// multiset of entries, each row contributing Entries copies of its user.
type RaffleEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    string `gorm:"index;not null" json:"user_id"`
	Entries   int    `gorm:"not null" json:"entries"`
	MonthYear string `gorm:"index;not null;type:varchar(7)" json:"month_year"` // YYYY-MM
}
