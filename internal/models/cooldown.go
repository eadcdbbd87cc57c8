package models

import "time"

type CooldownKind string

const (
	CooldownScavenge        CooldownKind = "scavenge"
	CooldownHunt            CooldownKind = "hunt"
	CooldownFish            CooldownKind = "fish"
	CooldownRob             CooldownKind = "rob"
	CooldownDaily           CooldownKind = "daily"
	CooldownGamble          CooldownKind = "gamble"
	CooldownPvPAttacker     CooldownKind = "pvp_attacker"
	CooldownPvPDefender     CooldownKind = "pvp_defender"
	CooldownTerritoryIncome CooldownKind = "territory_income"
)

// Cooldown is a persisted per-(user, action) expiry. Expiry is evaluated
// lazily on the next check, so restarts lose nothing and no background
// timers exist.
type Cooldown struct {
	UserID    string       `gorm:"primaryKey" json:"user_id"`
	Kind      CooldownKind `gorm:"primaryKey" json:"kind"`
	ExpiresAt time.Time    `gorm:"index;not null" json:"expires_at"`
}
