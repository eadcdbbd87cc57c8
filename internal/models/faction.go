package models

import "time"

// Faction is seeded metadata, not mutable state.
type Faction struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// "major" or "black-market".
	Type string `gorm:"not null" json:"type"`
}

// FactionStanding tracks one user's reputation with one faction.
// Rank is a cache of factions.RankFromRep(Reputation), rewritten on every
// reputation change and never updated independently.
type FactionStanding struct {
	UserID     string    `gorm:"primaryKey" json:"user_id"`
	FactionID  string    `gorm:"primaryKey" json:"faction_id"`
	Reputation int       `gorm:"not null;default:-100" json:"reputation"`
	Rank       string    `gorm:"not null;default:'Outsider'" json:"rank"`
	LastGainAt time.Time `json:"last_gain_at"`
}

// Allegiance is the one-time faction choice. Once Locked it is immutable.
type Allegiance struct {
	UserID    string `gorm:"primaryKey" json:"user_id"`
	FactionID string `gorm:"not null" json:"faction_id"`
	Locked    bool   `gorm:"not null;default:false" json:"locked"`
}

type HostilityState int

const (
	HostilityNeutral    HostilityState = 0
	HostilitySuspicious HostilityState = 1
	HostilityHostile    HostilityState = 2
	HostilityKOS        HostilityState = 3
)

// FactionHostility marks factions that treat the user as an enemy.
type FactionHostility struct {
	UserID    string         `gorm:"primaryKey" json:"user_id"`
	FactionID string         `gorm:"primaryKey" json:"faction_id"`
	State     HostilityState `gorm:"not null;default:0" json:"state"`
	Reason    string         `json:"reason"`
	CreatedAt time.Time      `json:"created_at"`
}

// Territory contributes passive income to the controlling faction's members.
// A nil ControllingFaction means unclaimed.
type Territory struct {
	ID                 string  `gorm:"primaryKey" json:"id"`
	ControllingFaction *string `gorm:"index" json:"controlling_faction"`
	LastContestedAt    time.Time
	ContestedBy        *string
}

// ReputationLog is append-only; the daily reputation cap is computed from it
// inside the same transaction that applies the delta.
type ReputationLog struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UserID    string    `gorm:"index;not null"`
	FactionID string    `gorm:"index;not null"`
	Delta     int       `gorm:"not null"`
	Source    string    `gorm:"type:varchar(50)"`
}
