package models

import "time"

// User is one wasteland account. The primary key is the opaque, stable
// identifier the chat layer supplies; this core never interprets it.
// Balance, XP and stat fields are mutated only through conditional updates
// in the services package so their floors survive concurrent requests.
type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Balance int64 `gorm:"not null;default:0" json:"balance"`
	XP      int64 `gorm:"column:xp;not null;default:0" json:"xp"`
	// Level is a cache of progression.Level(XP); ReconcileLevels corrects drift.
	Level int `gorm:"not null;default:1" json:"level"`

	Health    int `gorm:"not null;default:100" json:"health"`
	MaxHealth int `gorm:"not null;default:100" json:"max_health"`
	Radiation int `gorm:"not null;default:0" json:"radiation"`

	Strength     int `gorm:"column:stat_strength;not null;default:1" json:"strength"`
	Perception   int `gorm:"column:stat_perception;not null;default:1" json:"perception"`
	Endurance    int `gorm:"column:stat_endurance;not null;default:1" json:"endurance"`
	Charisma     int `gorm:"column:stat_charisma;not null;default:1" json:"charisma"`
	Intelligence int `gorm:"column:stat_intelligence;not null;default:1" json:"intelligence"`
	Agility      int `gorm:"column:stat_agility;not null;default:1" json:"agility"`
	Luck         int `gorm:"column:stat_luck;not null;default:1" json:"luck"`

	StatPoints int `gorm:"not null;default:5" json:"stat_points"`

	// Item id of the equipped power armor, if any.
	PowerArmor *string `json:"power_armor,omitempty"`

	DailyScavengeCount int       `gorm:"not null;default:0" json:"daily_scavenge_count"`
	LastScavengeReset  time.Time `json:"last_scavenge_reset"`
}
