package services

import (
	"math/rand"
	"sync"
	"time"
)

// The shared roll source is seeded once and guarded because gorm handlers run
// concurrently. Tests reseed it for deterministic outcomes.
var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// SeedRand reseeds the shared roll source.
func SeedRand(seed int64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng = rand.New(rand.NewSource(seed))
}

func rollInt(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}

func rollFloat() float64 {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Float64()
}

// Rare drops roll on their own source so drop luck never shifts the combat
// and reward sequences.
var (
	dropRngMu sync.Mutex
	dropRng   = rand.New(rand.NewSource(time.Now().UnixNano() ^ 0x5eed))
)

// SeedDropRand reseeds the rare-drop source.
func SeedDropRand(seed int64) {
	dropRngMu.Lock()
	defer dropRngMu.Unlock()
	dropRng = rand.New(rand.NewSource(seed))
}

func rollDropFloat() float64 {
	dropRngMu.Lock()
	defer dropRngMu.Unlock()
	return dropRng.Float64()
}

// Outcome is one entry in a weighted reward table. Weights are relative, not
// percentages. A Failure entry models the empty-handed case.
type Outcome struct {
	Name    string `json:"name"`
	Caps    int64  `json:"caps"`
	XP      int64  `json:"xp"`
	Weight  int    `json:"-"`
	Rarity  string `json:"rarity,omitempty"`
	Danger  int    `json:"-"`
	ItemID  string `json:"item_id,omitempty"`
	Failure bool   `json:"failure,omitempty"`
}

// RollWeighted draws one outcome with probability proportional to weight.
// Entries with non-positive weight are skipped; an empty or all-zero table
// yields nil.
func RollWeighted(table []Outcome) *Outcome {
	total := 0
	for _, o := range table {
		if o.Weight > 0 {
			total += o.Weight
		}
	}
	if total <= 0 {
		return nil
	}
	r := rollInt(total)
	cum := 0
	for i := range table {
		if table[i].Weight <= 0 {
			continue
		}
		cum += table[i].Weight
		if r < cum {
			return &table[i]
		}
	}
	return nil
}

// huntTable lists wasteland prey. Danger feeds the kill roll after selection.
var huntTable = []Outcome{
	{Name: "Radroach", Caps: 15, XP: 10, Weight: 30, Rarity: "common", Danger: 5},
	{Name: "Mole Rat", Caps: 25, XP: 15, Weight: 25, Rarity: "common", Danger: 10},
	{Name: "Radstag", Caps: 40, XP: 25, Weight: 20, Rarity: "uncommon", Danger: 15},
	{Name: "Feral Ghoul", Caps: 60, XP: 35, Weight: 12, Rarity: "uncommon", Danger: 25},
	{Name: "Yao Guai", Caps: 100, XP: 50, Weight: 8, Rarity: "rare", Danger: 40},
	{Name: "Deathclaw", Caps: 250, XP: 100, Weight: 3, Rarity: "legendary", Danger: 70},
	{Name: "Mirelurk Queen", Caps: 400, XP: 150, Weight: 2, Rarity: "legendary", Danger: 85},
}

// fishTable covers irradiated waters. The failure entry is the line snapping.
var fishTable = []Outcome{
	{Name: "Mutated Minnow", Caps: 10, XP: 5, Weight: 35, Rarity: "common"},
	{Name: "Glowing Carp", Caps: 20, XP: 10, Weight: 25, Rarity: "common"},
	{Name: "Two-Headed Bass", Caps: 35, XP: 18, Weight: 20, Rarity: "uncommon"},
	{Name: "Rad-Salmon", Caps: 55, XP: 28, Weight: 12, Rarity: "uncommon"},
	{Name: "Abyssal Lurker", Caps: 120, XP: 60, Weight: 5, Rarity: "rare"},
	{Name: "The Old One", Caps: 300, XP: 120, Weight: 3, Rarity: "legendary"},
	{Name: "The line snapped", Weight: 10, Failure: true},
}

// HuntKillChance is the second roll after an encounter is selected. Sharp
// senses, speed and luck offset the prey's danger.
func HuntKillChance(danger, perception, agility, luck int) int {
	chance := 100 - danger + (perception+agility+luck)*5/3
	if chance < 20 {
		chance = 20
	}
	if chance > 95 {
		chance = 95
	}
	return chance
}

// ScavengeOutcome is the yield of one completed scavenge run.
type ScavengeOutcome struct {
	Caps      int64  `json:"caps"`
	XP        int64  `json:"xp"`
	ItemID    string `json:"item_id,omitempty"`
	HitMine   bool   `json:"hit_mine"`
	Damage    int    `json:"damage"`
	Radiation int    `json:"radiation"`
}

// rollScavenge converts a finished run into loot. Luck scales caps,
// intelligence scales XP, perception finds extra supplies, and roughly one
// run in ten trips a mine.
func rollScavenge(luck, intelligence, perception int) ScavengeOutcome {
	out := ScavengeOutcome{
		Caps: int64(float64(rollInt(50)+10) * (1 + float64(luck)*0.1)),
		XP:   int64(float64(rollInt(20)+10) * (1 + float64(intelligence)*0.1)),
	}
	if rollFloat() < 0.1+float64(perception)*0.05 {
		out.ItemID = "stimpak"
	}
	if rollFloat() < 0.1 {
		out.HitMine = true
		out.Damage = 10
		out.Radiation = 5
	}
	return out
}

// Slot reel faces and their three-of-a-kind multipliers.
var slotSymbols = []string{"cherry", "lemon", "grape", "melon", "bell", "diamond", "seven"}

var slotTripleMultiplier = map[string]int64{
	"seven":   50,
	"diamond": 25,
	"bell":    15,
}

// SpinReels draws three slot faces and returns the payout multiplier:
// 50x/25x/15x for premium triples, 10x for any other triple, 2x for a pair,
// 0 otherwise.
func SpinReels() (faces [3]string, multiplier int64) {
	for i := range faces {
		faces[i] = slotSymbols[rollInt(len(slotSymbols))]
	}
	switch {
	case faces[0] == faces[1] && faces[1] == faces[2]:
		if m, ok := slotTripleMultiplier[faces[0]]; ok {
			multiplier = m
		} else {
			multiplier = 10
		}
	case faces[0] == faces[1] || faces[1] == faces[2] || faces[0] == faces[2]:
		multiplier = 2
	}
	return faces, multiplier
}

// CoinflipWinChance is 35 percent plus one point per luck, capped at 50.
func CoinflipWinChance(luck int) int {
	chance := 35 + luck
	if chance > 50 {
		chance = 50
	}
	return chance
}
