package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollWeightedEmptyTable(t *testing.T) {
	assert.Nil(t, RollWeighted(nil))
	assert.Nil(t, RollWeighted([]Outcome{}))
	assert.Nil(t, RollWeighted([]Outcome{{Name: "zero", Weight: 0}}))
}

func TestRollWeightedSingleEntry(t *testing.T) {
	table := []Outcome{{Name: "only", Weight: 1}}
	for i := 0; i < 50; i++ {
		out := RollWeighted(table)
		assert.NotNil(t, out)
		assert.Equal(t, "only", out.Name)
	}
}

func TestRollWeightedSkipsZeroWeight(t *testing.T) {
	table := []Outcome{
		{Name: "never", Weight: 0},
		{Name: "always", Weight: 5},
	}
	for i := 0; i < 200; i++ {
		out := RollWeighted(table)
		assert.Equal(t, "always", out.Name)
	}
}

func TestRollWeightedRespectsRelativeWeights(t *testing.T) {
	SeedRand(42)
	table := []Outcome{
		{Name: "common", Weight: 90},
		{Name: "rare", Weight: 10},
	}
	counts := map[string]int{}
	for i := 0; i < 5000; i++ {
		counts[RollWeighted(table).Name]++
	}
	assert.Greater(t, counts["common"], counts["rare"])
	// Rare should still land sometimes.
	assert.Greater(t, counts["rare"], 0)
}

func TestHuntKillChanceClamps(t *testing.T) {
	assert.Equal(t, 20, HuntKillChance(100, 1, 1, 1))
	assert.Equal(t, 95, HuntKillChance(0, 10, 10, 10))
	mid := HuntKillChance(40, 5, 5, 5)
	assert.GreaterOrEqual(t, mid, 20)
	assert.LessOrEqual(t, mid, 95)
}

func TestSpinReelsPayoutConsistency(t *testing.T) {
	SeedRand(7)
	for i := 0; i < 2000; i++ {
		faces, multiplier := SpinReels()
		triple := faces[0] == faces[1] && faces[1] == faces[2]
		pair := faces[0] == faces[1] || faces[1] == faces[2] || faces[0] == faces[2]
		switch {
		case triple:
			expect := int64(10)
			if m, ok := slotTripleMultiplier[faces[0]]; ok {
				expect = m
			}
			assert.Equal(t, expect, multiplier)
		case pair:
			assert.Equal(t, int64(2), multiplier)
		default:
			assert.Equal(t, int64(0), multiplier)
		}
	}
}

func TestCoinflipWinChance(t *testing.T) {
	assert.Equal(t, 36, CoinflipWinChance(1))
	assert.Equal(t, 45, CoinflipWinChance(10))
	assert.Equal(t, 50, CoinflipWinChance(99))
}

func TestRollScavengeScalesWithStats(t *testing.T) {
	SeedRand(1)
	for i := 0; i < 500; i++ {
		out := rollScavenge(1, 1, 1)
		assert.GreaterOrEqual(t, out.Caps, int64(10))
		assert.GreaterOrEqual(t, out.XP, int64(10))
		if out.HitMine {
			assert.Equal(t, 10, out.Damage)
			assert.Equal(t, 5, out.Radiation)
		}
	}
}
