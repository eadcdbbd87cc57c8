package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"anomaly-economy/internal/database"
	"anomaly-economy/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Turn caps bound every fight. Hitting the cap is a stalemate: the
	// attacker has not won.
	npcTurnCap = 50
	pvpTurnCap = 100

	challengeTTL        = 60 * time.Second
	pvpAttackerCooldown = 24 * time.Hour
	pvpDefenderCooldown = 30 * time.Minute

	pvpWinnerCaps = 100
	pvpWinnerXP   = 100
	pvpLoserCaps  = 25
	pvpLoserXP    = 25
)

// Combatant is a fully derived fighter. Combat never touches the database;
// callers derive both sides first and persist consequences after.
type Combatant struct {
	Name    string `json:"name"`
	MaxHP   int    `json:"max_hp"`
	Damage  int    `json:"damage"`
	Dodge   int    `json:"dodge"`   // percent
	Crit    int    `json:"crit"`    // percent
	Defense int    `json:"defense"`
}

// DeriveCombatant folds SPECIAL stats and equipment into fight numbers.
func DeriveCombatant(user models.User, weaponDamage, armorDefense int) Combatant {
	return Combatant{
		Name:    user.ID,
		MaxHP:   50 + 10*user.Endurance,
		Damage:  5 + 2*user.Strength + weaponDamage,
		Dodge:   5 * user.Agility,
		Crit:    3 * user.Luck,
		Defense: armorDefense + user.Endurance/2,
	}
}

// BestEquipment picks the strongest owned weapon and armor. Equipped power
// armor overrides worn armor when its defense is higher.
func BestEquipment(userID string) (weaponDamage, armorDefense int, err error) {
	type row struct {
		Type    string
		Damage  int
		Defense int
	}
	var rows []row
	err = database.DB.Model(&models.InventoryStack{}).
		Select("items.type, items.damage, items.defense").
		Joins("JOIN items ON items.id = inventory_stacks.item_id").
		Where("inventory_stacks.user_id = ? AND inventory_stacks.amount > 0", userID).
		Where("items.type IN ?", []string{models.ItemTypeWeapon, models.ItemTypeArmor}).
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, r := range rows {
		if r.Type == models.ItemTypeWeapon && r.Damage > weaponDamage {
			weaponDamage = r.Damage
		}
		if r.Type == models.ItemTypeArmor && r.Defense > armorDefense {
			armorDefense = r.Defense
		}
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, 0, err
	}
	if user.PowerArmor != nil {
		var pa models.Item
		if err := database.DB.First(&pa, "id = ?", *user.PowerArmor).Error; err == nil && pa.Defense > armorDefense {
			armorDefense = pa.Defense
		}
	}
	return weaponDamage, armorDefense, nil
}

// CombatResult is a finished fight. AttackerWon is false on a stalemate even
// when the attacker has more HP left.
type CombatResult struct {
	AttackerWon bool     `json:"attacker_won"`
	Stalemate   bool     `json:"stalemate"`
	Turns       int      `json:"turns"`
	AttackerHP  int      `json:"attacker_hp"`
	DefenderHP  int      `json:"defender_hp"`
	Log         []string `json:"log"`
}

func rollDamage(attacker, defender Combatant) (dmg int, crit bool) {
	dmg = attacker.Damage + rollInt(attacker.Damage/2+1)
	if rollInt(100) < attacker.Crit {
		crit = true
		dmg = dmg * 3 / 2
	}
	dmg -= defender.Defense
	if dmg < 1 {
		dmg = 1
	}
	return dmg, crit
}

func swing(attacker, defender Combatant, hp *int, log *[]string) {
	if rollInt(100) < defender.Dodge {
		*log = append(*log, fmt.Sprintf("%s dodges %s", defender.Name, attacker.Name))
		return
	}
	dmg, crit := rollDamage(attacker, defender)
	*hp -= dmg
	if crit {
		*log = append(*log, fmt.Sprintf("%s crits %s for %d", attacker.Name, defender.Name, dmg))
	} else {
		*log = append(*log, fmt.Sprintf("%s hits %s for %d", attacker.Name, defender.Name, dmg))
	}
}

// ResolveCombat runs the alternating turn loop to a KO or the turn cap.
func ResolveCombat(attacker, defender Combatant, turnCap int) CombatResult {
	attHP, defHP := attacker.MaxHP, defender.MaxHP
	var log []string
	turns := 0
	for attHP > 0 && defHP > 0 && turns < turnCap {
		turns++
		swing(attacker, defender, &defHP, &log)
		if defHP <= 0 {
			break
		}
		swing(defender, attacker, &attHP, &log)
	}
	if attHP < 0 {
		attHP = 0
	}
	if defHP < 0 {
		defHP = 0
	}
	return CombatResult{
		AttackerWon: defHP <= 0 && attHP > 0,
		Stalemate:   attHP > 0 && defHP > 0,
		Turns:       turns,
		AttackerHP:  attHP,
		DefenderHP:  defHP,
		Log:         log,
	}
}

// NPC is a bestiary entry.
type NPC struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HP       int    `json:"hp"`
	Damage   int    `json:"damage"`
	Agility  int    `json:"agility"`
	LootCaps int64  `json:"loot_caps"`
	LootItem string `json:"loot_item,omitempty"`
}

var npcRegistry = map[string]NPC{
	"radroach":     {ID: "radroach", Name: "Radroach", HP: 20, Damage: 3, Agility: 2, LootCaps: 10},
	"feral_ghoul":  {ID: "feral_ghoul", Name: "Feral Ghoul", HP: 45, Damage: 8, Agility: 4, LootCaps: 35},
	"raider":       {ID: "raider", Name: "Raider Scum", HP: 60, Damage: 12, Agility: 5, LootCaps: 60, LootItem: "pipe_pistol"},
	"super_mutant": {ID: "super_mutant", Name: "Super Mutant", HP: 120, Damage: 18, Agility: 3, LootCaps: 120, LootItem: "combat_armor"},
	"deathclaw":    {ID: "deathclaw", Name: "Deathclaw", HP: 250, Damage: 35, Agility: 8, LootCaps: 400, LootItem: "deathclaw_gauntlet"},
}

func npcCombatant(n NPC) Combatant {
	return Combatant{
		Name:   n.Name,
		MaxHP:  n.HP,
		Damage: n.Damage,
		Dodge:  5 * n.Agility,
	}
}

// ListNPCs returns the bestiary for the fight picker.
func ListNPCs() []NPC {
	out := make([]NPC, 0, len(npcRegistry))
	for _, n := range npcRegistry {
		out = append(out, n)
	}
	return out
}

// NPCFightResult wraps a fight against the bestiary with its payouts.
type NPCFightResult struct {
	Enemy      string       `json:"enemy"`
	Combat     CombatResult `json:"combat"`
	Caps       int64        `json:"caps"`
	XP         AwardXPResult `json:"xp"`
	Drop       string       `json:"drop,omitempty"`
	NewBalance int64        `json:"new_balance"`
}

// FightNPC resolves a fight against a bestiary enemy. A win pays its loot
// caps with a 25 percent rare drop chance; a loss still pays consolation
// caps at a quarter rate.
func FightNPC(userID, npcID string) (NPCFightResult, error) {
	npc, ok := npcRegistry[npcID]
	if !ok {
		return NPCFightResult{}, ErrUnknownNPC
	}
	user, err := EnsureUser(userID)
	if err != nil {
		return NPCFightResult{}, err
	}
	weapon, armor, err := BestEquipment(userID)
	if err != nil {
		return NPCFightResult{}, err
	}

	combat := ResolveCombat(DeriveCombatant(user, weapon, armor), npcCombatant(npc), npcTurnCap)

	result := NPCFightResult{Enemy: npc.Name, Combat: combat}
	caps := npc.LootCaps / 4
	xp := int64(5)
	if combat.AttackerWon {
		caps = npc.LootCaps
		xp = 50 + int64(npc.HP/10)
		if npc.LootItem != "" && rollDropFloat() < 0.25 {
			result.Drop = npc.LootItem
		}
	}
	result.Caps = caps

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if caps > 0 {
			bal, err := creditTx(tx, userID, caps, models.CapRecordReward, "fought "+npc.Name, userID, "")
			if err != nil {
				return err
			}
			result.NewBalance = bal
		}
		level, err := awardXPTx(tx, userID, xp, DonorXPMultiplier(userID))
		if err != nil {
			return err
		}
		result.XP = level
		if result.Drop != "" {
			if err := grantItemTx(tx, userID, result.Drop, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return NPCFightResult{}, err
	}
	invalidateUserCache(userID)
	return result, nil
}

// Challenge is a pending PvP invitation, held in redis with a 60 second TTL
// so expiry needs no scheduler.
type Challenge struct {
	ID         string    `json:"id"`
	AttackerID string    `json:"attacker_id"`
	DefenderID string    `json:"defender_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func challengeKey(defenderID string) string {
	return "pvp:challenge:" + defenderID
}

// CreateChallenge issues a PvP invitation that the defender has 60 seconds
// to answer. One pending challenge per defender.
func CreateChallenge(attackerID, defenderID string) (Challenge, error) {
	if attackerID == defenderID || defenderID == "" {
		return Challenge{}, ErrInvalidTarget
	}
	if database.RedisClient == nil {
		return Challenge{}, errors.New("challenge store unavailable")
	}
	if _, err := EnsureUser(attackerID); err != nil {
		return Challenge{}, err
	}
	if _, err := EnsureUser(defenderID); err != nil {
		return Challenge{}, err
	}

	// Both cooldowns are only checked here; they arm when the fight happens.
	if remaining, err := CooldownRemaining(attackerID, models.CooldownPvPAttacker); err != nil {
		return Challenge{}, err
	} else if remaining > 0 {
		return Challenge{}, &CooldownActiveError{Kind: models.CooldownPvPAttacker, Remaining: remaining}
	}
	if remaining, err := CooldownRemaining(defenderID, models.CooldownPvPDefender); err != nil {
		return Challenge{}, err
	} else if remaining > 0 {
		return Challenge{}, &CooldownActiveError{Kind: models.CooldownPvPDefender, Remaining: remaining}
	}

	ch := Challenge{
		ID:         uuid.NewString(),
		AttackerID: attackerID,
		DefenderID: defenderID,
		CreatedAt:  time.Now(),
	}
	data, err := json.Marshal(ch)
	if err != nil {
		return Challenge{}, err
	}
	ok, err := database.RedisClient.SetNX(database.Ctx, challengeKey(defenderID), data, challengeTTL).Result()
	if err != nil {
		return Challenge{}, err
	}
	if !ok {
		return Challenge{}, ErrChallengePending
	}
	return ch, nil
}

func takeChallenge(defenderID, challengeID string) (Challenge, error) {
	var ch Challenge
	if database.RedisClient == nil {
		return ch, errors.New("challenge store unavailable")
	}
	key := challengeKey(defenderID)
	val, err := database.RedisClient.Get(database.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ch, ErrChallengeNotFound
	}
	if err != nil {
		return ch, err
	}
	if err := json.Unmarshal([]byte(val), &ch); err != nil {
		return ch, err
	}
	if ch.ID != challengeID {
		return ch, ErrChallengeNotFound
	}
	if err := database.RedisClient.Del(database.Ctx, key).Err(); err != nil {
		return ch, err
	}
	return ch, nil
}

// DeclineChallenge discards a pending challenge. No cooldowns arm.
func DeclineChallenge(defenderID, challengeID string) error {
	_, err := takeChallenge(defenderID, challengeID)
	return err
}

// PvPReward is one side's payout from a resolved duel.
type PvPReward struct {
	UserID string        `json:"user_id"`
	Caps   int64         `json:"caps"`
	XP     AwardXPResult `json:"xp"`
}

// PvPResult is a settled duel.
type PvPResult struct {
	Challenge Challenge    `json:"challenge"`
	Combat    CombatResult `json:"combat"`
	WinnerID  string       `json:"winner_id"`
	Attacker  PvPReward    `json:"attacker"`
	Defender  PvPReward    `json:"defender"`
}

// AcceptChallenge resolves the duel. Cooldowns, rewards and the fight all
// settle in one transaction: the attacker locks out for 24 hours, the
// defender gains 30 minutes of immunity, the winner takes 100 caps and
// 100 XP, the loser 25 of each. On a stalemate the defender is treated as
// the winner.
func AcceptChallenge(defenderID, challengeID string) (PvPResult, error) {
	ch, err := takeChallenge(defenderID, challengeID)
	if err != nil {
		return PvPResult{}, err
	}

	var attacker, defender models.User
	if err := database.DB.First(&attacker, "id = ?", ch.AttackerID).Error; err != nil {
		return PvPResult{}, err
	}
	if err := database.DB.First(&defender, "id = ?", ch.DefenderID).Error; err != nil {
		return PvPResult{}, err
	}
	attWeapon, attArmor, err := BestEquipment(ch.AttackerID)
	if err != nil {
		return PvPResult{}, err
	}
	defWeapon, defArmor, err := BestEquipment(ch.DefenderID)
	if err != nil {
		return PvPResult{}, err
	}

	combat := ResolveCombat(
		DeriveCombatant(attacker, attWeapon, attArmor),
		DeriveCombatant(defender, defWeapon, defArmor),
		pvpTurnCap,
	)

	winnerID, loserID := ch.DefenderID, ch.AttackerID
	if combat.AttackerWon {
		winnerID, loserID = ch.AttackerID, ch.DefenderID
	}

	result := PvPResult{Challenge: ch, Combat: combat, WinnerID: winnerID}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := tryStartCooldownTx(tx, ch.AttackerID, models.CooldownPvPAttacker, pvpAttackerCooldown); err != nil {
			return err
		}
		if _, err := tryStartCooldownTx(tx, ch.DefenderID, models.CooldownPvPDefender, pvpDefenderCooldown); err != nil {
			return err
		}

		ref := uuid.NewString()
		pay := func(userID, opponentID string, caps, xp int64) (PvPReward, error) {
			if _, err := creditTx(tx, userID, caps, models.CapRecordReward, "duel vs "+opponentID, winnerID, ref); err != nil {
				return PvPReward{}, err
			}
			level, err := awardXPTx(tx, userID, xp, DonorXPMultiplier(userID))
			if err != nil {
				return PvPReward{}, err
			}
			return PvPReward{UserID: userID, Caps: caps, XP: level}, nil
		}

		winner, err := pay(winnerID, loserID, pvpWinnerCaps, pvpWinnerXP)
		if err != nil {
			return err
		}
		loser, err := pay(loserID, winnerID, pvpLoserCaps, pvpLoserXP)
		if err != nil {
			return err
		}
		if winnerID == ch.AttackerID {
			result.Attacker, result.Defender = winner, loser
		} else {
			result.Attacker, result.Defender = loser, winner
		}
		return nil
	})
	if err != nil {
		return PvPResult{}, err
	}
	invalidateUserCache(ch.AttackerID, ch.DefenderID)
	return result, nil
}
