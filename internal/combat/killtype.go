package combat

import "fmt"

// KillType partitions kills and dealt damage.
type KillType uint8

const (
	Mob KillType = iota
	Boss
	Player

	killTypeCount
)

// KillTypes lists every kill type in store column order.
var KillTypes = [...]KillType{Mob, Boss, Player}

func (k KillType) String() string {
	switch k {
	case Mob:
		return "mob"
	case Boss:
		return "boss"
	case Player:
		return "player"
	}
	return fmt.Sprintf("KillType(%d)", uint8(k))
}

// Valid reports whether k is one of the defined kill types.
func (k KillType) Valid() bool { return k < killTypeCount }

// SpreeDelta returns the (mob, boss, player) increment for one kill of k.
func (k KillType) SpreeDelta() (mob, boss, player int) {
	switch k {
	case Mob:
		return 1, 0, 0
	case Boss:
		return 0, 1, 0
	case Player:
		return 0, 0, 1
	}
	return 0, 0, 0
}

// DamageCategory names one running damage total kept per account.
type DamageCategory string

const (
	DamagePlayerGiven DamageCategory = "player_given"
	DamageMobGiven    DamageCategory = "mob_given"
	DamageBossGiven   DamageCategory = "boss_given"
	DamageReceived    DamageCategory = "received"
)

// DamageCategories lists every category in store column order.
var DamageCategories = [...]DamageCategory{DamagePlayerGiven, DamageMobGiven, DamageBossGiven, DamageReceived}

// Valid reports whether c is a known category.
func (c DamageCategory) Valid() bool {
	switch c {
	case DamagePlayerGiven, DamageMobGiven, DamageBossGiven, DamageReceived:
		return true
	}
	return false
}
