package combat

import "github.com/l1jgo/combatstats/internal/world"

// CriticalMultiplier is 2 for critical hits, 1 otherwise.
func CriticalMultiplier(crit bool) int32 {
	if crit {
		return 2
	}
	return 1
}

// EffectiveDamage is the strike damage after half the NPC's defense, with
// truncating division, times the critical multiplier.
func EffectiveDamage(raw int16, defense int32, crit bool) int32 {
	return (int32(raw) - defense/2) * CriticalMultiplier(crit)
}

// IsLethal reports whether a strike of eff damage kills npc.
func IsLethal(eff int32, npc world.NpcSnapshot) bool {
	return eff > npc.Life && npc.Active && npc.Life > 0
}

// MitigateFunc reduces raw player damage by the victim's defense.
type MitigateFunc func(raw int16, defense int32) int16

// Mitigate is the host's standard player damage formula: raw minus half the
// defense, floored at 1.
func Mitigate(raw int16, defense int32) int16 {
	v := float64(raw) - float64(defense)*0.5
	if v < 1 {
		v = 1
	}
	if v > 32767 {
		v = 32767
	}
	return int16(v)
}
