package combat

import (
	"github.com/l1jgo/combatstats/internal/data"
	"github.com/l1jgo/combatstats/internal/world"
)

// IsTargeting reports whether an NPC counts as engaged with a player. NPCs with
// an explicit target always count. Without one, only rider-style AI and the
// listed NPC types count, since they fight without ever setting a target.
func IsTargeting(npc world.NpcSnapshot, rules *data.NpcRuleTable) bool {
	if npc.HasTarget() {
		return true
	}
	return rules.IsRiderAI(npc.AIStyle) || rules.IsUntargeted(npc.Type)
}

// DamageClass returns where non-lethal damage to npc is accumulated.
func DamageClass(npc world.NpcSnapshot, rules *data.NpcRuleTable) KillType {
	if npc.Boss || rules.IsBossPart(npc.Type) {
		return Boss
	}
	return Mob
}

// KillClass returns the kill type credited for killing npc.
func KillClass(npc world.NpcSnapshot) KillType {
	if npc.Boss {
		return Boss
	}
	return Mob
}
