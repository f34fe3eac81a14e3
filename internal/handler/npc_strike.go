package handler

import (
	"errors"

	"github.com/l1jgo/combatstats/internal/combat"
	"github.com/l1jgo/combatstats/internal/net/packet"
	"go.uber.org/zap"
)

// HandleNpcStrike processes an NpcStrike packet: a player hit an NPC.
// Returns handled=true when the NPC is not engaged (the strike is ignored) or
// when the strike was a kill; non-lethal hits fall through to the host.
func HandleNpcStrike(senderSlot int, r *packet.Reader, deps *Deps) (bool, error) {
	ev, err := packet.DecodeNpcStrike(r)
	if err != nil {
		return false, err
	}
	player, err := deps.resolve(senderSlot)
	if errors.Is(err, ErrUnresolvedPlayer) {
		return false, nil
	}

	npc := deps.Npcs.Npc(ev.NpcSlot)
	if !combat.IsTargeting(npc, deps.Rules) {
		return true, nil
	}

	hit := combat.EffectiveDamage(ev.RawDamage, npc.Defense, ev.Critical)
	if !combat.IsLethal(hit, npc) {
		deps.Tally.AddSent(player.Slot, combat.DamageClass(npc, deps.Rules), nonNegative(int64(hit)))
		return false, nil
	}

	kind := combat.KillClass(npc)
	creditKill(player, kind, deps)

	// The killing blow is credited with the life the NPC had left, not the
	// overkill damage.
	total := deps.Tally.AddSent(player.Slot, kind, int64(npc.Life))
	session := deps.Tally.Session(player.Slot)
	if kind == combat.Boss {
		deps.Stats.UpdateBossDamageGiven(player.AccountID, player.Slot, session, total)
	} else {
		deps.Stats.UpdateMobDamageGiven(player.AccountID, player.Slot, session, total)
	}
	flushPlayer(player, deps)

	deps.Log.Debug("npc killed",
		zap.String("player", player.Name),
		zap.Int32("account", player.AccountID),
		zap.Uint8("npc_slot", ev.NpcSlot),
		zap.Int32("npc_type", npc.Type),
		zap.Stringer("kind", kind),
	)
	return true, nil
}
