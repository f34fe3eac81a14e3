package handler

import (
	"errors"

	"github.com/l1jgo/combatstats/internal/combat"
	"github.com/l1jgo/combatstats/internal/net/packet"
)

// HandlePlayerDamage processes a PlayerDamage packet: the sender reports
// damage to the player in the payload's target slot. Damage to another player
// is attributed to the sender; damage to oneself is unattributed. Never
// suppresses host handling.
func HandlePlayerDamage(senderSlot int, r *packet.Reader, deps *Deps) (bool, error) {
	ev, err := packet.DecodePlayerDamage(r, senderSlot)
	if err != nil {
		return false, err
	}
	victim, err := deps.resolve(ev.TargetSlot)
	if errors.Is(err, ErrUnresolvedPlayer) {
		return false, nil
	}

	attacker := combat.NoAttacker
	if ev.TargetSlot != ev.SourceSlot {
		attacker = ev.SourceSlot
	}
	deps.Tally.SetLastAttacker(victim.Slot, attacker)

	dmg := nonNegative(int64(deps.Mitigate(ev.RawDamage, victim.Defense)))
	if attacker != combat.NoAttacker {
		deps.Tally.AddSent(attacker, combat.Player, dmg)
		deps.Tally.AddReceived(victim.Slot, dmg)
		return false, nil
	}

	// Only self-inflicted damage is doubled on a critical; attributed damage
	// is recorded as mitigated.
	deps.Tally.AddReceived(victim.Slot, dmg*int64(combat.CriticalMultiplier(ev.Critical)))
	return false, nil
}
