package handler

import (
	"errors"

	"github.com/l1jgo/combatstats/internal/combat"
	"github.com/l1jgo/combatstats/internal/net/packet"
	"go.uber.org/zap"
)

// HandlePlayerDeath processes a PlayerDeath packet sent by the dying player.
// A PvP death credits the victim's last attacker if that player is still
// logged in. The victim's deaths, damage totals and spree are then closed
// out. Never suppresses host handling.
func HandlePlayerDeath(senderSlot int, r *packet.Reader, deps *Deps) (bool, error) {
	ev, err := packet.DecodePlayerDeath(r, senderSlot)
	if err != nil {
		return false, err
	}
	victim, err := deps.resolve(ev.SubjectSlot)
	if errors.Is(err, ErrUnresolvedPlayer) || victim.Name == "" {
		return false, nil
	}

	// Read and clear in one step so a concurrent damage packet cannot leave a
	// stale attacker behind for the next death.
	if attackerSlot, ok := deps.Tally.TakeLastAttacker(victim.Slot); ok && ev.PvP {
		if attacker, err := deps.resolve(attackerSlot); err == nil {
			creditKill(attacker, combat.Player, deps)
			flushPlayer(attacker, deps)

			deps.Log.Debug("player killed",
				zap.String("killer", attacker.Name),
				zap.String("victim", victim.Name),
			)
		}
	}

	deps.Stats.UpdateDeaths(victim.AccountID)
	flushPlayer(victim, deps)
	deps.Stats.CloseKillingSpree(victim.AccountID)
	deps.Spree.ClearBlitzEvent(victim.AccountID)
	deps.Speed.ResetPlayer(victim.Slot)

	return false, nil
}
