package handler

import (
	"errors"

	"github.com/l1jgo/combatstats/internal/combat"
	"github.com/l1jgo/combatstats/internal/data"
	"github.com/l1jgo/combatstats/internal/net/packet"
	"github.com/l1jgo/combatstats/internal/world"
	"go.uber.org/zap"
)

// ErrUnresolvedPlayer means a connection slot has no logged-in player. It is an
// expected disconnect race; handlers swallow it and leave state untouched.
var ErrUnresolvedPlayer = errors.New("unresolved player")

// PlayerResolver maps a connection slot to its logged-in player.
type PlayerResolver interface {
	PlayerBySlot(slot int) (world.PlayerInfo, bool)
}

// NpcSource returns a point-in-time copy of an NPC.
type NpcSource interface {
	Npc(slot byte) world.NpcSnapshot
}

// StatsSink is the persistent statistics store as seen from packet handlers.
// Calls are fire-and-forget: they must return without waiting on I/O.
// Damage totals are the slot's running totals at call time; session is the
// slot's Tally session id, so a store can tell logins apart.
type StatsSink interface {
	UpdateKillingSpree(accountID int32, mob, boss, player int)
	UpdateKills(accountID int32, kind combat.KillType)
	UpdateDeaths(accountID int32)
	UpdatePlayerDamageGiven(accountID int32, slot int, session, total int64)
	UpdateDamageReceived(accountID int32, slot int, session, total int64)
	UpdateMobDamageGiven(accountID int32, slot int, session, total int64)
	UpdateBossDamageGiven(accountID int32, slot int, session, total int64)
	UpdateHighScores(accountID int32)
	CloseKillingSpree(accountID int32)
}

// SpreeNotifier receives kill notices and spree resets.
type SpreeNotifier interface {
	SendKillingNotice(name string, accountID int32, mob, boss, player int)
	ClearBlitzEvent(accountID int32)
}

// SpeedKillTracker receives kills and resets per connection slot.
type SpeedKillTracker interface {
	PlayerKill(slot int)
	ResetPlayer(slot int)
}

// Deps holds shared dependencies injected into the combat packet handlers.
type Deps struct {
	Players  PlayerResolver
	Npcs     NpcSource
	Rules    *data.NpcRuleTable
	Tally    *combat.Tally
	Stats    StatsSink
	Spree    SpreeNotifier
	Speed    SpeedKillTracker
	Mitigate combat.MitigateFunc // nil = combat.Mitigate
	Log      *zap.Logger
}

func (d *Deps) fillDefaults() {
	if d.Rules == nil {
		d.Rules = data.DefaultNpcRules()
	}
	if d.Tally == nil {
		d.Tally = combat.NewTally()
	}
	if d.Mitigate == nil {
		d.Mitigate = combat.Mitigate
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
}

// resolve returns the logged-in player in slot.
func (d *Deps) resolve(slot int) (world.PlayerInfo, error) {
	p, ok := d.Players.PlayerBySlot(slot)
	if !ok {
		return world.PlayerInfo{}, ErrUnresolvedPlayer
	}
	return p, nil
}

// RegisterAll registers the combat packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	deps.fillDefaults()

	reg.Register(packet.PlayerDeath, func(slot int, r *packet.Reader) (bool, error) {
		return HandlePlayerDeath(slot, r, deps)
	})
	reg.Register(packet.PlayerDamage, func(slot int, r *packet.Reader) (bool, error) {
		return HandlePlayerDamage(slot, r, deps)
	})
	reg.Register(packet.NpcStrike, func(slot int, r *packet.Reader) (bool, error) {
		return HandleNpcStrike(slot, r, deps)
	})
}

// Engine is the entry point the host calls for every inbound packet.
type Engine struct {
	reg *packet.Registry
}

// NewEngine builds and seals the dispatch table. Call once before traffic.
func NewEngine(deps *Deps) *Engine {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	reg := packet.NewRegistry(deps.Log.Named("dispatch"))
	RegisterAll(reg, deps)
	reg.Seal()
	return &Engine{reg: reg}
}

// HandlePacket processes one packet from senderSlot. It returns true when the
// host should suppress its default handling. Unknown kinds and internal
// faults return false.
func (e *Engine) HandlePacket(kind packet.Kind, senderSlot int, body []byte) bool {
	return e.reg.Dispatch(kind, senderSlot, body)
}

// creditKill pushes one kill of kind for attacker to every sink.
func creditKill(attacker world.PlayerInfo, kind combat.KillType, deps *Deps) {
	mob, boss, player := kind.SpreeDelta()
	deps.Stats.UpdateKillingSpree(attacker.AccountID, mob, boss, player)
	deps.Stats.UpdateKills(attacker.AccountID, kind)
	deps.Spree.SendKillingNotice(attacker.Name, attacker.AccountID, mob, boss, player)
	deps.Speed.PlayerKill(attacker.Slot)
}

// flushPlayer pushes p's running player-damage and received-damage totals and
// asks for a high score recompute.
func flushPlayer(p world.PlayerInfo, deps *Deps) {
	session := deps.Tally.Session(p.Slot)
	deps.Stats.UpdatePlayerDamageGiven(p.AccountID, p.Slot, session, deps.Tally.Sent(p.Slot, combat.Player))
	deps.Stats.UpdateDamageReceived(p.AccountID, p.Slot, session, deps.Tally.Received(p.Slot))
	deps.Stats.UpdateHighScores(p.AccountID)
}

// nonNegative keeps running totals monotonic when a strike computes below zero.
func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
