package event

import "github.com/l1jgo/combatstats/internal/combat"

// StatsPublisher forwards statistics-store calls onto the bus.
type StatsPublisher struct{ Bus *Bus }

func (p StatsPublisher) UpdateKillingSpree(accountID int32, mob, boss, player int) {
	p.Bus.Emit(TopicStats, KillingSpreeAdded{AccountID: accountID, Mob: mob, Boss: boss, Player: player})
}

func (p StatsPublisher) UpdateKills(accountID int32, kind combat.KillType) {
	p.Bus.Emit(TopicStats, KillRecorded{AccountID: accountID, Kind: kind})
}

func (p StatsPublisher) UpdateDeaths(accountID int32) {
	p.Bus.Emit(TopicStats, DeathRecorded{AccountID: accountID})
}

func (p StatsPublisher) damage(accountID int32, slot int, session int64, cat combat.DamageCategory, total int64) {
	p.Bus.Emit(TopicStats, DamageFlushed{AccountID: accountID, Slot: slot, Session: session, Category: cat, Total: total})
}

func (p StatsPublisher) UpdatePlayerDamageGiven(accountID int32, slot int, session, total int64) {
	p.damage(accountID, slot, session, combat.DamagePlayerGiven, total)
}

func (p StatsPublisher) UpdateDamageReceived(accountID int32, slot int, session, total int64) {
	p.damage(accountID, slot, session, combat.DamageReceived, total)
}

func (p StatsPublisher) UpdateMobDamageGiven(accountID int32, slot int, session, total int64) {
	p.damage(accountID, slot, session, combat.DamageMobGiven, total)
}

func (p StatsPublisher) UpdateBossDamageGiven(accountID int32, slot int, session, total int64) {
	p.damage(accountID, slot, session, combat.DamageBossGiven, total)
}

func (p StatsPublisher) UpdateHighScores(accountID int32) {
	p.Bus.Emit(TopicStats, HighScoreDirty{AccountID: accountID})
}

func (p StatsPublisher) CloseKillingSpree(accountID int32) {
	p.Bus.Emit(TopicStats, KillingSpreeClosed{AccountID: accountID})
}

// SpreePublisher forwards spree notifications onto the bus.
type SpreePublisher struct{ Bus *Bus }

func (p SpreePublisher) SendKillingNotice(name string, accountID int32, mob, boss, player int) {
	p.Bus.Emit(TopicSpree, KillNotice{Name: name, AccountID: accountID, Mob: mob, Boss: boss, Player: player})
}

func (p SpreePublisher) ClearBlitzEvent(accountID int32) {
	p.Bus.Emit(TopicSpree, BlitzCleared{AccountID: accountID})
}

// SpeedKillPublisher forwards speed-kill tracking onto the bus.
type SpeedKillPublisher struct{ Bus *Bus }

func (p SpeedKillPublisher) PlayerKill(slot int) {
	p.Bus.Emit(TopicSpeedKills, SpeedKill{Slot: slot})
}

func (p SpeedKillPublisher) ResetPlayer(slot int) {
	p.Bus.Emit(TopicSpeedKills, SpeedKillReset{Slot: slot})
}
