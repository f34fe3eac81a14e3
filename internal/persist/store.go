package persist

import (
	"context"

	"github.com/l1jgo/combatstats/internal/combat"
)

// StatsStore persists kill, death, damage and high-score statistics.
// Every method may fail; callers on the packet path never call it directly.
type StatsStore interface {
	AddKillingSpree(ctx context.Context, accountID int32, mob, boss, player int) error
	AddKill(ctx context.Context, accountID int32, kind combat.KillType) error
	AddDeath(ctx context.Context, accountID int32) error
	// SetDamage records the running total of one login session for a
	// category. Totals of earlier sessions are kept; a session's total never
	// decreases.
	SetDamage(ctx context.Context, accountID int32, cat combat.DamageCategory, session, total int64) error
	RecomputeHighScore(ctx context.Context, accountID int32) error
	CloseKillingSpree(ctx context.Context, accountID int32) error
	TopHighScores(ctx context.Context, limit int) ([]HighScore, error)
	PlayerStats(ctx context.Context, accountID int32) (PlayerStats, error)
	Close()
}

// Scoring holds the high-score weights.
type Scoring struct {
	Mob    int64 `toml:"mob"`
	Boss   int64 `toml:"boss"`
	Player int64 `toml:"player"`
	Death  int64 `toml:"death"`
}

// DefaultScoring weighs bosses and players above mobs.
func DefaultScoring() Scoring {
	return Scoring{Mob: 1, Boss: 25, Player: 10, Death: 5}
}

// HighScore is one row of the high-score table.
type HighScore struct {
	AccountID int32
	Score     int64
}

// PlayerStats is the persisted statistics row for one account.
type PlayerStats struct {
	AccountID   int32
	MobKills    int64
	BossKills   int64
	PlayerKills int64
	Deaths      int64
	Damage      map[combat.DamageCategory]int64 // summed over all sessions
	OpenSpree   [3]int64                        // mob, boss, player since last death
	BestSpree   int64
}

func killColumn(kind combat.KillType) (string, bool) {
	switch kind {
	case combat.Mob:
		return "mob_kills", true
	case combat.Boss:
		return "boss_kills", true
	case combat.Player:
		return "player_kills", true
	}
	return "", false
}
