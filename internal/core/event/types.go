package event

import "github.com/l1jgo/combatstats/internal/combat"

// Topics carried on the bus.
const (
	TopicStats      = "combat.stats"
	TopicSpree      = "combat.spree"
	TopicSpeedKills = "combat.speedkills"
)

// Event is a bus payload. Type names the concrete struct for decoding.
type Event interface {
	Type() string
}

// --- Statistics store events (TopicStats) ---

// KillingSpreeAdded increments an account's open spree counters.
type KillingSpreeAdded struct {
	AccountID int32 `msgpack:"a"`
	Mob       int   `msgpack:"m"`
	Boss      int   `msgpack:"b"`
	Player    int   `msgpack:"p"`
}

// KillRecorded counts one kill of Kind for an account.
type KillRecorded struct {
	AccountID int32           `msgpack:"a"`
	Kind      combat.KillType `msgpack:"k"`
}

// DeathRecorded counts one death for an account.
type DeathRecorded struct {
	AccountID int32 `msgpack:"a"`
}

// DamageFlushed carries the running damage total of one category for the
// login identified by Session, held in Slot.
type DamageFlushed struct {
	AccountID int32                 `msgpack:"a"`
	Slot      int                   `msgpack:"s"`
	Session   int64                 `msgpack:"e"`
	Category  combat.DamageCategory `msgpack:"c"`
	Total     int64                 `msgpack:"t"`
}

// HighScoreDirty asks the store to recompute an account's high score.
type HighScoreDirty struct {
	AccountID int32 `msgpack:"a"`
}

// KillingSpreeClosed finalizes an account's open spree.
type KillingSpreeClosed struct {
	AccountID int32 `msgpack:"a"`
}

// --- Spree notifier events (TopicSpree) ---

// KillNotice announces a kill credited to an account.
type KillNotice struct {
	Name      string `msgpack:"n"`
	AccountID int32  `msgpack:"a"`
	Mob       int    `msgpack:"m"`
	Boss      int    `msgpack:"b"`
	Player    int    `msgpack:"p"`
}

// BlitzCleared ends any pending blitz timer for an account.
type BlitzCleared struct {
	AccountID int32 `msgpack:"a"`
}

// --- Speed-kill tracker events (TopicSpeedKills) ---

// SpeedKill records a kill by the player in Slot.
type SpeedKill struct {
	Slot int `msgpack:"s"`
}

// SpeedKillReset clears the speed-kill window for Slot.
type SpeedKillReset struct {
	Slot int `msgpack:"s"`
}

func (KillingSpreeAdded) Type() string  { return "killing_spree_added" }
func (KillRecorded) Type() string       { return "kill_recorded" }
func (DeathRecorded) Type() string      { return "death_recorded" }
func (DamageFlushed) Type() string      { return "damage_flushed" }
func (HighScoreDirty) Type() string     { return "high_score_dirty" }
func (KillingSpreeClosed) Type() string { return "killing_spree_closed" }
func (KillNotice) Type() string         { return "kill_notice" }
func (BlitzCleared) Type() string       { return "blitz_cleared" }
func (SpeedKill) Type() string          { return "speed_kill" }
func (SpeedKillReset) Type() string     { return "speed_kill_reset" }
