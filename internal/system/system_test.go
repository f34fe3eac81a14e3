package system

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/l1jgo/combatstats/internal/combat"
	"github.com/l1jgo/combatstats/internal/core/event"
	"github.com/l1jgo/combatstats/internal/persist"
	"github.com/l1jgo/combatstats/internal/world"
)

type announcements struct {
	mu  sync.Mutex
	got []Announcement
}

func (a *announcements) Announce(x Announcement) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got = append(a.got, x)
}

func (a *announcements) all() []Announcement {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Announcement(nil), a.got...)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func envelope(t *testing.T, ev event.Event) event.Envelope {
	t.Helper()
	env, err := event.NewEnvelope(ev)
	require.NoError(t, err)
	return env
}

func TestStatsWriterAppliesBusEvents(t *testing.T) {
	ctx := context.Background()
	store, err := persist.OpenSQLite(ctx, filepath.Join(t.TempDir(), "stats.db"), persist.DefaultScoring())
	require.NoError(t, err)
	defer store.Close()

	bus := event.NewBus(64, nil)
	w := NewStatsWriter(store, time.Second, nil)
	require.NoError(t, bus.Subscribe(ctx, event.TopicStats, w.Handle))

	pub := event.StatsPublisher{Bus: bus}
	pub.UpdateKillingSpree(1, 1, 0, 0)
	pub.UpdateKills(1, combat.Mob)
	pub.UpdateKillingSpree(1, 1, 0, 0)
	pub.UpdateKills(1, combat.Mob)
	pub.UpdateMobDamageGiven(1, 4, 5, 90)
	pub.UpdateHighScores(1)
	pub.UpdateDeaths(1)
	pub.UpdateDamageReceived(1, 4, 5, 33)
	pub.CloseKillingSpree(1)
	require.NoError(t, bus.Close())

	ps, err := store.PlayerStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ps.MobKills)
	assert.Equal(t, int64(1), ps.Deaths)
	assert.Equal(t, int64(90), ps.Damage[combat.DamageMobGiven])
	assert.Equal(t, int64(33), ps.Damage[combat.DamageReceived])
	assert.Equal(t, int64(2), ps.BestSpree)
	assert.Equal(t, [3]int64{}, ps.OpenSpree)

	top, err := store.TopHighScores(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []persist.HighScore{{AccountID: 1, Score: 2}}, top)
}

type failingStore struct {
	persist.StatsStore
	mu     sync.Mutex
	deaths int
	kills  int
}

func (f *failingStore) AddDeath(context.Context, int32) error {
	return errors.New("connection reset")
}

func (f *failingStore) AddKill(context.Context, int32, combat.KillType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kills++
	return nil
}

func TestStatsWriterFailureIsLoggedAndDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	bus := event.NewBus(16, zap.New(core))
	store := &failingStore{}
	require.NoError(t, bus.Subscribe(context.Background(), event.TopicStats, NewStatsWriter(store, time.Second, nil).Handle))

	pub := event.StatsPublisher{Bus: bus}
	pub.UpdateDeaths(3)
	pub.UpdateKills(3, combat.Player)
	require.NoError(t, bus.Close())

	assert.Equal(t, 1, store.kills)
	failed := logs.FilterMessage("sink failed, event dropped").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "death_recorded", failed[0].ContextMap()["type"])
}

func TestStatsWriterRejectsForeignEvent(t *testing.T) {
	w := NewStatsWriter(&failingStore{}, 0, nil)
	err := w.Handle(context.Background(), envelope(t, event.SpeedKill{Slot: 1}))
	assert.ErrorContains(t, err, "unexpected event")
}

func TestSpreeAnnouncerThresholds(t *testing.T) {
	ann := &announcements{}
	s := NewSpreeAnnouncer(SpreeConfig{Thresholds: []int{3, 5}}, ann)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Handle(ctx, envelope(t, event.KillNotice{Name: "ayla", AccountID: 10, Mob: 1})))
	}
	assert.Equal(t, 5, s.Kills(10))
	assert.Equal(t, []Announcement{
		{Kind: AnnounceSpree, Name: "ayla", AccountID: 10, Count: 3},
		{Kind: AnnounceSpree, Name: "ayla", AccountID: 10, Count: 5},
	}, ann.all())

	require.NoError(t, s.Handle(ctx, envelope(t, event.BlitzCleared{AccountID: 10})))
	assert.Zero(t, s.Kills(10))

	// Other accounts are independent.
	require.NoError(t, s.Handle(ctx, envelope(t, event.KillNotice{Name: "bren", AccountID: 11, Player: 1})))
	assert.Equal(t, 1, s.Kills(11))
	assert.Len(t, ann.all(), 2)
}

func TestSpreeAnnouncerBlitz(t *testing.T) {
	ann := &announcements{}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewSpreeAnnouncer(SpreeConfig{BlitzKills: 3, BlitzWindow: 10 * time.Second}, ann)
	s.now = clock.now
	ctx := context.Background()
	kill := envelope(t, event.KillNotice{Name: "ayla", AccountID: 10, Boss: 1})

	require.NoError(t, s.Handle(ctx, kill))
	clock.advance(11 * time.Second)
	require.NoError(t, s.Handle(ctx, kill))
	clock.advance(4 * time.Second)
	require.NoError(t, s.Handle(ctx, kill))
	assert.Empty(t, ann.all(), "first kill fell out of the window")

	clock.advance(4 * time.Second)
	require.NoError(t, s.Handle(ctx, kill))
	assert.Equal(t, []Announcement{{Kind: AnnounceBlitz, Name: "ayla", AccountID: 10, Count: 3}}, ann.all())

	// The blitz window starts over.
	require.NoError(t, s.Handle(ctx, kill))
	assert.Len(t, ann.all(), 1)
}

func TestSpeedKillsStreakAndReset(t *testing.T) {
	players := world.NewState()
	players.Login(world.PlayerInfo{Slot: 2, AccountID: 20, Name: "cass"})
	ann := &announcements{}
	clock := &fakeClock{t: time.Unix(5000, 0)}
	s := NewSpeedKills(SpeedKillConfig{Window: 5 * time.Second, Threshold: 3}, players, ann)
	s.now = clock.now
	ctx := context.Background()
	kill := envelope(t, event.SpeedKill{Slot: 2})

	require.NoError(t, s.Handle(ctx, kill))
	require.NoError(t, s.Handle(ctx, kill))
	assert.Equal(t, 2, s.InWindow(2))

	require.NoError(t, s.Handle(ctx, envelope(t, event.SpeedKillReset{Slot: 2})))
	assert.Zero(t, s.InWindow(2))

	for i := 0; i < 3; i++ {
		clock.advance(time.Second)
		require.NoError(t, s.Handle(ctx, kill))
	}
	assert.Equal(t, []Announcement{{Kind: AnnounceSpeedKill, Name: "cass", AccountID: 20, Slot: 2, Count: 3}}, ann.all())
	assert.Zero(t, s.InWindow(2))

	clock.advance(time.Second)
	require.NoError(t, s.Handle(ctx, kill))
	clock.advance(6 * time.Second)
	assert.Zero(t, s.InWindow(2), "kill aged out of the window")
}

func TestSpeedKillsRejectsBadSlot(t *testing.T) {
	s := NewSpeedKills(SpeedKillConfig{Window: time.Second, Threshold: 2}, world.NewState(), &announcements{})
	assert.Error(t, s.Handle(context.Background(), envelope(t, event.SpeedKill{Slot: world.MaxSlots})))
	assert.Error(t, s.Handle(context.Background(), envelope(t, event.SpeedKillReset{Slot: -1})))
}
