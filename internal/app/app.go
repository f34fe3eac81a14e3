// Package app assembles the combat statistics engine from configuration:
// world state, tally, handlers, event bus, sinks and the statistics store.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/combatstats/internal/combat"
	"github.com/l1jgo/combatstats/internal/config"
	"github.com/l1jgo/combatstats/internal/core/event"
	"github.com/l1jgo/combatstats/internal/data"
	"github.com/l1jgo/combatstats/internal/handler"
	"github.com/l1jgo/combatstats/internal/persist"
	"github.com/l1jgo/combatstats/internal/system"
	"github.com/l1jgo/combatstats/internal/world"
)

type App struct {
	Config *config.Config
	Log    *zap.Logger
	World  *world.State
	Tally  *combat.Tally
	Bus    *event.Bus
	Store  persist.StatsStore
	Engine *handler.Engine
	Spree  *system.SpreeAnnouncer
	Speed  *system.SpeedKills
}

// Options overrides collaborators the host usually supplies.
type Options struct {
	Announcer system.Announcer   // nil = log announcements
	Store     persist.StatsStore // nil = open from cfg.Store
}

// New wires every component. Close releases them.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	rules, err := data.LoadNpcRuleTable(cfg.Combat.RulesPath)
	if err != nil {
		return nil, err
	}
	log.Info("npc rules loaded", zap.Int("entries", rules.Count()))

	store := opts.Store
	if store == nil {
		store, err = OpenStore(ctx, cfg.Store, ScoringFromConfig(cfg.Scoring))
		if err != nil {
			return nil, err
		}
	}

	ws := world.NewState()
	tally := combat.NewTally()
	ws.OnLogin(tally.Reset)

	announcer := opts.Announcer
	if announcer == nil {
		announcer = system.LogAnnouncer{Log: log.Named("announce")}
	}

	a := &App{
		Config: cfg,
		Log:    log,
		World:  ws,
		Tally:  tally,
		Bus:    event.NewBus(cfg.Bus.QueueSize, log.Named("bus")),
		Store:  store,
		Spree: system.NewSpreeAnnouncer(system.SpreeConfig{
			Thresholds:  cfg.Spree.Thresholds,
			BlitzKills:  cfg.Spree.BlitzKills,
			BlitzWindow: cfg.Spree.BlitzWindow,
		}, announcer),
		Speed: system.NewSpeedKills(system.SpeedKillConfig{
			Window:    cfg.SpeedKills.Window,
			Threshold: cfg.SpeedKills.Threshold,
		}, ws, announcer),
	}

	writer := system.NewStatsWriter(store, cfg.Store.WriteTimeout, log.Named("stats"))
	subs := []struct {
		topic string
		fn    event.Handler
	}{
		{event.TopicStats, writer.Handle},
		{event.TopicSpree, a.Spree.Handle},
		{event.TopicSpeedKills, a.Speed.Handle},
	}
	for _, s := range subs {
		if err := a.Bus.Subscribe(ctx, s.topic, s.fn); err != nil {
			a.Close()
			return nil, fmt.Errorf("subscribe %s: %w", s.topic, err)
		}
	}

	a.Engine = handler.NewEngine(&handler.Deps{
		Players: ws,
		Npcs:    ws,
		Rules:   rules,
		Tally:   tally,
		Stats:   event.StatsPublisher{Bus: a.Bus},
		Spree:   event.SpreePublisher{Bus: a.Bus},
		Speed:   event.SpeedKillPublisher{Bus: a.Bus},
		Log:     log.Named("combat"),
	})
	return a, nil
}

// Drain delivers every queued event to the sinks and stops the bus.
func (a *App) Drain() error {
	return a.Bus.Close()
}

func (a *App) Close() error {
	err := a.Drain()
	if n := a.Bus.Dropped(); n > 0 {
		a.Log.Warn("events dropped during run", zap.Uint64("dropped", n))
	}
	a.Store.Close()
	return err
}

// ScoringFromConfig converts the [scoring] section.
func ScoringFromConfig(c config.ScoringConfig) persist.Scoring {
	return persist.Scoring{Mob: c.Mob, Boss: c.Boss, Player: c.Player, Death: c.Death}
}

// OpenStore opens the statistics store named by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StoreConfig, scoring persist.Scoring) (persist.StatsStore, error) {
	switch cfg.Driver {
	case "sqlite":
		return persist.OpenSQLite(ctx, cfg.Path, scoring)
	case "postgres":
		db, err := persist.NewDB(ctx, cfg.DSN, persist.PoolOptions{
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return persist.NewStatsRepo(db, scoring), nil
	}
	return nil, errors.New("unknown store driver " + cfg.Driver)
}
