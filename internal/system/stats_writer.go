package system

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/combatstats/internal/core/event"
	"github.com/l1jgo/combatstats/internal/persist"
)

// StatsWriter applies combat.stats events to a StatsStore. It runs on the bus
// subscriber goroutine, so store latency never reaches packet handling.
type StatsWriter struct {
	store   persist.StatsStore
	timeout time.Duration
	log     *zap.Logger
}

func NewStatsWriter(store persist.StatsStore, timeout time.Duration, log *zap.Logger) *StatsWriter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsWriter{store: store, timeout: timeout, log: log}
}

// Handle is an event.Handler. Errors are returned to the bus, which logs and
// drops the event.
func (w *StatsWriter) Handle(ctx context.Context, env event.Envelope) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	switch env.Type {
	case event.KillingSpreeAdded{}.Type():
		return apply(env, func(ev event.KillingSpreeAdded) error {
			return w.store.AddKillingSpree(ctx, ev.AccountID, ev.Mob, ev.Boss, ev.Player)
		})
	case event.KillRecorded{}.Type():
		return apply(env, func(ev event.KillRecorded) error {
			return w.store.AddKill(ctx, ev.AccountID, ev.Kind)
		})
	case event.DeathRecorded{}.Type():
		return apply(env, func(ev event.DeathRecorded) error {
			return w.store.AddDeath(ctx, ev.AccountID)
		})
	case event.DamageFlushed{}.Type():
		return apply(env, func(ev event.DamageFlushed) error {
			return w.store.SetDamage(ctx, ev.AccountID, ev.Category, ev.Session, ev.Total)
		})
	case event.HighScoreDirty{}.Type():
		return apply(env, func(ev event.HighScoreDirty) error {
			return w.store.RecomputeHighScore(ctx, ev.AccountID)
		})
	case event.KillingSpreeClosed{}.Type():
		return apply(env, func(ev event.KillingSpreeClosed) error {
			return w.store.CloseKillingSpree(ctx, ev.AccountID)
		})
	}
	return fmt.Errorf("stats writer: unexpected event %q", env.Type)
}

func apply[T event.Event](env event.Envelope, fn func(T) error) error {
	ev, err := event.Decode[T](env)
	if err != nil {
		return err
	}
	return fn(ev)
}
