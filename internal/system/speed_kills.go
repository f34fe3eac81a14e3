package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/l1jgo/combatstats/internal/core/event"
	"github.com/l1jgo/combatstats/internal/world"
)

// SpeedKillConfig tunes the speed-kill tracker.
type SpeedKillConfig struct {
	Window    time.Duration
	Threshold int
}

// SpeedKills consumes combat.speedkills events. Per slot it keeps the kill
// times inside a sliding window and announces a streak when the window holds
// Threshold kills, then starts counting again.
type SpeedKills struct {
	cfg       SpeedKillConfig
	players   PlayerLookup
	announcer Announcer
	now       func() time.Time

	mu    sync.Mutex
	slots [world.MaxSlots][]time.Time
}

// PlayerLookup resolves a slot to its logged-in player for announcements.
type PlayerLookup interface {
	PlayerBySlot(slot int) (world.PlayerInfo, bool)
}

func NewSpeedKills(cfg SpeedKillConfig, players PlayerLookup, announcer Announcer) *SpeedKills {
	return &SpeedKills{cfg: cfg, players: players, announcer: announcer, now: time.Now}
}

// Handle is an event.Handler.
func (s *SpeedKills) Handle(_ context.Context, env event.Envelope) error {
	switch env.Type {
	case event.SpeedKill{}.Type():
		return apply(env, func(ev event.SpeedKill) error {
			return s.kill(ev.Slot)
		})
	case event.SpeedKillReset{}.Type():
		return apply(env, func(ev event.SpeedKillReset) error {
			return s.reset(ev.Slot)
		})
	}
	return fmt.Errorf("speed kills: unexpected event %q", env.Type)
}

// InWindow returns how many kills the slot has inside the current window.
func (s *SpeedKills) InWindow(slot int) int {
	if slot < 0 || slot >= world.MaxSlots {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.Window)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.slots[slot] {
		if !t.Before(cutoff) {
			n++
		}
	}
	return n
}

func (s *SpeedKills) kill(slot int) error {
	if slot < 0 || slot >= world.MaxSlots {
		return fmt.Errorf("speed kills: slot %d out of range", slot)
	}
	now := s.now()

	s.mu.Lock()
	kills := pruneBefore(append(s.slots[slot], now), now.Add(-s.cfg.Window))
	streak := 0
	if s.cfg.Threshold > 0 && len(kills) >= s.cfg.Threshold {
		streak = len(kills)
		kills = kills[:0]
	}
	s.slots[slot] = kills
	s.mu.Unlock()

	if streak > 0 {
		a := Announcement{Kind: AnnounceSpeedKill, Slot: slot, Count: streak}
		if p, ok := s.players.PlayerBySlot(slot); ok {
			a.Name = p.Name
			a.AccountID = p.AccountID
		}
		s.announcer.Announce(a)
	}
	return nil
}

func (s *SpeedKills) reset(slot int) error {
	if slot < 0 || slot >= world.MaxSlots {
		return fmt.Errorf("speed kills: slot %d out of range", slot)
	}
	s.mu.Lock()
	s.slots[slot] = nil
	s.mu.Unlock()
	return nil
}
