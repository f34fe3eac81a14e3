package system

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/l1jgo/combatstats/internal/core/event"
)

// SpreeConfig tunes the killing-spree announcer.
type SpreeConfig struct {
	Thresholds  []int         // kill counts that trigger a spree announcement
	BlitzKills  int           // kills inside BlitzWindow that make a blitz
	BlitzWindow time.Duration
}

type spreeState struct {
	kills  int
	recent []time.Time
}

// SpreeAnnouncer consumes combat.spree events. It counts kills per account
// since the last blitz clear (the account's last death) and announces spree
// thresholds and blitzes.
type SpreeAnnouncer struct {
	cfg       SpreeConfig
	announcer Announcer
	now       func() time.Time

	mu       sync.Mutex
	accounts map[int32]*spreeState
}

func NewSpreeAnnouncer(cfg SpreeConfig, announcer Announcer) *SpreeAnnouncer {
	return &SpreeAnnouncer{
		cfg:       cfg,
		announcer: announcer,
		now:       time.Now,
		accounts:  make(map[int32]*spreeState),
	}
}

// Handle is an event.Handler.
func (s *SpreeAnnouncer) Handle(_ context.Context, env event.Envelope) error {
	switch env.Type {
	case event.KillNotice{}.Type():
		return apply(env, func(ev event.KillNotice) error {
			s.kill(ev)
			return nil
		})
	case event.BlitzCleared{}.Type():
		return apply(env, func(ev event.BlitzCleared) error {
			s.clear(ev.AccountID)
			return nil
		})
	}
	return fmt.Errorf("spree announcer: unexpected event %q", env.Type)
}

// Kills returns the account's kill count since its last clear.
func (s *SpreeAnnouncer) Kills(accountID int32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.accounts[accountID]; ok {
		return st.kills
	}
	return 0
}

func (s *SpreeAnnouncer) kill(ev event.KillNotice) {
	now := s.now()

	s.mu.Lock()
	st, ok := s.accounts[ev.AccountID]
	if !ok {
		st = &spreeState{}
		s.accounts[ev.AccountID] = st
	}
	st.kills += ev.Mob + ev.Boss + ev.Player
	spree := slices.Contains(s.cfg.Thresholds, st.kills)
	count := st.kills

	blitz := 0
	if s.cfg.BlitzKills > 0 {
		st.recent = pruneBefore(append(st.recent, now), now.Add(-s.cfg.BlitzWindow))
		if len(st.recent) >= s.cfg.BlitzKills {
			blitz = len(st.recent)
			st.recent = st.recent[:0]
		}
	}
	s.mu.Unlock()

	if spree {
		s.announcer.Announce(Announcement{Kind: AnnounceSpree, Name: ev.Name, AccountID: ev.AccountID, Count: count})
	}
	if blitz > 0 {
		s.announcer.Announce(Announcement{Kind: AnnounceBlitz, Name: ev.Name, AccountID: ev.AccountID, Count: blitz})
	}
}

func (s *SpreeAnnouncer) clear(accountID int32) {
	s.mu.Lock()
	delete(s.accounts, accountID)
	s.mu.Unlock()
}

// pruneBefore drops timestamps older than cutoff. ts is in ascending order.
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	return ts[i:]
}
