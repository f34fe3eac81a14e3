package combat

import (
	"sync/atomic"
	"time"

	"github.com/l1jgo/combatstats/internal/world"
)

// NoAttacker marks a damage event with no attributable attacker.
const NoAttacker = -1

// playerTally is the transient state for one connection slot. Counters are
// running totals for the session: they only grow until the slot is reset on
// the next login.
type playerTally struct {
	sent     [killTypeCount]atomic.Int64
	received atomic.Int64
	// attacker slot + 1; 0 means none
	attacker atomic.Int32
	session  atomic.Int64
}

// Tally holds transient per-slot combat state shared by all connection
// goroutines. Every field is updated atomically, so two attackers hitting the
// same victim never lose an increment.
type Tally struct {
	slots [world.MaxSlots]playerTally
	epoch atomic.Int64
}

// NewTally seeds session ids from the clock so ids from an earlier process
// are not reused.
func NewTally() *Tally {
	t := &Tally{}
	t.epoch.Store(time.Now().UnixNano())
	return t
}

func (t *Tally) slot(i int) *playerTally {
	if i < 0 || i >= world.MaxSlots {
		return nil
	}
	return &t.slots[i]
}

// Reset clears a slot for a new connection and gives it a fresh session id.
func (t *Tally) Reset(i int) {
	s := t.slot(i)
	if s == nil {
		return
	}
	for k := range s.sent {
		s.sent[k].Store(0)
	}
	s.received.Store(0)
	s.attacker.Store(0)
	s.session.Store(t.epoch.Add(1))
}

// Session identifies the login the slot's running totals belong to. Ids are
// unique across slots and increase with every Reset.
func (t *Tally) Session(i int) int64 {
	s := t.slot(i)
	if s == nil {
		return 0
	}
	return s.session.Load()
}

// AddSent accumulates dealt damage and returns the new total.
func (t *Tally) AddSent(i int, kind KillType, n int64) int64 {
	s := t.slot(i)
	if s == nil || !kind.Valid() {
		return 0
	}
	return s.sent[kind].Add(n)
}

// Sent returns the running dealt-damage total for kind.
func (t *Tally) Sent(i int, kind KillType) int64 {
	s := t.slot(i)
	if s == nil || !kind.Valid() {
		return 0
	}
	return s.sent[kind].Load()
}

// AddReceived accumulates taken damage and returns the new total.
func (t *Tally) AddReceived(i int, n int64) int64 {
	s := t.slot(i)
	if s == nil {
		return 0
	}
	return s.received.Add(n)
}

// Received returns the running taken-damage total.
func (t *Tally) Received(i int) int64 {
	s := t.slot(i)
	if s == nil {
		return 0
	}
	return s.received.Load()
}

// SetLastAttacker records who last damaged victim. NoAttacker clears it.
func (t *Tally) SetLastAttacker(victim, attacker int) {
	s := t.slot(victim)
	if s == nil {
		return
	}
	if attacker < 0 || attacker >= world.MaxSlots {
		s.attacker.Store(0)
		return
	}
	s.attacker.Store(int32(attacker) + 1)
}

// LastAttacker returns the recorded attacker of victim.
func (t *Tally) LastAttacker(victim int) (int, bool) {
	s := t.slot(victim)
	if s == nil {
		return NoAttacker, false
	}
	v := s.attacker.Load()
	if v == 0 {
		return NoAttacker, false
	}
	return int(v - 1), true
}

// TakeLastAttacker returns the recorded attacker of victim and clears it in
// one step.
func (t *Tally) TakeLastAttacker(victim int) (int, bool) {
	s := t.slot(victim)
	if s == nil {
		return NoAttacker, false
	}
	v := s.attacker.Swap(0)
	if v == 0 {
		return NoAttacker, false
	}
	return int(v - 1), true
}
