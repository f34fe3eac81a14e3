package world

import "sync"

// MaxSlots is the number of connection slots and NPC slots the protocol can
// address with one byte.
const MaxSlots = 256

// PlayerInfo is the identity the stats engine needs for a logged-in player.
type PlayerInfo struct {
	Slot      int
	AccountID int32
	Name      string
	Defense   int32 // current defense stat, used for damage mitigation
}

// NpcSnapshot is a point-in-time copy of one NPC. Handlers take one snapshot
// at entry and never re-read the live entity.
type NpcSnapshot struct {
	Slot     byte
	Target   int32 // player slot being engaged; >= MaxSlots means no target
	AIStyle  int32
	Type     int32
	Defense  int32
	Life     int32
	Active   bool
	Boss     bool
	Friendly bool
}

// HasTarget reports whether the NPC references a valid player slot.
func (n NpcSnapshot) HasTarget() bool {
	return n.Target >= 0 && n.Target < MaxSlots
}

type slot struct {
	player   PlayerInfo
	loggedIn bool
}

// State is the slot-indexed view of connected players and live NPCs.
// Packet handlers on different connections read it concurrently while the
// host writes logins and NPC updates, so every access goes through mu.
type State struct {
	mu      sync.RWMutex
	players [MaxSlots]slot
	npcs    [MaxSlots]NpcSnapshot

	onLogin func(slot int)
}

func NewState() *State {
	return &State{}
}

// OnLogin registers a callback run after a slot is (re)assigned to a player.
// Used to reset per-slot transient state. Must be set before traffic starts.
func (s *State) OnLogin(fn func(slot int)) {
	s.onLogin = fn
}

// Login marks a slot as held by a logged-in player. A previous occupant's
// data is overwritten.
func (s *State) Login(p PlayerInfo) bool {
	if p.Slot < 0 || p.Slot >= MaxSlots {
		return false
	}
	s.mu.Lock()
	s.players[p.Slot] = slot{player: p, loggedIn: true}
	s.mu.Unlock()
	if s.onLogin != nil {
		s.onLogin(p.Slot)
	}
	return true
}

// Logout marks a slot as free. Transient state for the slot is left in place
// and ignored until the slot is reused.
func (s *State) Logout(slotIdx int) {
	if slotIdx < 0 || slotIdx >= MaxSlots {
		return
	}
	s.mu.Lock()
	s.players[slotIdx].loggedIn = false
	s.mu.Unlock()
}

// SetDefense updates a logged-in player's defense stat.
func (s *State) SetDefense(slotIdx int, defense int32) {
	if slotIdx < 0 || slotIdx >= MaxSlots {
		return
	}
	s.mu.Lock()
	s.players[slotIdx].player.Defense = defense
	s.mu.Unlock()
}

// PlayerBySlot resolves a connection slot to its logged-in player.
func (s *State) PlayerBySlot(slotIdx int) (PlayerInfo, bool) {
	if slotIdx < 0 || slotIdx >= MaxSlots {
		return PlayerInfo{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl := s.players[slotIdx]
	if !sl.loggedIn {
		return PlayerInfo{}, false
	}
	return sl.player, true
}

// PlayerCount returns the number of logged-in players.
func (s *State) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for i := range s.players {
		if s.players[i].loggedIn {
			n++
		}
	}
	return n
}

// SetNpc replaces the live NPC in snap.Slot.
func (s *State) SetNpc(snap NpcSnapshot) {
	s.mu.Lock()
	s.npcs[snap.Slot] = snap
	s.mu.Unlock()
}

// SetNpcLife updates an NPC's remaining life, as the host does when it applies
// damage on its own.
func (s *State) SetNpcLife(slotIdx byte, life int32) {
	s.mu.Lock()
	s.npcs[slotIdx].Life = life
	if life <= 0 {
		s.npcs[slotIdx].Active = false
	}
	s.mu.Unlock()
}

// Npc returns a copy of the NPC in slotIdx.
func (s *State) Npc(slotIdx byte) NpcSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.npcs[slotIdx]
}
