package packet

import "fmt"

// Body sizes of the fixed-layout combat packets.
const (
	PlayerDeathSize  = 5 // dir(1) unused(1) damage(2) pvp(1)
	PlayerDamageSize = 6 // target(1) dir(1) damage(2) crit(1) flags(1)
	NpcStrikeSize    = 5 // npc(1) dir(1) damage(2) crit(1)
)

// DeathEvent is a decoded PlayerDeath body. The dying player is the sender,
// so SubjectSlot is filled in from the dispatch context, not the payload.
type DeathEvent struct {
	SubjectSlot int
	PvP         bool
}

// DamageEvent is a decoded PlayerDamage body.
type DamageEvent struct {
	SourceSlot int // sender
	TargetSlot int // from payload, full byte range
	RawDamage  int16
	Critical   bool
}

// NpcStrikeEvent is a decoded NpcStrike body.
type NpcStrikeEvent struct {
	NpcSlot   byte
	RawDamage int16
	Critical  bool
}

// DecodePlayerDeath reads a PlayerDeath body sent by senderSlot.
func DecodePlayerDeath(r *Reader, senderSlot int) (DeathEvent, error) {
	r.ReadC() // hit direction
	r.ReadC()
	r.ReadH() // damage, recomputed by the host
	pvp := r.ReadBool()
	if err := r.Err(); err != nil {
		return DeathEvent{}, fmt.Errorf("decode %s: %w", PlayerDeath, err)
	}
	return DeathEvent{SubjectSlot: senderSlot, PvP: pvp}, nil
}

// DecodePlayerDamage reads a PlayerDamage body sent by senderSlot.
func DecodePlayerDamage(r *Reader, senderSlot int) (DamageEvent, error) {
	target := r.ReadC()
	r.ReadC() // hit direction
	dmg := r.ReadH()
	crit := r.ReadBool()
	r.ReadC() // flags
	if err := r.Err(); err != nil {
		return DamageEvent{}, fmt.Errorf("decode %s: %w", PlayerDamage, err)
	}
	return DamageEvent{
		SourceSlot: senderSlot,
		TargetSlot: int(target),
		RawDamage:  dmg,
		Critical:   crit,
	}, nil
}

// DecodeNpcStrike reads an NpcStrike body.
func DecodeNpcStrike(r *Reader) (NpcStrikeEvent, error) {
	npc := r.ReadC()
	r.ReadC() // hit direction
	dmg := r.ReadH()
	crit := r.ReadBool()
	if err := r.Err(); err != nil {
		return NpcStrikeEvent{}, fmt.Errorf("decode %s: %w", NpcStrike, err)
	}
	return NpcStrikeEvent{NpcSlot: npc, RawDamage: dmg, Critical: crit}, nil
}
