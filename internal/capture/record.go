package capture

import (
	"fmt"

	"github.com/l1jgo/combatstats/internal/net/packet"
	"github.com/l1jgo/combatstats/internal/world"
)

// RecordKind tags one capture record.
type RecordKind byte

const (
	RecordLogin  RecordKind = 1
	RecordLogout RecordKind = 2
	RecordNpc    RecordKind = 3
	RecordPacket RecordKind = 4
)

func (k RecordKind) String() string {
	switch k {
	case RecordLogin:
		return "login"
	case RecordLogout:
		return "logout"
	case RecordNpc:
		return "npc"
	case RecordPacket:
		return "packet"
	}
	return fmt.Sprintf("RecordKind(%d)", byte(k))
}

const (
	npcFlagActive   = 1 << 0
	npcFlagBoss     = 1 << 1
	npcFlagFriendly = 1 << 2
)

// Record is one captured host event. Which fields are set depends on Kind:
// Player for login, Player.Slot for logout, Npc for npc, and
// PacketKind/Sender/Body for packet.
type Record struct {
	Kind       RecordKind
	Player     world.PlayerInfo
	Npc        world.NpcSnapshot
	PacketKind packet.Kind
	Sender     int
	Body       []byte
}

func LoginRecord(p world.PlayerInfo) Record {
	return Record{Kind: RecordLogin, Player: p}
}

func LogoutRecord(slot int) Record {
	return Record{Kind: RecordLogout, Player: world.PlayerInfo{Slot: slot}}
}

func NpcRecord(n world.NpcSnapshot) Record {
	return Record{Kind: RecordNpc, Npc: n}
}

func PacketRecord(kind packet.Kind, sender int, body []byte) Record {
	return Record{Kind: RecordPacket, PacketKind: kind, Sender: sender, Body: body}
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < world.MaxSlots
}

// marshal encodes rec as a frame payload.
func (rec Record) marshal() ([]byte, error) {
	w := packet.NewWriter()
	w.WriteC(byte(rec.Kind))
	switch rec.Kind {
	case RecordLogin:
		if !validSlot(rec.Player.Slot) {
			return nil, fmt.Errorf("login record: slot %d out of range", rec.Player.Slot)
		}
		w.WriteC(byte(rec.Player.Slot))
		w.WriteD(rec.Player.AccountID)
		w.WriteD(rec.Player.Defense)
		w.WriteS(rec.Player.Name)
	case RecordLogout:
		if !validSlot(rec.Player.Slot) {
			return nil, fmt.Errorf("logout record: slot %d out of range", rec.Player.Slot)
		}
		w.WriteC(byte(rec.Player.Slot))
	case RecordNpc:
		n := rec.Npc
		w.WriteC(n.Slot)
		w.WriteD(n.Target)
		w.WriteD(n.AIStyle)
		w.WriteD(n.Type)
		w.WriteD(n.Defense)
		w.WriteD(n.Life)
		var flags byte
		if n.Active {
			flags |= npcFlagActive
		}
		if n.Boss {
			flags |= npcFlagBoss
		}
		if n.Friendly {
			flags |= npcFlagFriendly
		}
		w.WriteC(flags)
	case RecordPacket:
		if !validSlot(rec.Sender) {
			return nil, fmt.Errorf("packet record: sender %d out of range", rec.Sender)
		}
		w.WriteC(byte(rec.PacketKind))
		w.WriteC(byte(rec.Sender))
		w.WriteBytes(rec.Body)
	default:
		return nil, fmt.Errorf("unknown record kind %s", rec.Kind)
	}
	return w.Bytes(), nil
}

// unmarshal decodes a frame payload. The returned Body does not alias data.
func unmarshal(data []byte) (Record, error) {
	r := packet.NewReader(data)
	rec := Record{Kind: RecordKind(r.ReadC())}
	switch rec.Kind {
	case RecordLogin:
		rec.Player.Slot = int(r.ReadC())
		rec.Player.AccountID = r.ReadD()
		rec.Player.Defense = r.ReadD()
		rec.Player.Name = r.ReadS()
	case RecordLogout:
		rec.Player.Slot = int(r.ReadC())
	case RecordNpc:
		rec.Npc.Slot = r.ReadC()
		rec.Npc.Target = r.ReadD()
		rec.Npc.AIStyle = r.ReadD()
		rec.Npc.Type = r.ReadD()
		rec.Npc.Defense = r.ReadD()
		rec.Npc.Life = r.ReadD()
		flags := r.ReadC()
		rec.Npc.Active = flags&npcFlagActive != 0
		rec.Npc.Boss = flags&npcFlagBoss != 0
		rec.Npc.Friendly = flags&npcFlagFriendly != 0
	case RecordPacket:
		rec.PacketKind = packet.Kind(r.ReadC())
		rec.Sender = int(r.ReadC())
		if r.Err() == nil {
			rec.Body = append([]byte(nil), data[len(data)-r.Remaining():]...)
		}
	default:
		return rec, fmt.Errorf("unknown record kind %s", rec.Kind)
	}
	if err := r.Err(); err != nil {
		return rec, fmt.Errorf("decode %s record: %w", rec.Kind, err)
	}
	return rec, nil
}
