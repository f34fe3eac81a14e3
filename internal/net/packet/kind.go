package packet

import "fmt"

// Kind identifies an inbound packet type. Values are the wire opcodes the host
// forwards; only the three combat kinds are decoded here.
type Kind byte

const (
	PlayerDamage Kind = 26 // client reports damage dealt to a player
	NpcStrike    Kind = 28 // client reports a strike on an NPC
	PlayerDeath  Kind = 44 // client reports its own death ("kill me")
)

func (k Kind) String() string {
	switch k {
	case PlayerDamage:
		return "PlayerDamage"
	case NpcStrike:
		return "NpcStrike"
	case PlayerDeath:
		return "PlayerDeath"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}
