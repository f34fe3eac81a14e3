package event

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/vmihailenco/msgpack/v5"
)

const metaKeyType = "event_type"

// Envelope is a received bus message: the event type name plus its encoded body.
type Envelope struct {
	UUID    string
	Type    string
	Payload []byte
}

// NewEnvelope encodes ev the way the bus delivers it.
func NewEnvelope(ev Event) (Envelope, error) {
	body, err := msgpack.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", ev.Type(), err)
	}
	return Envelope{UUID: watermill.NewUUID(), Type: ev.Type(), Payload: body}, nil
}

// encode wraps ev in a watermill message with a msgpack body.
func encode(ev Event) (*message.Message, error) {
	env, err := NewEnvelope(ev)
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(env.UUID, env.Payload)
	msg.Metadata.Set(metaKeyType, env.Type)
	return msg, nil
}

func toEnvelope(msg *message.Message) Envelope {
	return Envelope{
		UUID:    msg.UUID,
		Type:    msg.Metadata.Get(metaKeyType),
		Payload: msg.Payload,
	}
}

// Decode unpacks an envelope body into T.
func Decode[T Event](env Envelope) (T, error) {
	var out T
	if env.Type != out.Type() {
		return out, fmt.Errorf("decode: envelope type %q is not %q", env.Type, out.Type())
	}
	if err := msgpack.Unmarshal(env.Payload, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return out, nil
}
