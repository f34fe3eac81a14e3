package packet

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// HandlerFunc processes one packet body from senderSlot. handled=true tells the
// host to suppress its default handling of the packet. r is only valid for the
// duration of the call.
type HandlerFunc func(senderSlot int, r *Reader) (handled bool, err error)

// readers recycles Dispatch cursors; handlers must not keep r after returning.
var readers = sync.Pool{New: func() any { return new(Reader) }}

// Registry maps packet kinds to handlers. It is filled once at startup and
// sealed before packet traffic begins; after Seal it is read-only and safe for
// concurrent Dispatch from every connection goroutine.
type Registry struct {
	handlers [256]HandlerFunc
	sealed   bool
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log}
}

// Register binds a handler to a kind. Panics on duplicate or post-Seal
// registration; both are programming errors caught at startup.
func (reg *Registry) Register(kind Kind, fn HandlerFunc) {
	if reg.sealed {
		panic(fmt.Sprintf("packet: register %s after seal", kind))
	}
	if reg.handlers[kind] != nil {
		panic(fmt.Sprintf("packet: duplicate handler for %s", kind))
	}
	reg.handlers[kind] = fn
}

// Seal freezes the registry.
func (reg *Registry) Seal() { reg.sealed = true }

// Has reports whether a handler is registered for kind.
func (reg *Registry) Has(kind Kind) bool { return reg.handlers[kind] != nil }

// Dispatch runs the handler for kind over body. Unknown kinds return false
// without touching any state. Handler errors and panics are logged and
// normalized to false so one bad packet never stops the caller's loop.
func (reg *Registry) Dispatch(kind Kind, senderSlot int, body []byte) (handled bool) {
	fn := reg.handlers[kind]
	if fn == nil {
		return false
	}

	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("packet handler panic",
				zap.Stringer("kind", kind),
				zap.Int("slot", senderSlot),
				zap.Any("panic", rec),
				zap.Stack("stack"),
			)
			handled = false
		}
	}()

	r := readers.Get().(*Reader)
	r.Reset(body)
	defer func() {
		r.Reset(nil)
		readers.Put(r)
	}()

	ok, err := fn(senderSlot, r)
	if err != nil {
		level := zap.ErrorLevel
		if errors.Is(err, ErrTruncated) {
			level = zap.WarnLevel
		}
		if ce := reg.log.Check(level, "packet handler failed"); ce != nil {
			ce.Write(
				zap.Stringer("kind", kind),
				zap.Int("slot", senderSlot),
				zap.Int("len", len(body)),
				zap.Error(err),
			)
		}
		return false
	}
	return ok
}
