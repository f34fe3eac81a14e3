package app

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/l1jgo/combatstats/internal/capture"
)

// ReplayStats summarizes one replay run.
type ReplayStats struct {
	Records int
	Packets int
	Handled int // packets the engine asked the host to suppress
	Skipped int // records refused by world state
}

// Replay feeds a capture through the world state and the engine in order.
// Sinks run asynchronously; call Drain before reading the store.
func (a *App) Replay(ctx context.Context, r *capture.Reader) (ReplayStats, error) {
	var st ReplayStats
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		rec, err := r.Next()
		if err == io.EOF {
			return st, nil
		}
		if err != nil {
			return st, err
		}
		st.Records++

		switch rec.Kind {
		case capture.RecordLogin:
			if rec.Player.Slot >= a.Config.Server.MaxPlayers || !a.World.Login(rec.Player) {
				a.Log.Warn("replay login refused", zap.Int("slot", rec.Player.Slot), zap.Int32("account", rec.Player.AccountID))
				st.Skipped++
			}
		case capture.RecordLogout:
			a.World.Logout(rec.Player.Slot)
		case capture.RecordNpc:
			a.World.SetNpc(rec.Npc)
		case capture.RecordPacket:
			st.Packets++
			if a.Engine.HandlePacket(rec.PacketKind, rec.Sender, rec.Body) {
				st.Handled++
			}
		}
	}
}
