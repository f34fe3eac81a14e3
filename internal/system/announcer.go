package system

import (
	"go.uber.org/zap"
)

// AnnouncementKind classifies an announcement.
type AnnouncementKind string

const (
	AnnounceSpree     AnnouncementKind = "spree"
	AnnounceBlitz     AnnouncementKind = "blitz"
	AnnounceSpeedKill AnnouncementKind = "speed_kill"
)

// Announcement is one broadcastable combat milestone.
type Announcement struct {
	Kind      AnnouncementKind
	Name      string
	AccountID int32
	Slot      int
	Count     int
}

// Announcer delivers announcements to players. The host game server supplies
// a chat-broadcast implementation.
type Announcer interface {
	Announce(a Announcement)
}

// LogAnnouncer writes announcements to the log.
type LogAnnouncer struct {
	Log *zap.Logger
}

func (l LogAnnouncer) Announce(a Announcement) {
	l.Log.Info("combat announcement",
		zap.String("kind", string(a.Kind)),
		zap.String("name", a.Name),
		zap.Int32("account", a.AccountID),
		zap.Int("slot", a.Slot),
		zap.Int("count", a.Count),
	)
}
