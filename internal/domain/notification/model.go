package notification

import "time"

// Notification is a pending match reminder for one fid.
type Notification struct {
	ID        int64
	FID       int64
	MatchID   string
	NotifyAt  time.Time
	Message   string
	Sent      bool
	SentAt    *time.Time
	CreatedAt time.Time
}
