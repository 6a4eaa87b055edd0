package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item Notification) (Notification, error)
	// DeleteUnsent removes reminders for (fid, matchID) that were not delivered yet.
	DeleteUnsent(ctx context.Context, fid int64, matchID string) error
	// ListDue returns unsent reminders with NotifyAt <= now, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]Notification, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
}
