package jobqueue

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/notification"
)

const DispatchNotificationsPath = "/api/internal/jobs/dispatch-notifications"

// Enqueuer publishes a delayed job against one of this service's routes.
type Enqueuer interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type dispatchJobPayload struct {
	NotificationID int64  `json:"notificationId"`
	FID            int64  `json:"fid"`
	MatchID        string `json:"matchId"`
}

// ReminderScheduler wakes the dispatcher when a stored reminder comes due.
type ReminderScheduler struct {
	enqueuer Enqueuer
}

func NewReminderScheduler(enqueuer Enqueuer) *ReminderScheduler {
	return &ReminderScheduler{enqueuer: enqueuer}
}

func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, item notification.Notification, delay time.Duration) error {
	payload := dispatchJobPayload{
		NotificationID: item.ID,
		FID:            item.FID,
		MatchID:        item.MatchID,
	}
	return s.enqueuer.Enqueue(ctx, DispatchNotificationsPath, payload, delay, ReminderDeduplicationID(item.FID, item.MatchID))
}

func ReminderDeduplicationID(fid int64, matchID string) string {
	return "reminder-" + strconv.FormatInt(fid, 10) + "-" + matchID
}
