package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/notification"
)

type NotificationRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[int64]notification.Notification)}
}

func (r *NotificationRepository) Create(_ context.Context, item notification.Notification) (notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = cloneNotification(item)
	return cloneNotification(item), nil
}

func (r *NotificationRepository) DeleteUnsent(_ context.Context, fid int64, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.FID == fid && item.MatchID == matchID && !item.Sent {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *NotificationRepository) ListDue(_ context.Context, now time.Time, limit int) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, item := range r.items {
		if !item.Sent && !item.NotifyAt.After(now) {
			out = append(out, cloneNotification(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NotifyAt.Equal(out[j].NotifyAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].NotifyAt.Before(out[j].NotifyAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkSent(_ context.Context, id int64, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("notification %d not found", id)
	}
	item.Sent = true
	item.SentAt = &sentAt
	r.items[id] = item
	return nil
}

func cloneNotification(n notification.Notification) notification.Notification {
	copied := n
	if n.SentAt != nil {
		sentAt := *n.SentAt
		copied.SentAt = &sentAt
	}
	return copied
}
