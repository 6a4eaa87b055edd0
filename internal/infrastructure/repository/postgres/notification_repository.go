package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pro-play/internal/domain/notification"
	qb "github.com/riskibarqy/pro-play/internal/platform/querybuilder"
)

var notificationColumns = []string{"id", "fid", "match_id", "notify_at", "message", "sent", "sent_at", "created_at"}

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, item notification.Notification) (notification.Notification, error) {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := qb.InsertModel("notifications", notificationInsertModel{
		FID:       item.FID,
		MatchID:   strings.TrimSpace(item.MatchID),
		NotifyAt:  item.NotifyAt.UTC(),
		Message:   item.Message,
		Sent:      false,
		CreatedAt: createdAt,
	}, "RETURNING "+strings.Join(notificationColumns, ", "))
	if err != nil {
		return notification.Notification{}, fmt.Errorf("build insert notification query: %w", err)
	}

	var row notificationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return notification.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return notificationFromRow(row), nil
}

func (r *NotificationRepository) DeleteUnsent(ctx context.Context, fid int64, matchID string) error {
	query, args, err := qb.DeleteFrom("notifications").
		Where(
			qb.Eq("fid", fid),
			qb.Eq("match_id", strings.TrimSpace(matchID)),
			qb.Eq("sent", false),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete unsent notifications query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete unsent notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]notification.Notification, error) {
	query, args, err := qb.Select(notificationColumns...).
		From("notifications").
		Where(
			qb.Eq("sent", false),
			qb.Lte("notify_at", now.UTC()),
		).
		OrderBy("notify_at ASC", "id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list due notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notificationFromRow(row))
	}
	return out, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	query, args, err := qb.Update("notifications").
		Set("sent", true).
		Set("sent_at", sentAt.UTC()).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark notification sent query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("mark notification sent: notification %d not found", id)
	}
	return nil
}

func notificationFromRow(row notificationTableModel) notification.Notification {
	return notification.Notification{
		ID:        row.ID,
		FID:       row.FID,
		MatchID:   row.MatchID,
		NotifyAt:  row.NotifyAt,
		Message:   row.Message,
		Sent:      row.Sent,
		SentAt:    row.SentAt,
		CreatedAt: row.CreatedAt,
	}
}
