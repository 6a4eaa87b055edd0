package postgres

import "time"

type notificationTableModel struct {
	ID        int64      `db:"id"`
	FID       int64      `db:"fid"`
	MatchID   string     `db:"match_id"`
	NotifyAt  time.Time  `db:"notify_at"`
	Message   string     `db:"message"`
	Sent      bool       `db:"sent"`
	SentAt    *time.Time `db:"sent_at"`
	CreatedAt time.Time  `db:"created_at"`
}

type notificationInsertModel struct {
	FID       int64     `db:"fid"`
	MatchID   string    `db:"match_id"`
	NotifyAt  time.Time `db:"notify_at"`
	Message   string    `db:"message"`
	Sent      bool      `db:"sent"`
	CreatedAt time.Time `db:"created_at"`
}
