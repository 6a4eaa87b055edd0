package postgres

import "time"

type followedMatchTableModel struct {
	ID        int64     `db:"id"`
	FID       int64     `db:"fid"`
	MatchID   string    `db:"match_id"`
	CreatedAt time.Time `db:"created_at"`
}

type followedMatchInsertModel struct {
	FID       int64     `db:"fid"`
	MatchID   string    `db:"match_id"`
	CreatedAt time.Time `db:"created_at"`
}
