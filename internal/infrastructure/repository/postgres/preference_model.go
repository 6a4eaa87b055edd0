package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type userTableModel struct {
	FID            int64          `db:"fid"`
	Genres         pq.StringArray `db:"genres"`
	FavoriteTeam   sql.NullString `db:"favorite_team"`
	FavoritePlayer sql.NullString `db:"favorite_player"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type userInsertModel struct {
	FID            int64          `db:"fid"`
	Genres         pq.StringArray `db:"genres"`
	FavoriteTeam   *string        `db:"favorite_team"`
	FavoritePlayer *string        `db:"favorite_player"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}
