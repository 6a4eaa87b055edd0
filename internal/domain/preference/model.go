package preference

import (
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/match"
)

const MaxFavoriteLength = 100

// Preferences are keyed by the user's Farcaster fid.
type Preferences struct {
	FID            int64
	Genres         []match.GameType
	FavoriteTeam   string
	FavoritePlayer string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
