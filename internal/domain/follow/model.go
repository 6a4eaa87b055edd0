package follow

import (
	"errors"
	"time"
)

var ErrAlreadyFollowed = errors.New("match already followed")

type FollowedMatch struct {
	ID        int64
	FID       int64
	MatchID   string
	CreatedAt time.Time
}
