package follow

import "context"

type Repository interface {
	// Create returns ErrAlreadyFollowed when (fid, matchID) exists.
	Create(ctx context.Context, item FollowedMatch) error
	// Delete is a no-op when the relation does not exist.
	Delete(ctx context.Context, fid int64, matchID string) error
	// ListByFID returns the newest follows first.
	ListByFID(ctx context.Context, fid int64) ([]FollowedMatch, error)
}
