package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/riskibarqy/pro-play/internal/domain/follow"
)

type FollowRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]follow.FollowedMatch
}

func NewFollowRepository() *FollowRepository {
	return &FollowRepository{items: make(map[string]follow.FollowedMatch)}
}

func (r *FollowRepository) Create(_ context.Context, item follow.FollowedMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := followKey(item.FID, item.MatchID)
	if _, exists := r.items[key]; exists {
		return follow.ErrAlreadyFollowed
	}
	r.nextID++
	item.ID = r.nextID
	r.items[key] = item
	return nil
}

func (r *FollowRepository) Delete(_ context.Context, fid int64, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, followKey(fid, matchID))
	return nil
}

func (r *FollowRepository) ListByFID(_ context.Context, fid int64) ([]follow.FollowedMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]follow.FollowedMatch, 0)
	for _, item := range r.items {
		if item.FID == fid {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func followKey(fid int64, matchID string) string {
	return strconv.FormatInt(fid, 10) + "::" + matchID
}
