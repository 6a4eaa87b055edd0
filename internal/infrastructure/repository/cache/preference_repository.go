package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/preference"
	basecache "github.com/riskibarqy/pro-play/internal/platform/cache"
)

const preferenceKeyPrefix = "preference:fid:"

// PreferenceRepository serves reads from a TTL cache and drops the entry on
// every write, so a user always sees their own saves.
type PreferenceRepository struct {
	next  preference.Repository
	cache *basecache.Store[cachedPreferences]
}

type cachedPreferences struct {
	value  preference.Preferences
	exists bool
}

func NewPreferenceRepository(next preference.Repository, ttl time.Duration, maxEntries int) *PreferenceRepository {
	return &PreferenceRepository{
		next:  next,
		cache: basecache.NewStore[cachedPreferences](ttl, maxEntries),
	}
}

func (r *PreferenceRepository) GetByFID(ctx context.Context, fid int64) (preference.Preferences, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, preferenceKey(fid), func(ctx context.Context) (cachedPreferences, error) {
		item, exists, err := r.next.GetByFID(ctx, fid)
		if err != nil {
			return cachedPreferences{}, err
		}
		return cachedPreferences{value: clonePreferences(item), exists: exists}, nil
	})
	if err != nil {
		return preference.Preferences{}, false, err
	}

	return clonePreferences(cached.value), cached.exists, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, prefs preference.Preferences) error {
	err := r.next.Upsert(ctx, prefs)
	r.cache.Delete(ctx, preferenceKey(prefs.FID))
	return err
}

func preferenceKey(fid int64) string {
	return preferenceKeyPrefix + strconv.FormatInt(fid, 10)
}

func clonePreferences(p preference.Preferences) preference.Preferences {
	p.Genres = append(p.Genres[:0:0], p.Genres...)
	return p
}
