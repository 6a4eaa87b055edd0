package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/preference"
)

type PreferenceRepository struct {
	mu    sync.RWMutex
	items map[int64]preference.Preferences
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{items: make(map[int64]preference.Preferences)}
}

func (r *PreferenceRepository) GetByFID(_ context.Context, fid int64) (preference.Preferences, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[fid]
	if !ok {
		return preference.Preferences{}, false, nil
	}
	return clonePreferences(item), true, nil
}

// Upsert keeps the original CreatedAt when the fid already exists.
func (r *PreferenceRepository) Upsert(_ context.Context, prefs preference.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[prefs.FID]; ok && !existing.CreatedAt.IsZero() {
		prefs.CreatedAt = existing.CreatedAt
	}
	r.items[prefs.FID] = clonePreferences(prefs)
	return nil
}

func clonePreferences(p preference.Preferences) preference.Preferences {
	copied := p
	copied.Genres = append([]match.GameType(nil), p.Genres...)
	return copied
}
