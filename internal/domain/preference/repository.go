package preference

import "context"

type Repository interface {
	GetByFID(ctx context.Context, fid int64) (Preferences, bool, error)
	Upsert(ctx context.Context, prefs Preferences) error
}
