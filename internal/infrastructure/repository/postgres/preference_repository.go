package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/preference"
	qb "github.com/riskibarqy/pro-play/internal/platform/querybuilder"
)

type PreferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) GetByFID(ctx context.Context, fid int64) (preference.Preferences, bool, error) {
	query, args, err := qb.Select("fid", "genres", "favorite_team", "favorite_player", "created_at", "updated_at").
		From("users").
		Where(qb.Eq("fid", fid)).
		Limit(1).
		ToSQL()
	if err != nil {
		return preference.Preferences{}, false, fmt.Errorf("build get preferences query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return preference.Preferences{}, false, nil
		}
		return preference.Preferences{}, false, fmt.Errorf("get preferences: %w", err)
	}

	return preferencesFromRow(row), true, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, prefs preference.Preferences) error {
	now := prefs.UpdatedAt.UTC()
	if now.IsZero() {
		now = time.Now().UTC()
	}
	createdAt := prefs.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}

	genres := make(pq.StringArray, 0, len(prefs.Genres))
	for _, g := range prefs.Genres {
		genres = append(genres, string(g))
	}

	insertModel := userInsertModel{
		FID:            prefs.FID,
		Genres:         genres,
		FavoriteTeam:   optionalString(prefs.FavoriteTeam),
		FavoritePlayer: optionalString(prefs.FavoritePlayer),
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}

	query, args, err := qb.InsertModel("users", insertModel, `ON CONFLICT (fid)
DO UPDATE SET
    genres = EXCLUDED.genres,
    favorite_team = EXCLUDED.favorite_team,
    favorite_player = EXCLUDED.favorite_player,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert preferences query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

func preferencesFromRow(row userTableModel) preference.Preferences {
	genres := make([]match.GameType, 0, len(row.Genres))
	for _, g := range row.Genres {
		genres = append(genres, match.GameType(strings.TrimSpace(g)))
	}
	return preference.Preferences{
		FID:            row.FID,
		Genres:         genres,
		FavoriteTeam:   strings.TrimSpace(row.FavoriteTeam.String),
		FavoritePlayer: strings.TrimSpace(row.FavoritePlayer.String),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
