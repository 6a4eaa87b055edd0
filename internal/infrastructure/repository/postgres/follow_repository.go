package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pro-play/internal/domain/follow"
	qb "github.com/riskibarqy/pro-play/internal/platform/querybuilder"
)

type FollowRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(ctx context.Context, item follow.FollowedMatch) error {
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := qb.InsertModel("followed_matches", followedMatchInsertModel{
		FID:       item.FID,
		MatchID:   strings.TrimSpace(item.MatchID),
		CreatedAt: createdAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert follow query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return follow.ErrAlreadyFollowed
		}
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, fid int64, matchID string) error {
	query, args, err := qb.DeleteFrom("followed_matches").
		Where(
			qb.Eq("fid", fid),
			qb.Eq("match_id", strings.TrimSpace(matchID)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete follow query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) ListByFID(ctx context.Context, fid int64) ([]follow.FollowedMatch, error) {
	query, args, err := qb.Select("id", "fid", "match_id", "created_at").
		From("followed_matches").
		Where(qb.Eq("fid", fid)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list follows query: %w", err)
	}

	var rows []followedMatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}

	out := make([]follow.FollowedMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, follow.FollowedMatch{
			ID:        row.ID,
			FID:       row.FID,
			MatchID:   row.MatchID,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
