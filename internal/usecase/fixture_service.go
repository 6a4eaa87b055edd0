package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/pro-play/internal/domain/follow"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/preference"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const DefaultPageSize = 10

type FixtureQuery struct {
	FID  int64
	Mode match.Mode
}

// FixtureItem is an aggregated match. IsFollowed is set only for live
// listings requested with a fid.
type FixtureItem struct {
	Match      match.Match
	IsFollowed *bool
}

// FixtureService aggregates provider listings across the user's game types.
type FixtureService struct {
	provider    MatchProvider
	preferences preference.Repository
	follows     follow.Repository
	pageSize    int
	logger      *logging.Logger
}

func NewFixtureService(
	provider MatchProvider,
	preferences preference.Repository,
	follows follow.Repository,
	pageSize int,
	logger *logging.Logger,
) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &FixtureService{
		provider:    provider,
		preferences: preferences,
		follows:     follows,
		pageSize:    pageSize,
		logger:      logger,
	}
}

func (s *FixtureService) List(ctx context.Context, query FixtureQuery) ([]FixtureItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.List")
	defer span.End()

	mode := query.Mode
	if mode == "" {
		mode = match.ModeUpcoming
	}
	if mode != match.ModeUpcoming && mode != match.ModeLive {
		return nil, fmt.Errorf("%w: unsupported mode %q", ErrInvalidInput, mode)
	}
	if query.FID < 0 {
		return nil, fmt.Errorf("%w: fid must be positive", ErrInvalidInput)
	}

	games, favoriteTeam := s.resolveSelection(ctx, query.FID)

	perGame := make([][]ExternalMatch, len(games))
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	for i, game := range games {
		i, game := i, game
		p.Go(func(ctx context.Context) error {
			items, err := s.provider.ListMatches(ctx, game, mode, s.pageSize)
			if err != nil {
				return fmt.Errorf("list %s matches: %w", game, err)
			}
			for j := range items {
				if items[j].GameType == "" {
					items[j].GameType = game
				}
			}
			perGame[i] = items
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		s.logger.WarnContext(ctx, "fixture aggregation failed", "mode", mode, "fid", query.FID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	matches := make([]match.Match, 0, len(games)*s.pageSize)
	for _, items := range perGame {
		matches = append(matches, NormalizeMatches(items)...)
	}
	SortByScheduledStart(matches)
	PrioritizeFavoriteTeam(matches, favoriteTeam)

	out := make([]FixtureItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, FixtureItem{Match: m})
	}
	if mode == match.ModeLive && query.FID > 0 {
		s.annotateFollowed(ctx, query.FID, out)
	}

	return out, nil
}

// resolveSelection falls back to every supported game type when the fid is
// omitted, has no stored preferences, or the store cannot be read.
func (s *FixtureService) resolveSelection(ctx context.Context, fid int64) ([]match.GameType, string) {
	defaults := match.SupportedGameTypes()
	if fid <= 0 || s.preferences == nil {
		return defaults, ""
	}

	prefs, exists, err := s.preferences.GetByFID(ctx, fid)
	if err != nil {
		s.logger.WarnContext(ctx, "preferences unavailable, using default game types", "fid", fid, "error", err)
		return defaults, ""
	}
	if !exists {
		return defaults, ""
	}

	games := make([]match.GameType, 0, len(prefs.Genres))
	for _, game := range prefs.Genres {
		if game.Valid() {
			games = append(games, game)
		}
	}
	if len(games) == 0 {
		games = defaults
	}

	return games, strings.TrimSpace(prefs.FavoriteTeam)
}

func (s *FixtureService) annotateFollowed(ctx context.Context, fid int64, items []FixtureItem) {
	followed := make(map[string]struct{})
	if s.follows != nil {
		rows, err := s.follows.ListByFID(ctx, fid)
		if err != nil {
			s.logger.WarnContext(ctx, "list followed matches for live annotation failed", "fid", fid, "error", err)
		}
		for _, row := range rows {
			followed[row.MatchID] = struct{}{}
		}
	}

	for i := range items {
		_, ok := followed[items[i].Match.ID]
		isFollowed := ok
		items[i].IsFollowed = &isFollowed
	}
}

// SortByScheduledStart orders matches by start time ascending.
func SortByScheduledStart(matches []match.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ScheduledAt.Before(matches[j].ScheduledAt)
	})
}

// PrioritizeFavoriteTeam moves matches featuring team ahead of the rest,
// keeping the relative order inside both groups.
func PrioritizeFavoriteTeam(matches []match.Match, team string) {
	if strings.TrimSpace(team) == "" {
		return
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].HasTeam(team) && !matches[j].HasTeam(team)
	})
}
