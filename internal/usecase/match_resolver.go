package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
)

// MatchFinder resolves a match id without knowing its game type.
type MatchFinder interface {
	Resolve(ctx context.Context, matchID string) (match.Match, error)
}

// MatchLookup is one candidate source for a match id.
type MatchLookup struct {
	Name  string
	Fetch func(ctx context.Context, matchID string) (match.Match, error)
}

// FirstSuccess tries candidates in order and returns the first match found.
// It stops early only when ctx is done.
func FirstSuccess(ctx context.Context, matchID string, candidates []MatchLookup) (match.Match, []error) {
	failures := make([]error, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			return match.Match{}, failures
		}

		found, err := candidate.Fetch(ctx, matchID)
		if err == nil {
			return found, nil
		}
		failures = append(failures, fmt.Errorf("%s: %w", candidate.Name, err))
	}
	if len(failures) == 0 {
		failures = append(failures, errors.New("no candidates configured"))
	}
	return match.Match{}, failures
}

// MatchResolver probes each game-type namespace in a fixed order.
// Results are not cached, so every call probes from the first namespace.
type MatchResolver struct {
	candidates []MatchLookup
	logger     *logging.Logger
}

func NewMatchResolver(provider MatchProvider, games []match.GameType, logger *logging.Logger) *MatchResolver {
	if logger == nil {
		logger = logging.Default()
	}
	if len(games) == 0 {
		games = match.SupportedGameTypes()
	}

	candidates := make([]MatchLookup, 0, len(games))
	for _, game := range games {
		game := game
		candidates = append(candidates, MatchLookup{
			Name: string(game),
			Fetch: func(ctx context.Context, matchID string) (match.Match, error) {
				item, err := provider.GetMatch(ctx, game, matchID)
				if err != nil {
					return match.Match{}, err
				}
				if item.GameType == "" {
					item.GameType = game
				}
				return NormalizeMatch(item), nil
			},
		})
	}

	return NewMatchResolverFromLookups(candidates, logger)
}

func NewMatchResolverFromLookups(candidates []MatchLookup, logger *logging.Logger) *MatchResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchResolver{candidates: append([]MatchLookup(nil), candidates...), logger: logger}
}

func (r *MatchResolver) Resolve(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchResolver.Resolve")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	found, failures := FirstSuccess(ctx, matchID, r.candidates)
	if failures == nil {
		return found, nil
	}
	if err := ctx.Err(); err != nil {
		return match.Match{}, err
	}

	r.logger.DebugContext(ctx, "match not found in any namespace", "match_id", matchID, "error", errors.Join(failures...))
	return match.Match{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
}
