package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/match"
)

// MatchProvider reads matches from the esports data provider, one game-type
// namespace per call. Every failure wraps ErrDependencyUnavailable.
type MatchProvider interface {
	ListMatches(ctx context.Context, game match.GameType, mode match.Mode, perPage int) ([]ExternalMatch, error)
	GetMatch(ctx context.Context, game match.GameType, matchID string) (ExternalMatch, error)
}

// ExternalMatch is a provider match record before normalization. Opponents
// and Results are positional: index 0 is team1, index 1 is team2.
type ExternalMatch struct {
	ID          int64
	GameType    match.GameType
	LeagueName  string
	Opponents   []ExternalOpponent
	ScheduledAt *time.Time
	Status      string
	LiveURL     string
	Results     []ExternalResult
}

type ExternalOpponent struct {
	ID       int64
	Name     string
	ImageURL string
}

type ExternalResult struct {
	TeamID int64
	Score  int
}
