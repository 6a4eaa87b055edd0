package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/pro-play/internal/domain/cast"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const (
	DefaultMatchLinkBase = "https://proplay.com/match"
	castTimeLayout       = "Jan 2, 2006 3:04 PM MST"
)

// CastPost is a social post published on behalf of a fid.
type CastPost struct {
	FID       int64
	Text      string
	EmbedURLs []string
}

// CastPublisher publishes posts to the social graph and returns the post hash.
type CastPublisher interface {
	PublishCast(ctx context.Context, post CastPost) (string, error)
}

type CastInput struct {
	FID     int64
	MatchID string
	Kind    string
}

type CastResult struct {
	Text     string
	Hash     string
	EmbedURL string
}

type CastService struct {
	matches   MatchFinder
	publisher CastPublisher
	linkBase  string
	logger    *logging.Logger
}

func NewCastService(matches MatchFinder, publisher CastPublisher, linkBase string, logger *logging.Logger) *CastService {
	if logger == nil {
		logger = logging.Default()
	}
	linkBase = strings.TrimRight(strings.TrimSpace(linkBase), "/")
	if linkBase == "" {
		linkBase = DefaultMatchLinkBase
	}

	return &CastService{
		matches:   matches,
		publisher: publisher,
		linkBase:  linkBase,
		logger:    logger,
	}
}

func (s *CastService) Cast(ctx context.Context, input CastInput) (CastResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CastService.Cast")
	defer span.End()

	kind, ok := cast.ParseKind(input.Kind)
	if !ok {
		return CastResult{}, fmt.Errorf("%w: unsupported cast type %q", ErrInvalidInput, input.Kind)
	}
	if input.FID <= 0 {
		return CastResult{}, fmt.Errorf("%w: fid must be positive", ErrInvalidInput)
	}
	matchID := strings.TrimSpace(input.MatchID)
	if matchID == "" {
		return CastResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if s.publisher == nil {
		return CastResult{}, fmt.Errorf("%w: social publishing is not configured", ErrDependencyUnavailable)
	}

	m, err := s.matches.Resolve(ctx, matchID)
	if err != nil {
		return CastResult{}, err
	}

	text, err := ComposeCast(m, kind)
	if err != nil {
		return CastResult{}, err
	}
	embedURL := s.embedURL(m)

	hash, err := s.publisher.PublishCast(ctx, CastPost{
		FID:       input.FID,
		Text:      text,
		EmbedURLs: []string{embedURL},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "publish cast failed", "fid", input.FID, "match_id", matchID, "kind", kind, "error", err)
		return CastResult{}, err
	}

	return CastResult{Text: text, Hash: hash, EmbedURL: embedURL}, nil
}

func (s *CastService) embedURL(m match.Match) string {
	if m.StreamURL != "" {
		return m.StreamURL
	}
	return s.linkBase + "/" + m.ID
}

// ComposeCast renders the template for kind from a match.
func ComposeCast(m match.Match, kind cast.Kind) (string, error) {
	team1, team2 := m.DisplayNames()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	switch kind {
	case cast.KindShare:
		buf.WriteString("🎮 Exciting match coming up!\n")
		buf.WriteString(team1 + " vs " + team2 + "\n")
		buf.WriteString("⏰ " + formatCastTime(m) + "\n\n")
		buf.WriteString("Watch it on Pro Play! #Esports")
	case cast.KindLive:
		buf.WriteString("🔴 LIVE NOW!\n")
		buf.WriteString(scoreLine(team1, team2, m.Score) + "\n\n")
		buf.WriteString("Catch the action on Pro Play! #LiveEsports")
	case cast.KindResult:
		buf.WriteString("🏆 Match Result:\n")
		buf.WriteString(scoreLine(team1, team2, m.Score) + "\n\n")
		buf.WriteString("What a game! #Esports")
	default:
		return "", fmt.Errorf("%w: unsupported cast type %q", ErrInvalidInput, kind)
	}

	return buf.String(), nil
}

func scoreLine(team1, team2 string, score match.Score) string {
	return team1 + " " + strconv.Itoa(score.Team1) + " - " + strconv.Itoa(score.Team2) + " " + team2
}

func formatCastTime(m match.Match) string {
	if m.ScheduledAt.IsZero() {
		return "TBA"
	}
	return m.ScheduledAt.UTC().Format(castTimeLayout)
}
