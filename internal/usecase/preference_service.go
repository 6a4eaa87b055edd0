package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/preference"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
)

type SavePreferencesInput struct {
	FID            int64
	Genres         []string
	FavoriteTeam   string
	FavoritePlayer string
}

type PreferenceService struct {
	repo   preference.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewPreferenceService(repo preference.Repository, logger *logging.Logger) *PreferenceService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PreferenceService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *PreferenceService) Save(ctx context.Context, input SavePreferencesInput) (preference.Preferences, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.Save")
	defer span.End()

	if input.FID <= 0 {
		return preference.Preferences{}, fmt.Errorf("%w: fid must be positive", ErrInvalidInput)
	}
	genres, err := parseGenres(input.Genres)
	if err != nil {
		return preference.Preferences{}, err
	}
	favoriteTeam := strings.TrimSpace(input.FavoriteTeam)
	favoritePlayer := strings.TrimSpace(input.FavoritePlayer)
	if utf8.RuneCountInString(favoriteTeam) > preference.MaxFavoriteLength {
		return preference.Preferences{}, fmt.Errorf("%w: favorite team is too long", ErrInvalidInput)
	}
	if utf8.RuneCountInString(favoritePlayer) > preference.MaxFavoriteLength {
		return preference.Preferences{}, fmt.Errorf("%w: favorite player is too long", ErrInvalidInput)
	}

	now := s.now().UTC()
	prefs := preference.Preferences{
		FID:            input.FID,
		Genres:         genres,
		FavoriteTeam:   favoriteTeam,
		FavoritePlayer: favoritePlayer,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return preference.Preferences{}, fmt.Errorf("%w: save preferences: %v", ErrDependencyUnavailable, err)
	}

	s.logger.InfoContext(ctx, "preferences saved", "fid", input.FID, "genres", genres)
	return prefs, nil
}

// Get returns stored preferences. The bool is false when the fid never onboarded.
func (s *PreferenceService) Get(ctx context.Context, fid int64) (preference.Preferences, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.Get")
	defer span.End()

	if fid <= 0 {
		return preference.Preferences{}, false, fmt.Errorf("%w: fid must be positive", ErrInvalidInput)
	}

	prefs, exists, err := s.repo.GetByFID(ctx, fid)
	if err != nil {
		return preference.Preferences{}, false, fmt.Errorf("%w: get preferences: %v", ErrDependencyUnavailable, err)
	}
	if !exists {
		return preference.Preferences{FID: fid, Genres: []match.GameType{}}, false, nil
	}
	return prefs, true, nil
}

func parseGenres(raw []string) ([]match.GameType, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: at least one genre is required", ErrInvalidInput)
	}

	seen := make(map[match.GameType]struct{}, len(raw))
	out := make([]match.GameType, 0, len(raw))
	for _, item := range raw {
		game, ok := match.ParseGameType(item)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported genre %q", ErrInvalidInput, item)
		}
		if _, dup := seen[game]; dup {
			continue
		}
		seen[game] = struct{}{}
		out = append(out, game)
	}
	return out, nil
}
