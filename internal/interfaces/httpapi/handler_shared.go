package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/preference"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

type Handler struct {
	fixtureService    *usecase.FixtureService
	matchResolver     usecase.MatchFinder
	followService     *usecase.FollowService
	preferenceService *usecase.PreferenceService
	predictionService *usecase.PredictionService
	castService       *usecase.CastService
	walletService     *usecase.WalletService
	dispatchService   *usecase.NotificationDispatchService
	logger            *logging.Logger
	validator         *validator.Validate
	now               func() time.Time
}

func NewHandler(
	fixtureService *usecase.FixtureService,
	matchResolver usecase.MatchFinder,
	followService *usecase.FollowService,
	preferenceService *usecase.PreferenceService,
	predictionService *usecase.PredictionService,
	castService *usecase.CastService,
	walletService *usecase.WalletService,
	dispatchService *usecase.NotificationDispatchService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		fixtureService:    fixtureService,
		matchResolver:     matchResolver,
		followService:     followService,
		preferenceService: preferenceService,
		predictionService: predictionService,
		castService:       castService,
		walletService:     walletService,
		dispatchService:   dispatchService,
		logger:            logger,
		validator:         validator.New(),
		now:               time.Now,
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// resolveFID reconciles a requested fid with the authenticated principal.
// Without a principal the requested fid is used as-is.
func resolveFID(ctx context.Context, requested int64) (int64, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return requested, nil
	}
	if requested == 0 {
		return principal.FID, nil
	}
	if requested != principal.FID {
		return 0, fmt.Errorf("%w: fid does not match the authenticated user", usecase.ErrUnauthorized)
	}
	return requested, nil
}

func parseFIDParam(raw string, required bool) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: fid is required", usecase.ErrInvalidInput)
		}
		return 0, nil
	}
	fid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || fid <= 0 {
		return 0, fmt.Errorf("%w: fid must be a positive integer", usecase.ErrInvalidInput)
	}
	return fid, nil
}

// flexibleInt accepts a JSON number or a numeric string. Mini-app clients
// send fids both ways.
type flexibleInt int64

func (v *flexibleInt) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*v = 0
		return nil
	}
	text := strings.TrimSpace(strings.Trim(string(raw), `"`))
	if text == "" {
		*v = 0
		return nil
	}
	parsed, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", raw)
	}
	*v = flexibleInt(parsed)
	return nil
}

// flexibleID accepts a JSON string or number and keeps the decimal text.
type flexibleID string

func (v *flexibleID) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*v = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		unquoted, err := strconv.Unquote(string(raw))
		if err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*v = flexibleID(strings.TrimSpace(unquoted))
		return nil
	}
	if _, err := strconv.ParseInt(string(raw), 10, 64); err != nil {
		return fmt.Errorf("expected id, got %s", raw)
	}
	*v = flexibleID(raw)
	return nil
}

type followRequest struct {
	MatchID flexibleID  `json:"matchId" validate:"required"`
	FID     flexibleInt `json:"fid" validate:"gte=0"`
}

type savePreferencesRequest struct {
	FID            flexibleInt `json:"fid" validate:"gte=0"`
	Genres         []string    `json:"genres" validate:"required,min=1,dive,oneof=lol csgo valorant"`
	FavoriteTeam   *string     `json:"favorite_team" validate:"omitempty,max=100"`
	FavoritePlayer *string     `json:"favorite_player" validate:"omitempty,max=100"`
}

type makePredictionRequest struct {
	MatchID         flexibleID  `json:"matchId"`
	PredictedWinner int         `json:"predictedWinner"`
	Amount          string      `json:"amount"`
	FID             flexibleInt `json:"fid"`
	WalletAddress   string      `json:"walletAddress"`
}

type claimRewardRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type castRequest struct {
	FID     flexibleInt `json:"fid" validate:"gte=0"`
	MatchID flexibleID  `json:"matchId" validate:"required"`
	Type    string      `json:"type" validate:"required"`
}

type teamDTO struct {
	Name *string `json:"name"`
	Logo *string `json:"logo"`
}

type scoreDTO struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

type matchDTO struct {
	ID          string   `json:"id"`
	GameType    string   `json:"gameType,omitempty"`
	League      string   `json:"league"`
	Team1       teamDTO  `json:"team1"`
	Team2       teamDTO  `json:"team2"`
	ScheduledAt *string  `json:"scheduledAt"`
	Status      string   `json:"status"`
	StreamURL   *string  `json:"streamUrl"`
	Score       scoreDTO `json:"score"`
	IsFollowed  *bool    `json:"isFollowed,omitempty"`
}

type followResponseDTO struct {
	Success           bool   `json:"success"`
	ReminderScheduled bool   `json:"reminderScheduled"`
	ReminderStatus    string `json:"reminderStatus"`
	NotifyAt          string `json:"notifyAt,omitempty"`
}

type successDTO struct {
	Success bool `json:"success"`
}

type preferencesDTO struct {
	FID            int64    `json:"fid"`
	Genres         []string `json:"genres"`
	FavoriteTeam   *string  `json:"favorite_team"`
	FavoritePlayer *string  `json:"favorite_player"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}

type predictionResponseDTO struct {
	Success           bool   `json:"success"`
	TransactionHash   string `json:"transactionHash"`
	Announced         bool   `json:"announced"`
	AnnouncementError string `json:"announcementError,omitempty"`
}

type predictionStatsDTO struct {
	MatchID   string `json:"matchId"`
	Team1Pool string `json:"team1Pool"`
	Team2Pool string `json:"team2Pool"`
	TotalPool string `json:"totalPool"`
	Winner    *int   `json:"winner"`
	Finalized bool   `json:"finalized"`
}

type transactionDTO struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash"`
}

type castResponseDTO struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Hash    string `json:"hash,omitempty"`
}

type walletAddressDTO struct {
	Address string `json:"address"`
}

type walletBalancesDTO struct {
	Address string  `json:"address"`
	ETH     string  `json:"eth"`
	USDC    *string `json:"usdc"`
}

type dispatchResultDTO struct {
	RunID   string `json:"runId"`
	Scanned int    `json:"scanned"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

func matchToDTO(m match.Match) matchDTO {
	out := matchDTO{
		ID:       m.ID,
		GameType: string(m.GameType),
		League:   m.League,
		Team1:    teamToDTO(m.Team1),
		Team2:    teamToDTO(m.Team2),
		Status:   string(m.Status),
		Score:    scoreDTO{Team1: m.Score.Team1, Team2: m.Score.Team2},
	}
	if !m.ScheduledAt.IsZero() {
		scheduled := m.ScheduledAt.UTC().Format(time.RFC3339)
		out.ScheduledAt = &scheduled
	}
	out.StreamURL = optionalString(m.StreamURL)
	return out
}

func fixtureItemsToDTO(items []usecase.FixtureItem) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		dto := matchToDTO(item.Match)
		dto.IsFollowed = item.IsFollowed
		out = append(out, dto)
	}
	return out
}

func teamToDTO(t match.Team) teamDTO {
	if !t.Present() {
		return teamDTO{}
	}
	return teamDTO{
		Name: optionalString(t.Name),
		Logo: optionalString(t.Logo),
	}
}

func preferencesToDTO(p preference.Preferences, exists bool) preferencesDTO {
	genres := make([]string, 0, len(p.Genres))
	for _, g := range p.Genres {
		genres = append(genres, string(g))
	}
	out := preferencesDTO{
		FID:            p.FID,
		Genres:         genres,
		FavoriteTeam:   optionalString(p.FavoriteTeam),
		FavoritePlayer: optionalString(p.FavoritePlayer),
	}
	if exists && !p.UpdatedAt.IsZero() {
		out.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
