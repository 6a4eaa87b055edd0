package pandascore

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/riskibarqy/pro-play/internal/platform/resilience"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.pandascore.co"
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 4 << 20
)

var errCircuitOpen = crerr.New("pandascore circuit breaker is open")

// ProviderError is any failed provider read. It always matches
// usecase.ErrDependencyUnavailable.
type ProviderError struct {
	Game       match.GameType
	Path       string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("pandascore %s %s: status=%d: %v", e.Game, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("pandascore %s %s: %v", e.Game, e.Path, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	return []error{usecase.ErrDependencyUnavailable, e.Err}
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		logger:     logger.Named("pandascore"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

func (c *Client) ListMatches(ctx context.Context, game match.GameType, mode match.Mode, perPage int) ([]usecase.ExternalMatch, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: unsupported game type %q", usecase.ErrInvalidInput, game)
	}
	if mode != match.ModeUpcoming && mode != match.ModeLive {
		return nil, fmt.Errorf("%w: unsupported mode %q", usecase.ErrInvalidInput, mode)
	}
	if perPage <= 0 {
		perPage = usecase.DefaultPageSize
	}

	path := "/" + string(game) + "/matches/" + string(mode)
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))

	var payload []matchPayload
	if err := c.getJSON(ctx, game, path, query, &payload); err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalMatch, 0, len(payload))
	for _, item := range payload {
		out = append(out, toExternalMatch(item, game))
	}
	return out, nil
}

func (c *Client) GetMatch(ctx context.Context, game match.GameType, matchID string) (usecase.ExternalMatch, error) {
	if !game.Valid() {
		return usecase.ExternalMatch{}, fmt.Errorf("%w: unsupported game type %q", usecase.ErrInvalidInput, game)
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.ExternalMatch{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	path := "/" + string(game) + "/matches/" + url.PathEscape(matchID)
	var payload matchPayload
	if err := c.getJSON(ctx, game, path, nil, &payload); err != nil {
		return usecase.ExternalMatch{}, err
	}
	return toExternalMatch(payload, game), nil
}

func (c *Client) getJSON(ctx context.Context, game match.GameType, path string, query url.Values, target any) error {
	var statusCode int
	err := c.breaker.Do(func() error {
		raw, status, err := c.execute(ctx, path, query)
		statusCode = status
		if err != nil {
			return err
		}
		if err := sonic.Unmarshal(raw, target); err != nil {
			return crerr.Wrap(err, "decode provider payload")
		}
		return nil
	}, countsAsCircuitFailure)
	if err == nil {
		return nil
	}

	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "pandascore circuit breaker rejected request", "game", game, "path", path, "state", c.breaker.State())
		err = errCircuitOpen
	} else if ctxErr := ctx.Err(); ctxErr != nil {
		err = crerr.Wrap(ctxErr, "provider request cancelled")
	}
	if statusCode != http.StatusNotFound {
		c.logger.WarnContext(ctx, "pandascore request failed", "game", game, "path", path, "status", statusCode, "error", err)
	}
	return &ProviderError{Game: game, Path: path, StatusCode: statusCode, Err: err}
}

func (c *Client) execute(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, crerr.Newf("send request: %s", sanitizeSensitiveText(err.Error(), c.token))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, crerr.Wrap(err, "read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &statusError{code: resp.StatusCode, body: sanitizeSensitiveText(abbreviateBody(raw), c.token)}
	}
	return raw, resp.StatusCode, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d body=%s", e.code, e.body)
}

// countsAsCircuitFailure keeps 4xx answers other than 429 from tripping the
// breaker. A missing match in one namespace is a normal resolver probe result.
func countsAsCircuitFailure(err error) bool {
	var se *statusError
	if stderrors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return true
}

func toExternalMatch(item matchPayload, game match.GameType) usecase.ExternalMatch {
	out := usecase.ExternalMatch{
		ID:         item.ID,
		GameType:   game,
		LeagueName: strings.TrimSpace(item.League.Name),
		Status:     strings.TrimSpace(item.Status),
	}
	if slug, ok := match.ParseGameType(item.Videogame.Slug); ok {
		out.GameType = slug
	}

	scheduled := item.ScheduledAt
	if scheduled == nil || strings.TrimSpace(*scheduled) == "" {
		scheduled = item.BeginAt
	}
	out.ScheduledAt = parseProviderTime(scheduled)

	if item.LiveURL != nil {
		out.LiveURL = strings.TrimSpace(*item.LiveURL)
	}
	if out.LiveURL == "" {
		for _, stream := range item.Streams {
			if stream.Main && strings.TrimSpace(stream.RawURL) != "" {
				out.LiveURL = strings.TrimSpace(stream.RawURL)
				break
			}
		}
	}

	out.Opponents = make([]usecase.ExternalOpponent, 0, len(item.Opponents))
	for _, slot := range item.Opponents {
		opponent := usecase.ExternalOpponent{
			ID:   slot.Opponent.ID,
			Name: strings.TrimSpace(slot.Opponent.Name),
		}
		if slot.Opponent.ImageURL != nil {
			opponent.ImageURL = strings.TrimSpace(*slot.Opponent.ImageURL)
		}
		out.Opponents = append(out.Opponents, opponent)
	}

	out.Results = orderResults(item.Results, out.Opponents)
	return out
}

// orderResults lines results up with the opponent slots by team id. Results
// without a matching opponent keep their provider position.
func orderResults(results []resultPayload, opponents []usecase.ExternalOpponent) []usecase.ExternalResult {
	if len(results) == 0 {
		return nil
	}
	byTeam := make(map[int64]int, len(results))
	for _, r := range results {
		byTeam[r.TeamID] = r.Score
	}

	out := make([]usecase.ExternalResult, 0, len(results))
	matched := 0
	for _, opponent := range opponents {
		score, ok := byTeam[opponent.ID]
		if !ok {
			break
		}
		out = append(out, usecase.ExternalResult{TeamID: opponent.ID, Score: score})
		matched++
	}
	if matched == len(opponents) && matched > 0 {
		return out
	}

	out = out[:0]
	for _, r := range results {
		out = append(out, usecase.ExternalResult{TeamID: r.TeamID, Score: r.Score})
	}
	return out
}

func parseProviderTime(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	parsed = parsed.UTC()
	return &parsed
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
