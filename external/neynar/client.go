package neynar

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/riskibarqy/pro-play/internal/platform/resilience"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.neynar.com"
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20

	castPath         = "/v2/farcaster/cast"
	notificationPath = "/v2/farcaster/frame/notifications"
)

var errNotConfigured = crerr.New("neynar api key or signer is not configured")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	SignerUUID     string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client publishes casts through a managed signer and pushes mini-app
// notifications.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	signerUUID string
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
		apiKey:     strings.TrimSpace(cfg.APIKey),
		signerUUID: strings.TrimSpace(cfg.SignerUUID),
		logger:     logger.Named("neynar"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// CanPublish reports whether both the API key and the signer are set.
func (c *Client) CanPublish() bool {
	return c.apiKey != "" && c.signerUUID != ""
}

func (c *Client) PublishCast(ctx context.Context, post usecase.CastPost) (string, error) {
	if !c.CanPublish() {
		return "", fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, errNotConfigured)
	}

	payload := publishCastRequest{
		SignerUUID: c.signerUUID,
		Text:       post.Text,
	}
	for _, embed := range post.EmbedURLs {
		if embed = strings.TrimSpace(embed); embed != "" {
			payload.Embeds = append(payload.Embeds, castEmbed{URL: embed})
		}
	}

	var out publishCastResponse
	if err := c.postJSON(ctx, castPath, payload, &out); err != nil {
		c.logger.WarnContext(ctx, "publish cast failed", "fid", post.FID, "error", err)
		return "", err
	}

	c.logger.InfoContext(ctx, "cast published", "fid", post.FID, "hash", out.Cast.Hash)
	return out.Cast.Hash, nil
}

func (c *Client) SendNotification(ctx context.Context, msg usecase.OutboundNotification) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, errNotConfigured)
	}
	if len(msg.FIDs) == 0 {
		return fmt.Errorf("%w: notification needs at least one fid", usecase.ErrInvalidInput)
	}

	payload := sendNotificationRequest{
		TargetFIDs: msg.FIDs,
		Notification: notificationBody{
			Title:     msg.Title,
			Body:      msg.Body,
			TargetURL: msg.TargetURL,
			UUID:      msg.ID,
		},
	}

	var out sendNotificationResponse
	if err := c.postJSON(ctx, notificationPath, payload, &out); err != nil {
		return err
	}

	failed := 0
	for _, delivery := range out.Deliveries {
		if strings.EqualFold(delivery.Status, "failed") {
			failed++
		}
	}
	if len(out.Deliveries) > 0 && failed == len(out.Deliveries) {
		return fmt.Errorf("%w: notification %s was not delivered to any fid", usecase.ErrDependencyUnavailable, msg.ID)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, target any) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal neynar payload")
	}

	err = c.breaker.Do(func() error {
		return c.execute(ctx, path, body, target)
	}, countsAsCircuitFailure)
	if err == nil {
		return nil
	}
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "neynar circuit breaker rejected request", "path", path, "state", c.breaker.State())
	}
	return fmt.Errorf("%w: neynar %s: %v", usecase.ErrDependencyUnavailable, path, err)
}

func (c *Client) execute(ctx context.Context, path string, body []byte, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return crerr.Newf("send request: %s", redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return crerr.Wrap(err, "read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, message: errorMessage(raw)}
	}
	if target == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode neynar response")
	}
	return nil
}

type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status=%d message=%s", e.code, e.message)
}

func countsAsCircuitFailure(err error) bool {
	var se *statusError
	if stderrors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return true
}

func errorMessage(raw []byte) string {
	var payload errorResponse
	if err := sonic.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return strings.TrimSpace(payload.Message)
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 256 {
		text = text[:256] + "..."
	}
	return text
}

func redact(value, secret string) string {
	if secret == "" {
		return value
	}
	return strings.ReplaceAll(value, secret, "REDACTED")
}
