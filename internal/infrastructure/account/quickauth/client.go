package quickauth

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pro-play/internal/domain/user"
	"github.com/riskibarqy/pro-play/internal/platform/cache"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/riskibarqy/pro-play/internal/platform/resilience"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

const (
	defaultTimeout         = 3 * time.Second
	defaultCacheTTL        = 5 * time.Minute
	defaultCacheMaxEntries = 10000
)

var errQuickAuthTransient = crerr.New("quick-auth transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	VerifyURL      string
	Domain         string
	Timeout        time.Duration
	CacheTTL       time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client verifies Farcaster quick-auth tokens and caches the resulting
// principal by token hash.
type Client struct {
	httpClient *http.Client
	verifyURL  string
	domain     string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	principals *cache.Store[user.Principal]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Client{
		httpClient: httpClient,
		verifyURL:  strings.TrimSpace(cfg.VerifyURL),
		domain:     strings.TrimSpace(cfg.Domain),
		logger:     logger.Named("quickauth"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		principals: cache.NewStore[user.Principal](ttl, defaultCacheMaxEntries),
	}
}

func (c *Client) VerifyToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	return c.principals.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (user.Principal, error) {
		var principal user.Principal
		err := c.breaker.Do(func() error {
			var verifyErr error
			principal, verifyErr = c.verify(ctx, token)
			return verifyErr
		}, isCircuitFailure)
		if err == nil {
			return principal, nil
		}
		if stderrors.Is(err, usecase.ErrUnauthorized) {
			return user.Principal{}, err
		}
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "quick-auth circuit breaker rejected request", "state", c.breaker.State())
		} else {
			c.logger.WarnContext(ctx, "quick-auth verification failed", "error", err)
		}
		return user.Principal{}, fmt.Errorf("%w: verify token: %v", usecase.ErrDependencyUnavailable, err)
	})
}

func (c *Client) verify(ctx context.Context, token string) (user.Principal, error) {
	if c.verifyURL == "" {
		return user.Principal{}, crerr.New("quick-auth verify url is not configured")
	}

	encoded, err := sonic.Marshal(verifyRequest{Token: token, Domain: c.domain})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal verify request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "create verify request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, crerr.Mark(crerr.Wrap(err, "request quick-auth verification"), errQuickAuthTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, crerr.Mark(crerr.Wrap(err, "read verify response"), errQuickAuthTransient)
	}
	if resp.StatusCode != http.StatusOK {
		statusErr := crerr.Newf("quick-auth verification failed with status %d", resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return user.Principal{}, crerr.Mark(statusErr, errQuickAuthTransient)
		}
		return user.Principal{}, statusErr
	}

	var decoded verifyResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal verify response")
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if decoded.FID <= 0 {
		return user.Principal{}, crerr.New("invalid verify response: fid is empty")
	}

	return user.Principal{FID: decoded.FID}, nil
}

type verifyRequest struct {
	Token  string `json:"token"`
	Domain string `json:"domain,omitempty"`
}

type verifyResponse struct {
	Active bool  `json:"active"`
	FID    int64 `json:"fid"`
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errQuickAuthTransient)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
