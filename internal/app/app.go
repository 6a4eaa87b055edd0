package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/pro-play/external/neynar"
	"github.com/riskibarqy/pro-play/external/pandascore"
	"github.com/riskibarqy/pro-play/internal/config"
	"github.com/riskibarqy/pro-play/internal/domain/follow"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/notification"
	"github.com/riskibarqy/pro-play/internal/domain/preference"
	"github.com/riskibarqy/pro-play/internal/infrastructure/account/quickauth"
	"github.com/riskibarqy/pro-play/internal/infrastructure/chain"
	"github.com/riskibarqy/pro-play/internal/infrastructure/dedup"
	"github.com/riskibarqy/pro-play/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/pro-play/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pro-play/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pro-play/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pro-play/internal/interfaces/httpapi"
	"github.com/riskibarqy/pro-play/internal/platform/id"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/riskibarqy/pro-play/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	dbPingTimeout          = 5 * time.Second
	preferenceCacheEntries = 10000
)

// App owns the HTTP server, the reminder dispatcher and every connection
// they depend on.
type App struct {
	Server     *http.Server
	Dispatcher *usecase.NotificationDispatchService

	logger  *logging.Logger
	closers []func() error
}

type stores struct {
	preferences   preference.Repository
	follows       follow.Repository
	notifications notification.Repository
}

// New wires the application from configuration. Optional integrations that
// are not configured degrade to unavailable features instead of failing.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	built := false
	defer func() {
		if !built {
			_ = a.Close()
		}
	}()

	repos, err := a.openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	provider := pandascore.NewClient(pandascore.ClientConfig{
		HTTPClient:     tracedHTTPClient(cfg.PandaScoreTimeout),
		BaseURL:        cfg.PandaScoreBaseURL,
		Token:          cfg.PandaScoreToken,
		Timeout:        cfg.PandaScoreTimeout,
		Logger:         logger,
		CircuitBreaker: cfg.PandaScoreCircuit,
	})
	if cfg.PandaScoreToken == "" {
		logger.Warn("PANDASCORE_TOKEN is empty, provider requests will be rejected upstream")
	}
	resolver := usecase.NewMatchResolver(provider, match.SupportedGameTypes(), logger)

	var (
		publisher usecase.CastPublisher
		sender    usecase.NotificationSender
	)
	if cfg.NeynarAPIKey != "" {
		social := neynar.NewClient(neynar.ClientConfig{
			HTTPClient:     tracedHTTPClient(cfg.NeynarTimeout),
			BaseURL:        cfg.NeynarBaseURL,
			APIKey:         cfg.NeynarAPIKey,
			SignerUUID:     cfg.NeynarSignerUUID,
			Timeout:        cfg.NeynarTimeout,
			Logger:         logger,
			CircuitBreaker: cfg.NeynarCircuit,
		})
		sender = social
		if social.CanPublish() {
			publisher = social
		} else {
			logger.Warn("NEYNAR_SIGNER_UUID is empty, casting is disabled")
		}
	} else {
		logger.Warn("NEYNAR_API_KEY is empty, casting and notifications are disabled")
	}

	staking, balances, err := a.connectChain(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if !staking.Configured() {
		logger.Warn("predictions are unavailable, stake, stats and claim requests will return 503")
	}

	scheduler, err := a.reminderScheduler(cfg)
	if err != nil {
		return nil, err
	}
	claimer, err := a.deliveryClaimer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.Dispatcher = usecase.NewNotificationDispatchService(
		repos.notifications,
		sender,
		claimer,
		id.NewUUIDGenerator(),
		usecase.DispatchConfig{
			BatchSize: cfg.NotifyDispatchBatch,
			Workers:   cfg.NotifyDispatchWorkers,
			ClaimTTL:  cfg.NotifyDedupTTL,
			TargetURL: cfg.NotifyTargetURL,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		usecase.NewFixtureService(provider, repos.preferences, repos.follows, cfg.PandaScorePageSize, logger),
		resolver,
		usecase.NewFollowService(repos.follows, repos.notifications, resolver, scheduler, cfg.NotifyLeadTime, logger),
		usecase.NewPreferenceService(repos.preferences, logger),
		usecase.NewPredictionService(staking, publisher, logger),
		usecase.NewCastService(resolver, publisher, cfg.CastLinkBaseURL, logger),
		usecase.NewWalletService(balances, cfg.DemoWalletAddress, logger),
		a.Dispatcher,
		logger,
	)

	var verifier httpapi.TokenVerifier
	if cfg.QuickAuthEnabled {
		verifier = quickauth.NewClient(quickauth.ClientConfig{
			HTTPClient:     tracedHTTPClient(cfg.QuickAuthTimeout),
			VerifyURL:      cfg.QuickAuthVerifyURL,
			Domain:         cfg.QuickAuthDomain,
			Timeout:        cfg.QuickAuthTimeout,
			CacheTTL:       cfg.QuickAuthCacheTTL,
			Logger:         logger,
			CircuitBreaker: cfg.QuickAuthCircuit,
		})
	}

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	built = true
	return a, nil
}

// tracedHTTPClient gives each outbound integration its own client so
// per-integration timeouts stay independent.
func tracedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func (a *App) openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		a.logger.Warn("using in-memory store, data is lost on restart")
		return stores{
			preferences:   memory.NewPreferenceRepository(),
			follows:       memory.NewFollowRepository(),
			notifications: memory.NewNotificationRepository(),
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return stores{}, err
	}
	a.closers = append(a.closers, db.Close)
	a.logger.Info("postgres connected", "db_name", dbNameFromURL(cfg.DBURL))

	var preferences preference.Repository = postgres.NewPreferenceRepository(db)
	if cfg.PreferenceCacheTTL > 0 {
		preferences = cache.NewPreferenceRepository(preferences, cfg.PreferenceCacheTTL, preferenceCacheEntries)
	}

	return stores{
		preferences:   preferences,
		follows:       postgres.NewFollowRepository(db),
		notifications: postgres.NewNotificationRepository(db),
	}, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// connectChain returns the staking handle and balance reader. Without a pool
// address predictions report unavailable; wallet balances still work.
func (a *App) connectChain(ctx context.Context, cfg config.Config) (usecase.StakingHandle, usecase.BalanceReader, error) {
	if cfg.ChainRPCURL == "" {
		return usecase.UnconfiguredStaking("CHAIN_RPC_URL is not set"), nil, nil
	}

	client, err := chain.Dial(ctx, chain.Config{
		RPCURL:              cfg.ChainRPCURL,
		SignerPrivateKey:    cfg.ChainSignerPrivateKey,
		ReceiptPollInterval: cfg.ChainReceiptPollInterval,
		ReceiptTimeout:      cfg.ChainReceiptTimeout,
		Logger:              a.logger,
	})
	if err != nil {
		a.logger.Warn("chain rpc unavailable, predictions and wallet balances are disabled", "rpc_url", cfg.ChainRPCURL, "error", err)
		return usecase.UnconfiguredStaking("chain rpc is unavailable"), nil, nil
	}
	a.closers = append(a.closers, func() error {
		client.Close()
		return nil
	})

	var token *common.Address
	if cfg.USDCTokenAddress != "" {
		if !common.IsHexAddress(cfg.USDCTokenAddress) {
			return usecase.StakingHandle{}, nil, fmt.Errorf("invalid USDC_TOKEN_ADDRESS %q", cfg.USDCTokenAddress)
		}
		addr := common.HexToAddress(cfg.USDCTokenAddress)
		token = &addr
	}
	balances := chain.NewBalanceReader(client, token)

	if cfg.PredictionPoolAddress == "" {
		a.logger.Warn("PREDICTION_POOL_ADDRESS is empty, predictions are disabled")
		return usecase.UnconfiguredStaking("PREDICTION_POOL_ADDRESS is not set"), balances, nil
	}
	if !common.IsHexAddress(cfg.PredictionPoolAddress) {
		return usecase.StakingHandle{}, nil, fmt.Errorf("invalid PREDICTION_POOL_ADDRESS %q", cfg.PredictionPoolAddress)
	}
	pool := chain.NewPredictionPool(client, common.HexToAddress(cfg.PredictionPoolAddress))
	a.logger.Info("prediction pool configured", "address", cfg.PredictionPoolAddress, "rpc_url", cfg.ChainRPCURL)

	return usecase.ConfiguredStaking(pool), balances, nil
}

func (a *App) reminderScheduler(cfg config.Config) (usecase.ReminderScheduler, error) {
	if !cfg.QStashEnabled {
		return nil, nil
	}
	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker:   cfg.QStashCircuit,
	}, a.logger)
	return jobqueue.NewReminderScheduler(publisher), nil
}

func (a *App) deliveryClaimer(ctx context.Context, cfg config.Config) (usecase.DeliveryClaimer, error) {
	if cfg.RedisURL == "" {
		return dedup.NewMemoryClaimer(), nil
	}

	client, err := dedup.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return dedup.NewRedisClaimer(client, ""), nil
}

// RunDispatcher drains due reminders every interval until ctx is done. It is
// the in-process alternative to QStash wake-ups.
func (a *App) RunDispatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 || a.Dispatcher == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("notification dispatcher started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			result, err := a.Dispatcher.DispatchDue(ctx)
			if err != nil {
				if errors.Is(err, usecase.ErrDependencyUnavailable) {
					a.logger.Warn("notification dispatcher idle", "error", err)
					continue
				}
				a.logger.Error("dispatch due notifications failed", "error", err)
				continue
			}
			if result.Scanned > 0 {
				a.logger.Info("dispatched due notifications",
					"run_id", result.RunID,
					"scanned", result.Scanned,
					"sent", result.Sent,
					"failed", result.Failed,
					"skipped", result.Skipped,
				)
			}
		}
	}
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
