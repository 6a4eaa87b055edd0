package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pro-play/internal/domain/notification"
	"github.com/riskibarqy/pro-play/internal/platform/id"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
)

const (
	defaultDispatchBatch   = 100
	defaultDispatchWorkers = 8
	defaultClaimTTL        = 24 * time.Hour
	reminderTitle          = "Match starting soon"
)

// OutboundNotification is a mini-app push to one or more fids.
type OutboundNotification struct {
	ID        string
	FIDs      []int64
	Title     string
	Body      string
	TargetURL string
}

type NotificationSender interface {
	SendNotification(ctx context.Context, msg OutboundNotification) error
}

// DeliveryClaimer guards against two dispatchers sending the same reminder.
type DeliveryClaimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type DispatchConfig struct {
	BatchSize int
	Workers   int
	ClaimTTL  time.Duration
	TargetURL string
}

type DispatchResult struct {
	RunID   string
	Scanned int
	Sent    int
	Failed  int
	Skipped int
}

type NotificationDispatchService struct {
	repo    notification.Repository
	sender  NotificationSender
	claimer DeliveryClaimer
	ids     id.Generator
	cfg     DispatchConfig
	logger  *logging.Logger
	now     func() time.Time
}

func NewNotificationDispatchService(
	repo notification.Repository,
	sender NotificationSender,
	claimer DeliveryClaimer,
	ids id.Generator,
	cfg DispatchConfig,
	logger *logging.Logger,
) *NotificationDispatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultDispatchBatch
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultDispatchWorkers
	}
	if cfg.ClaimTTL <= 0 {
		cfg.ClaimTTL = defaultClaimTTL
	}

	return &NotificationDispatchService{
		repo:    repo,
		sender:  sender,
		claimer: claimer,
		ids:     ids,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// DispatchDue delivers every unsent reminder whose fire time has passed.
// Individual delivery failures are counted, not returned.
func (s *NotificationDispatchService) DispatchDue(ctx context.Context) (DispatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationDispatchService.DispatchDue")
	defer span.End()

	if s.sender == nil {
		return DispatchResult{}, fmt.Errorf("%w: notification sender is not configured", ErrDependencyUnavailable)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return DispatchResult{}, fmt.Errorf("generate dispatch run id: %w", err)
	}
	result := DispatchResult{RunID: runID}

	due, err := s.repo.ListDue(ctx, s.now().UTC(), s.cfg.BatchSize)
	if err != nil {
		return result, fmt.Errorf("%w: list due notifications: %v", ErrDependencyUnavailable, err)
	}
	result.Scanned = len(due)
	if len(due) == 0 {
		return result, nil
	}

	workerCount := s.cfg.Workers
	if workerCount > len(due) {
		workerCount = len(due)
	}
	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return result, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var sent, failed, skipped atomic.Int32
	var wg sync.WaitGroup
	for _, item := range due {
		item := item
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			switch s.deliver(ctx, runID, item) {
			case deliverySent:
				sent.Add(1)
			case deliverySkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
		}); err != nil {
			wg.Done()
			failed.Add(1)
			s.logger.ErrorContext(ctx, "submit notification delivery failed", "run_id", runID, "notification_id", item.ID, "error", err)
		}
	}
	wg.Wait()

	result.Sent = int(sent.Load())
	result.Failed = int(failed.Load())
	result.Skipped = int(skipped.Load())
	s.logger.InfoContext(ctx, "notification dispatch finished",
		"run_id", runID,
		"scanned", result.Scanned,
		"sent", result.Sent,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return result, nil
}

type deliveryStatus int

const (
	deliveryFailed deliveryStatus = iota
	deliverySent
	deliverySkipped
)

func (s *NotificationDispatchService) deliver(ctx context.Context, runID string, item notification.Notification) deliveryStatus {
	key := "notify:" + strconv.FormatInt(item.ID, 10)
	if s.claimer != nil {
		claimed, err := s.claimer.Claim(ctx, key, s.cfg.ClaimTTL)
		if err != nil {
			s.logger.WarnContext(ctx, "claim notification failed", "run_id", runID, "notification_id", item.ID, "error", err)
			return deliveryFailed
		}
		if !claimed {
			return deliverySkipped
		}
	}

	err := s.sender.SendNotification(ctx, OutboundNotification{
		ID:        reminderNotificationID(item),
		FIDs:      []int64{item.FID},
		Title:     reminderTitle,
		Body:      item.Message,
		TargetURL: s.targetURL(item.MatchID),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "send notification failed", "run_id", runID, "notification_id", item.ID, "fid", item.FID, "error", err)
		if s.claimer != nil {
			if releaseErr := s.claimer.Release(ctx, key); releaseErr != nil {
				s.logger.WarnContext(ctx, "release notification claim failed", "notification_id", item.ID, "error", releaseErr)
			}
		}
		return deliveryFailed
	}

	if err := s.repo.MarkSent(ctx, item.ID, s.now().UTC()); err != nil {
		// The claim stays in place so the reminder is not sent twice.
		s.logger.ErrorContext(ctx, "mark notification sent failed", "run_id", runID, "notification_id", item.ID, "error", err)
		return deliveryFailed
	}
	return deliverySent
}

func (s *NotificationDispatchService) targetURL(matchID string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.TargetURL), "/")
	if base == "" {
		return ""
	}
	return base + "/match/" + matchID
}

// reminderNotificationID is stable per reminder so the social API can
// deduplicate retries.
func reminderNotificationID(item notification.Notification) string {
	return "reminder-" + strconv.FormatInt(item.FID, 10) + "-" + item.MatchID + "-" + strconv.FormatInt(item.NotifyAt.Unix(), 10)
}
