package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/follow"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/notification"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultReminderLead        = 30 * time.Minute
	defaultFollowResolveWorker = 8
)

// ReminderScheduler triggers delivery of a stored reminder after delay.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, item notification.Notification, delay time.Duration) error
}

type ReminderStatus string

const (
	ReminderScheduled         ReminderStatus = "scheduled"
	ReminderSkippedPast       ReminderStatus = "skipped_past"
	ReminderSkippedUnschedule ReminderStatus = "skipped_unscheduled"
	ReminderFailed            ReminderStatus = "failed"
)

// ReminderOutcome is the best-effort half of a follow. Err is set when the
// reminder could not be stored; EnqueueErr when the stored reminder could not
// be handed to the delayed-job queue.
type ReminderOutcome struct {
	Status     ReminderStatus
	NotifyAt   time.Time
	Err        error
	EnqueueErr error
}

// FollowResult separates the recorded follow from the reminder outcome.
type FollowResult struct {
	Follow   follow.FollowedMatch
	Reminder ReminderOutcome
}

type FollowService struct {
	follows       follow.Repository
	notifications notification.Repository
	matches       MatchFinder
	scheduler     ReminderScheduler
	lead          time.Duration
	logger        *logging.Logger
	now           func() time.Time
}

func NewFollowService(
	follows follow.Repository,
	notifications notification.Repository,
	matches MatchFinder,
	scheduler ReminderScheduler,
	lead time.Duration,
	logger *logging.Logger,
) *FollowService {
	if logger == nil {
		logger = logging.Default()
	}
	if lead <= 0 {
		lead = DefaultReminderLead
	}

	return &FollowService{
		follows:       follows,
		notifications: notifications,
		matches:       matches,
		scheduler:     scheduler,
		lead:          lead,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *FollowService) Follow(ctx context.Context, fid int64, matchID string) (FollowResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FollowService.Follow")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if err := validateFollowKey(fid, matchID); err != nil {
		return FollowResult{}, err
	}

	now := s.now().UTC()
	item := follow.FollowedMatch{
		FID:       fid,
		MatchID:   matchID,
		CreatedAt: now,
	}
	if err := s.follows.Create(ctx, item); err != nil {
		if errors.Is(err, follow.ErrAlreadyFollowed) {
			return FollowResult{}, fmt.Errorf("%w: match %s is already followed", ErrConflict, matchID)
		}
		return FollowResult{}, fmt.Errorf("%w: record follow: %v", ErrDependencyUnavailable, err)
	}

	result := FollowResult{
		Follow:   item,
		Reminder: s.scheduleReminder(ctx, fid, matchID, now),
	}
	if result.Reminder.Err != nil || result.Reminder.EnqueueErr != nil {
		s.logger.WarnContext(ctx, "follow recorded without reminder",
			"fid", fid,
			"match_id", matchID,
			"reminder_status", result.Reminder.Status,
			"error", result.Reminder.Err,
			"enqueue_error", result.Reminder.EnqueueErr,
		)
	}

	return result, nil
}

func (s *FollowService) scheduleReminder(ctx context.Context, fid int64, matchID string, now time.Time) ReminderOutcome {
	resolved, err := s.matches.Resolve(ctx, matchID)
	if err != nil {
		return ReminderOutcome{Status: ReminderFailed, Err: fmt.Errorf("resolve match: %w", err)}
	}
	if resolved.ScheduledAt.IsZero() {
		return ReminderOutcome{Status: ReminderSkippedUnschedule}
	}

	notifyAt := resolved.ScheduledAt.Add(-s.lead)
	if !notifyAt.After(now) {
		return ReminderOutcome{Status: ReminderSkippedPast, NotifyAt: notifyAt}
	}

	saved, err := s.notifications.Create(ctx, notification.Notification{
		FID:       fid,
		MatchID:   matchID,
		NotifyAt:  notifyAt,
		Message:   ReminderMessage(resolved, s.lead),
		CreatedAt: now,
	})
	if err != nil {
		return ReminderOutcome{Status: ReminderFailed, NotifyAt: notifyAt, Err: fmt.Errorf("store reminder: %w", err)}
	}

	outcome := ReminderOutcome{Status: ReminderScheduled, NotifyAt: notifyAt}
	if s.scheduler != nil {
		if err := s.scheduler.ScheduleReminder(ctx, saved, notifyAt.Sub(now)); err != nil {
			outcome.EnqueueErr = err
		}
	}
	return outcome
}

// Unfollow deletes the relation, then any undelivered reminder. A failed
// relation delete leaves the reminder untouched.
func (s *FollowService) Unfollow(ctx context.Context, fid int64, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FollowService.Unfollow")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if err := validateFollowKey(fid, matchID); err != nil {
		return err
	}

	if err := s.follows.Delete(ctx, fid, matchID); err != nil {
		return fmt.Errorf("%w: delete follow: %v", ErrDependencyUnavailable, err)
	}
	if err := s.notifications.DeleteUnsent(ctx, fid, matchID); err != nil {
		return fmt.Errorf("%w: follow removed but pending reminder cleanup failed: %v", ErrDependencyUnavailable, err)
	}

	return nil
}

// ListFollowed resolves every followed match, newest follow first. Matches
// that cannot be resolved are dropped.
func (s *FollowService) ListFollowed(ctx context.Context, fid int64) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FollowService.ListFollowed")
	defer span.End()

	if fid <= 0 {
		return nil, fmt.Errorf("%w: fid must be positive", ErrInvalidInput)
	}

	rows, err := s.follows.ListByFID(ctx, fid)
	if err != nil {
		return nil, fmt.Errorf("%w: list follows: %v", ErrDependencyUnavailable, err)
	}
	if len(rows) == 0 {
		return []match.Match{}, nil
	}

	resolved := make([]*match.Match, len(rows))
	p := pool.New().WithMaxGoroutines(defaultFollowResolveWorker)
	for i, row := range rows {
		i, row := i, row
		p.Go(func() {
			m, err := s.matches.Resolve(ctx, row.MatchID)
			if err != nil {
				s.logger.DebugContext(ctx, "dropping unresolved followed match", "fid", fid, "match_id", row.MatchID, "error", err)
				return
			}
			resolved[i] = &m
		})
	}
	p.Wait()

	out := make([]match.Match, 0, len(rows))
	for _, m := range resolved {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

// ReminderMessage renders the reminder text for a followed match.
func ReminderMessage(m match.Match, lead time.Duration) string {
	team1, team2 := m.DisplayNames()
	return fmt.Sprintf("🎮 Your followed match %s vs %s starts in %d minutes!", team1, team2, int(lead.Minutes()))
}

func validateFollowKey(fid int64, matchID string) error {
	if fid <= 0 {
		return fmt.Errorf("%w: fid must be positive", ErrInvalidInput)
	}
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	return nil
}
