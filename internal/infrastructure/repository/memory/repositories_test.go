package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/follow"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/notification"
	"github.com/riskibarqy/pro-play/internal/domain/preference"
)

func TestFollowRepository_UniquePerFIDAndMatch(t *testing.T) {
	repo := NewFollowRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.Create(t.Context(), follow.FollowedMatch{FID: 1, MatchID: "a", CreatedAt: base}); err != nil {
		t.Fatalf("create follow: %v", err)
	}
	if err := repo.Create(t.Context(), follow.FollowedMatch{FID: 1, MatchID: "a", CreatedAt: base}); !errors.Is(err, follow.ErrAlreadyFollowed) {
		t.Fatalf("expected ErrAlreadyFollowed, got %v", err)
	}
	if err := repo.Create(t.Context(), follow.FollowedMatch{FID: 1, MatchID: "b", CreatedAt: base.Add(time.Hour)}); err != nil {
		t.Fatalf("create second follow: %v", err)
	}
	if err := repo.Create(t.Context(), follow.FollowedMatch{FID: 2, MatchID: "a", CreatedAt: base}); err != nil {
		t.Fatalf("create follow for another fid: %v", err)
	}

	items, err := repo.ListByFID(t.Context(), 1)
	if err != nil {
		t.Fatalf("list follows: %v", err)
	}
	if len(items) != 2 || items[0].MatchID != "b" || items[1].MatchID != "a" {
		t.Fatalf("expected newest follow first, got %+v", items)
	}

	if err := repo.Delete(t.Context(), 1, "a"); err != nil {
		t.Fatalf("delete follow: %v", err)
	}
	if err := repo.Delete(t.Context(), 1, "a"); err != nil {
		t.Fatalf("deleting a missing follow must be a no-op: %v", err)
	}
}

func TestNotificationRepository_DueLifecycle(t *testing.T) {
	repo := NewNotificationRepository()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	late, _ := repo.Create(t.Context(), notification.Notification{FID: 1, MatchID: "a", NotifyAt: now.Add(-time.Minute)})
	early, _ := repo.Create(t.Context(), notification.Notification{FID: 1, MatchID: "b", NotifyAt: now.Add(-time.Hour)})
	_, _ = repo.Create(t.Context(), notification.Notification{FID: 1, MatchID: "c", NotifyAt: now.Add(time.Hour)})

	due, err := repo.ListDue(t.Context(), now, 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 2 || due[0].ID != early.ID || due[1].ID != late.ID {
		t.Fatalf("unexpected due notifications: %+v", due)
	}

	if err := repo.MarkSent(t.Context(), early.ID, now); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if err := repo.DeleteUnsent(t.Context(), 1, "b"); err != nil {
		t.Fatalf("delete unsent: %v", err)
	}
	if err := repo.DeleteUnsent(t.Context(), 1, "a"); err != nil {
		t.Fatalf("delete unsent: %v", err)
	}

	due, _ = repo.ListDue(t.Context(), now.Add(2*time.Hour), 0)
	if len(due) != 1 || due[0].MatchID != "c" {
		t.Fatalf("expected only the future reminder to remain due, got %+v", due)
	}
	if _, ok := repo.items[early.ID]; !ok {
		t.Fatalf("sent reminders must survive DeleteUnsent")
	}
}

func TestPreferenceRepository_UpsertKeepsCreatedAt(t *testing.T) {
	repo := NewPreferenceRepository()
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	_ = repo.Upsert(t.Context(), preference.Preferences{FID: 5, Genres: []match.GameType{match.GameLoL}, CreatedAt: first, UpdatedAt: first})
	_ = repo.Upsert(t.Context(), preference.Preferences{FID: 5, Genres: []match.GameType{match.GameCSGO}, CreatedAt: second, UpdatedAt: second})

	got, ok, err := repo.GetByFID(t.Context(), 5)
	if err != nil || !ok {
		t.Fatalf("get preferences: ok=%v err=%v", ok, err)
	}
	if !got.CreatedAt.Equal(first) || !got.UpdatedAt.Equal(second) {
		t.Fatalf("unexpected timestamps: created=%s updated=%s", got.CreatedAt, got.UpdatedAt)
	}
	if len(got.Genres) != 1 || got.Genres[0] != match.GameCSGO {
		t.Fatalf("unexpected genres: %v", got.Genres)
	}

	got.Genres[0] = match.GameValorant
	again, _, _ := repo.GetByFID(t.Context(), 5)
	if again.Genres[0] != match.GameCSGO {
		t.Fatalf("stored genres must not alias returned slices")
	}
}
