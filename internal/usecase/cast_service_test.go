package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/cast"
	"github.com/riskibarqy/pro-play/internal/domain/match"
)

func TestComposeCast_Templates(t *testing.T) {
	t.Parallel()

	m := match.Match{
		ID:          "900",
		Team1:       match.Team{Name: "T1"},
		Team2:       match.Team{Name: "BLG"},
		ScheduledAt: time.Date(2026, 11, 2, 14, 30, 0, 0, time.UTC),
		Score:       match.Score{Team1: 1, Team2: 0},
	}

	share, err := ComposeCast(m, cast.KindShare)
	if err != nil {
		t.Fatalf("compose share cast: %v", err)
	}
	if !strings.Contains(share, "T1 vs BLG") || !strings.Contains(share, "Nov 2, 2026 2:30 PM UTC") {
		t.Fatalf("unexpected share text: %q", share)
	}

	live, err := ComposeCast(m, cast.KindLive)
	if err != nil {
		t.Fatalf("compose live cast: %v", err)
	}
	if !strings.HasPrefix(live, "🔴 LIVE NOW!") || !strings.Contains(live, "T1 1 - 0 BLG") {
		t.Fatalf("unexpected live text: %q", live)
	}

	result, err := ComposeCast(m, cast.KindResult)
	if err != nil {
		t.Fatalf("compose result cast: %v", err)
	}
	if !strings.Contains(result, "🏆 Match Result:") || !strings.Contains(result, "T1 1 - 0 BLG") {
		t.Fatalf("unexpected result text: %q", result)
	}
}

func TestComposeCast_MissingTeamsAndTime(t *testing.T) {
	t.Parallel()

	text, err := ComposeCast(match.Match{ID: "1"}, cast.KindShare)
	if err != nil {
		t.Fatalf("compose share cast: %v", err)
	}
	if !strings.Contains(text, "TBD vs TBD") || !strings.Contains(text, "TBA") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestCastService_Cast_PublishesWithEmbed(t *testing.T) {
	t.Parallel()

	finder := staticFinder{"900": {ID: "900", Team1: match.Team{Name: "T1"}, Team2: match.Team{Name: "BLG"}}}
	publisher := &recordingPublisher{hash: "0xabc"}
	service := NewCastService(finder, publisher, "https://example.test/match/", nil)

	got, err := service.Cast(t.Context(), CastInput{FID: 4, MatchID: "900", Kind: "share"})
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if got.Hash != "0xabc" || got.EmbedURL != "https://example.test/match/900" {
		t.Fatalf("unexpected cast result: %+v", got)
	}
	if len(publisher.posts) != 1 || publisher.posts[0].FID != 4 || publisher.posts[0].EmbedURLs[0] != got.EmbedURL {
		t.Fatalf("unexpected published post: %+v", publisher.posts)
	}
}

func TestCastService_Cast_UnknownKindPublishesNothing(t *testing.T) {
	t.Parallel()

	publisher := &recordingPublisher{}
	service := NewCastService(staticFinder{}, publisher, "", nil)

	if _, err := service.Cast(t.Context(), CastInput{FID: 4, MatchID: "900", Kind: "meme"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(publisher.posts) != 0 {
		t.Fatalf("expected no post for an unknown cast type")
	}
}

func TestCastService_Cast_NoPublisherIsUnavailable(t *testing.T) {
	t.Parallel()

	service := NewCastService(staticFinder{}, nil, "", nil)
	if _, err := service.Cast(t.Context(), CastInput{FID: 4, MatchID: "900", Kind: "live"}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
