package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pro-play/internal/domain/match"
)

func TestMatchResolver_ProbesNamespacesInOrder(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	provider.addMatch(match.GameValorant, ExternalMatch{
		ID:         5501,
		LeagueName: "VCT Masters",
		Opponents:  []ExternalOpponent{{Name: "Sentinels"}, {Name: "Fnatic"}},
		Status:     "not_started",
	})
	resolver := NewMatchResolver(provider, nil, nil)

	got, err := resolver.Resolve(t.Context(), "5501")
	if err != nil {
		t.Fatalf("resolve match: %v", err)
	}
	if got.GameType != match.GameValorant {
		t.Fatalf("unexpected game type: %s", got.GameType)
	}
	if got.Team1.Name != "Sentinels" || got.Status != match.StatusUpcoming {
		t.Fatalf("unexpected normalized match: %+v", got)
	}

	calls := provider.recordedCalls()
	want := []match.GameType{match.GameLoL, match.GameCSGO, match.GameValorant}
	if len(calls) != len(want) {
		t.Fatalf("unexpected probe count: got=%d want=%d", len(calls), len(want))
	}
	for i, game := range want {
		if calls[i].game != game || calls[i].matchID != "5501" {
			t.Fatalf("unexpected probe %d: %+v", i, calls[i])
		}
	}
}

func TestMatchResolver_StopsAtFirstHit(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	provider.addMatch(match.GameLoL, ExternalMatch{ID: 7})
	resolver := NewMatchResolver(provider, nil, nil)

	if _, err := resolver.Resolve(t.Context(), "7"); err != nil {
		t.Fatalf("resolve match: %v", err)
	}
	if calls := provider.recordedCalls(); len(calls) != 1 {
		t.Fatalf("expected one probe, got %d", len(calls))
	}
}

func TestMatchResolver_NotFoundAfterAllProbes(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	resolver := NewMatchResolver(provider, nil, nil)

	_, err := resolver.Resolve(t.Context(), "999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls := provider.recordedCalls(); len(calls) != 3 {
		t.Fatalf("expected three probes, got %d", len(calls))
	}
}

func TestMatchResolver_RejectsEmptyID(t *testing.T) {
	t.Parallel()

	resolver := NewMatchResolver(newFakeProvider(), nil, nil)
	if _, err := resolver.Resolve(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFirstSuccess_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	probes := 0
	candidates := []MatchLookup{
		{Name: "a", Fetch: func(context.Context, string) (match.Match, error) {
			probes++
			cancel()
			return match.Match{}, errors.New("miss")
		}},
		{Name: "b", Fetch: func(context.Context, string) (match.Match, error) {
			probes++
			return match.Match{ID: "1"}, nil
		}},
	}

	_, failures := FirstSuccess(ctx, "1", candidates)
	if probes != 1 {
		t.Fatalf("expected probing to stop after cancel, got %d probes", probes)
	}
	if len(failures) != 2 || !errors.Is(failures[1], context.Canceled) {
		t.Fatalf("unexpected failures: %v", failures)
	}
}

func TestNormalizeMatch_MissingSlotsAndScores(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got := NormalizeMatch(ExternalMatch{
		ID:          42,
		GameType:    match.GameCSGO,
		Opponents:   []ExternalOpponent{{Name: " NaVi ", ImageURL: "https://img/navi.png"}},
		ScheduledAt: &start,
		Status:      "running",
		Results:     []ExternalResult{{Score: 2}},
	})

	if got.ID != "42" || got.Status != match.StatusRunning {
		t.Fatalf("unexpected match: %+v", got)
	}
	if got.Team1.Name != "NaVi" || got.Team2.Present() {
		t.Fatalf("unexpected teams: %+v %+v", got.Team1, got.Team2)
	}
	if got.Score.Team1 != 2 || got.Score.Team2 != 0 {
		t.Fatalf("unexpected score: %+v", got.Score)
	}
	if !got.ScheduledAt.Equal(start) {
		t.Fatalf("unexpected start: %s", got.ScheduledAt)
	}
}

func TestMatchResolverFromLookups_TriesCandidatesInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	lookup := func(name string, hit bool) MatchLookup {
		return MatchLookup{
			Name: name,
			Fetch: func(_ context.Context, matchID string) (match.Match, error) {
				order = append(order, name)
				if !hit {
					return match.Match{}, errors.New(name + " miss")
				}
				return match.Match{ID: matchID, GameType: match.GameType(name)}, nil
			},
		}
	}

	resolver := NewMatchResolverFromLookups([]MatchLookup{
		lookup("first", false),
		lookup("second", true),
		lookup("third", true),
	}, nil)

	got, err := resolver.Resolve(t.Context(), "42")
	if err != nil {
		t.Fatalf("resolve match: %v", err)
	}
	if got.GameType != "second" {
		t.Fatalf("expected second candidate to win, got %q", got.GameType)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected candidate order: %v", order)
	}
}

func TestMatchResolverFromLookups_AllMissIsNotFound(t *testing.T) {
	t.Parallel()

	miss := MatchLookup{
		Name: "only",
		Fetch: func(context.Context, string) (match.Match, error) {
			return match.Match{}, errors.New("miss")
		},
	}
	resolver := NewMatchResolverFromLookups([]MatchLookup{miss}, nil)

	if _, err := resolver.Resolve(t.Context(), "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := NewMatchResolverFromLookups(nil, nil).Resolve(t.Context(), "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound with no candidates, got %v", err)
	}
}
