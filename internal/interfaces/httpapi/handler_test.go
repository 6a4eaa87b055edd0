package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/domain/user"
	"github.com/riskibarqy/pro-play/internal/infrastructure/dedup"
	"github.com/riskibarqy/pro-play/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pro-play/internal/platform/id"
	"github.com/riskibarqy/pro-play/internal/platform/logging"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

const testDemoWallet = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"

type stubProvider struct {
	mu       sync.Mutex
	listings map[match.GameType][]usecase.ExternalMatch
}

func (p *stubProvider) ListMatches(_ context.Context, game match.GameType, _ match.Mode, _ int) ([]usecase.ExternalMatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]usecase.ExternalMatch(nil), p.listings[game]...), nil
}

func (p *stubProvider) GetMatch(_ context.Context, game match.GameType, matchID string) (usecase.ExternalMatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.listings[game] {
		if fmt.Sprint(item.ID) == matchID {
			return item, nil
		}
	}
	return usecase.ExternalMatch{}, fmt.Errorf("%w: match %s not found", usecase.ErrDependencyUnavailable, matchID)
}

type stubVerifier struct {
	fid int64
}

func (v stubVerifier) VerifyToken(_ context.Context, token string) (user.Principal, error) {
	if token != "good-token" {
		return user.Principal{}, fmt.Errorf("%w: bad token", usecase.ErrUnauthorized)
	}
	return user.Principal{FID: v.fid}, nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []usecase.OutboundNotification
}

func (s *recordingSender) SendNotification(_ context.Context, msg usecase.OutboundNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

type apiFixture struct {
	router   http.Handler
	provider *stubProvider
	sender   *recordingSender
}

func newAPIFixture(t *testing.T, verifier TokenVerifier) *apiFixture {
	t.Helper()

	start := time.Now().Add(3 * time.Hour).UTC()
	provider := &stubProvider{listings: map[match.GameType][]usecase.ExternalMatch{
		match.GameLoL: {{
			ID:          1001,
			LeagueName:  "LCK",
			Opponents:   []usecase.ExternalOpponent{{ID: 1, Name: "T1"}, {ID: 2, Name: "Gen.G"}},
			ScheduledAt: &start,
			Status:      "not_started",
		}},
		match.GameValorant: {{
			ID:         2002,
			LeagueName: "VCT",
			Opponents:  []usecase.ExternalOpponent{{ID: 3, Name: "Sentinels"}},
			Status:     "not_started",
		}},
	}}
	for game, items := range provider.listings {
		for i := range items {
			items[i].GameType = game
		}
	}

	logger := logging.NewNop()
	prefs := memory.NewPreferenceRepository()
	follows := memory.NewFollowRepository()
	notifications := memory.NewNotificationRepository()
	resolver := usecase.NewMatchResolver(provider, match.SupportedGameTypes(), logger)
	sender := &recordingSender{}

	handler := NewHandler(
		usecase.NewFixtureService(provider, prefs, follows, 10, logger),
		resolver,
		usecase.NewFollowService(follows, notifications, resolver, nil, 30*time.Minute, logger),
		usecase.NewPreferenceService(prefs, logger),
		usecase.NewPredictionService(usecase.UnconfiguredStaking("pool address is not set"), nil, logger),
		usecase.NewCastService(resolver, nil, "https://proplay.test/match", logger),
		usecase.NewWalletService(nil, testDemoWallet, logger),
		usecase.NewNotificationDispatchService(notifications, sender, dedup.NewMemoryClaimer(), id.NewUUIDGenerator(), usecase.DispatchConfig{}, logger),
		logger,
	)

	return &apiFixture{
		router:   NewRouter(handler, verifier, logger, []string{"*"}, "job-secret"),
		provider: provider,
		sender:   sender,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode %s %s response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, envelope
}

func errorStatus(envelope map[string]any) string {
	errObj, _ := envelope["error"].(map[string]any)
	status, _ := errObj["status"].(string)
	return status
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data["status"] != "ok" || data["time"] == "" {
		t.Fatalf("unexpected health payload: %v", data)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id header")
	}
}

func TestListFixtures_AggregatesDefaultGames(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodGet, "/api/fixtures", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	items, _ := body["data"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(items))
	}

	// Unscheduled matches sort first; a missing opponent serializes as null.
	first, _ := items[0].(map[string]any)
	if first["id"] != "2002" || first["scheduledAt"] != nil {
		t.Fatalf("unexpected first match: %v", first)
	}
	team2, _ := first["team2"].(map[string]any)
	if name, ok := team2["name"]; !ok || name != nil {
		t.Fatalf("expected null team2 name, got %v", team2)
	}
}

func TestListFixtures_RejectsInvalidFID(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodGet, "/api/fixtures?fid=abc", "", nil)
	if rec.Code != http.StatusBadRequest || errorStatus(body) != "INVALID_ARGUMENT" {
		t.Fatalf("expected 400 INVALID_ARGUMENT, got %d %v", rec.Code, body)
	}
}

func TestLiveScores_AnnotatesFollowed(t *testing.T) {
	f := newAPIFixture(t, nil)

	if rec, _ := f.do(t, http.MethodPost, "/api/follow", `{"matchId":"1001","fid":"7"}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("follow failed: %d %s", rec.Code, rec.Body.String())
	}

	rec, body := f.do(t, http.MethodGet, "/api/live-scores?fid=7", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	followed := map[string]bool{}
	for _, raw := range body["data"].([]any) {
		item := raw.(map[string]any)
		flag, _ := item["isFollowed"].(bool)
		followed[item["id"].(string)] = flag
	}
	if !followed["1001"] || followed["2002"] {
		t.Fatalf("unexpected follow flags: %v", followed)
	}
}

func TestGetLiveScore(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodGet, "/api/live-scores/1001", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := body["data"].(map[string]any)
	if data["league"] != "LCK" {
		t.Fatalf("unexpected match: %v", data)
	}

	rec, _ = f.do(t, http.MethodGet, "/api/live-scores/999", "", nil)
	if rec.Code == http.StatusOK {
		t.Fatalf("expected failure for unknown match")
	}
}

func TestFollow_SchedulesReminderAndRejectsDuplicate(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodPost, "/api/follow", `{"matchId":1001,"fid":7}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := body["data"].(map[string]any)
	if data["success"] != true || data["reminderScheduled"] != true {
		t.Fatalf("unexpected follow payload: %v", data)
	}

	rec, body = f.do(t, http.MethodPost, "/api/follow", `{"matchId":"1001","fid":7}`, nil)
	if rec.Code != http.StatusConflict || errorStatus(body) != "ALREADY_EXISTS" {
		t.Fatalf("expected 409 ALREADY_EXISTS, got %d %v", rec.Code, body)
	}

	rec, body = f.do(t, http.MethodGet, "/api/follow/7", "", nil)
	if rec.Code != http.StatusOK || len(body["data"].([]any)) != 1 {
		t.Fatalf("expected one followed match, got %d %v", rec.Code, body)
	}

	rec, _ = f.do(t, http.MethodDelete, "/api/follow/1001?fid=7", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unfollow failed: %d %s", rec.Code, rec.Body.String())
	}
	rec, body = f.do(t, http.MethodGet, "/api/follow/7", "", nil)
	if rec.Code != http.StatusOK || len(body["data"].([]any)) != 0 {
		t.Fatalf("expected no followed matches, got %d %v", rec.Code, body)
	}
}

func TestFollow_UnscheduledMatchSkipsReminder(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodPost, "/api/follow", `{"matchId":"2002","fid":7}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := body["data"].(map[string]any)
	if data["reminderScheduled"] != false || data["reminderStatus"] != string(usecase.ReminderSkippedUnschedule) {
		t.Fatalf("unexpected reminder outcome: %v", data)
	}
}

func TestFollow_RejectsUnknownFields(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, _ := f.do(t, http.MethodPost, "/api/follow", `{"matchId":"1001","fid":7,"extra":true}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPreferences_SaveAndGet(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodGet, "/api/preferences/9", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if genres := body["data"].(map[string]any)["genres"].([]any); len(genres) != 0 {
		t.Fatalf("expected empty genres for missing row, got %v", genres)
	}

	rec, _ = f.do(t, http.MethodPost, "/api/preferences", `{"fid":9,"genres":[]}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty genres, got %d", rec.Code)
	}
	rec, _ = f.do(t, http.MethodPost, "/api/preferences", `{"fid":9,"genres":["dota2"]}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported genre, got %d", rec.Code)
	}

	rec, _ = f.do(t, http.MethodPost, "/api/preferences", `{"fid":9,"genres":["lol"],"favorite_team":"T1","favorite_player":null}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save failed: %d %s", rec.Code, rec.Body.String())
	}

	_, body = f.do(t, http.MethodGet, "/api/preferences/9", "", nil)
	data := body["data"].(map[string]any)
	if data["favorite_team"] != "T1" || data["favorite_player"] != nil {
		t.Fatalf("unexpected preferences: %v", data)
	}

	_, body = f.do(t, http.MethodGet, "/api/fixtures?fid=9", "", nil)
	items := body["data"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["id"] != "1001" {
		t.Fatalf("expected only lol fixtures, got %v", items)
	}
}

func TestPrediction_UnconfiguredPoolIsUnavailable(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodPost, "/api/predictions", `{"matchId":"1001","predictedWinner":5,"amount":"x","fid":1,"walletAddress":"nope"}`, nil)
	if rec.Code != http.StatusServiceUnavailable || errorStatus(body) != "UNAVAILABLE" {
		t.Fatalf("expected 503 UNAVAILABLE, got %d %v", rec.Code, body)
	}

	rec, _ = f.do(t, http.MethodGet, "/api/predictions/1001", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for stats, got %d", rec.Code)
	}
}

func TestCast_UnconfiguredPublisherIsUnavailable(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, _ := f.do(t, http.MethodPost, "/api/cast", `{"fid":3,"matchId":"1001","type":"share"}`, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, _ = f.do(t, http.MethodPost, "/api/cast", `{"fid":3,"matchId":"1001","type":"meme"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestWallet(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, body := f.do(t, http.MethodGet, "/api/wallet", "", nil)
	if rec.Code != http.StatusOK || body["data"].(map[string]any)["address"] != testDemoWallet {
		t.Fatalf("unexpected wallet response: %d %v", rec.Code, body)
	}

	rec, _ = f.do(t, http.MethodGet, "/api/wallet/not-an-address", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid address, got %d", rec.Code)
	}
}

func TestAuth_PrincipalFillsAndGuardsFID(t *testing.T) {
	f := newAPIFixture(t, stubVerifier{fid: 42})

	rec, _ := f.do(t, http.MethodPost, "/api/follow", `{"matchId":"1001"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	auth := map[string]string{"Authorization": "Bearer good-token"}
	rec, _ = f.do(t, http.MethodPost, "/api/follow", `{"matchId":"1001","fid":7}`, auth)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for mismatched fid, got %d", rec.Code)
	}

	rec, _ = f.do(t, http.MethodPost, "/api/follow", `{"matchId":"1001"}`, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with principal fid, got %d: %s", rec.Code, rec.Body.String())
	}
	rec, body := f.do(t, http.MethodGet, "/api/follow/42", "", auth)
	if rec.Code != http.StatusOK || len(body["data"].([]any)) != 1 {
		t.Fatalf("expected follow recorded for principal, got %d %v", rec.Code, body)
	}
}

func TestDispatchNotificationsJob(t *testing.T) {
	f := newAPIFixture(t, nil)

	rec, _ := f.do(t, http.MethodPost, "/api/internal/jobs/dispatch-notifications", `{}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", rec.Code)
	}

	rec, body := f.do(t, http.MethodPost, "/api/internal/jobs/dispatch-notifications", `{"notificationId":1,"fid":7,"matchId":"1001"}`,
		map[string]string{"X-Internal-Job-Token": "job-secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := body["data"].(map[string]any)
	if data["runId"] == "" || data["scanned"] != float64(0) {
		t.Fatalf("unexpected dispatch summary: %v", data)
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fixtures", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestFlexibleInt(t *testing.T) {
	var payload struct {
		A flexibleInt `json:"a"`
		B flexibleInt `json:"b"`
		C flexibleInt `json:"c"`
	}
	if err := sonic.Unmarshal([]byte(`{"a":12,"b":"34","c":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A != 12 || payload.B != 34 || payload.C != 0 {
		t.Fatalf("unexpected values: %+v", payload)
	}
	if err := sonic.Unmarshal([]byte(`{"a":"x"}`), &payload); err == nil {
		t.Fatalf("expected error for non-numeric fid")
	}
}
