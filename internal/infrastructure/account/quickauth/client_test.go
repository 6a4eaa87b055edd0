package quickauth

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

func TestClient_VerifyToken_CachesPrincipal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var got verifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(raw, &got)
		_, _ = w.Write([]byte(`{"active": true, "fid": 4242}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{VerifyURL: server.URL, Domain: "proplay.test"})
	for i := 0; i < 3; i++ {
		principal, err := client.VerifyToken(t.Context(), " token-1 ")
		if err != nil {
			t.Fatalf("verify token: %v", err)
		}
		if principal.FID != 4242 {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one verification call, got %d", calls.Load())
	}
	if got.Token != "token-1" || got.Domain != "proplay.test" {
		t.Fatalf("unexpected verify request: %+v", got)
	}
}

func TestClient_VerifyToken_Rejections(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var req verifyRequest
		_ = sonic.Unmarshal(raw, &req)
		switch req.Token {
		case "inactive":
			_, _ = w.Write([]byte(`{"active": false}`))
		case "forbidden":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{VerifyURL: server.URL})
	cases := []struct {
		token string
		want  error
	}{
		{token: "", want: usecase.ErrUnauthorized},
		{token: "inactive", want: usecase.ErrUnauthorized},
		{token: "forbidden", want: usecase.ErrUnauthorized},
		{token: "upstream", want: usecase.ErrDependencyUnavailable},
	}
	for _, tc := range cases {
		if _, err := client.VerifyToken(t.Context(), tc.token); !errors.Is(err, tc.want) {
			t.Fatalf("token %q: expected %v, got %v", tc.token, tc.want, err)
		}
	}
}

func TestClient_VerifyToken_Unconfigured(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	if _, err := client.VerifyToken(t.Context(), "x"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
