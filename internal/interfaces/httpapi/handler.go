package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/pro-play/internal/domain/match"
	"github.com/riskibarqy/pro-play/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	h.listMatches(w, r, "httpapi.Handler.ListFixtures", match.ModeUpcoming)
}

func (h *Handler) ListLiveScores(w http.ResponseWriter, r *http.Request) {
	h.listMatches(w, r, "httpapi.Handler.ListLiveScores", match.ModeLive)
}

func (h *Handler) listMatches(w http.ResponseWriter, r *http.Request, spanName string, mode match.Mode) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	fid, err := parseFIDParam(r.URL.Query().Get("fid"), false)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if fid, err = resolveFID(ctx, fid); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.fixtureService.List(ctx, usecase.FixtureQuery{FID: fid, Mode: mode})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "mode", string(mode), "fid", fid, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureItemsToDTO(items))
}

func (h *Handler) GetLiveScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveScore")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchResolver.Resolve(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

// decodeJSON reads a bounded request body into dst, rejecting unknown fields.
func decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	_, span := startSpan(ctx, "httpapi.decodeJSON")
	defer span.End()

	decoder := jsoniter.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
