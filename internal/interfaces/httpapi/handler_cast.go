package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pro-play/internal/usecase"
)

func (h *Handler) PublishCast(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishCast")
	defer span.End()

	var req castRequest
	if err := decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	fid, err := resolveFID(ctx, int64(req.FID))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.castService.Cast(ctx, usecase.CastInput{
		FID:     fid,
		MatchID: string(req.MatchID),
		Kind:    req.Type,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "publish cast failed", "fid", fid, "match_id", string(req.MatchID), "type", req.Type, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, castResponseDTO{
		Success: true,
		Text:    result.Text,
		Hash:    result.Hash,
	})
}
