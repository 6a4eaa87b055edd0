package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pro-play/internal/usecase"
)

func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePreferences")
	defer span.End()

	var req savePreferencesRequest
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

	_, err = h.preferenceService.Save(ctx, usecase.SavePreferencesInput{
		FID:            fid,
		Genres:         req.Genres,
		FavoriteTeam:   derefString(req.FavoriteTeam),
		FavoritePlayer: derefString(req.FavoritePlayer),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save preferences failed", "fid", fid, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, successDTO{Success: true})
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPreferences")
	defer span.End()

	fid, err := parseFIDParam(r.PathValue("fid"), true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if fid, err = resolveFID(ctx, fid); err != nil {
		writeError(ctx, w, err)
		return
	}

	prefs, exists, err := h.preferenceService.Get(ctx, fid)
	if err != nil {
		h.logger.WarnContext(ctx, "get preferences failed", "fid", fid, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, preferencesToDTO(prefs, exists))
}
