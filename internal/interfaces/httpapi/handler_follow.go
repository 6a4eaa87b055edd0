package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/pro-play/internal/usecase"
)

func (h *Handler) FollowMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FollowMatch")
	defer span.End()

	var req followRequest
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

	result, err := h.followService.Follow(ctx, fid, string(req.MatchID))
	if err != nil {
		h.logger.WarnContext(ctx, "follow match failed", "fid", fid, "match_id", string(req.MatchID), "error", err)
		writeError(ctx, w, err)
		return
	}

	reminder := result.Reminder
	if reminder.Err != nil || reminder.EnqueueErr != nil {
		h.logger.WarnContext(ctx, "follow reminder degraded",
			"fid", fid,
			"match_id", string(req.MatchID),
			"status", string(reminder.Status),
			"store_error", reminder.Err,
			"enqueue_error", reminder.EnqueueErr,
		)
	}

	out := followResponseDTO{
		Success:           true,
		ReminderScheduled: reminder.Status == usecase.ReminderScheduled,
		ReminderStatus:    string(reminder.Status),
	}
	if !reminder.NotifyAt.IsZero() {
		out.NotifyAt = reminder.NotifyAt.UTC().Format(time.RFC3339)
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) UnfollowMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnfollowMatch")
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

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if err := h.followService.Unfollow(ctx, fid, matchID); err != nil {
		h.logger.WarnContext(ctx, "unfollow match failed", "fid", fid, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, successDTO{Success: true})
}

func (h *Handler) ListFollowedMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFollowedMatches")
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

	matches, err := h.followService.ListFollowed(ctx, fid)
	if err != nil {
		h.logger.WarnContext(ctx, "list followed matches failed", "fid", fid, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
