package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/pro-play/internal/usecase"
	"go.opentelemetry.io/otel/trace"
)

// dispatchJobRequest is the body QStash forwards for a reminder wake-up. The
// dispatcher always scans every due reminder, so the fields only annotate logs.
type dispatchJobRequest struct {
	NotificationID int64  `json:"notificationId"`
	FID            int64  `json:"fid"`
	MatchID        string `json:"matchId"`
}

func (h *Handler) DispatchNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DispatchNotifications")
	defer span.End()

	if h.dispatchService == nil {
		writeError(ctx, w, fmt.Errorf("%w: notification dispatcher is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeDispatchJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	traceID, spanID := traceMetaFromContext(ctx)
	result, err := h.dispatchService.DispatchDue(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "dispatch notifications job failed",
			"notification_id", req.NotificationID,
			"fid", req.FID,
			"match_id", req.MatchID,
			"trace_id", traceID,
			"span_id", spanID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "dispatch notifications job completed",
		"run_id", result.RunID,
		"notification_id", req.NotificationID,
		"scanned", result.Scanned,
		"sent", result.Sent,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"trace_id", traceID,
		"span_id", spanID,
	)

	writeSuccess(ctx, w, http.StatusOK, dispatchResultDTO{
		RunID:   result.RunID,
		Scanned: result.Scanned,
		Sent:    result.Sent,
		Failed:  result.Failed,
		Skipped: result.Skipped,
	})
}

func decodeDispatchJobRequest(r *http.Request) (dispatchJobRequest, error) {
	decoder := jsoniter.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))

	var req dispatchJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return dispatchJobRequest{}, nil
		}
		return dispatchJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
