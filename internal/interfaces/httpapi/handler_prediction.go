package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/pro-play/internal/usecase"
)

func (h *Handler) MakePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MakePrediction")
	defer span.End()

	var req makePredictionRequest
	if err := decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	fid, err := resolveFID(ctx, int64(req.FID))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.predictionService.MakePrediction(ctx, usecase.MakePredictionInput{
		MatchID:         string(req.MatchID),
		PredictedWinner: req.PredictedWinner,
		Amount:          req.Amount,
		FID:             fid,
		WalletAddress:   req.WalletAddress,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "make prediction failed", "fid", fid, "match_id", string(req.MatchID), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := predictionResponseDTO{
		Success:         true,
		TransactionHash: result.TransactionHash,
		Announced:       result.Announced,
	}
	if result.AnnouncementErr != nil {
		h.logger.WarnContext(ctx, "prediction announcement failed",
			"fid", fid,
			"tx_hash", result.TransactionHash,
			"error", result.AnnouncementErr,
		)
		out.AnnouncementError = result.AnnouncementErr.Error()
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetPredictionStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPredictionStats")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	stats, err := h.predictionService.GetStats(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get prediction stats failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := predictionStatsDTO{
		MatchID:   stats.MatchID,
		Team1Pool: stats.Team1Pool.String(),
		Team2Pool: stats.Team2Pool.String(),
		TotalPool: stats.TotalPool.String(),
		Finalized: stats.Finalized,
	}
	if stats.Winner != nil {
		winner := int(*stats.Winner)
		out.Winner = &winner
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ClaimReward(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClaimReward")
	defer span.End()

	var req claimRewardRequest
	if err := decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	receipt, err := h.predictionService.ClaimReward(ctx, matchID, req.WalletAddress)
	if err != nil {
		h.logger.WarnContext(ctx, "claim reward failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transactionDTO{
		Success:         true,
		TransactionHash: receipt.Hash,
	})
}
