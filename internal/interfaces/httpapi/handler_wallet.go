package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWallet")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, walletAddressDTO{Address: h.walletService.DemoAddress()})
}

func (h *Handler) GetWalletBalances(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWalletBalances")
	defer span.End()

	address := strings.TrimSpace(r.PathValue("address"))
	balances, err := h.walletService.Balances(ctx, address)
	if err != nil {
		h.logger.WarnContext(ctx, "get wallet balances failed", "address", address, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := walletBalancesDTO{
		Address: balances.Address,
		ETH:     balances.ETH.String(),
	}
	if balances.USDC != nil {
		usdc := balances.USDC.String()
		out.USDC = &usdc
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
