package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /api/health", handler.Healthz)
}

func registerPublicMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /api/live-scores", handler.ListLiveScores)
	mux.HandleFunc("GET /api/live-scores/{matchID}", handler.GetLiveScore)
	mux.HandleFunc("GET /api/predictions/{matchID}", handler.GetPredictionStats)
	mux.HandleFunc("GET /api/wallet", handler.GetWallet)
	mux.HandleFunc("GET /api/wallet/{address}", handler.GetWalletBalances)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /api/follow", RequireAuth(verifier, http.HandlerFunc(handler.FollowMatch)))
	mux.Handle("DELETE /api/follow/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.UnfollowMatch)))
	mux.Handle("GET /api/follow/{fid}", RequireAuth(verifier, http.HandlerFunc(handler.ListFollowedMatches)))
	mux.Handle("POST /api/preferences", RequireAuth(verifier, http.HandlerFunc(handler.SavePreferences)))
	mux.HandleFunc("GET /api/preferences/{fid}", handler.GetPreferences)
	mux.Handle("POST /api/cast", RequireAuth(verifier, http.HandlerFunc(handler.PublishCast)))
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /api/predictions", RequireAuth(verifier, http.HandlerFunc(handler.MakePrediction)))
	mux.Handle("POST /api/predictions/{matchID}/claim", RequireAuth(verifier, http.HandlerFunc(handler.ClaimReward)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /api/internal/jobs/dispatch-notifications", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.DispatchNotifications)))
}
