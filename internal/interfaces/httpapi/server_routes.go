package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetGlobalLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPrediction)))
	mux.Handle("GET /v1/predictions/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("GET /v1/matches/{matchID}/predictions", RequireAuth(verifier, http.HandlerFunc(handler.ListMatchPredictions)))

	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetLeagueLeaderboard)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunMatchSyncJob)))
	mux.Handle("POST /v1/internal/jobs/matches/{matchID}/finish", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.FinishMatch)))
}
