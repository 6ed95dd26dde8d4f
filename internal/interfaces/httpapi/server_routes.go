package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerReportingRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/dynasties/{dynastyID}/teams/{teamID}/cap/{season}", handler.GetTeamCapSummary)
	mux.HandleFunc("GET /v1/dynasties/{dynastyID}/teams/{teamID}/transactions/{season}", handler.GetTransactionHistory)
	mux.HandleFunc("GET /v1/dynasties/{dynastyID}/contracts/{contractID}", handler.GetContractBreakdown)
	mux.HandleFunc("GET /v1/dynasties/{dynastyID}/compliance/{season}", handler.GetComplianceReport)
}

// Every mutation goes through the orchestrator token. Reads stay public so
// league frontends can render cap pages without credentials.
func registerTransactionRoutes(mux *http.ServeMux, handler *Handler, internalAPIToken string) {
	mux.Handle("POST /v1/dynasties/{dynastyID}/teams/{teamID}/contracts", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.SignContract)))
	mux.Handle("POST /v1/dynasties/{dynastyID}/teams/{teamID}/restructures", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.RestructureContract)))
	mux.Handle("POST /v1/dynasties/{dynastyID}/teams/{teamID}/releases", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.ReleasePlayer)))
	mux.Handle("POST /v1/dynasties/{dynastyID}/teams/{teamID}/tags", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.ApplyTag)))
	mux.Handle("POST /v1/dynasties/{dynastyID}/teams/{teamID}/tenders", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.ApplyRFATender)))
	mux.Handle("POST /v1/dynasties/{dynastyID}/contracts/{contractID}/extensions", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.ExtendContract)))
	mux.Handle("POST /v1/dynasties/{dynastyID}/tenders/{tenderID}/accept", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.AcceptTender)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalAPIToken string) {
	mux.Handle("POST /v1/internal/compliance/sweep", RequireInternalToken(internalAPIToken, http.HandlerFunc(handler.RunComplianceSweep)))
}
