package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"engrave-backend/internal/handlers"
	"engrave-backend/internal/middleware"
)

func NewRouter(
	quoteHandler *handlers.QuoteHandler,
	webhookHandler *handlers.WebhookHandler,
	customerHandler *handlers.CustomerHandler,
	configHandler *handlers.ConfigHandler,
	receiptHandler *handlers.ReceiptHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	opsHandler *handlers.OpsHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Health and metrics
	r.HandleFunc("/healthz", healthHandler.Healthz).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API - intake, site config, auth
	r.HandleFunc("/api/quotes", quoteHandler.Submit).Methods("POST")
	r.HandleFunc("/api/config", configHandler.Get).Methods("GET")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Public API - customer portal (token-gated, not session-gated)
	r.HandleFunc("/api/portal/quotes/{token}", quoteHandler.PortalGet).Methods("GET")
	r.HandleFunc("/api/portal/quotes/{token}/respond", quoteHandler.PortalRespond).Methods("POST")

	// Square webhook (signature-verified, not session-gated)
	r.HandleFunc("/api/webhooks/square", webhookHandler.HandleSquareWebhook).Methods("POST")
	r.HandleFunc("/api/webhooks/square", webhookHandler.Liveness).Methods("GET")

	// Protected API - quote workflow
	quotesAPI := r.PathPrefix("/api/quotes").Subrouter()
	quotesAPI.Use(authMiddleware.Authenticate)
	quotesAPI.HandleFunc("", quoteHandler.List).Methods("GET")
	quotesAPI.HandleFunc("/{id}", quoteHandler.Get).Methods("GET")
	quotesAPI.HandleFunc("/{id}/quote", quoteHandler.Price).Methods("POST")
	quotesAPI.HandleFunc("/{id}/accept", quoteHandler.Accept).Methods("POST")
	quotesAPI.HandleFunc("/{id}/complete", quoteHandler.Complete).Methods("POST")

	// Protected API - customers
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Authenticate)
	customersAPI.HandleFunc("", customerHandler.List).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.Get).Methods("GET")
	customersAPI.HandleFunc("/{id}", customerHandler.Update).Methods("PUT")

	// Protected API - receipts
	receiptsAPI := r.PathPrefix("/api/receipts").Subrouter()
	receiptsAPI.Use(authMiddleware.Authenticate)
	receiptsAPI.HandleFunc("", receiptHandler.List).Methods("GET")
	receiptsAPI.HandleFunc("/{id}", receiptHandler.Get).Methods("GET")
	receiptsAPI.HandleFunc("/{id}/pdf", receiptHandler.DownloadPDF).Methods("GET")

	// Protected API - site config writes and ops stats
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(authMiddleware.Authenticate)
	adminAPI.HandleFunc("/ops", opsHandler.Stats).Methods("GET")

	configAPI := r.PathPrefix("/api/config").Subrouter()
	configAPI.Use(authMiddleware.Authenticate)
	configAPI.HandleFunc("", configHandler.Update).Methods("PUT")

	return r
}
