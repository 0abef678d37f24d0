package handlers

import (
	"net/http"

	"marketplace/internal/config"
	"marketplace/internal/db"
	"marketplace/internal/metrics"
	"marketplace/internal/middleware"
	"marketplace/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	txRunner db.TxRunner
	cfg      config.Config
	users    UserStore
	service  LedgerService
	hub      *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, service LedgerService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner: txRunner,
		cfg:      cfg,
		users:    users,
		service:  service,
		hub:      hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(metrics.Instrument)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(h.cfg.JWTSecret))
		r.Get("/balances", h.GetBalance)
		r.Post("/balances/add", h.AddFunds)
		r.Post("/balances/withdraw", h.WithdrawFunds)
		r.Get("/payments/connects", h.GetConnects)
		r.Post("/payments/connects/purchase", h.PurchaseConnects)
		r.Post("/payments/revenue-share", h.RevenueShare)
		r.Get("/payments/transactions", h.ListTransactions)
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", h.CreateJob)
			r.Get("/", h.ListJobs)
			r.Get("/{jobID}", h.GetJob)
			r.Post("/{jobID}/approve", h.ApproveJob)
			r.Post("/{jobID}/reject", h.RejectJob)
			r.Post("/{jobID}/proposals", h.SubmitProposal)
			r.Get("/{jobID}/proposals", h.ListProposals)
			r.Post("/{jobID}/invitations", h.InviteFreelancer)
		})
	})
	router.Get("/ws/balances", h.WSBalances)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return router
}

// requestUserID prefers the identity named in the request and falls back to
// the token subject when none is given.
func (h *Handler) requestUserID(r *http.Request, explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	return middleware.UserIDFromContext(r.Context())
}
