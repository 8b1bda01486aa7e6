package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"loan-desk/metrics"
	"loan-desk/service"
)

// RouterConfig wires the handlers and middleware into a router.
type RouterConfig struct {
	Tables       *TableHandler
	Forms        *FormHandler
	Loans        *LoanHandler
	Sessions     *service.SessionService
	RateLimiter  *RateLimiter
	SessionTTL   time.Duration
	SecureCookie bool
	TrustProxy   bool
	Log          *logrus.Logger
}

func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(ObserveMiddleware(cfg.Log))

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(cfg.RateLimiter, cfg.TrustProxy, h)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/validate", limited(cfg.Loans.Validate)).Methods(http.MethodPost)
	api.Handle("/emi", limited(cfg.Loans.CalculateEMI)).Methods(http.MethodPost)

	// Pages and UI actions need a session.
	ui := r.NewRoute().Subrouter()
	ui.Use(func(next http.Handler) http.Handler {
		return SessionMiddleware(cfg.Sessions, cfg.SessionTTL, cfg.SecureCookie, cfg.Log, next)
	})

	ui.Handle("/", http.RedirectHandler("/loans", http.StatusFound)).Methods(http.MethodGet)
	ui.HandleFunc("/loans", cfg.Tables.Page).Methods(http.MethodGet)
	ui.HandleFunc("/loans/state", cfg.Tables.State).Methods(http.MethodGet)
	ui.Handle("/loans/close", limited(cfg.Tables.Close)).Methods(http.MethodPost)
	ui.Handle("/loans/{id}/select", limited(cfg.Tables.Select)).Methods(http.MethodPost)
	ui.HandleFunc("/apply", cfg.Forms.ApplyPage).Methods(http.MethodGet)

	forms := ui.PathPrefix("/forms/{scope:apply|modal}").Subrouter()
	forms.HandleFunc("", cfg.Forms.State).Methods(http.MethodGet)
	forms.Handle("/field", limited(cfg.Forms.Field)).Methods(http.MethodPost)
	forms.Handle("/submit", limited(cfg.Forms.Submit)).Methods(http.MethodPost)
	forms.Handle("/cancel", limited(cfg.Forms.Cancel)).Methods(http.MethodPost)
	forms.Handle("/reject", limited(cfg.Forms.Reject)).Methods(http.MethodPost)
	forms.Handle("/reject/confirm", limited(cfg.Forms.ConfirmReject)).Methods(http.MethodPost)
	forms.Handle("/reject/dismiss", limited(cfg.Forms.DismissReject)).Methods(http.MethodPost)
	forms.Handle("/accept", limited(cfg.Forms.Accept)).Methods(http.MethodPost)
	forms.Handle("/documents", limited(cfg.Forms.Upload)).Methods(http.MethodPost)
	forms.Handle("/documents/submit", limited(cfg.Forms.SubmitDocuments)).Methods(http.MethodPost)
	forms.Handle("/documents/close", limited(cfg.Forms.CloseUpload)).Methods(http.MethodPost)
	forms.Handle("/documents/{doc}/remove", limited(cfg.Forms.RemoveDocument)).Methods(http.MethodPost)

	return r
}
