package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"purchase-registry/internal/infra/i18n"
	"purchase-registry/internal/usecase"
)

// RateLimiter is a fixed-window limiter keyed by an arbitrary string.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Options configure the optional parts of the server.
type Options struct {
	RequestTimeout time.Duration
	// Limiter may be nil; AttachPerHour <= 0 also disables limiting.
	Limiter       RateLimiter
	AttachKey     func(identity string) string
	AttachPerHour int
}

// Server exposes the purchase and registry use cases over HTTP.
type Server struct {
	purchaseUC usecase.PurchaseUseCase
	registryUC usecase.RegistryUseCase
	auth       *AuthManager
	tr         *i18n.Translator
	opts       Options
	log        *zerolog.Logger
}

func NewServer(
	purchaseUC usecase.PurchaseUseCase,
	registryUC usecase.RegistryUseCase,
	auth *AuthManager,
	tr *i18n.Translator,
	opts Options,
	logger *zerolog.Logger,
) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if opts.AttachKey == nil {
		opts.AttachKey = func(identity string) string { return "attach:" + identity }
	}
	return &Server{
		purchaseUC: purchaseUC,
		registryUC: registryUC,
		auth:       auth,
		tr:         tr,
		opts:       opts,
		log:        logger,
	}
}

// Router builds the chi router with the middleware stack and every route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), Recover(s.log), RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Timeout(s.opts.RequestTimeout))

		r.Post("/purchases/verify", s.handleVerify)
		r.Post("/purchases/summaries", s.handleSummaries)
		r.Get("/items/{id}", s.handleItem)
		r.Get("/market-users/{username}", s.handleMarketUser)

		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireIdentity(s))
			r.Post("/registrations", s.handleAttach)
			r.Get("/registrations", s.handleListRegistrations)
		})
	})
	return r
}
