package httpinterface

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/nifty-network/nifty-daemon/internal/core/application"
	"github.com/nifty-network/nifty-daemon/internal/core/ports"
	"github.com/nifty-network/nifty-daemon/internal/interfaces/http/handler"
)

// ServiceOpts holds the dependencies of the HTTP service.
type ServiceOpts struct {
	Port               int
	MarketplaceService application.MarketplaceService
	PubSub             ports.SecurePubSub
	// DevRegistry, when set, mounts the /v1/dev management endpoints of
	// the development token registry.
	DevRegistry handler.DevRegistry
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 {
		return fmt.Errorf("port must be a positive number")
	}
	if o.MarketplaceService == nil {
		return fmt.Errorf("missing marketplace service")
	}
	if o.PubSub == nil {
		return fmt.Errorf("missing pubsub service")
	}
	return nil
}

// Service is the JSON/HTTP interface of the daemon.
type Service struct {
	opts   ServiceOpts
	server *http.Server
}

func NewService(opts ServiceOpts) (*Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid service opts: %s", err)
	}

	svc := &Service{opts: opts}
	svc.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: svc.router(),
	}
	return svc, nil
}

// Start runs the HTTP server until Stop is called. It returns only on
// unrecoverable errors.
func (s *Service) Start() error {
	log.Infof("http interface listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// to complete.
func (s *Service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("error while shutting down http interface")
	}
	log.Debug("stopped http interface")
}

func (s *Service) router() http.Handler {
	marketplace := handler.NewMarketplaceHandler(s.opts.MarketplaceService)
	webhooks := handler.NewWebhookHandler(s.opts.PubSub)
	events := handler.NewEventsHandler(s.opts.PubSub)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/listings", func(r chi.Router) {
			r.Get("/", marketplace.ListListings)
			r.Post("/", marketplace.CreateListing)
			r.Route("/{asset}/{tokenID}", func(r chi.Router) {
				r.Get("/", marketplace.GetListing)
				r.Put("/", marketplace.UpdateListing)
				r.Delete("/", marketplace.CancelListing)
				r.Post("/purchase", marketplace.PurchaseListing)
			})
		})
		r.Get("/purchases", marketplace.ListPurchases)
		r.Get("/report", marketplace.GetMarketReport)
		r.Route("/webhooks", func(r chi.Router) {
			r.Get("/", webhooks.ListSubscriptions)
			r.Post("/", webhooks.Subscribe)
			r.Delete("/{id}", webhooks.Unsubscribe)
		})
		r.Get("/events", events.Stream)

		if s.opts.DevRegistry != nil {
			dev := handler.NewDevRegistryHandler(s.opts.DevRegistry)
			r.Route("/dev", func(r chi.Router) {
				r.Post("/tokens", dev.MintToken)
				r.Post("/approvals", dev.Approve)
				r.Post("/funds", dev.CreditFunds)
				r.Get("/balances/{account}", dev.GetBalance)
			})
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  ww.Status(),
			"elapsed": time.Since(start).String(),
		}).Debug("handled request")
	})
}
