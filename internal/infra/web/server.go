// File: internal/infra/web/server.go
package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"municipal-benefits/internal/config"
	"municipal-benefits/internal/domain/model"
	red "municipal-benefits/internal/infra/redis"
	"municipal-benefits/internal/usecase"
)

// RateLimiter is the throttle the redemption route consults per supplier.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// UseCases bundles everything the HTTP layer delegates to.
type UseCases struct {
	Redemption usecase.RedemptionUseCase
	Offer      usecase.OfferUseCase
	Code       usecase.CodeUseCase
	Supplier   usecase.SupplierUseCase
	Tenant     usecase.TenantUseCase
	Citizen    usecase.CitizenUseCase
	Benefit    usecase.BenefitUseCase
	Invoice    usecase.InvoiceUseCase
	Stats      usecase.StatsUseCase
}

type Server struct {
	uc      UseCases
	auth    *AuthManager
	limiter RateLimiter
	locker  red.Locker
	rateCfg config.RedemptionConfig
	apiKey  string
	timeout time.Duration
	log     *zerolog.Logger
}

// NewServer wires the HTTP surface. limiter and locker may be nil; the
// corresponding guards are then skipped.
func NewServer(uc UseCases, auth *AuthManager, limiter RateLimiter, locker red.Locker, cfg *config.Config, logger *zerolog.Logger) *Server {
	return &Server{
		uc:      uc,
		auth:    auth,
		limiter: limiter,
		locker:  locker,
		rateCfg: cfg.Redemption,
		apiKey:  cfg.Auth.AdminAPIKey,
		timeout: cfg.HTTP.RequestTimeout,
		log:     logger,
	}
}

// Routes builds the full router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.adminKeyMiddleware).Post("/auth/login", s.loginHandler())
		r.Post("/auth/logout", s.logoutHandler())

		// Everything below requires a session.
		r.Group(func(r chi.Router) {
			r.Use(s.session)

			r.With(s.rateLimit).Post("/redemptions", s.redeemHandler())

			r.Route("/offers", func(r chi.Router) {
				r.Post("/", offerCreateHandler(s.uc.Offer))
				r.Get("/mine", offersMineHandler(s.uc.Offer))
				r.Get("/{id}", offerGetHandler(s.uc.Offer))
				r.Post("/{id}/codes", engageHandler(s.uc.Code))
			})

			r.Post("/suppliers", supplierRegisterHandler(s.uc.Supplier))

			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", statsHandler(s.uc.Stats))

				r.Route("/offers", func(r chi.Router) {
					r.Get("/pending", offersPendingHandler(s.uc.Offer))
					r.Post("/{id}/approve", offerDecideHandler(func(ctx context.Context, p model.Principal, id string) (*model.Offer, error) {
						return s.uc.Offer.Approve(ctx, p, id)
					}))
					r.Post("/{id}/reject", offerDecideHandler(func(ctx context.Context, p model.Principal, id string) (*model.Offer, error) {
						return s.uc.Offer.Reject(ctx, p, id)
					}))
				})

				r.Route("/suppliers", func(r chi.Router) {
					r.Get("/", suppliersListHandler(s.uc.Supplier))
					r.Get("/{id}", supplierGetHandler(s.uc.Supplier))
					r.Post("/{id}/approve", supplierDecideHandler(func(ctx context.Context, p model.Principal, id string) (*model.Supplier, error) {
						return s.uc.Supplier.Approve(ctx, p, id)
					}))
					r.Post("/{id}/reject", supplierDecideHandler(func(ctx context.Context, p model.Principal, id string) (*model.Supplier, error) {
						return s.uc.Supplier.Reject(ctx, p, id)
					}))
					r.Delete("/{id}", supplierDeleteHandler(s.uc.Supplier))
				})

				r.Route("/tenants", func(r chi.Router) {
					r.Post("/", tenantCreateHandler(s.uc.Tenant))
					r.Get("/", tenantsListHandler(s.uc.Tenant))
					r.Get("/{id}", tenantGetHandler(s.uc.Tenant))
					r.Put("/{id}", tenantUpdateHandler(s.uc.Tenant))
					r.Delete("/{id}", tenantDeleteHandler(s.uc.Tenant))
				})

				r.Route("/groups", func(r chi.Router) {
					r.Post("/", groupCreateHandler(s.uc.Citizen))
					r.Get("/", groupsListHandler(s.uc.Citizen))
					r.Delete("/{id}", groupDeleteHandler(s.uc.Citizen))
				})

				r.Route("/citizens", func(r chi.Router) {
					r.Post("/", citizenRegisterHandler(s.uc.Citizen))
					r.Delete("/{id}", citizenRemoveHandler(s.uc.Citizen))
				})

				r.Route("/benefits", func(r chi.Router) {
					r.Post("/", benefitCreateHandler(s.uc.Benefit))
					r.Get("/", benefitsListHandler(s.uc.Benefit))
					r.Delete("/{id}", benefitDeleteHandler(s.uc.Benefit))
				})

				r.Route("/grants", func(r chi.Router) {
					r.Post("/", grantCreateHandler(s.uc.Benefit))
					r.Get("/", grantsListHandler(s.uc.Benefit))
					r.Post("/{id}/approve", grantDecideHandler(func(ctx context.Context, p model.Principal, id string) (*model.Grant, error) {
						return s.uc.Benefit.ApproveGrant(ctx, p, id)
					}))
					r.Post("/{id}/pay", grantDecideHandler(func(ctx context.Context, p model.Principal, id string) (*model.Grant, error) {
						return s.uc.Benefit.PayGrant(ctx, p, id)
					}))
				})

				r.Route("/invoices", func(r chi.Router) {
					r.Post("/generate", invoicesGenerateHandler(s.uc.Invoice))
					r.Get("/", invoicesListHandler(s.uc.Invoice))
					r.Post("/{id}/issue", invoiceIssueHandler(s.uc.Invoice))
					r.Get("/sepa", sepaExportHandler(s.uc.Invoice, s.uc.Tenant, s.uc.Supplier))
				})
			})
		})
	})

	return Chain(r,
		TraceID(s.log),
		RequestLog(s.log),
		Recover(s.log),
		Timeout(s.timeout),
	)
}

// adminKeyMiddleware protects the token mint endpoint with the static
// operator API key.
func (s *Server) adminKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
